package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := NewError(KindNotFound, "publish", "blog post not found")
	wrapped := fmt.Errorf("failed to publish: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}

func TestErrorMessage(t *testing.T) {
	err := ValidationError("articleCreate", "handle", "has already been taken")
	assert.Equal(t, "articleCreate: handle: has already been taken", err.Error())

	cause := errors.New("connection refused")
	wrapped := WrapError(KindNetworkError, "outblog.fetch", cause)
	assert.Equal(t, "outblog.fetch: connection refused", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestMaskedAPIKey(t *testing.T) {
	s := &ShopSettings{APIKey: "sk_live_12345678"}
	assert.Equal(t, "************5678", s.MaskedAPIKey())
	assert.Equal(t, "", (&ShopSettings{}).MaskedAPIKey())
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{429, KindRemoteRateLimited},
		{401, KindRemoteForbidden},
		{403, KindRemoteForbidden},
		{500, KindRemoteServerError},
		{503, KindRemoteServerError},
		{404, KindRemoteProtocolError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusError("op", tt.status, "").Kind, "status %d", tt.status)
	}
}

func TestTransportError(t *testing.T) {
	assert.Equal(t, KindTimeoutError, TransportError("op", context.DeadlineExceeded).Kind)
	assert.Equal(t, KindTimeoutError, TransportError("op", &net.DNSError{IsTimeout: true}).Kind)
	assert.Equal(t, KindNetworkError, TransportError("op", errors.New("connection refused")).Kind)
}
