package application

import (
	"context"
	"errors"
	"testing"

	"outblog-shopify-app/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type recordingHandler struct {
	topic string
	err   error
	seen  []string
}

func (h *recordingHandler) CanHandle(topic string) bool { return topic == h.topic }

func (h *recordingHandler) Handle(_ context.Context, event *domain.WebhookEvent) error {
	h.seen = append(h.seen, event.Shop)
	return h.err
}

func TestWebhookDispatcher(t *testing.T) {
	ctx := context.Background()
	uninstall := &recordingHandler{topic: "app/uninstalled"}
	failing := &recordingHandler{topic: "app/scopes_update", err: errors.New("db down")}

	d := NewWebhookDispatcher(zerolog.Nop())
	d.RegisterHandler(uninstall)
	d.RegisterHandler(failing)

	assert.NoError(t, d.Dispatch(ctx, &domain.WebhookEvent{Topic: "app/uninstalled", Shop: testShop}))
	assert.Equal(t, []string{testShop}, uninstall.seen)

	assert.NoError(t, d.Dispatch(ctx, &domain.WebhookEvent{Topic: "orders/create", Shop: testShop}), "unknown topics are ignored")

	err := d.Dispatch(ctx, &domain.WebhookEvent{Topic: "app/scopes_update", Shop: testShop})
	assert.ErrorContains(t, err, "db down")
}
