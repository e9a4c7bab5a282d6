package shopify

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhook(t *testing.T) {
	client := NewClient(Config{APIKey: "key", APISecret: "secret"}, zerolog.Nop())
	body := []byte(`{"domain":"test-shop.myshopify.com"}`)

	req := httptest.NewRequest("POST", "/webhooks", bytes.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-Sha256", sign("secret", body))
	assert.True(t, client.VerifyWebhook(req))

	read, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, read)

	forged := httptest.NewRequest("POST", "/webhooks", bytes.NewReader(body))
	forged.Header.Set("X-Shopify-Hmac-Sha256", sign("other", body))
	assert.False(t, client.VerifyWebhook(forged))
}

func TestAuthorizeURL(t *testing.T) {
	client := NewClient(Config{
		APIKey:      "key",
		APISecret:   "secret",
		Scopes:      []string{"write_content", "read_content"},
		RedirectURL: "https://app.example.com/auth/callback",
	}, zerolog.Nop())

	authURL, err := client.AuthorizeURL(testShop, "state123")
	require.NoError(t, err)
	assert.Contains(t, authURL, "https://"+testShop+"/admin/oauth/authorize")
	assert.Contains(t, authURL, "client_id=key")
	assert.Contains(t, authURL, "state=state123")
}
