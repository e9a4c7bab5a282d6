package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"outblog-shopify-app/internal/domain"
)

// AuthorizeURL builds the OAuth install URL for the shop
func (c *Client) AuthorizeURL(shopDomain, state string) (string, error) {
	authURL, err := c.app.AuthorizeUrl(shopDomain, state)
	if err != nil {
		return "", fmt.Errorf("failed to build authorize url: %w", err)
	}
	return authURL, nil
}

// VerifyCallback checks the HMAC Shopify adds to the OAuth callback URL
func (c *Client) VerifyCallback(u *url.URL) (bool, error) {
	return c.app.VerifyAuthorizationURL(u)
}

// ExchangeToken trades an authorization code for an offline access token
func (c *Client) ExchangeToken(ctx context.Context, shopDomain, code string) (string, error) {
	app := c.app
	if app.Client == nil {
		client, err := c.createClient(shopDomain, "")
		if err != nil {
			return "", domain.WrapError(domain.KindRemoteProtocolError, "oauth.exchangeToken", err)
		}
		app.Client = client
	}

	token, err := app.GetAccessToken(ctx, shopDomain, code)
	if err != nil {
		return "", classifyError("oauth.exchangeToken", err)
	}
	return token, nil
}

// VerifyWebhook checks the X-Shopify-Hmac-Sha256 header against the body.
// The request body stays readable afterwards.
func (c *Client) VerifyWebhook(r *http.Request) bool {
	return c.app.VerifyWebhookRequest(r)
}
