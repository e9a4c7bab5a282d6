// Package api exposes the app over HTTP with chi.
package api

import (
	"context"
	"net/http"
	"net/url"

	"outblog-shopify-app/internal/application"
	"outblog-shopify-app/internal/domain"
)

// Publisher is the publishing service as the /app actions use it
type Publisher interface {
	ValidateAndSaveCredential(ctx context.Context, shop, apiKey string, postAsDraft bool) (*domain.ShopSettings, error)
	SyncPosts(ctx context.Context, shop string) (int, error)
	PublishOne(ctx context.Context, shop, postID string) (*domain.BlogPost, error)
	PublishAll(ctx context.Context, shop string) (*application.PublishAllResult, error)
	CheckLiveStatus(ctx context.Context, shop string) (*application.LiveStatusResult, error)
}

// DashboardLoader builds the dashboard read model
type DashboardLoader interface {
	Load(ctx context.Context, shop string, page int) (*application.Dashboard, error)
}

// Installer runs the OAuth install flow
type Installer interface {
	BeginInstall(shop string) (authURL string, state string, err error)
	CompleteInstall(ctx context.Context, callback *url.URL, expectedState string) (string, error)
}

// CronRunner syncs every registered shop
type CronRunner interface {
	Available() bool
	SyncAll(ctx context.Context) (*application.CronResult, error)
}

// WebhookDispatcher routes verified webhook events
type WebhookDispatcher interface {
	Dispatch(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookVerifier checks the Shopify HMAC header of a webhook request
type WebhookVerifier interface {
	VerifyWebhook(r *http.Request) bool
}

// TokenVerifier validates App Bridge session tokens and returns the shop
type TokenVerifier interface {
	Verify(token string) (string, error)
}
