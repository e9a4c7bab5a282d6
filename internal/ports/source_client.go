package ports

import (
	"context"

	"outblog-shopify-app/internal/domain"
)

// SourceClient defines the interface for the Outblog content API
type SourceClient interface {
	ValidateAPIKey(ctx context.Context, apiKey string) (bool, error)
	FetchPosts(ctx context.Context, apiKey string) ([]domain.SourcePost, error)
}
