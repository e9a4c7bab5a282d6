package ports

import (
	"context"

	"outblog-shopify-app/internal/domain"
)

// ShopSettingsRepository defines the interface for per-shop settings persistence
type ShopSettingsRepository interface {
	// GetSettings returns nil, nil when the shop has no settings yet
	GetSettings(ctx context.Context, shop string) (*domain.ShopSettings, error)
	// SaveSettings creates or updates the settings keyed by shop
	SaveSettings(ctx context.Context, settings *domain.ShopSettings) error
	TouchLastSync(ctx context.Context, shop string) error
	// DeleteShop removes the settings together with every post they own
	DeleteShop(ctx context.Context, shop string) error
}

// BlogPostRepository defines the interface for synced post persistence
type BlogPostRepository interface {
	// UpsertPost inserts or overwrites the post keyed by (settings, slug).
	// CreatedAt, Status and ShopifyArticleID of an existing record survive.
	UpsertPost(ctx context.Context, post *domain.BlogPost) error
	GetPost(ctx context.Context, settingsID, postID string) (*domain.BlogPost, error)
	// ListPosts pages through the posts newest first and reports the total count
	ListPosts(ctx context.Context, settingsID string, offset, limit int) ([]*domain.BlogPost, int, error)
	ListUnpublished(ctx context.Context, settingsID string) ([]*domain.BlogPost, error)
	ListPublished(ctx context.Context, settingsID string) ([]*domain.BlogPost, error)
	// UpdatePublication sets article id and status together; an empty id clears it
	UpdatePublication(ctx context.Context, settingsID, postID, articleID string, status domain.PostStatus) error
}

// SessionRepository stores the offline Shopify sessions created at install
type SessionRepository interface {
	SaveSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, shop string) (*domain.Session, error)
	DeleteSessions(ctx context.Context, shop string) error
}

// ShopRegistry enumerates installed shops; only durable stores implement it
type ShopRegistry interface {
	ListShopsWithCredentials(ctx context.Context) ([]string, error)
}

// Store is the full content store a backend provides
type Store interface {
	ShopSettingsRepository
	BlogPostRepository
	SessionRepository
	Close(ctx context.Context) error
}
