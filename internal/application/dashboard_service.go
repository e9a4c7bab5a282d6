package application

import (
	"context"
	"math"
	"time"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/ports"

	"github.com/rs/zerolog"
)

// DashboardPageSize is the number of posts shown per dashboard page
const DashboardPageSize = 10

// maxDashboardPage keeps the page offset from overflowing
const maxDashboardPage = math.MaxInt / DashboardPageSize

// DashboardSettings is the settings view; the API key is masked
type DashboardSettings struct {
	Shop        string     `json:"shop"`
	HasAPIKey   bool       `json:"has_api_key"`
	APIKey      string     `json:"api_key,omitempty"`
	PostAsDraft bool       `json:"post_as_draft"`
	LastSyncAt  *time.Time `json:"last_sync_at,omitempty"`
}

// Dashboard is the read model behind GET /app
type Dashboard struct {
	Settings   DashboardSettings  `json:"settings"`
	Posts      []*domain.BlogPost `json:"posts"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPosts int                `json:"total_posts"`
	TotalPages int                `json:"total_pages"`
}

// DashboardService builds the dashboard read model
type DashboardService struct {
	store  ports.Store
	logger zerolog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store ports.Store, logger zerolog.Logger) *DashboardService {
	return &DashboardService{store: store, logger: logger}
}

// Load returns the settings and one page of posts, creating empty settings on first visit.
// Pages are 1-based; anything below 1 is treated as 1 and huge values are clamped.
func (s *DashboardService) Load(ctx context.Context, shop string, page int) (*Dashboard, error) {
	settings, err := s.store.GetSettings(ctx, shop)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &domain.ShopSettings{Shop: shop}
		if err := s.store.SaveSettings(ctx, settings); err != nil {
			return nil, err
		}
		s.logger.Info().Str("shop", shop).Msg("Created shop settings")
	}

	if page < 1 {
		page = 1
	}
	if page > maxDashboardPage {
		page = maxDashboardPage
	}
	posts, total, err := s.store.ListPosts(ctx, settings.ID, (page-1)*DashboardPageSize, DashboardPageSize)
	if err != nil {
		return nil, err
	}

	totalPages := (total + DashboardPageSize - 1) / DashboardPageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return &Dashboard{
		Settings: DashboardSettings{
			Shop:        settings.Shop,
			HasAPIKey:   settings.HasAPIKey(),
			APIKey:      settings.MaskedAPIKey(),
			PostAsDraft: settings.PostAsDraft,
			LastSyncAt:  settings.LastSyncAt,
		},
		Posts:      posts,
		Page:       page,
		PageSize:   DashboardPageSize,
		TotalPosts: total,
		TotalPages: totalPages,
	}, nil
}
