package application

import (
	"context"
	"errors"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/ports"

	"github.com/rs/zerolog"
)

// ErrRegistryUnavailable is returned when the store cannot enumerate shops
var ErrRegistryUnavailable = errors.New("shop registry unavailable for this storage driver")

// PostSyncer is the part of the publishing service cron needs
type PostSyncer interface {
	SyncPosts(ctx context.Context, shop string) (int, error)
}

// CronShopResult is the sync outcome of one shop
type CronShopResult struct {
	Shop   string           `json:"shop"`
	Synced int              `json:"synced"`
	Kind   domain.ErrorKind `json:"kind,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// CronResult is the outcome of a cron run
type CronResult struct {
	Shops     int              `json:"shops"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []CronShopResult `json:"results"`
}

// CronService syncs every registered shop in turn
type CronService struct {
	registry ports.ShopRegistry
	syncer   PostSyncer
	logger   zerolog.Logger
}

// NewCronService creates a new cron service; registry may be nil
func NewCronService(registry ports.ShopRegistry, syncer PostSyncer, logger zerolog.Logger) *CronService {
	return &CronService{registry: registry, syncer: syncer, logger: logger}
}

// Available reports whether the store can enumerate shops
func (s *CronService) Available() bool {
	return s.registry != nil
}

// SyncAll runs SyncPosts for every shop with an API key.
// One shop failing does not stop the others.
func (s *CronService) SyncAll(ctx context.Context) (*CronResult, error) {
	if s.registry == nil {
		return nil, ErrRegistryUnavailable
	}

	shops, err := s.registry.ListShopsWithCredentials(ctx)
	if err != nil {
		return nil, err
	}

	result := &CronResult{Shops: len(shops), Results: make([]CronShopResult, 0, len(shops))}
	for _, shop := range shops {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		n, err := s.syncer.SyncPosts(ctx, shop)
		entry := CronShopResult{Shop: shop, Synced: n}
		if err != nil {
			entry.Kind = domain.KindOf(err)
			entry.Error = err.Error()
			result.Failed++
			s.logger.Error().Err(err).Str("shop", shop).Msg("Cron sync failed")
		} else {
			result.Succeeded++
		}
		result.Results = append(result.Results, entry)
	}

	s.logger.Info().
		Int("shops", result.Shops).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("Cron sync finished")
	return result, nil
}
