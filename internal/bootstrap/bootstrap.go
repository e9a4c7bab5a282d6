// Package bootstrap wires configuration into stores, clients and services.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"outblog-shopify-app/internal/application"
	"outblog-shopify-app/internal/application/webhook_handlers"
	"outblog-shopify-app/internal/config"
	"outblog-shopify-app/internal/infrastructure/api"
	"outblog-shopify-app/internal/infrastructure/lock"
	"outblog-shopify-app/internal/infrastructure/metrics"
	"outblog-shopify-app/internal/infrastructure/outblog"
	"outblog-shopify-app/internal/infrastructure/repository"
	"outblog-shopify-app/internal/infrastructure/shopify"
	"outblog-shopify-app/internal/ports"

	"github.com/rs/zerolog"
)

const redisLockTTL = 30 * time.Second

// App holds the wired services of one process
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   ports.Store
	Metrics *metrics.Metrics

	Shopify       *shopify.Client
	SessionTokens *shopify.SessionTokenVerifier

	Publishing *application.PublishingService
	Dashboard  *application.DashboardService
	Auth       *application.AuthService
	Cron       *application.CronService
	Webhooks   *application.WebhookDispatcher

	closers []func(context.Context) error
}

// NewLogger builds the process logger at the given level, defaulting to info
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

// OpenStore opens the content store selected by STORAGE_DRIVER
func OpenStore(ctx context.Context, cfg *config.Config) (ports.Store, error) {
	switch cfg.StorageDriver {
	case config.StorageMongo:
		return repository.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.StoragePostgres:
		return repository.NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.StorageBolt:
		return repository.NewBoltStore(cfg.BoltPath)
	case config.StorageMemory:
		return repository.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// New opens the store, builds the clients and wires the services
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StorageDriver, err)
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Metrics: metrics.New(),
		closers: []func(context.Context) error{store.Close},
	}

	locker, err := app.newLocker(ctx)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}

	app.Shopify = shopify.NewClient(shopify.Config{
		APIKey:      cfg.ShopifyAPIKey,
		APISecret:   cfg.ShopifyAPISecret,
		Scopes:      cfg.Scopes(),
		RedirectURL: cfg.AppURL + "/auth/callback",
		APIVersion:  cfg.ShopifyAPIVersion,
		Timeout:     cfg.ShopifyTimeout,
	}, logger.With().Str("component", "shopify").Logger())
	app.SessionTokens = shopify.NewSessionTokenVerifier(cfg.ShopifyAPIKey, cfg.ShopifyAPISecret)

	source := outblog.NewClient(cfg.OutblogAPIURL, cfg.OutblogTimeout, logger.With().Str("component", "outblog").Logger())

	app.Publishing = application.NewPublishingService(store, source, app.Shopify, locker, app.Metrics, logger, application.PublishingOptions{
		Author:         cfg.ArticleAuthor,
		RenderBulkHTML: cfg.RenderBulkHTML,
	})
	app.Dashboard = application.NewDashboardService(store, logger)
	app.Auth = application.NewAuthService(app.Shopify, store, cfg.ShopifyAPIKey, cfg.Scopes(), logger)

	registry, _ := store.(ports.ShopRegistry)
	if registry == nil {
		logger.Warn().Str("driver", cfg.StorageDriver).Msg("Storage driver keeps no shop registry, /api/cron is disabled")
	}
	app.Cron = application.NewCronService(registry, app.Publishing, logger)

	app.Webhooks = application.NewWebhookDispatcher(logger)
	app.Webhooks.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(logger, store))
	app.Webhooks.RegisterHandler(webhook_handlers.NewScopesUpdateHandler(logger, store))
	app.Webhooks.RegisterHandler(webhook_handlers.NewComplianceHandler(logger, store))

	return app, nil
}

func (a *App) newLocker(ctx context.Context) (ports.Locker, error) {
	if a.Config.RedisURL == "" {
		return lock.NewLocalLocker(), nil
	}

	locker, err := lock.NewRedisLocker(ctx, a.Config.RedisURL, redisLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return locker.Close() })
	return locker, nil
}

// Router builds the HTTP surface over the wired services
func (a *App) Router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Publisher:       a.Publishing,
		Dashboard:       a.Dashboard,
		Installer:       a.Auth,
		Cron:            a.Cron,
		Webhooks:        a.Webhooks,
		WebhookVerifier: a.Shopify,
		SessionTokens:   a.SessionTokens,
		Metrics:         a.Metrics.Handler(),
		CronSecret:      a.Config.CronSecret,
		Logger:          a.Logger,
	})
}

// Close releases every resource New opened, last opened first
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
