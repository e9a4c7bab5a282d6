package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

const defaultSwaggerFile = "./docs/swagger.json"

// RouterConfig carries everything the HTTP surface is built from
type RouterConfig struct {
	Publisher       Publisher
	Dashboard       DashboardLoader
	Installer       Installer
	Cron            CronRunner
	Webhooks        WebhookDispatcher
	WebhookVerifier WebhookVerifier
	SessionTokens   TokenVerifier
	Metrics         http.Handler
	CronSecret      string
	SwaggerFile     string
	Logger          zerolog.Logger
}

// NewRouter builds the chi router serving the app
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.SwaggerFile == "" {
		cfg.SwaggerFile = defaultSwaggerFile
	}
	logger := cfg.Logger

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*.myshopify.com", "https://admin.shopify.com"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, cfg.SwaggerFile)
	})

	r.Get("/auth", installHandler(cfg.Installer, logger))
	r.Get("/auth/callback", callbackHandler(cfg.Installer, logger))

	r.Route("/app", func(r chi.Router) {
		r.Use(SessionTokenMiddleware(cfg.SessionTokens, logger))
		r.Get("/", dashboardHandler(cfg.Dashboard, logger))
		r.Post("/", actionHandler(cfg.Publisher, logger))
	})

	cron := cronHandler(cfg.Cron, cfg.CronSecret, logger)
	r.Get("/api/cron", cron)
	r.Post("/api/cron", cron)

	r.Post("/webhooks", webhookHandler(cfg.WebhookVerifier, cfg.Webhooks, logger))

	return r
}
