package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"outblog-shopify-app/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		AppURL:            "https://app.example.com",
		ShopifyAPIKey:     "api-key",
		ShopifyAPISecret:  "api-secret",
		ShopifyScopes:     "write_content,read_content",
		ShopifyAPIVersion: "2025-01",
		OutblogAPIURL:     "https://outblog.invalid",
		StorageDriver:     driver,
		CronSecret:        "cron",
		ArticleAuthor:     "Outblog",
		ShopifyTimeout:    time.Second,
		OutblogTimeout:    time.Second,
	}
}

func TestNew_MemoryDriverHasNoCron(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, testConfig(config.StorageMemory), zerolog.Nop())
	require.NoError(t, err)
	defer app.Close(ctx)

	assert.False(t, app.Cron.Available())

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cron?secret=cron", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNew_BoltDriver(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(config.StorageBolt)
	cfg.BoltPath = filepath.Join(t.TempDir(), "outblog.db")

	app, err := New(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer app.Close(ctx)

	assert.True(t, app.Cron.Available())

	router := app.Router()
	for _, path := range []string{"/health", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cron?secret=cron", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), testConfig("sqlite"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, NewLogger("DEBUG").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger("nonsense").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger("").GetLevel())
}
