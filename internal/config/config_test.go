package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 30*time.Second, cfg.ShopifyTimeout)
	assert.Equal(t, 30*time.Second, cfg.OutblogTimeout)
	assert.False(t, cfg.RenderBulkHTML)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "bolt")
	t.Setenv("APP_URL", "https://app.example.com/")
	t.Setenv("OUTBLOG_TIMEOUT_SECONDS", "5")
	t.Setenv("PUBLISH_ALL_RENDER_MARKDOWN", "true")
	t.Setenv("SHOPIFY_SCOPES", "write_content, read_content,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://app.example.com", cfg.AppURL)
	assert.Equal(t, 5*time.Second, cfg.OutblogTimeout)
	assert.True(t, cfg.RenderBulkHTML)
	assert.Equal(t, []string{"write_content", "read_content"}, cfg.Scopes())
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "memory")
		t.Setenv("SHOPIFY_TIMEOUT_SECONDS", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}
