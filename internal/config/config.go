package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER
const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
	StorageBolt     = "bolt"
	StorageMemory   = "memory"
)

// Config holds the application configuration loaded from .env and the environment
type Config struct {
	Port     string `mapstructure:"port"`
	AppURL   string `mapstructure:"app_url"`
	LogLevel string `mapstructure:"log_level"`

	ShopifyAPIKey         string `mapstructure:"shopify_api_key"`
	ShopifyAPISecret      string `mapstructure:"shopify_api_secret"`
	ShopifyScopes         string `mapstructure:"shopify_scopes"`
	ShopifyAPIVersion     string `mapstructure:"shopify_api_version"`
	ShopifyTimeoutSeconds int64  `mapstructure:"shopify_timeout_seconds"`

	OutblogAPIURL         string `mapstructure:"outblog_api_url"`
	OutblogTimeoutSeconds int64  `mapstructure:"outblog_timeout_seconds"`

	StorageDriver  string `mapstructure:"storage_driver"`
	MongoURI       string `mapstructure:"mongodb_uri"`
	MongoDatabase  string `mapstructure:"mongodb_database"`
	DatabaseURL    string `mapstructure:"database_url"`
	BoltPath       string `mapstructure:"bolt_path"`
	RedisURL       string `mapstructure:"redis_url"`
	CronSecret     string `mapstructure:"cron_secret"`
	ArticleAuthor  string `mapstructure:"article_author"`
	RenderBulkHTML bool   `mapstructure:"publish_all_render_markdown"`

	ShopifyTimeout time.Duration `mapstructure:"-"`
	OutblogTimeout time.Duration `mapstructure:"-"`
}

// Load reads configuration from an optional .env file and environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("app_url", "http://localhost:8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("shopify_api_key", "")
	v.SetDefault("shopify_api_secret", "")
	v.SetDefault("shopify_scopes", "write_content,read_content")
	v.SetDefault("shopify_api_version", "2025-01")
	v.SetDefault("shopify_timeout_seconds", 30)
	v.SetDefault("outblog_api_url", "https://api.outblogai.com")
	v.SetDefault("outblog_timeout_seconds", 30)
	v.SetDefault("storage_driver", StorageMongo)
	v.SetDefault("mongodb_uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb_database", "outblog")
	v.SetDefault("database_url", "")
	v.SetDefault("bolt_path", "./data/outblog.db")
	v.SetDefault("redis_url", "")
	v.SetDefault("cron_secret", "")
	v.SetDefault("article_author", "Outblog")
	v.SetDefault("publish_all_render_markdown", false)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.ShopifyTimeout = time.Duration(cfg.ShopifyTimeoutSeconds) * time.Second
	cfg.OutblogTimeout = time.Duration(cfg.OutblogTimeoutSeconds) * time.Second
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ShopifyTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid shopify_timeout_seconds (must be positive seconds)")
	}
	if c.OutblogTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid outblog_timeout_seconds (must be positive seconds)")
	}

	switch c.StorageDriver {
	case StorageMongo, StorageBolt, StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("unknown storage_driver %q", c.StorageDriver)
	}
	return nil
}

// Scopes returns the OAuth scopes as a list
func (c *Config) Scopes() []string {
	var scopes []string
	for _, s := range strings.Split(c.ShopifyScopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}
