package domain

import (
	"strings"
	"time"
)

// ShopSettings holds the per-store configuration of the Outblog integration.
// It owns the shop's BlogPost collection; removing it removes the posts.
type ShopSettings struct {
	ID          string     `json:"id"`
	Shop        string     `json:"shop"`
	APIKey      string     `json:"api_key,omitempty"`
	PostAsDraft bool       `json:"post_as_draft"`
	LastSyncAt  *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasAPIKey reports whether onboarding stored an Outblog API key
func (s *ShopSettings) HasAPIKey() bool {
	return s != nil && strings.TrimSpace(s.APIKey) != ""
}

// MaskedAPIKey returns the key with everything but the last four characters hidden
func (s *ShopSettings) MaskedAPIKey() string {
	if !s.HasAPIKey() {
		return ""
	}
	if len(s.APIKey) <= 4 {
		return strings.Repeat("*", len(s.APIKey))
	}
	return strings.Repeat("*", len(s.APIKey)-4) + s.APIKey[len(s.APIKey)-4:]
}
