package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"outblog-shopify-app/internal/domain"
)

// JSONStrings stores a string list as a JSON array column
type JSONStrings []string

func (j JSONStrings) Value() (driver.Value, error) {
	if j == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(j))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *JSONStrings) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*j = JSONStrings{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for JSONStrings", src)
	}
	return json.Unmarshal(data, (*[]string)(j))
}

// SQLShopSettingsRow is a shop_settings row
type SQLShopSettingsRow struct {
	ID          string     `db:"id"`
	Shop        string     `db:"shop"`
	APIKey      string     `db:"api_key"`
	PostAsDraft bool       `db:"post_as_draft"`
	LastSyncAt  *time.Time `db:"last_sync_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (r *SQLShopSettingsRow) ToDomain() *domain.ShopSettings {
	return &domain.ShopSettings{
		ID:          r.ID,
		Shop:        r.Shop,
		APIKey:      r.APIKey,
		PostAsDraft: r.PostAsDraft,
		LastSyncAt:  r.LastSyncAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// SQLBlogPostRow is an outblog_posts row
type SQLBlogPostRow struct {
	ID               string      `db:"id"`
	ShopSettingsID   string      `db:"shop_settings_id"`
	ExternalID       string      `db:"external_id"`
	Slug             string      `db:"slug"`
	Title            string      `db:"title"`
	Content          string      `db:"content"`
	MetaDescription  string      `db:"meta_description"`
	FeaturedImage    string      `db:"featured_image"`
	Categories       JSONStrings `db:"categories"`
	Tags             JSONStrings `db:"tags"`
	Status           string      `db:"status"`
	ShopifyArticleID string      `db:"shopify_article_id"`
	CreatedAt        time.Time   `db:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at"`
}

func (r *SQLBlogPostRow) ToDomain() *domain.BlogPost {
	return &domain.BlogPost{
		ID:               r.ID,
		ShopSettingsID:   r.ShopSettingsID,
		ExternalID:       r.ExternalID,
		Slug:             r.Slug,
		Title:            r.Title,
		Content:          r.Content,
		MetaDescription:  r.MetaDescription,
		FeaturedImage:    r.FeaturedImage,
		Categories:       []string(r.Categories),
		Tags:             []string(r.Tags),
		Status:           domain.PostStatus(r.Status),
		ShopifyArticleID: r.ShopifyArticleID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// SQLSessionRow is a shopify_sessions row
type SQLSessionRow struct {
	ID          string    `db:"id"`
	Shop        string    `db:"shop"`
	AccessToken string    `db:"access_token"`
	Scope       string    `db:"scope"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *SQLSessionRow) ToDomain() *domain.Session {
	return &domain.Session{
		ID:          r.ID,
		Shop:        r.Shop,
		AccessToken: r.AccessToken,
		Scope:       r.Scope,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
