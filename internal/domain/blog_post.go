package domain

import "time"

// PostStatus is the local belief about an article's state on Shopify
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// BlogPost is one piece of Outblog content stored for a shop, unique per (shop, slug)
type BlogPost struct {
	ID               string     `json:"id"`
	ShopSettingsID   string     `json:"shop_settings_id"`
	ExternalID       string     `json:"external_id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	MetaDescription  string     `json:"meta_description,omitempty"`
	FeaturedImage    string     `json:"featured_image,omitempty"`
	Categories       []string   `json:"categories"`
	Tags             []string   `json:"tags"`
	Status           PostStatus `json:"status"`
	ShopifyArticleID string     `json:"shopify_article_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsPublished reports whether the post carries a Shopify article id
func (p *BlogPost) IsPublished() bool {
	return p.ShopifyArticleID != ""
}

// SourcePost is a post as returned by the Outblog content API
type SourcePost struct {
	ExternalID      string
	Slug            string
	Title           string
	Content         string
	MetaDescription string
	FeaturedImage   string
	Categories      []string
	Tags            []string
}

// ToBlogPost maps a source post onto the local record keyed by slug
func (sp SourcePost) ToBlogPost(shopSettingsID string) *BlogPost {
	return &BlogPost{
		ShopSettingsID:  shopSettingsID,
		ExternalID:      sp.ExternalID,
		Slug:            SyncSlug(sp.Slug, sp.Title),
		Title:           sp.Title,
		Content:         sp.Content,
		MetaDescription: sp.MetaDescription,
		FeaturedImage:   sp.FeaturedImage,
		Categories:      sp.Categories,
		Tags:            sp.Tags,
		Status:          PostStatusDraft,
	}
}
