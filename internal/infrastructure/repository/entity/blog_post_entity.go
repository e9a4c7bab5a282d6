package entity

import (
	"time"

	"outblog-shopify-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoBlogPostDoc represents a synced Outblog post in MongoDB
type MongoBlogPostDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	ShopSettingsID   string             `bson:"shopSettingsId"`
	ExternalID       string             `bson:"externalId"`
	Slug             string             `bson:"slug"`
	Title            string             `bson:"title"`
	Content          string             `bson:"content"`
	MetaDescription  string             `bson:"metaDescription"`
	FeaturedImage    string             `bson:"featuredImage"`
	Categories       []string           `bson:"categories"`
	Tags             []string           `bson:"tags"`
	Status           string             `bson:"status"`
	ShopifyArticleID string             `bson:"shopifyArticleId"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoBlogPostDoc) ToDomain() *domain.BlogPost {
	return &domain.BlogPost{
		ID:               d.ID.Hex(),
		ShopSettingsID:   d.ShopSettingsID,
		ExternalID:       d.ExternalID,
		Slug:             d.Slug,
		Title:            d.Title,
		Content:          d.Content,
		MetaDescription:  d.MetaDescription,
		FeaturedImage:    d.FeaturedImage,
		Categories:       d.Categories,
		Tags:             d.Tags,
		Status:           domain.PostStatus(d.Status),
		ShopifyArticleID: d.ShopifyArticleID,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// SyncedFields returns the fields a re-sync overwrites
func SyncedFields(post *domain.BlogPost, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"externalId":      post.ExternalID,
		"title":           post.Title,
		"content":         post.Content,
		"metaDescription": post.MetaDescription,
		"featuredImage":   post.FeaturedImage,
		"categories":      nonNil(post.Categories),
		"tags":            nonNil(post.Tags),
		"updatedAt":       now,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
