package entity

import (
	"time"

	"outblog-shopify-app/internal/domain"
)

// MongoSessionDoc represents an offline Shopify session in MongoDB
type MongoSessionDoc struct {
	ID          string    `bson:"_id"`
	Shop        string    `bson:"shop"`
	AccessToken string    `bson:"accessToken"`
	Scope       string    `bson:"scope"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoSessionDoc) ToDomain() *domain.Session {
	return &domain.Session{
		ID:          d.ID,
		Shop:        d.Shop,
		AccessToken: d.AccessToken,
		Scope:       d.Scope,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
