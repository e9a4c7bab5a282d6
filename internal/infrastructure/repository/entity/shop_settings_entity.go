package entity

import (
	"time"

	"outblog-shopify-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoShopSettingsDoc represents per-shop settings in MongoDB
type MongoShopSettingsDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Shop        string             `bson:"shop"`
	APIKey      string             `bson:"apiKey"`
	PostAsDraft bool               `bson:"postAsDraft"`
	LastSyncAt  *time.Time         `bson:"lastSyncAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoShopSettingsDoc) ToDomain() *domain.ShopSettings {
	return &domain.ShopSettings{
		ID:          d.ID.Hex(),
		Shop:        d.Shop,
		APIKey:      d.APIKey,
		PostAsDraft: d.PostAsDraft,
		LastSyncAt:  d.LastSyncAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
