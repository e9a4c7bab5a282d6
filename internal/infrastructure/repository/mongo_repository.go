package repository

import (
	"context"
	"fmt"
	"time"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/infrastructure/repository/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements the content store and shop registry using MongoDB
type MongoStore struct {
	client             *mongo.Client
	settingsCollection *mongo.Collection
	postsCollection    *mongo.Collection
	sessionsCollection *mongo.Collection
}

// NewMongoStore connects to uri and uses the given database
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store := NewMongoStoreFromDatabase(client.Database(database))
	store.client = client

	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return store, nil
}

// NewMongoStoreFromDatabase wraps an existing database handle
func NewMongoStoreFromDatabase(db *mongo.Database) *MongoStore {
	return &MongoStore{
		settingsCollection: db.Collection("shop_settings"),
		postsCollection:    db.Collection("outblog_posts"),
		sessionsCollection: db.Collection("shopify_sessions"),
	}
}

// EnsureIndexes creates the unique indexes the store relies on
func (r *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		collection *mongo.Collection
		model      mongo.IndexModel
	}{
		{r.settingsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "shop", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{r.postsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "shopSettingsId", Value: 1}, {Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{r.postsCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "shopSettingsId", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
		{r.sessionsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "shop", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}

	for _, idx := range indexes {
		if _, err := idx.collection.Indexes().CreateOne(ctx, idx.model); err != nil {
			return persistenceError("create index", err)
		}
	}
	return nil
}

// Close disconnects the client if the store owns it
func (r *MongoStore) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}

// GetSettings retrieves the settings of a shop
func (r *MongoStore) GetSettings(ctx context.Context, shop string) (*domain.ShopSettings, error) {
	var doc entity.MongoShopSettingsDoc
	err := r.settingsCollection.FindOne(ctx, bson.M{"shop": shop}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get shop settings", err)
	}

	return doc.ToDomain(), nil
}

// SaveSettings saves or updates the settings of a shop
func (r *MongoStore) SaveSettings(ctx context.Context, settings *domain.ShopSettings) error {
	now := time.Now().UTC()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	filter := bson.M{"shop": settings.Shop}
	update := bson.M{
		"$set": bson.M{
			"apiKey":      settings.APIKey,
			"postAsDraft": settings.PostAsDraft,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	var doc entity.MongoShopSettingsDoc
	if err := r.settingsCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return persistenceError("save shop settings", err)
	}

	*settings = *doc.ToDomain()
	return nil
}

// TouchLastSync records a completed sync
func (r *MongoStore) TouchLastSync(ctx context.Context, shop string) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"lastSyncAt": now, "updatedAt": now}}

	if _, err := r.settingsCollection.UpdateOne(ctx, bson.M{"shop": shop}, update); err != nil {
		return persistenceError("update last sync", err)
	}
	return nil
}

// DeleteShop deletes the shop settings and every post they own
func (r *MongoStore) DeleteShop(ctx context.Context, shop string) error {
	settings, err := r.GetSettings(ctx, shop)
	if err != nil {
		return err
	}
	if settings == nil {
		return nil
	}

	if _, err := r.postsCollection.DeleteMany(ctx, bson.M{"shopSettingsId": settings.ID}); err != nil {
		return persistenceError("delete blog posts", err)
	}
	if _, err := r.settingsCollection.DeleteOne(ctx, bson.M{"shop": shop}); err != nil {
		return persistenceError("delete shop settings", err)
	}
	return nil
}

// ListShopsWithCredentials returns every shop that stored an Outblog API key
func (r *MongoStore) ListShopsWithCredentials(ctx context.Context) ([]string, error) {
	filter := bson.M{"apiKey": bson.M{"$nin": bson.A{"", nil}}}
	opts := options.Find().SetProjection(bson.M{"shop": 1}).SetSort(bson.D{{Key: "shop", Value: 1}})

	cursor, err := r.settingsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, persistenceError("list shops", err)
	}
	defer cursor.Close(ctx)

	var shops []string
	for cursor.Next(ctx) {
		var doc entity.MongoShopSettingsDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, persistenceError("decode shop settings", err)
		}
		shops = append(shops, doc.Shop)
	}

	if err := cursor.Err(); err != nil {
		return nil, persistenceError("iterate shops", err)
	}

	return shops, nil
}
