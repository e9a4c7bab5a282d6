package repository

import (
	"context"
	"time"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/infrastructure/repository/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveSession saves or replaces the offline session of a shop
func (r *MongoStore) SaveSession(ctx context.Context, session *domain.Session) error {
	now := time.Now().UTC()
	if session.ID == "" {
		session.ID = domain.OfflineSessionID(session.Shop)
	}

	opts := options.Update().SetUpsert(true)
	update := bson.M{
		"$set": bson.M{
			"accessToken": session.AccessToken,
			"scope":       session.Scope,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{"_id": session.ID, "createdAt": now},
	}

	if _, err := r.sessionsCollection.UpdateOne(ctx, bson.M{"shop": session.Shop}, update, opts); err != nil {
		return persistenceError("save session", err)
	}
	session.UpdatedAt = now
	return nil
}

// GetSession retrieves the offline session of a shop
func (r *MongoStore) GetSession(ctx context.Context, shop string) (*domain.Session, error) {
	var doc entity.MongoSessionDoc
	err := r.sessionsCollection.FindOne(ctx, bson.M{"shop": shop}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get session", err)
	}

	return doc.ToDomain(), nil
}

// DeleteSessions deletes every stored session of a shop
func (r *MongoStore) DeleteSessions(ctx context.Context, shop string) error {
	if _, err := r.sessionsCollection.DeleteMany(ctx, bson.M{"shop": shop}); err != nil {
		return persistenceError("delete sessions", err)
	}
	return nil
}
