package repository

import (
	"context"
	"time"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/infrastructure/repository/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var unpublishedFilter = bson.M{"$in": bson.A{"", nil}}

// UpsertPost saves a synced post keyed by (shopSettingsId, slug)
func (r *MongoStore) UpsertPost(ctx context.Context, post *domain.BlogPost) error {
	now := time.Now().UTC()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	filter := bson.M{"shopSettingsId": post.ShopSettingsID, "slug": post.Slug}
	update := bson.M{
		"$set": entity.SyncedFields(post, now),
		"$setOnInsert": bson.M{
			"createdAt":        now,
			"status":           string(domain.PostStatusDraft),
			"shopifyArticleId": "",
		},
	}

	var doc entity.MongoBlogPostDoc
	if err := r.postsCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return persistenceError("upsert blog post", err)
	}

	*post = *doc.ToDomain()
	return nil
}

// GetPost retrieves a post of the shop by id
func (r *MongoStore) GetPost(ctx context.Context, settingsID, postID string) (*domain.BlogPost, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, nil
	}

	var doc entity.MongoBlogPostDoc
	err = r.postsCollection.FindOne(ctx, bson.M{"_id": objID, "shopSettingsId": settingsID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get blog post", err)
	}

	return doc.ToDomain(), nil
}

// ListPosts returns one page of posts, newest first, and the total count
func (r *MongoStore) ListPosts(ctx context.Context, settingsID string, offset, limit int) ([]*domain.BlogPost, int, error) {
	if offset < 0 {
		offset = 0
	}
	filter := bson.M{"shopSettingsId": settingsID}

	total, err := r.postsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, persistenceError("count blog posts", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	posts, err := r.findPosts(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return posts, int(total), nil
}

// ListUnpublished returns posts without a Shopify article, oldest first
func (r *MongoStore) ListUnpublished(ctx context.Context, settingsID string) ([]*domain.BlogPost, error) {
	filter := bson.M{"shopSettingsId": settingsID, "shopifyArticleId": unpublishedFilter}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.findPosts(ctx, filter, opts)
}

// ListPublished returns posts that carry a Shopify article id
func (r *MongoStore) ListPublished(ctx context.Context, settingsID string) ([]*domain.BlogPost, error) {
	filter := bson.M{"shopSettingsId": settingsID, "shopifyArticleId": bson.M{"$nin": bson.A{"", nil}}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.findPosts(ctx, filter, opts)
}

// UpdatePublication records the article id and status in one update
func (r *MongoStore) UpdatePublication(ctx context.Context, settingsID, postID, articleID string, status domain.PostStatus) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return postNotFound(postID)
	}

	update := bson.M{"$set": bson.M{
		"shopifyArticleId": articleID,
		"status":           string(status),
		"updatedAt":        time.Now().UTC(),
	}}

	result, err := r.postsCollection.UpdateOne(ctx, bson.M{"_id": objID, "shopSettingsId": settingsID}, update)
	if err != nil {
		return persistenceError("update publication", err)
	}
	if result.MatchedCount == 0 {
		return postNotFound(postID)
	}
	return nil
}

func (r *MongoStore) findPosts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.BlogPost, error) {
	cursor, err := r.postsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, persistenceError("list blog posts", err)
	}
	defer cursor.Close(ctx)

	posts := []*domain.BlogPost{}
	for cursor.Next(ctx) {
		var doc entity.MongoBlogPostDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, persistenceError("decode blog post", err)
		}
		posts = append(posts, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, persistenceError("iterate blog posts", err)
	}

	return posts, nil
}
