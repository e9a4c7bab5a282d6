package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"outblog-shopify-app/internal/domain"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const (
	settingsBucket = "shop_settings"
	postsBucket    = "outblog_posts"
	sessionsBucket = "shopify_sessions"

	postsByIDBucket   = "by_id"
	postsBySlugBucket = "by_slug"
)

// boltSession keeps the access token, which the domain type hides from JSON
type boltSession struct {
	ID          string    `json:"id"`
	Shop        string    `json:"shop"`
	AccessToken string    `json:"access_token"`
	Scope       string    `json:"scope"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BoltStore implements the content store and shop registry in a single bbolt file.
// Posts live in one nested bucket per shop settings id.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens or creates the database file at path
func NewBoltStore(path string) (*BoltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{settingsBucket, postsBucket, sessionsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database file
func (b *BoltStore) Close(context.Context) error {
	return b.db.Close()
}

func getSettings(tx *bolt.Tx, shop string) (*domain.ShopSettings, error) {
	raw := tx.Bucket([]byte(settingsBucket)).Get([]byte(shop))
	if raw == nil {
		return nil, nil
	}
	var settings domain.ShopSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func putJSON(bucket *bolt.Bucket, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return bucket.Put([]byte(key), raw)
}

// GetSettings retrieves the settings of a shop
func (b *BoltStore) GetSettings(_ context.Context, shop string) (*domain.ShopSettings, error) {
	var settings *domain.ShopSettings
	err := b.db.View(func(tx *bolt.Tx) error {
		var err error
		settings, err = getSettings(tx, shop)
		return err
	})
	if err != nil {
		return nil, persistenceError("get shop settings", err)
	}
	return settings, nil
}

// SaveSettings saves or updates the settings of a shop
func (b *BoltStore) SaveSettings(_ context.Context, settings *domain.ShopSettings) error {
	var saved domain.ShopSettings
	err := b.db.Update(func(tx *bolt.Tx) error {
		existing, err := getSettings(tx, settings.Shop)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if existing == nil {
			existing = &domain.ShopSettings{ID: uuid.NewString(), Shop: settings.Shop, CreatedAt: now}
		}
		existing.APIKey = settings.APIKey
		existing.PostAsDraft = settings.PostAsDraft
		existing.UpdatedAt = now

		saved = *existing
		return putJSON(tx.Bucket([]byte(settingsBucket)), settings.Shop, existing)
	})
	if err != nil {
		return persistenceError("save shop settings", err)
	}

	*settings = saved
	return nil
}

// TouchLastSync records a completed sync
func (b *BoltStore) TouchLastSync(_ context.Context, shop string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		settings, err := getSettings(tx, shop)
		if err != nil || settings == nil {
			return err
		}
		now := time.Now().UTC()
		settings.LastSyncAt = &now
		settings.UpdatedAt = now
		return putJSON(tx.Bucket([]byte(settingsBucket)), shop, settings)
	})
	if err != nil {
		return persistenceError("update last sync", err)
	}
	return nil
}

// DeleteShop deletes the settings and the nested bucket holding their posts
func (b *BoltStore) DeleteShop(_ context.Context, shop string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		settings, err := getSettings(tx, shop)
		if err != nil || settings == nil {
			return err
		}

		posts := tx.Bucket([]byte(postsBucket))
		if posts.Bucket([]byte(settings.ID)) != nil {
			if err := posts.DeleteBucket([]byte(settings.ID)); err != nil {
				return err
			}
		}
		return tx.Bucket([]byte(settingsBucket)).Delete([]byte(shop))
	})
	if err != nil {
		return persistenceError("delete shop", err)
	}
	return nil
}

// ListShopsWithCredentials returns every shop that stored an Outblog API key
func (b *BoltStore) ListShopsWithCredentials(_ context.Context) ([]string, error) {
	var shops []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(settingsBucket)).ForEach(func(k, v []byte) error {
			var settings domain.ShopSettings
			if err := json.Unmarshal(v, &settings); err != nil {
				return err
			}
			if settings.HasAPIKey() {
				shops = append(shops, settings.Shop)
			}
			return nil
		})
	})
	if err != nil {
		return nil, persistenceError("list shops", err)
	}
	return shops, nil
}

// shopPostBuckets returns the id and slug buckets of one settings id, creating them when create is set
func shopPostBuckets(tx *bolt.Tx, settingsID string, create bool) (byID, bySlug *bolt.Bucket, err error) {
	posts := tx.Bucket([]byte(postsBucket))
	shop := posts.Bucket([]byte(settingsID))
	if shop == nil {
		if !create {
			return nil, nil, nil
		}
		if shop, err = posts.CreateBucket([]byte(settingsID)); err != nil {
			return nil, nil, err
		}
	}

	if byID, err = bucketIn(shop, postsByIDBucket, create); err != nil {
		return nil, nil, err
	}
	if bySlug, err = bucketIn(shop, postsBySlugBucket, create); err != nil {
		return nil, nil, err
	}
	return byID, bySlug, nil
}

func bucketIn(parent *bolt.Bucket, name string, create bool) (*bolt.Bucket, error) {
	if create {
		return parent.CreateBucketIfNotExists([]byte(name))
	}
	return parent.Bucket([]byte(name)), nil
}

func getPost(byID *bolt.Bucket, postID string) (*domain.BlogPost, error) {
	if byID == nil {
		return nil, nil
	}
	raw := byID.Get([]byte(postID))
	if raw == nil {
		return nil, nil
	}
	var post domain.BlogPost
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpsertPost saves a synced post keyed by (settings id, slug)
func (b *BoltStore) UpsertPost(_ context.Context, post *domain.BlogPost) error {
	var saved domain.BlogPost
	err := b.db.Update(func(tx *bolt.Tx) error {
		byID, bySlug, err := shopPostBuckets(tx, post.ShopSettingsID, true)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		record := *post
		record.UpdatedAt = now

		var existing *domain.BlogPost
		if id := bySlug.Get([]byte(post.Slug)); id != nil {
			if existing, err = getPost(byID, string(id)); err != nil {
				return err
			}
		}
		if existing != nil {
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			record.Status = existing.Status
			record.ShopifyArticleID = existing.ShopifyArticleID
		} else {
			record.ID = uuid.NewString()
			record.CreatedAt = now
			record.Status = domain.PostStatusDraft
			record.ShopifyArticleID = ""
		}

		if err := putJSON(byID, record.ID, record); err != nil {
			return err
		}
		saved = record
		return bySlug.Put([]byte(record.Slug), []byte(record.ID))
	})
	if err != nil {
		return persistenceError("upsert blog post", err)
	}

	*post = saved
	return nil
}

// GetPost retrieves a post of the shop by id
func (b *BoltStore) GetPost(_ context.Context, settingsID, postID string) (*domain.BlogPost, error) {
	var post *domain.BlogPost
	err := b.db.View(func(tx *bolt.Tx) error {
		byID, _, err := shopPostBuckets(tx, settingsID, false)
		if err != nil {
			return err
		}
		post, err = getPost(byID, postID)
		return err
	})
	if err != nil {
		return nil, persistenceError("get blog post", err)
	}
	return post, nil
}

func (b *BoltStore) allPosts(settingsID string, keep func(*domain.BlogPost) bool) ([]*domain.BlogPost, error) {
	posts := []*domain.BlogPost{}
	err := b.db.View(func(tx *bolt.Tx) error {
		byID, _, err := shopPostBuckets(tx, settingsID, false)
		if err != nil || byID == nil {
			return err
		}
		return byID.ForEach(func(k, v []byte) error {
			var post domain.BlogPost
			if err := json.Unmarshal(v, &post); err != nil {
				return err
			}
			if keep == nil || keep(&post) {
				posts = append(posts, &post)
			}
			return nil
		})
	})
	if err != nil {
		return nil, persistenceError("list blog posts", err)
	}
	return posts, nil
}

// ListPosts returns one page of posts, newest first, and the total count
func (b *BoltStore) ListPosts(_ context.Context, settingsID string, offset, limit int) ([]*domain.BlogPost, int, error) {
	posts, err := b.allPosts(settingsID, nil)
	if err != nil {
		return nil, 0, err
	}
	sortNewestFirst(posts)
	return page(posts, offset, limit), len(posts), nil
}

// ListUnpublished returns posts without a Shopify article, oldest first
func (b *BoltStore) ListUnpublished(_ context.Context, settingsID string) ([]*domain.BlogPost, error) {
	posts, err := b.allPosts(settingsID, func(p *domain.BlogPost) bool { return !p.IsPublished() })
	if err != nil {
		return nil, err
	}
	sortOldestFirst(posts)
	return posts, nil
}

// ListPublished returns posts that carry a Shopify article id
func (b *BoltStore) ListPublished(_ context.Context, settingsID string) ([]*domain.BlogPost, error) {
	posts, err := b.allPosts(settingsID, (*domain.BlogPost).IsPublished)
	if err != nil {
		return nil, err
	}
	sortOldestFirst(posts)
	return posts, nil
}

// UpdatePublication records the article id and status in one transaction
func (b *BoltStore) UpdatePublication(_ context.Context, settingsID, postID, articleID string, status domain.PostStatus) error {
	found := true
	err := b.db.Update(func(tx *bolt.Tx) error {
		byID, _, err := shopPostBuckets(tx, settingsID, false)
		if err != nil {
			return err
		}
		post, err := getPost(byID, postID)
		if err != nil {
			return err
		}
		if post == nil {
			found = false
			return nil
		}

		post.ShopifyArticleID = articleID
		post.Status = status
		post.UpdatedAt = time.Now().UTC()
		return putJSON(byID, post.ID, post)
	})
	if err != nil {
		return persistenceError("update publication", err)
	}
	if !found {
		return postNotFound(postID)
	}
	return nil
}

// SaveSession saves or replaces the offline session of a shop
func (b *BoltStore) SaveSession(_ context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = domain.OfflineSessionID(session.Shop)
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionsBucket))
		now := time.Now().UTC()

		record := boltSession{
			ID:          session.ID,
			Shop:        session.Shop,
			AccessToken: session.AccessToken,
			Scope:       session.Scope,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if raw := bucket.Get([]byte(session.Shop)); raw != nil {
			var existing boltSession
			if err := json.Unmarshal(raw, &existing); err == nil {
				record.CreatedAt = existing.CreatedAt
			}
		}

		session.CreatedAt = record.CreatedAt
		session.UpdatedAt = record.UpdatedAt
		return putJSON(bucket, session.Shop, record)
	})
	if err != nil {
		return persistenceError("save session", err)
	}
	return nil
}

// GetSession retrieves the offline session of a shop
func (b *BoltStore) GetSession(_ context.Context, shop string) (*domain.Session, error) {
	var session *domain.Session
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(sessionsBucket)).Get([]byte(shop))
		if raw == nil {
			return nil
		}
		var record boltSession
		if err := json.Unmarshal(raw, &record); err != nil {
			return err
		}
		session = &domain.Session{
			ID:          record.ID,
			Shop:        record.Shop,
			AccessToken: record.AccessToken,
			Scope:       record.Scope,
			CreatedAt:   record.CreatedAt,
			UpdatedAt:   record.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, persistenceError("get session", err)
	}
	return session, nil
}

// DeleteSessions deletes the stored session of a shop
func (b *BoltStore) DeleteSessions(_ context.Context, shop string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).Delete([]byte(shop))
	})
	if err != nil {
		return persistenceError("delete sessions", err)
	}
	return nil
}

func sortNewestFirst(posts []*domain.BlogPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func sortOldestFirst(posts []*domain.BlogPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID < posts[j].ID
		}
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})
}

func page(posts []*domain.BlogPost, offset, limit int) []*domain.BlogPost {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(posts) {
		return []*domain.BlogPost{}
	}
	end := len(posts)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return posts[offset:end]
}
