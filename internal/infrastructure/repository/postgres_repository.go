package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/infrastructure/repository/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const postColumns = `id, shop_settings_id, external_id, slug, title, content, meta_description,
	featured_image, categories, tags, status, shopify_article_id, created_at, updated_at`

// PostgresStore implements the content store and shop registry using PostgreSQL
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects to dsn and applies pending migrations
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if _, err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return NewPostgresStoreFromDB(db), nil
}

// NewPostgresStoreFromDB wraps an already migrated connection
func NewPostgresStoreFromDB(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Close closes the connection pool
func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}

// GetSettings retrieves the settings of a shop
func (s *PostgresStore) GetSettings(ctx context.Context, shop string) (*domain.ShopSettings, error) {
	var row entity.SQLShopSettingsRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM shop_settings WHERE shop = $1`, shop)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get shop settings", err)
	}
	return row.ToDomain(), nil
}

// SaveSettings saves or updates the settings of a shop
func (s *PostgresStore) SaveSettings(ctx context.Context, settings *domain.ShopSettings) error {
	query := `
		INSERT INTO shop_settings (id, shop, api_key, post_as_draft, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (shop) DO UPDATE SET
			api_key = EXCLUDED.api_key,
			post_as_draft = EXCLUDED.post_as_draft,
			updated_at = EXCLUDED.updated_at
		RETURNING *`

	var row entity.SQLShopSettingsRow
	err := s.db.QueryRowxContext(ctx, query,
		uuid.NewString(),
		settings.Shop,
		settings.APIKey,
		settings.PostAsDraft,
		time.Now().UTC(),
	).StructScan(&row)
	if err != nil {
		return persistenceError("save shop settings", err)
	}

	*settings = *row.ToDomain()
	return nil
}

// TouchLastSync records a completed sync
func (s *PostgresStore) TouchLastSync(ctx context.Context, shop string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`UPDATE shop_settings SET last_sync_at = $1, updated_at = $1 WHERE shop = $2`, now, shop)
	if err != nil {
		return persistenceError("update last sync", err)
	}
	return nil
}

// DeleteShop deletes the settings; posts go with them through ON DELETE CASCADE
func (s *PostgresStore) DeleteShop(ctx context.Context, shop string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM shop_settings WHERE shop = $1`, shop); err != nil {
		return persistenceError("delete shop settings", err)
	}
	return nil
}

// ListShopsWithCredentials returns every shop that stored an Outblog API key
func (s *PostgresStore) ListShopsWithCredentials(ctx context.Context) ([]string, error) {
	var shops []string
	err := s.db.SelectContext(ctx, &shops, `SELECT shop FROM shop_settings WHERE api_key <> '' ORDER BY shop`)
	if err != nil {
		return nil, persistenceError("list shops", err)
	}
	return shops, nil
}

// UpsertPost saves a synced post keyed by (shop_settings_id, slug)
func (s *PostgresStore) UpsertPost(ctx context.Context, post *domain.BlogPost) error {
	query := `
		INSERT INTO outblog_posts (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, '', $12, $12)
		ON CONFLICT (shop_settings_id, slug) DO UPDATE SET
			external_id = EXCLUDED.external_id,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			meta_description = EXCLUDED.meta_description,
			featured_image = EXCLUDED.featured_image,
			categories = EXCLUDED.categories,
			tags = EXCLUDED.tags,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + postColumns

	var row entity.SQLBlogPostRow
	err := s.db.QueryRowxContext(ctx, query,
		uuid.NewString(),
		post.ShopSettingsID,
		post.ExternalID,
		post.Slug,
		post.Title,
		post.Content,
		post.MetaDescription,
		post.FeaturedImage,
		entity.JSONStrings(post.Categories),
		entity.JSONStrings(post.Tags),
		string(domain.PostStatusDraft),
		time.Now().UTC(),
	).StructScan(&row)
	if err != nil {
		return persistenceError("upsert blog post", err)
	}

	*post = *row.ToDomain()
	return nil
}

// GetPost retrieves a post of the shop by id
func (s *PostgresStore) GetPost(ctx context.Context, settingsID, postID string) (*domain.BlogPost, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return nil, nil
	}

	var row entity.SQLBlogPostRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+postColumns+` FROM outblog_posts WHERE id = $1 AND shop_settings_id = $2`, postID, settingsID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get blog post", err)
	}
	return row.ToDomain(), nil
}

// ListPosts returns one page of posts, newest first, and the total count
func (s *PostgresStore) ListPosts(ctx context.Context, settingsID string, offset, limit int) ([]*domain.BlogPost, int, error) {
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM outblog_posts WHERE shop_settings_id = $1`, settingsID); err != nil {
		return nil, 0, persistenceError("count blog posts", err)
	}

	posts, err := s.selectPosts(ctx,
		`SELECT `+postColumns+` FROM outblog_posts WHERE shop_settings_id = $1
		ORDER BY created_at DESC, id DESC OFFSET $2 LIMIT $3`, settingsID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListUnpublished returns posts without a Shopify article, oldest first
func (s *PostgresStore) ListUnpublished(ctx context.Context, settingsID string) ([]*domain.BlogPost, error) {
	return s.selectPosts(ctx,
		`SELECT `+postColumns+` FROM outblog_posts WHERE shop_settings_id = $1 AND shopify_article_id = ''
		ORDER BY created_at, id`, settingsID)
}

// ListPublished returns posts that carry a Shopify article id
func (s *PostgresStore) ListPublished(ctx context.Context, settingsID string) ([]*domain.BlogPost, error) {
	return s.selectPosts(ctx,
		`SELECT `+postColumns+` FROM outblog_posts WHERE shop_settings_id = $1 AND shopify_article_id <> ''
		ORDER BY created_at, id`, settingsID)
}

// UpdatePublication records the article id and status in one statement
func (s *PostgresStore) UpdatePublication(ctx context.Context, settingsID, postID, articleID string, status domain.PostStatus) error {
	if _, err := uuid.Parse(postID); err != nil {
		return postNotFound(postID)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE outblog_posts SET shopify_article_id = $1, status = $2, updated_at = $3
		WHERE id = $4 AND shop_settings_id = $5`,
		articleID, string(status), time.Now().UTC(), postID, settingsID)
	if err != nil {
		return persistenceError("update publication", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return persistenceError("update publication", err)
	}
	if n == 0 {
		return postNotFound(postID)
	}
	return nil
}

func (s *PostgresStore) selectPosts(ctx context.Context, query string, args ...interface{}) ([]*domain.BlogPost, error) {
	var rows []entity.SQLBlogPostRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, persistenceError("list blog posts", err)
	}

	posts := make([]*domain.BlogPost, 0, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].ToDomain())
	}
	return posts, nil
}

// SaveSession saves or replaces the offline session of a shop
func (s *PostgresStore) SaveSession(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = domain.OfflineSessionID(session.Shop)
	}

	query := `
		INSERT INTO shopify_sessions (id, shop, access_token, scope, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (shop) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			scope = EXCLUDED.scope,
			updated_at = EXCLUDED.updated_at
		RETURNING *`

	var row entity.SQLSessionRow
	err := s.db.QueryRowxContext(ctx, query,
		session.ID, session.Shop, session.AccessToken, session.Scope, time.Now().UTC(),
	).StructScan(&row)
	if err != nil {
		return persistenceError("save session", err)
	}

	*session = *row.ToDomain()
	return nil
}

// GetSession retrieves the offline session of a shop
func (s *PostgresStore) GetSession(ctx context.Context, shop string) (*domain.Session, error) {
	var row entity.SQLSessionRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM shopify_sessions WHERE shop = $1`, shop)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get session", err)
	}
	return row.ToDomain(), nil
}

// DeleteSessions deletes every stored session of a shop
func (s *PostgresStore) DeleteSessions(ctx context.Context, shop string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM shopify_sessions WHERE shop = $1`, shop); err != nil {
		return persistenceError("delete sessions", err)
	}
	return nil
}
