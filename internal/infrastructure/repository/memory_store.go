package repository

import (
	"context"
	"sync"
	"time"

	"outblog-shopify-app/internal/domain"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process memory. It does not implement
// ports.ShopRegistry: its contents vanish on restart, so cron has nothing to walk.
type MemoryStore struct {
	mu       sync.RWMutex
	settings map[string]*domain.ShopSettings
	posts    map[string]map[string]*domain.BlogPost // settings id -> post id -> post
	sessions map[string]*domain.Session
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		settings: make(map[string]*domain.ShopSettings),
		posts:    make(map[string]map[string]*domain.BlogPost),
		sessions: make(map[string]*domain.Session),
	}
}

// Close is a no-op; there is nothing to release
func (m *MemoryStore) Close(context.Context) error { return nil }

// GetSettings retrieves the settings of a shop
func (m *MemoryStore) GetSettings(_ context.Context, shop string) (*domain.ShopSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.settings[shop]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// SaveSettings saves or updates the settings of a shop
func (m *MemoryStore) SaveSettings(_ context.Context, settings *domain.ShopSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := m.settings[settings.Shop]
	if !ok {
		existing = &domain.ShopSettings{ID: uuid.NewString(), Shop: settings.Shop, CreatedAt: now}
		m.settings[settings.Shop] = existing
	}
	existing.APIKey = settings.APIKey
	existing.PostAsDraft = settings.PostAsDraft
	existing.UpdatedAt = now

	*settings = *existing
	return nil
}

// TouchLastSync records a completed sync
func (m *MemoryStore) TouchLastSync(_ context.Context, shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.settings[shop]; ok {
		now := time.Now().UTC()
		s.LastSyncAt = &now
		s.UpdatedAt = now
	}
	return nil
}

// DeleteShop deletes the shop settings and every post they own
func (m *MemoryStore) DeleteShop(_ context.Context, shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.settings[shop]; ok {
		delete(m.posts, s.ID)
		delete(m.settings, shop)
	}
	return nil
}

// UpsertPost inserts or updates a post keyed on (settings, slug)
func (m *MemoryStore) UpsertPost(_ context.Context, post *domain.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	shopPosts, ok := m.posts[post.ShopSettingsID]
	if !ok {
		shopPosts = make(map[string]*domain.BlogPost)
		m.posts[post.ShopSettingsID] = shopPosts
	}

	now := time.Now().UTC()
	record := *post
	record.UpdatedAt = now

	var existing *domain.BlogPost
	for _, p := range shopPosts {
		if p.Slug == post.Slug {
			existing = p
			break
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

	shopPosts[record.ID] = &record
	*post = record
	return nil
}

// GetPost returns a post of the shop, or nil when it does not exist
func (m *MemoryStore) GetPost(_ context.Context, settingsID, postID string) (*domain.BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[settingsID][postID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) snapshot(settingsID string, keep func(*domain.BlogPost) bool) []*domain.BlogPost {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := []*domain.BlogPost{}
	for _, p := range m.posts[settingsID] {
		if keep == nil || keep(p) {
			cp := *p
			posts = append(posts, &cp)
		}
	}
	return posts
}

// ListPosts returns one page of posts, newest first, and the total count
func (m *MemoryStore) ListPosts(_ context.Context, settingsID string, offset, limit int) ([]*domain.BlogPost, int, error) {
	posts := m.snapshot(settingsID, nil)
	sortNewestFirst(posts)
	return page(posts, offset, limit), len(posts), nil
}

// ListUnpublished returns posts without a Shopify article, oldest first
func (m *MemoryStore) ListUnpublished(_ context.Context, settingsID string) ([]*domain.BlogPost, error) {
	posts := m.snapshot(settingsID, func(p *domain.BlogPost) bool { return !p.IsPublished() })
	sortOldestFirst(posts)
	return posts, nil
}

// ListPublished returns posts that carry a Shopify article id
func (m *MemoryStore) ListPublished(_ context.Context, settingsID string) ([]*domain.BlogPost, error) {
	posts := m.snapshot(settingsID, (*domain.BlogPost).IsPublished)
	sortOldestFirst(posts)
	return posts, nil
}

// UpdatePublication sets the Shopify article id and status of a post
func (m *MemoryStore) UpdatePublication(_ context.Context, settingsID, postID, articleID string, status domain.PostStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[settingsID][postID]
	if !ok {
		return postNotFound(postID)
	}
	p.ShopifyArticleID = articleID
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// SaveSession stores the offline session of a shop
func (m *MemoryStore) SaveSession(_ context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session.ID == "" {
		session.ID = domain.OfflineSessionID(session.Shop)
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	if existing, ok := m.sessions[session.Shop]; ok {
		session.CreatedAt = existing.CreatedAt
	}
	session.UpdatedAt = now

	cp := *session
	m.sessions[session.Shop] = &cp
	return nil
}

// GetSession returns the offline session of a shop, or nil
func (m *MemoryStore) GetSession(_ context.Context, shop string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[shop]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// DeleteSessions removes every session of a shop
func (m *MemoryStore) DeleteSessions(_ context.Context, shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, shop)
	return nil
}
