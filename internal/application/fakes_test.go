package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/infrastructure/lock"
	"outblog-shopify-app/internal/infrastructure/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testShop = "test-shop.myshopify.com"

type fakeSource struct {
	valid         bool
	validateErr   error
	posts         []domain.SourcePost
	fetchErr      error
	validateCalls int
	fetchCalls    int
}

func (f *fakeSource) ValidateAPIKey(_ context.Context, _ string) (bool, error) {
	f.validateCalls++
	return f.valid, f.validateErr
}

func (f *fakeSource) FetchPosts(_ context.Context, _ string) ([]domain.SourcePost, error) {
	f.fetchCalls++
	return f.posts, f.fetchErr
}

type fakeShopify struct {
	mu              sync.Mutex
	blogs           []domain.Blog
	createBlogCalls int
	articles        []domain.ArticleInput
	failTitles      map[string]error
	nodeCalls       [][]string
	missing         map[string]bool
	nextID          int
}

func (f *fakeShopify) ListBlogs(_ context.Context, _, _ string) ([]domain.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Blog(nil), f.blogs...), nil
}

func (f *fakeShopify) CreateBlog(_ context.Context, _, _, title, handle string) (*domain.Blog, error) {
	time.Sleep(10 * time.Millisecond)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createBlogCalls++
	blog := domain.Blog{ID: "gid://shopify/Blog/1", Handle: handle, Title: title}
	f.blogs = append(f.blogs, blog)
	return &blog, nil
}

func (f *fakeShopify) CreateArticle(_ context.Context, _, _ string, input domain.ArticleInput) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failTitles[input.Title]; err != nil {
		return nil, err
	}
	f.articles = append(f.articles, input)
	f.nextID++
	return &domain.Article{
		ID:          fmt.Sprintf("gid://shopify/Article/%d", f.nextID),
		Handle:      input.Handle,
		Title:       input.Title,
		IsPublished: input.IsPublished,
	}, nil
}

func (f *fakeShopify) ExistingArticleIDs(_ context.Context, _, _ string, ids []string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nodeCalls = append(f.nodeCalls, append([]string(nil), ids...))
	existing := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !f.missing[id] {
			existing[id] = true
		}
	}
	return existing, nil
}

type fakeMetrics struct {
	mu        sync.Mutex
	synced    int
	published map[string]int
	failures  map[string]int
	demoted   int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{published: map[string]int{}, failures: map[string]int{}}
}

func (m *fakeMetrics) PostsSynced(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synced += n
}

func (m *fakeMetrics) ArticlePublished(mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[mode]++
}

func (m *fakeMetrics) PublishFailed(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[kind]++
}

func (m *fakeMetrics) ArticlesDemoted(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.demoted += n
}

// failingUpsertStore fails the failOn-th UpsertPost call
type failingUpsertStore struct {
	*repository.MemoryStore
	failOn  int
	upserts int
}

func (f *failingUpsertStore) UpsertPost(ctx context.Context, post *domain.BlogPost) error {
	f.upserts++
	if f.upserts == f.failOn {
		return domain.WrapError(domain.KindPersistenceError, "upsert blog post", fmt.Errorf("connection reset"))
	}
	return f.MemoryStore.UpsertPost(ctx, post)
}

type harness struct {
	store   *repository.MemoryStore
	source  *fakeSource
	shopify *fakeShopify
	metrics *fakeMetrics
	svc     *PublishingService
}

func newHarness(t *testing.T, opts PublishingOptions) *harness {
	t.Helper()
	h := &harness{
		store:   repository.NewMemoryStore(),
		source:  &fakeSource{valid: true},
		shopify: &fakeShopify{},
		metrics: newFakeMetrics(),
	}
	h.svc = NewPublishingService(h.store, h.source, h.shopify, lock.NewLocalLocker(), h.metrics, zerolog.Nop(), opts)
	return h
}

// installShop stores settings and an offline session for testShop
func (h *harness) installShop(t *testing.T, postAsDraft bool) *domain.ShopSettings {
	t.Helper()
	ctx := context.Background()
	settings := &domain.ShopSettings{Shop: testShop, APIKey: "ob_key", PostAsDraft: postAsDraft}
	require.NoError(t, h.store.SaveSettings(ctx, settings))
	require.NoError(t, h.store.SaveSession(ctx, &domain.Session{Shop: testShop, AccessToken: "shpat_token"}))
	return settings
}

func (h *harness) addPost(t *testing.T, settingsID, slug, title, content string) *domain.BlogPost {
	t.Helper()
	post := &domain.BlogPost{
		ShopSettingsID: settingsID,
		ExternalID:     "ext-" + slug,
		Slug:           slug,
		Title:          title,
		Content:        content,
	}
	require.NoError(t, h.store.UpsertPost(context.Background(), post))
	return post
}
