package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/ports"

	"github.com/stretchr/testify/suite"
)

// StoreSuite is the behaviour every content store backend shares
type StoreSuite struct {
	suite.Suite
	ctx      context.Context
	newStore func() ports.Store
	store    ports.Store
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close(s.ctx)
	}
}

func (s *StoreSuite) createSettings(shop, apiKey string) *domain.ShopSettings {
	settings := &domain.ShopSettings{Shop: shop, APIKey: apiKey}
	s.Require().NoError(s.store.SaveSettings(s.ctx, settings))
	s.Require().NotEmpty(settings.ID)
	return settings
}

func (s *StoreSuite) upsert(settingsID, slug, title string) *domain.BlogPost {
	post := &domain.BlogPost{
		ShopSettingsID: settingsID,
		ExternalID:     "ext-" + slug,
		Slug:           slug,
		Title:          title,
		Content:        "# " + title,
		Categories:     []string{"news"},
		Tags:           []string{"a", "b"},
	}
	s.Require().NoError(s.store.UpsertPost(s.ctx, post))
	return post
}

func (s *StoreSuite) TestSettingsLifecycle() {
	got, err := s.store.GetSettings(s.ctx, "missing.myshopify.com")
	s.Require().NoError(err)
	s.Nil(got)

	created := s.createSettings("a.myshopify.com", "")
	s.False(created.HasAPIKey())
	s.Nil(created.LastSyncAt)

	update := &domain.ShopSettings{Shop: "a.myshopify.com", APIKey: "key-1", PostAsDraft: true}
	s.Require().NoError(s.store.SaveSettings(s.ctx, update))
	s.Equal(created.ID, update.ID)
	s.True(created.CreatedAt.Equal(update.CreatedAt))

	s.Require().NoError(s.store.TouchLastSync(s.ctx, "a.myshopify.com"))

	got, err = s.store.GetSettings(s.ctx, "a.myshopify.com")
	s.Require().NoError(err)
	s.Equal("key-1", got.APIKey)
	s.True(got.PostAsDraft)
	s.NotNil(got.LastSyncAt)
}

func (s *StoreSuite) TestUpsertPreservesCreatedAtAndPublication() {
	settings := s.createSettings("a.myshopify.com", "key")

	first := s.upsert(settings.ID, "hello", "Hello")
	s.Equal(domain.PostStatusDraft, first.Status)
	s.Empty(first.ShopifyArticleID)

	s.Require().NoError(s.store.UpdatePublication(s.ctx, settings.ID, first.ID, "gid://shopify/Article/1", domain.PostStatusPublished))

	time.Sleep(5 * time.Millisecond)
	second := &domain.BlogPost{
		ShopSettingsID:  settings.ID,
		ExternalID:      "ext-2",
		Slug:            "hello",
		Title:           "Hello again",
		Content:         "new body",
		MetaDescription: "meta",
		FeaturedImage:   "https://img.example/x.png",
		Categories:      []string{"updates"},
		Tags:            []string{"c"},
	}
	s.Require().NoError(s.store.UpsertPost(s.ctx, second))

	s.Equal(first.ID, second.ID)
	s.True(first.CreatedAt.Equal(second.CreatedAt))
	s.True(second.UpdatedAt.After(first.UpdatedAt))

	got, err := s.store.GetPost(s.ctx, settings.ID, first.ID)
	s.Require().NoError(err)
	s.Equal("ext-2", got.ExternalID)
	s.Equal("Hello again", got.Title)
	s.Equal("new body", got.Content)
	s.Equal("meta", got.MetaDescription)
	s.Equal("https://img.example/x.png", got.FeaturedImage)
	s.Equal([]string{"updates"}, got.Categories)
	s.Equal([]string{"c"}, got.Tags)
	s.Equal(domain.PostStatusPublished, got.Status)
	s.Equal("gid://shopify/Article/1", got.ShopifyArticleID)
}

func (s *StoreSuite) TestSlugUniquePerShop() {
	a := s.createSettings("a.myshopify.com", "key")
	b := s.createSettings("b.myshopify.com", "key")

	pa := s.upsert(a.ID, "same", "A")
	pb := s.upsert(b.ID, "same", "B")
	s.NotEqual(pa.ID, pb.ID)

	got, err := s.store.GetPost(s.ctx, a.ID, pb.ID)
	s.Require().NoError(err)
	s.Nil(got, "posts are scoped to their shop")
}

func (s *StoreSuite) TestListPostsPagination() {
	settings := s.createSettings("a.myshopify.com", "key")
	for i := 0; i < 12; i++ {
		s.upsert(settings.ID, fmt.Sprintf("post-%02d", i), fmt.Sprintf("Post %d", i))
		time.Sleep(2 * time.Millisecond)
	}

	posts, total, err := s.store.ListPosts(s.ctx, settings.ID, 0, 10)
	s.Require().NoError(err)
	s.Equal(12, total)
	s.Require().Len(posts, 10)
	s.Equal("post-11", posts[0].Slug)

	posts, total, err = s.store.ListPosts(s.ctx, settings.ID, 10, 10)
	s.Require().NoError(err)
	s.Equal(12, total)
	s.Require().Len(posts, 2)
	s.Equal("post-00", posts[1].Slug)
}

func (s *StoreSuite) TestListPostsOutOfRangeOffsets() {
	settings := s.createSettings("a.myshopify.com", "key")
	s.upsert(settings.ID, "one", "One")
	s.upsert(settings.ID, "two", "Two")

	posts, total, err := s.store.ListPosts(s.ctx, settings.ID, -20, 10)
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Len(posts, 2)

	posts, total, err = s.store.ListPosts(s.ctx, settings.ID, math.MaxInt-5, 10)
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Empty(posts)
}

func (s *StoreSuite) TestPublishedFilters() {
	settings := s.createSettings("a.myshopify.com", "key")
	p1 := s.upsert(settings.ID, "one", "One")
	s.upsert(settings.ID, "two", "Two")

	s.Require().NoError(s.store.UpdatePublication(s.ctx, settings.ID, p1.ID, "gid://shopify/Article/9", domain.PostStatusPublished))

	unpublished, err := s.store.ListUnpublished(s.ctx, settings.ID)
	s.Require().NoError(err)
	s.Require().Len(unpublished, 1)
	s.Equal("two", unpublished[0].Slug)

	published, err := s.store.ListPublished(s.ctx, settings.ID)
	s.Require().NoError(err)
	s.Require().Len(published, 1)
	s.Equal("one", published[0].Slug)

	s.Require().NoError(s.store.UpdatePublication(s.ctx, settings.ID, p1.ID, "", domain.PostStatusDraft))
	unpublished, err = s.store.ListUnpublished(s.ctx, settings.ID)
	s.Require().NoError(err)
	s.Len(unpublished, 2)
}

func (s *StoreSuite) TestUpdatePublicationMissingPost() {
	settings := s.createSettings("a.myshopify.com", "key")
	err := s.store.UpdatePublication(s.ctx, settings.ID, "does-not-exist", "x", domain.PostStatusPublished)
	s.True(domain.IsKind(err, domain.KindNotFound))
}

func (s *StoreSuite) TestDeleteShopCascades() {
	settings := s.createSettings("a.myshopify.com", "key")
	post := s.upsert(settings.ID, "one", "One")

	s.Require().NoError(s.store.DeleteShop(s.ctx, "a.myshopify.com"))

	got, err := s.store.GetSettings(s.ctx, "a.myshopify.com")
	s.Require().NoError(err)
	s.Nil(got)

	gotPost, err := s.store.GetPost(s.ctx, settings.ID, post.ID)
	s.Require().NoError(err)
	s.Nil(gotPost)

	s.NoError(s.store.DeleteShop(s.ctx, "a.myshopify.com"))
}

func (s *StoreSuite) TestSessions() {
	session := &domain.Session{Shop: "a.myshopify.com", AccessToken: "shpat_1", Scope: "write_content"}
	s.Require().NoError(s.store.SaveSession(s.ctx, session))
	s.Equal(domain.OfflineSessionID("a.myshopify.com"), session.ID)

	s.Require().NoError(s.store.SaveSession(s.ctx, &domain.Session{Shop: "a.myshopify.com", AccessToken: "shpat_2"}))

	got, err := s.store.GetSession(s.ctx, "a.myshopify.com")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("shpat_2", got.AccessToken)

	s.Require().NoError(s.store.DeleteSessions(s.ctx, "a.myshopify.com"))
	got, err = s.store.GetSession(s.ctx, "a.myshopify.com")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *StoreSuite) TestRegistry() {
	registry, ok := s.store.(ports.ShopRegistry)
	if !ok {
		s.T().Skip("store keeps no registry")
	}

	s.createSettings("b.myshopify.com", "key")
	s.createSettings("a.myshopify.com", "key")
	s.createSettings("c.myshopify.com", "")

	shops, err := registry.ListShopsWithCredentials(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"a.myshopify.com", "b.myshopify.com"}, shops)
}
