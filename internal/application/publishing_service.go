package application

import (
	"context"
	"net/url"
	"strings"
	"time"

	"outblog-shopify-app/internal/domain"
	"outblog-shopify-app/internal/markdown"
	"outblog-shopify-app/internal/ports"

	"github.com/rs/zerolog"
)

const (
	// liveStatusBatchSize is the number of ids sent per nodes query
	liveStatusBatchSize = 50
	summaryLength       = 280
)

func blogLockKey(shop string) string {
	return "outblog:blog-lock:" + shop
}

// PublishingOptions tune how articles are built
type PublishingOptions struct {
	Author         string
	// RenderBulkHTML makes PublishAll render markdown like PublishOne does
	// instead of only stripping the front-matter
	RenderBulkHTML bool
}

// PublishingService syncs Outblog posts into the store and publishes them to Shopify
type PublishingService struct {
	store   ports.Store
	source  ports.SourceClient
	shopify ports.ShopifyClient
	locker  ports.Locker
	metrics ports.Metrics
	logger  zerolog.Logger
	opts    PublishingOptions
}

// NewPublishingService creates a new publishing service
func NewPublishingService(
	store ports.Store,
	source ports.SourceClient,
	shopify ports.ShopifyClient,
	locker ports.Locker,
	metrics ports.Metrics,
	logger zerolog.Logger,
	opts PublishingOptions,
) *PublishingService {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if opts.Author == "" {
		opts.Author = domain.OutblogBlogTitle
	}
	return &PublishingService{
		store:   store,
		source:  source,
		shopify: shopify,
		locker:  locker,
		metrics: metrics,
		logger:  logger,
		opts:    opts,
	}
}

// PublishFailure describes one post that PublishAll could not publish
type PublishFailure struct {
	PostID  string           `json:"post_id"`
	Slug    string           `json:"slug"`
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

// PublishAllResult is the outcome of a bulk publish
type PublishAllResult struct {
	Attempted int              `json:"attempted"`
	Published int              `json:"published"`
	Failures  []PublishFailure `json:"failures,omitempty"`
}

// LiveStatusResult is the outcome of a live-status reconciliation
type LiveStatusResult struct {
	Checked int `json:"checked"`
	Demoted int `json:"demoted"`
}

// ValidateAndSaveCredential checks the Outblog API key and stores it with the draft preference.
// It never syncs.
func (s *PublishingService) ValidateAndSaveCredential(ctx context.Context, shop, apiKey string, postAsDraft bool) (*domain.ShopSettings, error) {
	const op = "saveApiKey"

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, domain.NewError(domain.KindInvalidCredential, op, "API key is required")
	}

	valid, err := s.source.ValidateAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, domain.NewError(domain.KindInvalidCredential, op, "API key was rejected by Outblog")
	}

	settings := &domain.ShopSettings{Shop: shop, APIKey: apiKey, PostAsDraft: postAsDraft}
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info().Str("shop", shop).Bool("postAsDraft", postAsDraft).Msg("Outblog API key saved")
	return settings, nil
}

// SyncPosts fetches every post from Outblog and upserts it keyed by slug.
// It returns the number of posts processed, which on failure is the number
// written before the failing one.
func (s *PublishingService) SyncPosts(ctx context.Context, shop string) (int, error) {
	settings, err := s.store.GetSettings(ctx, shop)
	if err != nil {
		return 0, err
	}
	if !settings.HasAPIKey() {
		return 0, domain.NewError(domain.KindCredentialMissing, "syncPosts", "no Outblog API key configured")
	}

	posts, err := s.source.FetchPosts(ctx, settings.APIKey)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, sp := range posts {
		post := sp.ToBlogPost(settings.ID)
		if err := s.store.UpsertPost(ctx, post); err != nil {
			s.logger.Error().Err(err).Str("shop", shop).Str("slug", post.Slug).Msg("Failed to store post")
			s.metrics.PostsSynced(processed)
			return processed, err
		}
		processed++
	}

	if err := s.store.TouchLastSync(ctx, shop); err != nil {
		return processed, err
	}

	s.metrics.PostsSynced(processed)
	s.logger.Info().Str("shop", shop).Int("count", processed).Msg("Synced posts from Outblog")
	return processed, nil
}

// PublishOne renders one stored post and creates it as a Shopify article
func (s *PublishingService) PublishOne(ctx context.Context, shop, postID string) (*domain.BlogPost, error) {
	const op = "publishToShopify"

	settings, session, err := s.shopContext(ctx, shop, op)
	if err != nil {
		return nil, err
	}

	post, err := s.store.GetPost(ctx, settings.ID, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.NewError(domain.KindNotFound, op, "post not found")
	}

	blog, err := s.ensureBlog(ctx, shop, session.AccessToken)
	if err != nil {
		return nil, err
	}

	body := markdown.ToHTML(post.Content, post.Title)
	if err := s.publish(ctx, settings, session, blog, post, body); err != nil {
		s.metrics.PublishFailed(string(domain.KindOf(err)))
		s.logger.Error().Err(err).Str("shop", shop).Str("postId", post.ID).Msg("Failed to publish post")
		return nil, err
	}

	s.metrics.ArticlePublished("single")
	s.logger.Info().
		Str("shop", shop).
		Str("postId", post.ID).
		Str("articleId", post.ShopifyArticleID).
		Msg("Published post to Shopify")
	return post, nil
}

// PublishAll publishes every post without an article id, one after another.
// A failing post is recorded in the result and does not stop the rest.
func (s *PublishingService) PublishAll(ctx context.Context, shop string) (*PublishAllResult, error) {
	settings, session, err := s.shopContext(ctx, shop, "publishAllToShopify")
	if err != nil {
		return nil, err
	}

	blog, err := s.ensureBlog(ctx, shop, session.AccessToken)
	if err != nil {
		return nil, err
	}

	posts, err := s.store.ListUnpublished(ctx, settings.ID)
	if err != nil {
		return nil, err
	}

	result := &PublishAllResult{}
	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Attempted++

		body := markdown.StripFrontMatter(post.Content)
		if s.opts.RenderBulkHTML {
			body = markdown.ToHTML(post.Content, post.Title)
		}

		if err := s.publish(ctx, settings, session, blog, post, body); err != nil {
			kind := domain.KindOf(err)
			result.Failures = append(result.Failures, PublishFailure{
				PostID:  post.ID,
				Slug:    post.Slug,
				Kind:    kind,
				Message: err.Error(),
			})
			s.metrics.PublishFailed(string(kind))
			s.logger.Warn().Err(err).Str("shop", shop).Str("postId", post.ID).Str("slug", post.Slug).Msg("Skipping post in bulk publish")
			continue
		}

		result.Published++
		s.metrics.ArticlePublished("bulk")
	}

	s.logger.Info().
		Str("shop", shop).
		Int("attempted", result.Attempted).
		Int("published", result.Published).
		Int("failed", len(result.Failures)).
		Msg("Bulk publish finished")
	return result, nil
}

// CheckLiveStatus asks Shopify which published articles still exist and
// demotes the posts whose article is gone back to draft
func (s *PublishingService) CheckLiveStatus(ctx context.Context, shop string) (*LiveStatusResult, error) {
	settings, session, err := s.shopContext(ctx, shop, "checkLiveStatus")
	if err != nil {
		return nil, err
	}

	posts, err := s.store.ListPublished(ctx, settings.ID)
	if err != nil {
		return nil, err
	}

	result := &LiveStatusResult{Checked: len(posts)}
	for start := 0; start < len(posts); start += liveStatusBatchSize {
		end := start + liveStatusBatchSize
		if end > len(posts) {
			end = len(posts)
		}
		batch := posts[start:end]

		ids := make([]string, 0, len(batch))
		for _, post := range batch {
			ids = append(ids, post.ShopifyArticleID)
		}

		existing, err := s.shopify.ExistingArticleIDs(ctx, shop, session.AccessToken, ids)
		if err != nil {
			return result, err
		}

		for _, post := range batch {
			if existing[post.ShopifyArticleID] {
				continue
			}
			if err := s.store.UpdatePublication(ctx, settings.ID, post.ID, "", domain.PostStatusDraft); err != nil {
				return result, err
			}
			result.Demoted++
			s.logger.Info().Str("shop", shop).Str("postId", post.ID).Str("articleId", post.ShopifyArticleID).Msg("Article no longer on Shopify, reverted to draft")
		}
	}

	s.metrics.ArticlesDemoted(result.Demoted)
	return result, nil
}

// shopContext loads the settings and offline session every Shopify operation needs
func (s *PublishingService) shopContext(ctx context.Context, shop, op string) (*domain.ShopSettings, *domain.Session, error) {
	settings, err := s.store.GetSettings(ctx, shop)
	if err != nil {
		return nil, nil, err
	}
	if settings == nil {
		return nil, nil, domain.NewError(domain.KindNotFound, op, "shop settings not found")
	}

	session, err := s.store.GetSession(ctx, shop)
	if err != nil {
		return nil, nil, err
	}
	if session == nil || session.AccessToken == "" {
		return nil, nil, domain.NewError(domain.KindNotFound, op, "no Shopify session for shop")
	}
	return settings, session, nil
}

// ensureBlog returns the outblog blog, creating it when the shop has none.
// Callers for the same shop are serialized so only one of them creates it.
func (s *PublishingService) ensureBlog(ctx context.Context, shop, accessToken string) (*domain.Blog, error) {
	unlock, err := s.locker.Lock(ctx, blogLockKey(shop))
	if err != nil {
		return nil, domain.WrapError(domain.KindTimeoutError, "ensureBlog", err)
	}
	defer unlock()

	blogs, err := s.shopify.ListBlogs(ctx, shop, accessToken)
	if err != nil {
		return nil, err
	}
	for i := range blogs {
		if blogs[i].Handle == domain.OutblogBlogHandle {
			return &blogs[i], nil
		}
	}

	blog, err := s.shopify.CreateBlog(ctx, shop, accessToken, domain.OutblogBlogTitle, domain.OutblogBlogHandle)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("shop", shop).Str("blogId", blog.ID).Msg("Created Outblog blog")
	return blog, nil
}

// publish creates the article and records the result on the post
func (s *PublishingService) publish(ctx context.Context, settings *domain.ShopSettings, session *domain.Session, blog *domain.Blog, post *domain.BlogPost, body string) error {
	input := domain.ArticleInput{
		BlogID:      blog.ID,
		Title:       post.Title,
		Handle:      domain.ArticleHandle(post.Slug, post.Title),
		BodyHTML:    body,
		Summary:     post.MetaDescription,
		Author:      s.opts.Author,
		Tags:        post.Tags,
		Image:       articleImage(post),
		IsPublished: !settings.PostAsDraft,
	}
	if input.Summary == "" {
		input.Summary = markdown.Summary(body, summaryLength)
	}

	article, err := s.shopify.CreateArticle(ctx, settings.Shop, session.AccessToken, input)
	if err != nil {
		return err
	}

	status := domain.PostStatusPublished
	if settings.PostAsDraft {
		status = domain.PostStatusDraft
	}
	if err := s.store.UpdatePublication(ctx, settings.ID, post.ID, article.ID, status); err != nil {
		return err
	}

	post.ShopifyArticleID = article.ID
	post.Status = status
	post.UpdatedAt = time.Now().UTC()
	return nil
}

// articleImage returns the featured image when it is an absolute http(s) URL
func articleImage(post *domain.BlogPost) *domain.ArticleImage {
	if post.FeaturedImage == "" {
		return nil
	}
	u, err := url.Parse(post.FeaturedImage)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil
	}
	return &domain.ArticleImage{URL: post.FeaturedImage, AltText: post.Title}
}
