package shopify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"outblog-shopify-app/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// Config holds the app credentials and API settings shared by every shop
type Config struct {
	APIKey      string
	APISecret   string
	Scopes      []string
	RedirectURL string
	APIVersion  string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client publishes to the Shopify Admin GraphQL API on behalf of installed shops
type Client struct {
	app        goshopify.App
	apiVersion string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Shopify client adapter
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	app := goshopify.App{
		ApiKey:      cfg.APIKey,
		ApiSecret:   cfg.APISecret,
		RedirectUrl: cfg.RedirectURL,
		Scope:       strings.Join(cfg.Scopes, ","),
	}

	return &Client{
		app:        app,
		apiVersion: cfg.APIVersion,
		httpClient: httpClient,
		logger:     logger,
	}
}

// createClient is a helper to create a goshopify client for one shop
func (c *Client) createClient(shopDomain, accessToken string) (*goshopify.Client, error) {
	opts := []goshopify.Option{goshopify.WithHTTPClient(c.httpClient)}
	if c.apiVersion != "" {
		opts = append(opts, goshopify.WithVersion(c.apiVersion))
	}

	client, err := goshopify.NewClient(c.app, shopDomain, accessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (c *Client) run(ctx context.Context, shopDomain, accessToken string, op operation, vars map[string]interface{}, out interface{}) error {
	client, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return domain.WrapError(domain.KindRemoteProtocolError, op.name, err)
	}

	start := time.Now()
	err = client.GraphQL.Query(ctx, op.document, vars, out)

	event := c.logger.Debug()
	if err != nil {
		event = c.logger.Warn().Err(err)
	}
	event.
		Str("shop", shopDomain).
		Str("operation", op.name).
		Str("kind", string(op.kind)).
		Dur("duration", time.Since(start)).
		Msg("Shopify GraphQL call")

	return classifyError(op.name, err)
}

// ListBlogs returns the blogs of the shop
func (c *Client) ListBlogs(ctx context.Context, shopDomain, accessToken string) ([]domain.Blog, error) {
	var resp listBlogsResponse
	if err := c.run(ctx, shopDomain, accessToken, listBlogsOp, nil, &resp); err != nil {
		return nil, err
	}

	blogs := make([]domain.Blog, 0, len(resp.Blogs.Edges))
	for _, edge := range resp.Blogs.Edges {
		blogs = append(blogs, domain.Blog{
			ID:     edge.Node.ID,
			Handle: edge.Node.Handle,
			Title:  edge.Node.Title,
		})
	}
	return blogs, nil
}

// CreateBlog creates a blog container
func (c *Client) CreateBlog(ctx context.Context, shopDomain, accessToken, title, handle string) (*domain.Blog, error) {
	vars := map[string]interface{}{
		"blog": map[string]interface{}{
			"title":  title,
			"handle": handle,
		},
	}

	var resp createBlogResponse
	if err := c.run(ctx, shopDomain, accessToken, createBlogOp, vars, &resp); err != nil {
		return nil, err
	}

	if resp.BlogCreate == nil {
		return nil, domain.NewError(domain.KindRemoteEmptyResponse, createBlogOp.name, "no blogCreate payload")
	}
	if err := firstUserError(createBlogOp.name, resp.BlogCreate.UserErrors); err != nil {
		return nil, err
	}
	if resp.BlogCreate.Blog == nil {
		return nil, domain.NewError(domain.KindRemoteEmptyResponse, createBlogOp.name, "blog missing from response")
	}

	b := resp.BlogCreate.Blog
	return &domain.Blog{ID: b.ID, Handle: b.Handle, Title: b.Title}, nil
}

// CreateArticle creates an article under input.BlogID
func (c *Client) CreateArticle(ctx context.Context, shopDomain, accessToken string, input domain.ArticleInput) (*domain.Article, error) {
	article := map[string]interface{}{
		"blogId":      input.BlogID,
		"title":       input.Title,
		"handle":      input.Handle,
		"body":        input.BodyHTML,
		"isPublished": input.IsPublished,
		"author":      map[string]interface{}{"name": input.Author},
	}
	if input.Summary != "" {
		article["summary"] = input.Summary
	}
	if len(input.Tags) > 0 {
		article["tags"] = input.Tags
	}
	if input.Image != nil {
		article["image"] = map[string]interface{}{
			"url":     input.Image.URL,
			"altText": input.Image.AltText,
		}
	}

	var resp createArticleResponse
	vars := map[string]interface{}{"article": article}
	if err := c.run(ctx, shopDomain, accessToken, createArticleOp, vars, &resp); err != nil {
		return nil, err
	}

	if resp.ArticleCreate == nil {
		return nil, domain.NewError(domain.KindRemoteEmptyResponse, createArticleOp.name, "no articleCreate payload")
	}
	if err := firstUserError(createArticleOp.name, resp.ArticleCreate.UserErrors); err != nil {
		return nil, err
	}
	if resp.ArticleCreate.Article == nil {
		return nil, domain.NewError(domain.KindRemoteEmptyResponse, createArticleOp.name, "article missing from response")
	}

	a := resp.ArticleCreate.Article
	return &domain.Article{
		ID:          a.ID,
		Handle:      a.Handle,
		Title:       a.Title,
		IsPublished: a.IsPublished,
	}, nil
}

// ExistingArticleIDs looks ids up in a single nodes query and returns those
// that still resolve to an Article
func (c *Client) ExistingArticleIDs(ctx context.Context, shopDomain, accessToken string, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	var resp articleNodesResponse
	vars := map[string]interface{}{"ids": ids}
	if err := c.run(ctx, shopDomain, accessToken, articleNodesOp, vars, &resp); err != nil {
		return nil, err
	}

	for _, node := range resp.Nodes {
		if node != nil && node.Typename == "Article" && node.ID != "" {
			existing[node.ID] = true
		}
	}
	return existing, nil
}
