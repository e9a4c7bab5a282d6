package ports

import (
	"context"
	"net/url"

	"outblog-shopify-app/internal/domain"
)

// ShopifyClient defines the Admin API operations the publisher needs
type ShopifyClient interface {
	ListBlogs(ctx context.Context, shop, accessToken string) ([]domain.Blog, error)
	CreateBlog(ctx context.Context, shop, accessToken, title, handle string) (*domain.Blog, error)
	CreateArticle(ctx context.Context, shop, accessToken string, input domain.ArticleInput) (*domain.Article, error)

	// ExistingArticleIDs resolves one batch of ids and returns those that
	// still exist as articles
	ExistingArticleIDs(ctx context.Context, shop, accessToken string, ids []string) (map[string]bool, error)
}

// OAuthApp covers the install handshake with Shopify
type OAuthApp interface {
	AuthorizeURL(shop, state string) (string, error)
	// VerifyCallback checks the hmac parameter of the callback URL
	VerifyCallback(u *url.URL) (bool, error)
	ExchangeToken(ctx context.Context, shop, code string) (string, error)
}
