package outblog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"outblog-shopify-app/internal/domain"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	validatePath = "/blogs/validate-api-key"
	postsPath    = "/blogs/posts/wp"
	apiKeyHeader = "x-api-key"
)

// Client talks to the Outblog content API
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   c,
		logger: logger,
	}
}

// ValidateAPIKey reports whether Outblog accepts the key.
// Any non-OK status counts as an invalid key rather than an error.
func (c *Client) ValidateAPIKey(ctx context.Context, apiKey string) (bool, error) {
	const op = "outblog.validateApiKey"

	var body validateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, apiKey).
		SetResult(&body).
		ForceContentType("application/json").
		Post(validatePath)
	if err != nil {
		return false, requestError(op, resp, err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Warn().
			Int("status", resp.StatusCode()).
			Msg("Outblog rejected API key")
		return false, nil
	}

	return body.Valid, nil
}

// FetchPosts returns every post the key can see
func (c *Client) FetchPosts(ctx context.Context, apiKey string) ([]domain.SourcePost, error) {
	const op = "outblog.fetchPosts"

	var body postsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, apiKey).
		SetResult(&body).
		ForceContentType("application/json").
		Get(postsPath)
	if err != nil {
		return nil, requestError(op, resp, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, domain.StatusError(op, resp.StatusCode(), snippet(resp.Body()))
	}

	posts := make([]domain.SourcePost, 0, len(body.Data.Posts))
	for _, p := range body.Data.Posts {
		posts = append(posts, p.toDomain())
	}

	c.logger.Debug().Int("count", len(posts)).Msg("Fetched Outblog posts")
	return posts, nil
}

// requestError separates transport failures from bodies resty could not decode.
// A response that arrived carries its RawResponse.
func requestError(op string, resp *resty.Response, err error) error {
	if resp != nil && resp.RawResponse != nil {
		return domain.WrapError(domain.KindRemoteProtocolError, op, err)
	}
	return domain.TransportError(op, err)
}

func snippet(body []byte) string {
	if len(body) > 256 {
		body = body[:256]
	}
	return strings.TrimSpace(string(body))
}
