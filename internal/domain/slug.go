package domain

import (
	"regexp"
	"strings"
)

const (
	// OutblogBlogHandle is the handle of the blog container all articles are published under
	OutblogBlogHandle = "outblog"
	// OutblogBlogTitle is the title given to the container when it is created
	OutblogBlogTitle = "Outblog"

	untitled = "untitled"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonAlnumRun   = regexp.MustCompile(`[^a-z0-9]+`)
)

// SyncSlug derives the local storage key of a synced post: the source slug,
// else the lower-cased title with whitespace runs replaced by hyphens.
// Punctuation is kept as-is.
func SyncSlug(slug, title string) string {
	if s := strings.TrimSpace(slug); s != "" {
		return s
	}
	if t := strings.TrimSpace(title); t != "" {
		return whitespaceRun.ReplaceAllString(strings.ToLower(t), "-")
	}
	return untitled
}

// ArticleHandle derives the Shopify article handle from the slug, else the
// title, lower-cased with every non-alphanumeric run collapsed to one hyphen.
func ArticleHandle(slug, title string) string {
	if handle := sanitizeHandle(slug); handle != "" {
		return handle
	}
	if handle := sanitizeHandle(title); handle != "" {
		return handle
	}
	return untitled
}

func sanitizeHandle(s string) string {
	handle := nonAlnumRun.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(handle, "-")
}
