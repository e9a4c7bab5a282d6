package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticleHandle(t *testing.T) {
	tests := []struct {
		name  string
		slug  string
		title string
		want  string
	}{
		{name: "title is sanitized", title: "Hello World!", want: "hello-world"},
		{name: "slug wins over title", slug: "my-post", title: "Hello World!", want: "my-post"},
		{name: "synced slug is sanitized", slug: "hello-world!", title: "Hello World!", want: "hello-world"},
		{name: "slug without usable characters falls back to title", slug: "???", title: "Hello World!", want: "hello-world"},
		{name: "punctuation runs collapse", title: "  Go -- 1.24: What's new?  ", want: "go-1-24-what-s-new"},
		{name: "nothing usable", title: "!!!", want: "untitled"},
		{name: "empty", want: "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ArticleHandle(tt.slug, tt.title))
		})
	}
}

func TestSyncSlug(t *testing.T) {
	tests := []struct {
		name  string
		slug  string
		title string
		want  string
	}{
		// Only whitespace is replaced when syncing; punctuation survives.
		{name: "title keeps punctuation", title: "Hello World!", want: "hello-world!"},
		{name: "source slug wins", slug: "from-source", title: "Hello World!", want: "from-source"},
		{name: "whitespace runs", title: "A  Tab\tand\nnewline", want: "a-tab-and-newline"},
		{name: "empty", want: "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SyncSlug(tt.slug, tt.title))
		})
	}
}

func TestSlugRulesDiffer(t *testing.T) {
	assert.NotEqual(t, SyncSlug("", "Hello World!"), ArticleHandle("", "Hello World!"))
}
