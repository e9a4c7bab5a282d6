package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFrontMatter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no front matter", "# Title\n\nBody", "# Title\n\nBody"},
		{"yaml block", "---\ntitle: Hi\n---\nBody", "Body"},
		{"crlf line endings", "---\r\ntitle: Hi\r\n---\r\nBody", "Body"},
		{"block that is not yaml", "---\n: : [broken\n---\nBody", "Body"},
		{"rule later in body is kept", "Intro\n---\nMore", "Intro\n---\nMore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFrontMatter(tt.content))
		})
	}
}
