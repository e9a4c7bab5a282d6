package markdown

import (
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

var (
	yamlFrontMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

	// Matches a delimited block whose body is not valid YAML.
	frontMatterBlock = regexp.MustCompile(`\A---[ \t]*\n(?s:.*?)\n---[ \t]*(?:\n|\z)`)
)

// StripFrontMatter removes a leading block delimited by "---" lines.
// Content without such a block is returned unchanged apart from line endings.
func StripFrontMatter(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	trimmed := strings.TrimLeft(content, " \t\n")
	if !strings.HasPrefix(trimmed, "---") {
		return content
	}

	var meta map[string]interface{}
	rest, err := frontmatter.Parse(strings.NewReader(trimmed), &meta, yamlFrontMatter)
	if err == nil && len(rest) < len(trimmed) {
		return strings.TrimLeft(string(rest), "\n")
	}

	if loc := frontMatterBlock.FindStringIndex(trimmed); loc != nil {
		return strings.TrimLeft(trimmed[loc[1]:], "\n")
	}
	return content
}
