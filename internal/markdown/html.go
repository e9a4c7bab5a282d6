// Package markdown turns Outblog post bodies into the HTML published on Shopify.
//
// The converter understands a small markdown subset with fixed rule order;
// it is not a CommonMark implementation.
package markdown

import (
	"regexp"
	"strings"
)

var (
	headingPatterns = []struct {
		pattern *regexp.Regexp
		tag     string
	}{
		{regexp.MustCompile(`(?m)^#### (.+)$`), "h4"},
		{regexp.MustCompile(`(?m)^### (.+)$`), "h3"},
		{regexp.MustCompile(`(?m)^## (.+)$`), "h2"},
		{regexp.MustCompile(`(?m)^# (.+)$`), "h1"},
	}

	boldPattern     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	listItemPattern = regexp.MustCompile(`(?m)^[*-] (.+)$`)
	italicPattern   = regexp.MustCompile(`\*(.+?)\*`)
	imagePattern    = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	linkPattern     = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	paragraphBreak  = regexp.MustCompile(`\n[ \t]*\n+`)
	rulePattern     = regexp.MustCompile(`(^|<p>|<br>)---(</p>|<br>|$)`)

	breakBeforeBlock = regexp.MustCompile(`<br>(<h[1-4]>|<ul>|<hr>)`)
	breakAfterBlock  = regexp.MustCompile(`(</h[1-4]>|</ul>|<hr>)<br>`)
	blockElement     = regexp.MustCompile(`<h[1-4]>.*?</h[1-4]>|<ul>.*?</ul>|<hr>`)
)

// ToHTML strips front-matter and converts the remaining markdown to HTML.
// The result is never empty: a blank body becomes a paragraph holding the title.
func ToHTML(content, title string) string {
	body := strings.TrimSpace(StripFrontMatter(content))
	if body == "" {
		if strings.TrimSpace(title) == "" {
			title = "Untitled"
		}
		return "<p>" + title + "</p>"
	}

	if !looksLikeMarkdown(body) {
		return wrapParagraph(body)
	}

	html := body
	for _, h := range headingPatterns {
		html = h.pattern.ReplaceAllString(html, "<"+h.tag+">${1}</"+h.tag+">")
	}
	html = boldPattern.ReplaceAllString(html, "<strong>${1}</strong>")

	// Bullets go before italics so a leading "* " is not read as emphasis.
	html = listItemPattern.ReplaceAllString(html, "<li>${1}</li>")
	html = groupListItems(html)

	html = italicPattern.ReplaceAllString(html, "<em>${1}</em>")
	html = imagePattern.ReplaceAllString(html, `<img src="${2}" alt="${1}">`)
	html = linkPattern.ReplaceAllString(html, `<a href="${2}">${1}</a>`)

	html = "<p>" + paragraphBreak.ReplaceAllString(html, "</p><p>") + "</p>"
	html = strings.ReplaceAll(html, "\n", "<br>")
	html = rulePattern.ReplaceAllString(html, "${1}<hr>${2}")
	html = unwrapBlocks(html)

	return wrapParagraph(html)
}

func looksLikeMarkdown(s string) bool {
	return strings.ContainsAny(s, "#*[")
}

func wrapParagraph(s string) string {
	if strings.HasPrefix(s, "<") {
		return s
	}
	return "<p>" + s + "</p>"
}

// groupListItems wraps each run of adjacent <li> lines in a single <ul>
func groupListItems(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	var items []string

	flush := func() {
		if len(items) > 0 {
			out = append(out, "<ul>"+strings.Join(items, "")+"</ul>")
			items = nil
		}
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "<li>") && strings.HasSuffix(line, "</li>") {
			items = append(items, line)
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()

	return strings.Join(out, "\n")
}

// unwrapBlocks lifts lists, headings and rules out of the paragraphs they landed in
func unwrapBlocks(s string) string {
	s = breakBeforeBlock.ReplaceAllString(s, "${1}")
	s = breakAfterBlock.ReplaceAllString(s, "${1}")
	s = blockElement.ReplaceAllString(s, "</p>${0}<p>")
	return strings.ReplaceAll(s, "<p></p>", "")
}
