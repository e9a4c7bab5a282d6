package markdown

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Summary returns the plain text of the first paragraph of html, cut to at
// most maxRunes runes on a word boundary.
func Summary(html string, maxRunes int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	text := doc.Find("p").First().Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return text
	}

	cut := string(runes[:maxRunes])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
