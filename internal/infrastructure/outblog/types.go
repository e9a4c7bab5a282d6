package outblog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"outblog-shopify-app/internal/domain"
)

type validateResponse struct {
	Valid bool `json:"valid"`
}

type postsResponse struct {
	Data struct {
		Posts []postDTO `json:"posts"`
	} `json:"data"`
}

type postDTO struct {
	ID            flexString `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	FeaturedImage flexString `json:"featured_image"`
	BlogMetaData  struct {
		MetaDescription string   `json:"meta_description"`
		Categories      nameList `json:"categories"`
		Tags            nameList `json:"tags"`
	} `json:"blog_meta_data"`
}

func (p postDTO) toDomain() domain.SourcePost {
	return domain.SourcePost{
		ExternalID:      string(p.ID),
		Slug:            p.Slug,
		Title:           p.Title,
		Content:         p.Content,
		MetaDescription: p.BlogMetaData.MetaDescription,
		FeaturedImage:   string(p.FeaturedImage),
		Categories:      []string(p.BlogMetaData.Categories),
		Tags:            []string(p.BlogMetaData.Tags),
	}
}

// flexString accepts a JSON string, number or null
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// nameList accepts ["a", "b"] as well as [{"name": "a"}, {"name": "b"}]
type nameList []string

func (l *nameList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var named struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &named); err != nil {
			return fmt.Errorf("unexpected list item %s", item)
		}
		out = append(out, named.Name)
	}
	*l = out
	return nil
}
