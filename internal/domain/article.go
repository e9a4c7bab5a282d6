package domain

// Blog is a Shopify blog container
type Blog struct {
	ID     string
	Handle string
	Title  string
}

// ArticleImage is the optional featured image of an article
type ArticleImage struct {
	URL     string
	AltText string
}

// ArticleInput is everything needed to create a Shopify article
type ArticleInput struct {
	BlogID      string
	Title       string
	Handle      string
	BodyHTML    string
	Summary     string
	Author      string
	Tags        []string
	Image       *ArticleImage
	IsPublished bool
}

// Article is a created Shopify article
type Article struct {
	ID          string
	Handle      string
	Title       string
	IsPublished bool
}
