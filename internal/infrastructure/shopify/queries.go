package shopify

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// operation is a parsed Admin API document; name labels logs and errors
type operation struct {
	name     string
	kind     ast.Operation
	document string
}

func mustParseOperation(document string) operation {
	doc, err := parser.ParseQuery(&ast.Source{Name: "shopify", Input: document})
	if err != nil {
		panic(fmt.Sprintf("invalid shopify operation: %v", err))
	}
	if len(doc.Operations) != 1 || doc.Operations[0].Name == "" {
		panic("shopify operation documents must hold exactly one named operation")
	}
	return operation{
		name:     doc.Operations[0].Name,
		kind:     doc.Operations[0].Operation,
		document: document,
	}
}

var (
	listBlogsOp = mustParseOperation(`
query OutblogListBlogs {
  blogs(first: 250) {
    edges {
      node { id handle title }
    }
  }
}`)

	createBlogOp = mustParseOperation(`
mutation OutblogCreateBlog($blog: BlogCreateInput!) {
  blogCreate(blog: $blog) {
    blog { id handle title }
    userErrors { field message }
  }
}`)

	createArticleOp = mustParseOperation(`
mutation OutblogCreateArticle($article: ArticleCreateInput!) {
  articleCreate(article: $article) {
    article { id handle title isPublished }
    userErrors { field message }
  }
}`)

	articleNodesOp = mustParseOperation(`
query OutblogArticleNodes($ids: [ID!]!) {
  nodes(ids: $ids) {
    __typename
    ... on Article { id }
  }
}`)
)

type blogNode struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Title  string `json:"title"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type listBlogsResponse struct {
	Blogs struct {
		Edges []struct {
			Node blogNode `json:"node"`
		} `json:"edges"`
	} `json:"blogs"`
}

type createBlogResponse struct {
	BlogCreate *struct {
		Blog       *blogNode   `json:"blog"`
		UserErrors []userError `json:"userErrors"`
	} `json:"blogCreate"`
}

type createArticleResponse struct {
	ArticleCreate *struct {
		Article *struct {
			ID          string `json:"id"`
			Handle      string `json:"handle"`
			Title       string `json:"title"`
			IsPublished bool   `json:"isPublished"`
		} `json:"article"`
		UserErrors []userError `json:"userErrors"`
	} `json:"articleCreate"`
}

type articleNodesResponse struct {
	Nodes []*struct {
		Typename string `json:"__typename"`
		ID       string `json:"id"`
	} `json:"nodes"`
}
