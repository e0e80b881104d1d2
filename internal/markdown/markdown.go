// Package markdown renders content pages to HTML. Rendering is built on
// Goldmark with GFM tables, slug-based heading anchors, and an extension
// that resolves inline component tags through the site's component
// registry at render time.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/docsmith/docsmith/internal/slug"
)

// Renderer converts Markdown page bodies (frontmatter already removed)
// into HTML fragments. A Renderer is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer constructs a Renderer whose component tags resolve through
// the given resolver. Raw HTML passes through unescaped: content files are
// author-owned input, and tutorial pages embed diagrams as inline markup.
func NewRenderer(resolver ComponentResolver) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, ComponentTags(resolver)),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(ghtml.WithUnsafe()),
	)
	return &Renderer{md: md}
}

// Render converts a Markdown body to an HTML fragment.
// Heading IDs are assigned per document, so concurrent renders do not
// share anchor deduplication state.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(newSlugIDs()))
	if err := r.md.Convert(body, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// slugIDs assigns heading anchors via the slug package so author-written
// in-page links match the generated IDs.
type slugIDs struct {
	used map[string]bool
}

func newSlugIDs() *slugIDs {
	return &slugIDs{used: make(map[string]bool)}
}

func (s *slugIDs) Generate(value []byte, kind gmast.NodeKind) []byte {
	anchor := slug.Anchor(string(value))
	if anchor == "" {
		anchor = "section"
	}
	candidate := anchor
	for i := 1; s.used[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%d", anchor, i)
	}
	s.used[candidate] = true
	return []byte(candidate)
}

func (s *slugIDs) Put(value []byte) {
	s.used[string(value)] = true
}
