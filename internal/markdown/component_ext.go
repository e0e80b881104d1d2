package markdown

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/docsmith/docsmith/internal/component"
)

// ComponentResolver is the surface the renderer needs from the component
// registry. *component.Registry satisfies it.
type ComponentResolver interface {
	Resolve(name string) (component.Component, error)
}

// ComponentTags returns a Goldmark extension that recognizes component
// tags in content and renders them through resolver.
//
// A component tag looks like inline HTML with an upper-case tag name:
//
//	<ChapterLabel text="Chapter 1" />
//	<ChapterLabel></ChapterLabel>
//
// Lower-case tags are left to Goldmark's raw HTML handling.
func ComponentTags(resolver ComponentResolver) goldmark.Extender {
	return &componentExtension{resolver: resolver}
}

type componentExtension struct {
	resolver ComponentResolver
}

func (e *componentExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		// Ahead of Goldmark's raw HTML inline parser (priority 400).
		parser.WithInlineParsers(util.Prioritized(&tagParser{}, 150)),
		parser.WithASTTransformers(util.Prioritized(&tagTransformer{}, 500)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&tagRenderer{resolver: e.resolver}, 100)),
	)
}

// KindComponentTag identifies component tag nodes in the Goldmark AST.
var KindComponentTag = gmast.NewNodeKind("ComponentTag")

// TagNode is the AST node for a component usage in a content page.
type TagNode struct {
	gmast.BaseInline

	TagName  string
	TagAttrs component.Attrs
}

func (n *TagNode) Kind() gmast.NodeKind { return KindComponentTag }

func (n *TagNode) Dump(source []byte, level int) {
	attrs := map[string]string{"TagName": n.TagName}
	gmast.DumpHelper(n, source, level, attrs, nil)
}

var (
	tagRe  = regexp.MustCompile(`^<([A-Z][A-Za-z0-9]*)((?:\s+[a-zA-Z][\w-]*(?:="[^"]*")?)*)\s*(?:/>|></([A-Z][A-Za-z0-9]*)>)`)
	attrRe = regexp.MustCompile(`([a-zA-Z][\w-]*)(?:="([^"]*)")?`)
)

// matchTag matches a component tag at the start of input. Returns the
// consumed length and the parsed node, or (0, nil) when input is not a
// component tag.
func matchTag(input []byte) (int, *TagNode) {
	m := tagRe.FindSubmatch(input)
	if m == nil {
		return 0, nil
	}
	// Paired form must close what it opened.
	if len(m[3]) > 0 && string(m[3]) != string(m[1]) {
		return 0, nil
	}
	return len(m[0]), &TagNode{
		TagName:  string(m[1]),
		TagAttrs: parseAttrs(string(m[2])),
	}
}

func parseAttrs(raw string) component.Attrs {
	attrs := component.Attrs{}
	for _, m := range attrRe.FindAllStringSubmatch(raw, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

// tagParser handles component tags appearing inline within a paragraph.
type tagParser struct{}

func (p *tagParser) Trigger() []byte { return []byte{'<'} }

func (p *tagParser) Parse(parent gmast.Node, block text.Reader, pc parser.Context) gmast.Node {
	line, _ := block.PeekLine()
	n, node := matchTag(line)
	if node == nil {
		return nil
	}
	block.Advance(n)
	return node
}

// tagTransformer rewrites HTML blocks that start with a component tag.
// A tag alone on its own line opens a CommonMark HTML block before
// inline parsing runs, so it would otherwise bypass the inline parser
// and pass through as raw HTML; the block also swallows any non-blank
// lines directly under the tag. The transformer lifts the tag into a
// node and keeps the remaining lines as text.
type tagTransformer struct{}

func (t *tagTransformer) Transform(doc *gmast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	var blocks []*gmast.HTMLBlock
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if hb, ok := n.(*gmast.HTMLBlock); ok {
			blocks = append(blocks, hb)
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})

	for _, hb := range blocks {
		lines := hb.Lines()
		if lines.Len() == 0 {
			continue
		}
		first := lines.At(0)
		line := first.Value(source)
		indent := len(line) - len(bytes.TrimLeft(line, " \t"))

		n, node := matchTag(bytes.TrimLeft(line, " \t"))
		if node == nil {
			continue
		}

		para := gmast.NewParagraph()
		para.AppendChild(para, node)

		// Lines swallowed into the block after the tag stay as text.
		rest := first.WithStart(first.Start + indent + n)
		segs := []text.Segment{rest.TrimRightSpace(source)}
		for i := 1; i < lines.Len(); i++ {
			li := lines.At(i)
			segs = append(segs, li.TrimRightSpace(source))
		}
		for _, seg := range segs {
			if seg.Len() == 0 {
				continue
			}
			val := seg.Value(source)
			lead := len(val) - len(bytes.TrimLeft(val, " \t"))
			if ln, lnode := matchTag(val[lead:]); lnode != nil && lead+ln == len(val) {
				para.AppendChild(para, lnode)
				continue
			}
			txt := gmast.NewTextSegment(seg)
			txt.SetSoftLineBreak(true)
			para.AppendChild(para, txt)
		}
		if last, ok := para.LastChild().(*gmast.Text); ok {
			last.SetSoftLineBreak(false)
		}

		parent := hb.Parent()
		parent.ReplaceChild(parent, hb, para)
	}
}

// tagRenderer renders component tag nodes by resolving the component and
// delegating markup generation to it. An unresolvable name aborts the
// page render with an error naming the component.
type tagRenderer struct {
	resolver ComponentResolver
}

func (r *tagRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindComponentTag, r.render)
}

func (r *tagRenderer) render(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*TagNode)

	c, err := r.resolver.Resolve(n.TagName)
	if err != nil {
		return gmast.WalkStop, fmt.Errorf("component tag <%s>: %w", n.TagName, err)
	}
	if err := c.Render(w, n.TagAttrs); err != nil {
		return gmast.WalkStop, fmt.Errorf("render component %q: %w", n.TagName, err)
	}
	return gmast.WalkContinue, nil
}
