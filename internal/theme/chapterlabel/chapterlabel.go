// Package chapterlabel implements the ChapterLabel component: a small
// badge content pages use to mark which tutorial chapter a section
// belongs to.
package chapterlabel

import (
	"fmt"
	"html"
	"io"

	"github.com/docsmith/docsmith/internal/component"
)

// Name is the fixed identifier content pages use to reference the badge.
const Name = "ChapterLabel"

// Label renders a chapter badge. Attributes:
//
//	text    free-form badge text, e.g. "Chapter 3"
//	chapter numeric shorthand; "3" renders as "Chapter 3" when text is unset
//
// With no attributes the badge renders empty, which is valid markup and
// not an error.
type Label struct{}

// New returns the ChapterLabel component.
func New() component.Component { return Label{} }

func (Label) Name() string { return Name }

func (Label) Render(w io.Writer, attrs component.Attrs) error {
	text := attrs.Get("text", "")
	if text == "" {
		if ch := attrs.Get("chapter", ""); ch != "" {
			text = "Chapter " + ch
		}
	}
	_, err := fmt.Fprintf(w, `<span class="chapter-label">%s</span>`, html.EscapeString(text))
	return err
}
