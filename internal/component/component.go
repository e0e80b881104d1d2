// Package component provides the named component registry used by themes.
// Themes register components during site bootstrap; content pages reference
// them by name and the markdown renderer resolves them at render time.
package component

import (
	"io"
	"regexp"
)

// Attrs carries the presentational inputs of a component usage.
// All values arrive as strings; components parse what they need.
type Attrs map[string]string

// Get returns the attribute value, or def when the attribute is absent.
func (a Attrs) Get(key, def string) string {
	if v, ok := a[key]; ok {
		return v
	}
	return def
}

// Component is a named unit of presentational markup that content pages
// can reference. Render must be synchronous and side-effect free: it is
// invoked during static site generation and may run for many pages.
type Component interface {
	// Name returns the fixed identifier content pages use to reference
	// the component, e.g. "ChapterLabel".
	Name() string

	// Render writes the component's markup for the given attributes.
	Render(w io.Writer, attrs Attrs) error
}

// nameRe constrains component names to tag-like identifiers starting with
// an upper-case letter, which is how the markdown pipeline distinguishes
// component tags from plain inline HTML.
var nameRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// ValidName reports whether name is usable as a component identifier.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}
