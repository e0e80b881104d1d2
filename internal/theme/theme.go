// Package theme provides the presentation layer of the site generator:
// base themes (layout template, static assets, capability flags), a named
// theme registry, and theme configurations that can extend a base theme
// with a bootstrap hook run once at site startup.
package theme

import (
	"html/template"
	"io/fs"
	"sync"

	"github.com/docsmith/docsmith/internal/component"
)

// Features describes the optional behaviors a base theme provides.
type Features struct {
	Search      bool // theme ships a search box wired to the search endpoint
	DarkMode    bool // theme ships a color-scheme toggle
	LastUpdated bool // theme renders a per-page last-updated footer
}

// Theme is a base theme: the page shell, its static assets, and its
// capability flags. Base themes are self-contained; derived themes extend
// them through Config without copying any of this behavior.
type Theme interface {
	Name() string
	Layout() *template.Template
	Assets() fs.FS
	Features() Features
}

// App is the surface a theme bootstrap hook gets from the running site
// application. It is the minimal handle a hook needs; the concrete
// application type lives in the site package.
type App interface {
	// Components returns the application's component registry.
	Components() *component.Registry
}

var (
	regMu sync.RWMutex
	reg   = map[string]Theme{}
)

// Register adds a base theme to the registry. Registration is idempotent:
// a name that is already taken keeps its first registration.
func Register(t Theme) {
	if t == nil {
		return
	}
	regMu.Lock()
	defer regMu.Unlock()
	if _, ok := reg[t.Name()]; !ok {
		reg[t.Name()] = t
	}
}

// Get retrieves a base theme by name, or nil when unknown.
func Get(name string) Theme {
	regMu.RLock()
	defer regMu.RUnlock()
	return reg[name]
}

// Names returns the registered base theme names.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(reg))
	for name := range reg {
		names = append(names, name)
	}
	return names
}
