package theme

import (
	"embed"
	"html/template"
	"io/fs"
)

// DefaultName is the name of the built-in base theme.
const DefaultName = "default"

//go:embed assets/default templates/default
var defaultFS embed.FS

var defaultLayout = template.Must(
	template.ParseFS(defaultFS, "templates/default/layout.html.tmpl"),
)

// PageData is the input of a base theme's layout template.
type PageData struct {
	SiteTitle   string
	BaseURL     string
	Title       string
	Description string
	Content     template.HTML
	Nav         []NavItem
	Sidebar     []SidebarEntry
	LastUpdated string

	SearchEnabled bool
	DarkMode      bool
}

// NavItem is a top navigation menu entry.
type NavItem struct {
	Name string
	URL  string
}

// SidebarEntry is a page link in the sidebar tree.
type SidebarEntry struct {
	Title   string
	URL     string
	Chapter int
	Active  bool
}

// defaultTheme is the built-in base theme: layout shell with top
// navigation, sidebar, client-side search, and a dark-mode toggle.
type defaultTheme struct{}

func (defaultTheme) Name() string { return DefaultName }

func (defaultTheme) Layout() *template.Template { return defaultLayout }

func (defaultTheme) Assets() fs.FS {
	sub, err := fs.Sub(defaultFS, "assets/default")
	if err != nil {
		// The embedded tree is fixed at compile time.
		panic(err)
	}
	return sub
}

func (defaultTheme) Features() Features {
	return Features{Search: true, DarkMode: true, LastUpdated: true}
}

func init() {
	Register(defaultTheme{})
}
