package build

import (
	"sort"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/theme"
)

// navItems converts the configured menu into theme nav entries, ordered
// by weight then name.
func navItems(cfg *config.Config) []theme.NavItem {
	menu := make([]config.MenuItem, len(cfg.Nav))
	copy(menu, cfg.Nav)
	sort.SliceStable(menu, func(i, j int) bool {
		if menu[i].Weight != menu[j].Weight {
			return menu[i].Weight < menu[j].Weight
		}
		return menu[i].Name < menu[j].Name
	})

	items := make([]theme.NavItem, 0, len(menu))
	for _, m := range menu {
		items = append(items, theme.NavItem{Name: m.Name, URL: m.URL})
	}
	return items
}

// sidebar builds the sidebar tree for one rendered page. Pages arrive in
// display order from Discover; active marks the page being rendered.
func sidebar(pages []Page, basePath string, active string) []theme.SidebarEntry {
	entries := make([]theme.SidebarEntry, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, theme.SidebarEntry{
			Title:   p.Title,
			URL:     basePath + p.Route,
			Chapter: p.Meta.Chapter,
			Active:  p.Route == active,
		})
	}
	return entries
}
