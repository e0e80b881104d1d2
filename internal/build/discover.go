package build

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docsmith/docsmith/internal/frontmatter"
	"github.com/docsmith/docsmith/internal/markdown"
	"github.com/docsmith/docsmith/internal/slug"
)

// Page is a discovered content page, parsed but not yet rendered.
type Page struct {
	SourcePath string // absolute path of the markdown file
	RelPath    string // path relative to the content dir, slash-separated
	Route      string // site route, "" for the root page, else "accounts/" etc.
	Title      string
	Meta       frontmatter.Meta
	Body       []byte
}

// Discover walks the content directory and parses every markdown page.
// Draft pages and dot/underscore-prefixed directories are skipped. Pages
// come back sorted by (chapter, weight, title), which is the sidebar
// order.
func Discover(contentDir string) ([]Page, error) {
	root, err := filepath.Abs(contentDir)
	if err != nil {
		return nil, fmt.Errorf("resolve content dir: %w", err)
	}
	if st, err := os.Stat(root); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("content dir not found or not a directory: %s", contentDir)
	}

	var pages []Page
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		page, err := loadPage(path, rel)
		if err != nil {
			return fmt.Errorf("page %s: %w", rel, err)
		}
		if page.Meta.Draft {
			return nil
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover content: %w", err)
	}

	sort.SliceStable(pages, func(i, j int) bool {
		a, b := pages[i], pages[j]
		if a.Meta.Chapter != b.Meta.Chapter {
			return a.Meta.Chapter < b.Meta.Chapter
		}
		if a.Meta.Weight != b.Meta.Weight {
			return a.Meta.Weight < b.Meta.Weight
		}
		return a.Title < b.Title
	})
	return pages, nil
}

func loadPage(path, rel string) (Page, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Page{}, fmt.Errorf("read: %w", err)
	}

	meta, body, err := frontmatter.Parse(content)
	if err != nil {
		return Page{}, err
	}

	title := meta.Title
	if title == "" {
		if headings := markdown.ExtractHeadings(body); len(headings) > 0 {
			title = headings[0]
		}
	}
	if title == "" {
		title = humanize(stem(rel))
	}

	return Page{
		SourcePath: path,
		RelPath:    rel,
		Route:      route(rel, meta.Slug),
		Title:      title,
		Meta:       meta,
		Body:       body,
	}, nil
}

// route derives the site route of a page from its relative path. Index
// pages (index.md, README.md) map to their directory; everything else
// gets its own directory for clean URLs.
func route(rel, slugOverride string) string {
	dir := ""
	if d := filepath.ToSlash(filepath.Dir(rel)); d != "." {
		parts := strings.Split(d, "/")
		for i, p := range parts {
			parts[i] = slug.Make(p)
		}
		dir = strings.Join(parts, "/") + "/"
	}

	s := stem(rel)
	if slugOverride != "" {
		return dir + slug.Make(slugOverride) + "/"
	}
	if strings.EqualFold(s, "index") || s == "README" {
		return dir
	}
	return dir + slug.Make(s) + "/"
}

func stem(rel string) string {
	base := filepath.Base(rel)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func humanize(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.TrimSpace(s)
}
