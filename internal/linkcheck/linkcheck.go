// Package linkcheck verifies the rendered output tree: every internal
// link and asset reference must resolve to a file in the output
// directory. External links are counted but never fetched; builds stay
// offline.
package linkcheck

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Issue is one broken internal reference.
type Issue struct {
	File string // output-relative HTML file containing the reference
	Ref  string // the href/src value as written
}

// Report summarizes a check over an output tree.
type Report struct {
	FilesChecked int
	Internal     int
	External     int
	Issues       []Issue
}

// Ok reports whether the tree has no broken internal references.
func (r Report) Ok() bool { return len(r.Issues) == 0 }

// linkAttrs maps HTML elements to the attribute that carries a
// reference.
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"source": "src",
}

// CheckDir scans every HTML file under outputDir. basePath is the site's
// URL path prefix ("/" or "/book/"); absolute internal references are
// resolved against it.
func CheckDir(outputDir, basePath string) (Report, error) {
	var report Report

	err := filepath.WalkDir(outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}

		rel, err := filepath.Rel(outputDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("open %s: %w", rel, err)
		}
		refs, err := extractRefs(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("parse %s: %w", rel, err)
		}

		report.FilesChecked++
		for _, ref := range refs {
			checkRef(&report, outputDir, basePath, rel, ref)
		}
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("check output tree: %w", err)
	}
	return report, nil
}

// extractRefs parses HTML and returns every reference-carrying attribute
// value in document order.
func extractRefs(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var refs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				for _, a := range n.Attr {
					if a.Key == attr && a.Val != "" {
						refs = append(refs, a.Val)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs, nil
}

func checkRef(report *Report, outputDir, basePath, file, ref string) {
	switch {
	case strings.Contains(ref, "://"), strings.HasPrefix(ref, "//"):
		report.External++
		return
	case strings.HasPrefix(ref, "mailto:"), strings.HasPrefix(ref, "tel:"),
		strings.HasPrefix(ref, "data:"), strings.HasPrefix(ref, "#"):
		return
	}

	report.Internal++

	target := ref
	if i := strings.IndexAny(target, "#?"); i >= 0 {
		target = target[:i]
	}
	if target == "" {
		return
	}

	if strings.HasPrefix(target, "/") {
		target = strings.TrimPrefix(target, strings.TrimSuffix(basePath, "/"))
		target = strings.TrimPrefix(target, "/")
	} else {
		target = path.Join(path.Dir(file), target)
	}

	if !targetExists(outputDir, target) {
		report.Issues = append(report.Issues, Issue{File: file, Ref: ref})
	}
}

// targetExists resolves a cleaned output-relative target. Directory
// routes resolve through their index.html.
func targetExists(outputDir, target string) bool {
	target = path.Clean("/" + target)[1:] // normalize, forbid escape
	if target == "" {
		target = "index.html"
	}

	full := filepath.Join(outputDir, filepath.FromSlash(target))
	st, err := os.Stat(full)
	if err == nil && !st.IsDir() {
		return true
	}
	if err == nil && st.IsDir() {
		_, err = os.Stat(filepath.Join(full, "index.html"))
		return err == nil
	}
	return false
}
