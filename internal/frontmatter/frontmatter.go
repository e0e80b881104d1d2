// Package frontmatter splits YAML frontmatter from Markdown page bodies
// and decodes the fields the site generator understands.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates a document that opens a frontmatter
// block without ever closing it.
var ErrMissingClosingDelimiter = errors.New("frontmatter: missing closing delimiter")

// Meta holds the page-level fields content authors may set.
type Meta struct {
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	Chapter     int    `yaml:"chapter,omitempty"`
	Weight      int    `yaml:"weight,omitempty"`
	Slug        string `yaml:"slug,omitempty"`
	Draft       bool   `yaml:"draft,omitempty"`
}

// Split separates a `---` delimited YAML frontmatter block from the
// Markdown body. If the document does not start with a delimiter, had is
// false and body is the full input.
func Split(content []byte) (raw []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	// Empty frontmatter: the closing delimiter immediately follows.
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// Closing delimiter at end of file without a trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content[start:], tail) {
			return content[start : len(content)-len(tail)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx
	bodyStart := start + idx + len(closeSeq)
	return content[start:end], content[bodyStart:], true, nil
}

// Parse splits content and decodes the frontmatter into Meta.
// Documents without frontmatter decode to the zero Meta.
func Parse(content []byte) (Meta, []byte, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Meta{}, nil, err
	}
	if !had || len(raw) == 0 {
		return Meta{}, body, nil
	}

	var meta Meta
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return Meta{}, nil, fmt.Errorf("decode frontmatter: %w", err)
	}
	return meta, body, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
