// Package search maintains the site's search index: one SQLite database
// written during the build and queried by the preview server's search
// endpoint. The database ships next to the static output, so any
// deployment that wants server-side search can reuse it.
package search

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Document is one indexed page.
type Document struct {
	Path     string // content-relative source path
	URL      string // site URL of the rendered page
	Title    string
	Headings string // newline-joined heading texts
	Body     string // flattened page text
}

// Hit is a search result, shaped for the JSON search endpoint.
type Hit struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Index wraps the search database.
type Index struct {
	db *sql.DB
}

// Create opens (or creates) the index at path and resets its contents
// for a fresh build. Use ":memory:" for tests.
func Create(path string) (*Index, error) {
	ix, err := Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := ix.db.Exec(`DELETE FROM pages`); err != nil {
		_ = ix.db.Close()
		return nil, fmt.Errorf("reset search index: %w", err)
	}
	return ix, nil
}

// Open opens the index at path, creating the schema if needed.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		path     TEXT PRIMARY KEY,
		url      TEXT NOT NULL,
		title    TEXT NOT NULL,
		headings TEXT NOT NULL DEFAULT '',
		body     TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_pages_title ON pages(title);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize search schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the underlying database.
func (ix *Index) Close() error { return ix.db.Close() }

// Add upserts a document. Re-adding a path replaces its previous entry,
// which keeps incremental preview rebuilds idempotent.
func (ix *Index) Add(ctx context.Context, doc Document) error {
	_, err := ix.db.ExecContext(ctx, `
		INSERT INTO pages (path, url, title, headings, body)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			headings = excluded.headings,
			body = excluded.body`,
		doc.Path, doc.URL, doc.Title, doc.Headings, doc.Body,
	)
	if err != nil {
		return fmt.Errorf("index page %s: %w", doc.Path, err)
	}
	return nil
}

// Count returns the number of indexed pages.
func (ix *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count indexed pages: %w", err)
	}
	return n, nil
}

// Query returns up to limit pages matching q, title matches ranked ahead
// of heading matches ahead of body matches.
func (ix *Index) Query(ctx context.Context, q string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + q + "%"

	rows, err := ix.db.QueryContext(ctx, `
		SELECT url, title,
			CASE
				WHEN title LIKE ?1 THEN 0
				WHEN headings LIKE ?1 THEN 1
				ELSE 2
			END AS rank
		FROM pages
		WHERE title LIKE ?1 OR headings LIKE ?1 OR body LIKE ?1
		ORDER BY rank, title
		LIMIT ?2`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query search index: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hits []Hit
	for rows.Next() {
		var hit Hit
		var rank int
		if err := rows.Scan(&hit.URL, &hit.Title, &rank); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search hits: %w", err)
	}
	return hits, nil
}
