// Package build renders a bootstrapped site application into a static
// output tree: discovered pages through the markdown pipeline and theme
// layout, theme assets, and the search index.
package build

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docsmith/docsmith/internal/gitmeta"
	"github.com/docsmith/docsmith/internal/markdown"
	"github.com/docsmith/docsmith/internal/metrics"
	"github.com/docsmith/docsmith/internal/search"
	"github.com/docsmith/docsmith/internal/site"
	"github.com/docsmith/docsmith/internal/theme"
)

// SearchDBName is the search index file written into the output dir.
const SearchDBName = "search.db"

// Result summarizes a completed build.
type Result struct {
	BuildID   string
	Pages     int
	OutputDir string
	Duration  time.Duration
}

// Builder renders a site application into its output directory.
type Builder struct {
	app *site.App
	rec metrics.Recorder
}

// New creates a Builder. A nil recorder disables metrics.
func New(app *site.App, rec metrics.Recorder) *Builder {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Builder{app: app, rec: rec}
}

// Run executes a full build. The application must be bootstrapped; the
// component registry is consulted at page render time, so every component
// the theme registered is available to every page.
func (b *Builder) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	buildID := uuid.NewString()
	cfg := b.app.Config()
	log := slog.With(slog.String("build.id", buildID))

	if b.app.Theme() == nil {
		return Result{}, fmt.Errorf("build: application not bootstrapped")
	}

	res, err := b.run(ctx, buildID, log)
	res.BuildID = buildID
	res.OutputDir = cfg.OutputDir
	res.Duration = time.Since(start)

	b.rec.ObserveBuildDuration(res.Duration)
	switch {
	case err == nil:
		b.rec.IncBuildOutcome(metrics.OutcomeSuccess)
		b.rec.SetPagesBuilt(res.Pages)
		log.Info("build complete",
			slog.Int("pages", res.Pages),
			slog.Duration("duration", res.Duration))
	case ctx.Err() != nil:
		b.rec.IncBuildOutcome(metrics.OutcomeCanceled)
	default:
		b.rec.IncBuildOutcome(metrics.OutcomeFailed)
	}
	return res, err
}

func (b *Builder) run(ctx context.Context, buildID string, log *slog.Logger) (Result, error) {
	cfg := b.app.Config()
	var res Result

	pages, err := b.stagePages(log)
	if err != nil {
		return res, err
	}

	if err := b.stage("prepare", func() error { return prepareOutput(cfg.OutputDir) }); err != nil {
		return res, err
	}

	if err := b.stage("render", func() error { return b.renderPages(ctx, pages, log) }); err != nil {
		return res, err
	}
	res.Pages = len(pages)

	if err := b.stage("assets", func() error { return copyAssets(b.app.Theme().Assets(), cfg.OutputDir) }); err != nil {
		return res, err
	}

	if !cfg.DisableSearch {
		if err := b.stage("search", func() error { return b.writeSearchIndex(ctx, pages) }); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (b *Builder) stagePages(log *slog.Logger) ([]Page, error) {
	var pages []Page
	err := b.stage("discover", func() error {
		var err error
		pages, err = Discover(b.app.Config().ContentDir)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug("content discovered", slog.Int("pages", len(pages)))
	return pages, nil
}

func (b *Builder) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	b.rec.ObserveStageDuration(name, time.Since(start))
	if err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	return nil
}

func (b *Builder) renderPages(ctx context.Context, pages []Page, log *slog.Logger) error {
	cfg := b.app.Config()
	base := b.app.Theme()
	features := base.Features()
	basePath := cfg.BasePath()
	renderer := markdown.NewRenderer(b.app.Components())
	nav := navItems(cfg)

	gitSrc := openGitSource(cfg.ContentDir, features.LastUpdated, log)

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.renderPage(renderer, base, page, pages, nav, basePath, gitSrc); err != nil {
			return fmt.Errorf("page %s: %w", page.RelPath, err)
		}
	}
	return nil
}

func (b *Builder) renderPage(renderer *markdown.Renderer, base theme.Theme, page Page, all []Page, nav []theme.NavItem, basePath string, gitSrc *gitmeta.Source) error {
	cfg := b.app.Config()

	fragment, err := renderer.Render(page.Body)
	if err != nil {
		return err
	}

	data := theme.PageData{
		SiteTitle:     cfg.Title,
		BaseURL:       basePath,
		Title:         page.Title,
		Description:   page.Meta.Description,
		Content:       template.HTML(fragment),
		Nav:           nav,
		Sidebar:       sidebar(all, basePath, page.Route),
		SearchEnabled: base.Features().Search && !cfg.DisableSearch,
		DarkMode:      base.Features().DarkMode,
	}
	if gitSrc != nil {
		switch info, ok, err := gitSrc.LastUpdated(page.SourcePath); {
		case err != nil:
			slog.Debug("git history unavailable for page",
				slog.String("page", page.RelPath),
				slog.String("error", err.Error()))
		case ok:
			data.LastUpdated = fmt.Sprintf("%s (%s)", info.Time.Format("2006-01-02"), info.Hash)
		}
	}

	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(page.Route), "index.html")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := base.Layout().Execute(f, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("execute layout: %w", err)
	}
	return f.Close()
}

func (b *Builder) writeSearchIndex(ctx context.Context, pages []Page) error {
	cfg := b.app.Config()
	ix, err := search.Create(filepath.Join(cfg.OutputDir, SearchDBName))
	if err != nil {
		return err
	}
	defer func() { _ = ix.Close() }()

	basePath := cfg.BasePath()
	for _, page := range pages {
		doc := search.Document{
			Path:     page.RelPath,
			URL:      basePath + page.Route,
			Title:    page.Title,
			Headings: strings.Join(markdown.ExtractHeadings(page.Body), "\n"),
			Body:     markdown.PlainText(page.Body),
		}
		if err := ix.Add(ctx, doc); err != nil {
			return err
		}
	}
	return ix.Close()
}

// openGitSource opens git metadata for the content tree. Failure to open
// is not a build failure; the footer is simply omitted.
func openGitSource(contentDir string, enabled bool, log *slog.Logger) *gitmeta.Source {
	if !enabled {
		return nil
	}
	src, ok, err := gitmeta.Open(contentDir)
	if err != nil {
		log.Warn("git metadata unavailable", slog.String("error", err.Error()))
		return nil
	}
	if !ok {
		log.Debug("content dir not in a git repository; skipping last-updated footers")
		return nil
	}
	return src
}

// prepareOutput creates the output dir and clears a previous build's
// content. The dir itself survives so a serving process keeps a valid
// working directory.
func prepareOutput(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return fmt.Errorf("read output dir: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(outputDir, e.Name())); err != nil {
			return fmt.Errorf("clean output dir: %w", err)
		}
	}
	return nil
}

func copyAssets(assets fs.FS, outputDir string) error {
	return fs.WalkDir(assets, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(outputDir, "assets", filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		data, err := fs.ReadFile(assets, path)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", path, err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("write asset %s: %w", path, err)
		}
		return nil
	})
}
