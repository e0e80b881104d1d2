package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/docsmith/docsmith/internal/build"
	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/linkcheck"
	"github.com/docsmith/docsmith/internal/metrics"
	"github.com/docsmith/docsmith/internal/server"
	"github.com/docsmith/docsmith/internal/site"
	"github.com/docsmith/docsmith/internal/theme"
)

// newApp loads the configuration, composes the theme, and bootstraps the
// application instance every command builds against.
func newApp(configPath, outputOverride string) (*site.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if outputOverride != "" {
		cfg.OutputDir = outputOverride
	}

	app := site.New(cfg, themeConfig(cfg.Theme))
	if err := app.Bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// themeConfig maps a configured theme name to its configuration. "docs"
// is the shipped extension of the default theme; any other name is used
// as a base theme directly.
func themeConfig(name string) theme.Config {
	if name == "docs" {
		return theme.Docs()
	}
	return theme.Config{Name: name, Extends: name}
}

func runBuild(ctx context.Context, configPath, output string) error {
	app, err := newApp(configPath, output)
	if err != nil {
		return err
	}

	res, err := build.New(app, nil).Run(ctx)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	slog.Info("site built",
		slog.String("output", res.OutputDir),
		slog.Int("pages", res.Pages),
		slog.Duration("duration", res.Duration))
	return nil
}

func runPreview(ctx context.Context, configPath string, port int) error {
	app, err := newApp(configPath, "")
	if err != nil {
		return err
	}
	cfg := app.Config()
	if port != 0 {
		cfg.Preview.Port = port
	}

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	rec := metrics.NewPrometheusRecorder(reg)

	builder := build.New(app, rec)
	srv := server.New(cfg, builder.Run, server.Options{
		Recorder:     rec,
		PromRegistry: reg,
		Components:   app.Components().Names(),
	})
	return srv.Run(ctx)
}

func runCheck(ctx context.Context, configPath string, skipBuild bool) error {
	app, err := newApp(configPath, "")
	if err != nil {
		return err
	}
	cfg := app.Config()

	if !skipBuild {
		if _, err := build.New(app, nil).Run(ctx); err != nil {
			return fmt.Errorf("build before check: %w", err)
		}
	}

	report, err := linkcheck.CheckDir(cfg.OutputDir, cfg.BasePath())
	if err != nil {
		return err
	}

	slog.Info("link check finished",
		slog.Int("files", report.FilesChecked),
		slog.Int("internal", report.Internal),
		slog.Int("external", report.External),
		slog.Int("broken", len(report.Issues)))

	if !report.Ok() {
		for _, issue := range report.Issues {
			slog.Error("broken link", slog.String("file", issue.File), slog.String("ref", issue.Ref))
		}
		return fmt.Errorf("%d broken internal link(s)", len(report.Issues))
	}
	return nil
}

const starterConfig = `title: Documentation
theme: docs
content_dir: ./docs
output_dir: ./public
nav:
  - name: Guide
    url: /
`

const starterIndex = `---
title: Welcome
---
<ChapterLabel chapter="1" />

# Welcome

Start writing your documentation in this directory.
`

func runInit(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	docsDir := "docs"
	indexPath := filepath.Join(docsDir, "index.md")
	if err := os.MkdirAll(docsDir, 0o750); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}
	if _, err := os.Stat(indexPath); err == nil && !force {
		slog.Info("content skeleton exists, leaving it alone", slog.String("path", indexPath))
		return nil
	}
	if err := os.WriteFile(indexPath, []byte(starterIndex), 0o644); err != nil {
		return fmt.Errorf("write starter page: %w", err)
	}

	slog.Info("initialized project", slog.String("config", configPath), slog.String("content", docsDir))
	return nil
}
