package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/docsmith/docsmith/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"docsmith.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output string `short:"o" help:"Override the configured output directory"`
	} `cmd:"" help:"Build the documentation site"`

	Preview struct {
		Port int `short:"p" help:"Override the configured preview port"`
	} `cmd:"" help:"Serve the site locally and rebuild on content changes"`

	Check struct {
		SkipBuild bool `help:"Check the existing output instead of rebuilding first"`
	} `cmd:"" help:"Build and verify internal links in the rendered output"`

	Init struct {
		Force bool `help:"Overwrite existing files"`
	} `cmd:"" help:"Create a starter configuration and content skeleton"`

	Version struct{} `cmd:"" help:"Print the docsmith version"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch kctx.Command() {
	case "build":
		err = runBuild(ctx, CLI.Config, CLI.Build.Output)
	case "preview":
		err = runPreview(ctx, CLI.Config, CLI.Preview.Port)
	case "check":
		err = runCheck(ctx, CLI.Config, CLI.Check.SkipBuild)
	case "init":
		err = runInit(CLI.Config, CLI.Init.Force)
	case "version":
		fmt.Printf("docsmith %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	default:
		err = fmt.Errorf("unknown command: %s", kctx.Command())
	}

	if err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
