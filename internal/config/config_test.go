package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docsmith.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "title: Contract Docs\n"))
	require.NoError(t, err)

	assert.Equal(t, "Contract Docs", cfg.Title)
	assert.Equal(t, "/", cfg.BaseURL)
	assert.Equal(t, "docs", cfg.Theme)
	assert.Equal(t, "./docs", cfg.ContentDir)
	assert.Equal(t, "./public", cfg.OutputDir)
	assert.Equal(t, 8080, cfg.Preview.Port)
	assert.False(t, cfg.DisableSearch)
}

func TestLoadFull(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
title: Contract Docs
base_url: https://docs.example.org/book
theme: docs
content_dir: ./content
output_dir: ./dist
disable_search: true
nav:
  - name: Guide
    url: /guide/
  - name: Reference
    url: /reference/
preview:
  port: 4000
  rebuild_every: 10m
`))
	require.NoError(t, err)

	assert.Equal(t, "./content", cfg.ContentDir)
	assert.True(t, cfg.DisableSearch)
	require.Len(t, cfg.Nav, 2)
	assert.Equal(t, "Guide", cfg.Nav[0].Name)
	assert.Equal(t, 4000, cfg.Preview.Port)
	assert.Equal(t, 10*time.Minute, cfg.Preview.RebuildEvery.Std())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("DOCS_TITLE", "Expanded Title")
	cfg, err := Load(writeConfig(t, "title: ${DOCS_TITLE}\n"))
	require.NoError(t, err)
	assert.Equal(t, "Expanded Title", cfg.Title)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"relative base url", "base_url: docs/\n"},
		{"nav missing url", "nav:\n  - name: Guide\n"},
		{"rebuild too fast", "preview:\n  rebuild_every: 100ms\n"},
		{"bad duration", "preview:\n  rebuild_every: often\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		baseURL string
		want    string
	}{
		{"/", "/"},
		{"/book", "/book/"},
		{"https://docs.example.org", "/"},
		{"https://docs.example.org/book", "/book/"},
	}

	for _, tt := range tests {
		t.Run(tt.baseURL, func(t *testing.T) {
			cfg := Config{BaseURL: tt.baseURL}
			assert.Equal(t, tt.want, cfg.BasePath())
		})
	}
}
