package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith/docsmith/internal/build"
	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/metrics"
	"github.com/docsmith/docsmith/internal/search"
)

func testServer(t *testing.T, opts Options) (*Server, *config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Title:      "Contract Docs",
		ContentDir: filepath.Join(root, "docs"),
		OutputDir:  filepath.Join(root, "public"),
		Preview:    config.PreviewConfig{Port: 0},
	}
	require.NoError(t, os.MkdirAll(cfg.ContentDir, 0o750))
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o750))

	buildFn := func(ctx context.Context) (build.Result, error) {
		return build.Result{Pages: 1}, nil
	}
	return New(cfg, buildFn, opts), cfg
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServeStaticOutput(t *testing.T) {
	s, cfg := testServer(t, Options{})
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "index.html"), []byte("<h1>home</h1>"), 0o600))
	s.state.record(nil)

	rec := get(t, s.Handler(), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "home")
}

func TestErrorOverlayBeforeFirstGoodBuild(t *testing.T) {
	s, _ := testServer(t, Options{})
	s.state.record(fmt.Errorf("boom: page broken.md"))

	rec := get(t, s.Handler(), "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Build failed")
	assert.Contains(t, rec.Body.String(), "broken.md")
}

func TestStaleOutputKeepsServingAfterFailedRebuild(t *testing.T) {
	s, cfg := testServer(t, Options{})
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "index.html"), []byte("<h1>good</h1>"), 0o600))
	s.state.record(nil)
	s.state.record(fmt.Errorf("second build failed"))

	rec := get(t, s.Handler(), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "good")
}

func TestStatusEndpoint(t *testing.T) {
	s, _ := testServer(t, Options{Components: []string{"ChapterLabel"}})
	s.state.record(nil)
	s.state.record(fmt.Errorf("render exploded"))

	rec := get(t, s.Handler(), "/-/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Healthy)
	assert.Equal(t, 2, resp.Builds)
	assert.Contains(t, resp.LastError, "render exploded")
	assert.Equal(t, []string{"ChapterLabel"}, resp.Components)
}

func TestSearchEndpoint(t *testing.T) {
	s, cfg := testServer(t, Options{})

	ix, err := search.Create(filepath.Join(cfg.OutputDir, build.SearchDBName))
	require.NoError(t, err)
	require.NoError(t, ix.Add(context.Background(), search.Document{
		Path: "gas.md", URL: "/gas/", Title: "Gas and Fees", Body: "opcode costs",
	}))
	require.NoError(t, ix.Close())

	rec := get(t, s.Handler(), "/-/search?q=gas")
	require.Equal(t, http.StatusOK, rec.Code)

	var hits []search.Hit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "/gas/", hits[0].URL)
}

func TestSearchEndpointValidation(t *testing.T) {
	s, _ := testServer(t, Options{})

	assert.Equal(t, http.StatusBadRequest, get(t, s.Handler(), "/-/search").Code)
	// Index file missing entirely.
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s.Handler(), "/-/search?q=x").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	s, _ := testServer(t, Options{Recorder: rec, PromRegistry: reg})
	s.rebuild(context.Background(), "initial")

	resp := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "docsmith_preview_rebuilds_total")
}

func TestMetricsEndpointAbsentWithoutRegistry(t *testing.T) {
	s, cfg := testServer(t, Options{})
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "index.html"), []byte("x"), 0o600))
	s.state.record(nil)

	// Falls through to the file server, which has no /metrics file.
	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/metrics").Code)
}
