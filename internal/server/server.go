// Package server runs the local preview: it serves the rendered output
// tree, rebuilds on content changes, and exposes search, status, and
// metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/docsmith/docsmith/internal/build"
	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/metrics"
	"github.com/docsmith/docsmith/internal/search"
)

// BuildFunc runs one site build. The preview server owns scheduling and
// error bookkeeping; the function only builds.
type BuildFunc func(ctx context.Context) (build.Result, error)

// Options configures a preview Server.
type Options struct {
	// Recorder receives rebuild metrics. Nil disables them.
	Recorder metrics.Recorder

	// PromRegistry, when set, is served at /metrics.
	PromRegistry *prom.Registry

	// Components is shown by the status endpoint; typically the
	// registered component names of the bootstrapped application.
	Components []string
}

// buildState tracks the most recent build outcome for the status
// endpoint and the error overlay.
type buildState struct {
	mu        sync.RWMutex
	lastErr   error
	lastBuild time.Time
	builds    int
	hasGood   bool
}

func (bs *buildState) record(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.builds++
	bs.lastBuild = time.Now()
	bs.lastErr = err
	if err == nil {
		bs.hasGood = true
	}
}

func (bs *buildState) snapshot() (err error, lastBuild time.Time, builds int, hasGood bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastErr, bs.lastBuild, bs.builds, bs.hasGood
}

// Server is the preview server.
type Server struct {
	cfg     *config.Config
	buildFn BuildFunc
	opts    Options
	rec     metrics.Recorder
	state   buildState
}

// New creates a preview server for cfg that rebuilds through buildFn.
func New(cfg *config.Config, buildFn BuildFunc, opts Options) *Server {
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Server{cfg: cfg, buildFn: buildFn, opts: opts, rec: rec}
}

// Run performs the initial build, starts the watcher and optional
// rebuild schedule, and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.rebuild(ctx, "initial")

	trigger := make(chan string, 1)
	go s.rebuildLoop(ctx, trigger)

	stopWatch, err := s.startWatcher(ctx, trigger)
	if err != nil {
		return err
	}
	defer stopWatch()

	stopSchedule, err := s.startSchedule(trigger)
	if err != nil {
		return err
	}
	defer stopSchedule()

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Preview.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("preview server listening",
			slog.Int("port", s.cfg.Preview.Port),
			slog.String("output", s.cfg.OutputDir))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview server: %w", err)
	}
}

// rebuild runs one build and records its outcome.
func (s *Server) rebuild(ctx context.Context, trigger string) {
	s.rec.IncPreviewRebuild(trigger)
	res, err := s.buildFn(ctx)
	s.state.record(err)
	if err != nil {
		slog.Error("preview build failed",
			slog.String("trigger", trigger),
			slog.String("error", err.Error()))
		return
	}
	slog.Info("preview build complete",
		slog.String("trigger", trigger),
		slog.Int("pages", res.Pages),
		slog.Duration("duration", res.Duration))
}

// Handler returns the preview HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/-/search", s.handleSearch)
	mux.HandleFunc("/-/status", s.handleStatus)
	if s.opts.PromRegistry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.opts.PromRegistry, promhttp.HandlerOpts{}))
	}
	mux.Handle("/", s.siteHandler())
	return mux
}

// siteHandler serves the output tree, substituting an error page while
// the site has never built successfully.
func (s *Server) siteHandler() http.Handler {
	files := http.FileServer(http.Dir(s.cfg.OutputDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastErr, _, _, hasGood := s.state.snapshot()
		if lastErr != nil && !hasGood {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "<h1>Build failed</h1><pre>%s</pre>", lastErr)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "missing query parameter q", http.StatusBadRequest)
		return
	}

	dbPath := filepath.Join(s.cfg.OutputDir, build.SearchDBName)
	if _, err := os.Stat(dbPath); err != nil {
		http.Error(w, "search index not available", http.StatusServiceUnavailable)
		return
	}

	ix, err := search.Open(dbPath)
	if err != nil {
		http.Error(w, "search index unavailable", http.StatusInternalServerError)
		return
	}
	defer func() { _ = ix.Close() }()

	hits, err := ix.Query(r.Context(), q, 10)
	if err != nil {
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	if hits == nil {
		hits = []search.Hit{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(hits)
}

type statusResponse struct {
	Healthy    bool      `json:"healthy"`
	Builds     int       `json:"builds"`
	LastBuild  time.Time `json:"last_build"`
	LastError  string    `json:"last_error,omitempty"`
	Components []string  `json:"components"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	lastErr, lastBuild, builds, _ := s.state.snapshot()

	resp := statusResponse{
		Healthy:    lastErr == nil,
		Builds:     builds,
		LastBuild:  lastBuild,
		Components: s.opts.Components,
	}
	if lastErr != nil {
		resp.LastError = lastErr.Error()
	}
	if resp.Components == nil {
		resp.Components = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
