package server

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
)

// debounceWindow batches rapid editor save bursts into one rebuild.
const debounceWindow = 300 * time.Millisecond

// startWatcher watches the content directory tree and sends debounced
// triggers into the shared rebuild channel. The returned stop function
// releases the watcher.
func (s *Server) startWatcher(ctx context.Context, trigger chan<- string) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := addRecursive(watcher, s.cfg.ContentDir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	go s.watchLoop(ctx, watcher, trigger)

	return func() { _ = watcher.Close() }, nil
}

// watchLoop converts raw fsnotify events into debounced triggers and
// keeps the watch set in sync as directories appear.
func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger chan<- string) {
	var timer *time.Timer
	fire := func() {
		select {
		case trigger <- "watch":
		default: // rebuild already pending
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					_ = addRecursive(watcher, event.Name)
				}
			}
			if !relevant(event) {
				continue
			}
			slog.Debug("content change detected", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, fire)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

// rebuildLoop is the single rebuild executor: every trigger source
// (watcher, schedule) sends into one channel so builds never overlap on
// the output directory. Triggers arriving mid-build coalesce into one
// follow-up run.
func (s *Server) rebuildLoop(ctx context.Context, trigger <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-trigger:
			s.rebuild(ctx, reason)
		}
	}
}

// startSchedule installs the optional periodic full rebuild. A zero
// interval disables it. The job only sends a trigger; the rebuild
// itself runs on rebuildLoop's goroutine.
func (s *Server) startSchedule(trigger chan<- string) (stop func(), err error) {
	interval := s.cfg.Preview.RebuildEvery.Std()
	if interval == 0 {
		return func() {}, nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			select {
			case trigger <- "schedule":
			default: // rebuild already pending
			}
		}),
		gocron.WithName("preview-rebuild"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}

	scheduler.Start()
	slog.Info("scheduled rebuilds enabled", slog.Duration("interval", interval))
	return func() { _ = scheduler.Shutdown() }, nil
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// relevant filters events down to content changes worth a rebuild.
func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	return ext == ".md" || ext == "" // markdown files and directories
}
