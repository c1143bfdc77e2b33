package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ossii/oxt-packager/internal/config"
	"github.com/ossii/oxt-packager/internal/logger"
	"github.com/ossii/oxt-packager/internal/service/packager"
)

// defaultDebounce batches bursts of filesystem events into one rebuild.
const defaultDebounce = 500 * time.Millisecond

// Options contains inputs for the watch entry point.
type Options struct {
	// ConfigPath is an optional path to the build settings YAML.
	ConfigPath string
	// ProjectName overrides the archive name prefix from the settings.
	ProjectName string
	// Debounce overrides the rebuild batching interval.
	Debounce time.Duration
}

// Run rebuilds the archive whenever a manifest source changes, until the
// context is cancelled. Rebuilds skip the version-update step so the VERSION
// marker stays put during a development session.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "oxt-watch")

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	defer func() {
		_ = watcher.Close()
	}()

	if err = addWatches(ctx, watcher, cfg); err != nil {
		return err
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	buildOptions := &packager.Options{
		ConfigPath:      opts.ConfigPath,
		ProjectName:     opts.ProjectName,
		SkipVersionStep: true,
	}

	rebuild(ctx, buildOptions)

	return watch(ctx, watcher, cfg, buildOptions, debounce)
}

// watch is the event loop: it batches change events and rebuilds after a
// quiet period.
func watch(
	ctx context.Context,
	watcher *fsnotify.Watcher,
	cfg *config.Config,
	buildOptions *packager.Options,
	debounce time.Duration,
) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "The watcher has been stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if shouldIgnore(cfg, event) {
				continue
			}

			// New subdirectories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}

			logger.DebugKV(ctx, "Source changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.WarnKV(ctx, "Watcher error", "error", watchErr)

		case <-timer.C:
			rebuild(ctx, buildOptions)
		}
	}
}

// rebuild runs a single build and reports failures without stopping the watch.
func rebuild(ctx context.Context, opts *packager.Options) {
	archiveName, err := packager.Build(ctx, opts)
	if err != nil {
		logger.ErrorKV(ctx, "Rebuild failed", "error", err)
		return
	}

	logger.InfoKV(ctx, "Rebuilt archive", "archive", archiveName)
}

// addWatches registers every manifest root: directories recursively, single
// files via their parent directory. Entries missing from disk are reported
// and skipped so the session can start before all sources exist.
func addWatches(ctx context.Context, watcher *fsnotify.Watcher, cfg *config.Config) error {
	watched := make(map[string]struct{}, len(cfg.Manifest))

	add := func(dir string) error {
		if _, ok := watched[dir]; ok {
			return nil
		}

		watched[dir] = struct{}{}

		return watcher.Add(dir)
	}

	for _, entry := range cfg.Manifest {
		source := filepath.FromSlash(entry)

		info, err := os.Stat(source)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.WarnKV(ctx, "Manifest entry missing, not watching it", "entry", entry)
				continue
			}

			return err
		}

		if !info.IsDir() {
			if err = add(filepath.Dir(source)); err != nil {
				return err
			}

			continue
		}

		err = filepath.WalkDir(source, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			if !d.IsDir() {
				return nil
			}

			return add(p)
		})
		if err != nil {
			return err
		}
	}

	logger.InfoKV(ctx, "Watching for changes", "directories", len(watched))

	return nil
}

// shouldIgnore filters out the packager's own outputs, which would otherwise
// retrigger the build forever.
func shouldIgnore(cfg *config.Config, event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return true
	}

	name := filepath.Base(event.Name)

	switch name {
	case packager.MarkerFilename, filepath.Base(cfg.ReleaseFile):
		return true
	}

	if strings.HasSuffix(name, ".oxt") || strings.Contains(name, ".oxt.tmp-") {
		return true
	}

	return false
}
