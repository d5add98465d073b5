// Package watch recalculates a snapshot file whenever it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/hcaim/ai-footprint/internal/carbon"
	"github.com/hcaim/ai-footprint/internal/refdata"
	"github.com/hcaim/ai-footprint/internal/snapshot"
)

// DefaultDebounce collapses the burst of events an editor produces on save.
const DefaultDebounce = 100 * time.Millisecond

// Update is delivered after every (re)calculation.
type Update struct {
	Path   string
	Form   snapshot.FormData
	Parsed snapshot.Parsed
	Result carbon.Result

	// Err is a read or decode error (Result is empty) or a
	// *snapshot.ValidationError (Result is the best-effort calculation).
	Err error
}

// Watcher recalculates one snapshot file.
type Watcher struct {
	path     string
	catalog  *refdata.Catalog
	calc     carbon.FootprintCalculator
	logger   zerolog.Logger
	debounce time.Duration
}

// New creates a watcher for path. A debounce <= 0 uses DefaultDebounce.
func New(path string, catalog *refdata.Catalog, calc carbon.FootprintCalculator, debounce time.Duration, logger zerolog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     path,
		catalog:  catalog,
		calc:     calc,
		logger:   logger.With().Str("component", "watch").Str("path", path).Logger(),
		debounce: debounce,
	}
}

// Evaluate reads, parses and calculates the snapshot once.
func (w *Watcher) Evaluate() Update {
	u := Update{Path: w.path}

	form, err := snapshot.Read(w.path)
	if err != nil {
		u.Err = err
		return u
	}
	u.Form = form

	parsed, err := snapshot.Parse(form, w.catalog)
	u.Parsed = parsed
	u.Result = w.calc.Calculate(parsed.Input)
	u.Err = err
	return u
}

// Run calls onUpdate with an initial evaluation and again after each change
// to the file, until ctx is cancelled. onUpdate runs on the caller's goroutine
// sequence, never concurrently with itself.
func (w *Watcher) Run(ctx context.Context, onUpdate func(Update)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			w.logger.Error().Err(err).Msg("failed to close watcher")
		}
	}()

	// Watch the directory so that editors replacing the file are seen.
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	onUpdate(w.Evaluate())

	trigger := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			u := w.Evaluate()
			var vErr *snapshot.ValidationError
			switch {
			case u.Err == nil:
				w.logger.Debug().Float64("total_kg", u.Result.TotalKg).Msg("snapshot recalculated")
			case errors.As(u.Err, &vErr):
				w.logger.Warn().Err(u.Err).Msg("snapshot has invalid fields")
			default:
				w.logger.Warn().Err(u.Err).Msg("failed to read snapshot")
			}
			onUpdate(u)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("file watcher error")
		}
	}
}
