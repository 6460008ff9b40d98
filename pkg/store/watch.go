package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store whenever the backing file changes and calls
// onChange with the result of the reload. Bursts of events are collapsed
// until the file has been quiet for debounce. Watch blocks until ctx is
// cancelled; onChange runs on the caller's goroutine.
func (s *Store) Watch(ctx context.Context, debounce time.Duration, onChange func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("failed to resolve porch file path: %w", err)
	}
	// Watch the directory: a rewrite renames a new file over the old one.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	s.logger.Info().Str("path", target).Dur("debounce", debounce).Msg("watching porch file")

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
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
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.logger.Debug().Str("op", event.Op.String()).Msg("porch file event")
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			onChange(s.Load())

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}
