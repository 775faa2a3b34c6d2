// Copyright 2025 Hostscout Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package inference

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// TableWatcher watches an external OUI database file and reloads it when
// modifications are detected, so a long scan session picks up table edits
// without a restart. Reloads are debounced to coalesce rapid successive
// writes (editors typically write several events per save).
type TableWatcher struct {
	// path is the OUI database file to watch.
	path string

	// watcher is the fsnotify file watcher.
	watcher *fsnotify.Watcher

	// onReload receives each successfully loaded table.
	onReload func(*Table)

	// debounceDelay is the time to wait before reloading after a change.
	debounceDelay time.Duration

	logger zerolog.Logger

	// mu protects the debounce timer.
	mu            sync.Mutex
	debounceTimer *time.Timer
}

// NewTableWatcher creates a watcher for the OUI database at path. Each
// successful reload is delivered to onReload; the callback owns swapping
// the table into whatever holds the live engine.
func NewTableWatcher(path string, onReload func(*Table), logger zerolog.Logger) (*TableWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &TableWatcher{
		path:          path,
		watcher:       watcher,
		onReload:      onReload,
		debounceDelay: 100 * time.Millisecond,
		logger:        logger.With().Str("component", "inference.watcher").Logger(),
	}, nil
}

// Start begins watching the database file for changes. It blocks until the
// context is canceled and should be run in its own goroutine:
//
//	go watcher.Start(ctx)
func (w *TableWatcher) Start(ctx context.Context) error {
	// fsnotify requires watching directories, not files directly.
	dir := filepath.Dir(w.path)
	file := filepath.Base(w.path)

	if err := w.watcher.Add(dir); err != nil {
		w.logger.Error().Err(err).Str("dir", dir).Msg("Failed to watch oui database directory")
		return err
	}

	w.logger.Info().
		Str("file", w.path).
		Dur("debounce", w.debounceDelay).
		Msg("Started watching oui database")

	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("Error closing watcher")
		}
		w.logger.Info().Msg("Stopped watching oui database")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			// Ignore sibling files in the same directory.
			if filepath.Base(event.Name) != file {
				continue
			}

			// Remove is handled by the create event on the next write.
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				w.logger.Debug().
					Str("op", event.Op.String()).
					Str("file", event.Name).
					Msg("Detected oui database change")
				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("File watcher error")
		}
	}
}

// scheduleReload schedules a reload after the debounce delay, resetting
// any reload already pending.
func (w *TableWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		table, err := LoadTableFile(w.path)
		if err != nil {
			w.logger.Error().Err(err).Msg("Failed to reload oui database")
			return
		}
		w.onReload(table)
		w.logger.Info().Int("entries", table.Len()).Msg("OUI database reloaded")
	})
}

// Close stops the watcher and releases resources.
func (w *TableWatcher) Close() error {
	return w.watcher.Close()
}

// debounceTimerDelayForTest shortens the debounce window in tests.
func (w *TableWatcher) debounceTimerDelayForTest(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounceDelay = d
}
