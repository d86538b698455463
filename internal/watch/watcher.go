// Package watch re-collects a drop folder whenever its contents settle.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"framekit/internal/collect"
	"framekit/internal/logging"
	"framekit/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// Stats tracks watcher activity.
type Stats struct {
	Scans         int
	Events        int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
	LastScanTime  time.Time
}

// Watcher scans root once on Start and again after each burst of
// filesystem events has been quiet for the debounce duration.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	root        string
	opts        collect.Options
	debounceDur time.Duration
	onScan      func(*collect.Result)
	pending     time.Time // zero when no event is waiting
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// NewWatcher creates a watcher for root. onScan may be nil.
func NewWatcher(root string, opts collect.Options, debounce time.Duration, onScan func(*collect.Result)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		watcher:     watcher,
		root:        root,
		opts:        opts,
		debounceDur: debounce,
		onScan:      onScan,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start registers the watches, performs the initial scan and starts the
// event loop in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addDirs(w.root); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		w.watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}
	logging.Watch("watching %s (debounce %s)", w.root, w.debounceDur)

	w.scan(ctx, "initial")

	go w.run(ctx)
	return nil
}

// Stop stops the event loop, waits for it to exit and releases the
// underlying watches.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatch).Errorf("error closing watcher: %v", err)
	}
	logging.Watch("stopped watching %s", w.root)
}

// GetStats returns a snapshot of the watcher statistics.
func (w *Watcher) GetStats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// IsWatching reports whether the watcher is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedDirs returns the directories currently registered.
func (w *Watcher) WatchedDirs() []string {
	return w.watcher.WatchList()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounceDur / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Watch("context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryWatch).Errorf("watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.mu.Lock()
			settled := !w.pending.IsZero() && time.Since(w.pending) >= w.debounceDur
			if settled {
				w.pending = time.Time{}
			}
			w.mu.Unlock()
			if settled {
				w.scan(ctx, "event")
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	if w.opts.Recursive && event.Op.Has(fsnotify.Create) {
		if err := w.addDirs(event.Name); err != nil {
			logging.Watch("not watching %s: %v", event.Name, err)
		}
	}

	logging.Watch("%s %s", event.Op, event.Name)

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = event.Name
	w.pending = w.stats.LastEventTime
	w.mu.Unlock()
}

// addDirs watches dir, and every directory below it when recursive.
// Non-directories are ignored.
func (w *Watcher) addDirs(dir string) error {
	if !w.opts.Recursive {
		return w.watcher.Add(dir)
	}
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(p)
	})
}

func (w *Watcher) scan(ctx context.Context, trigger string) {
	result, err := collect.Collect(ctx, w.root, w.opts)

	w.mu.Lock()
	w.stats.LastScanTime = time.Now()
	if err != nil {
		w.stats.Errors++
	} else {
		w.stats.Scans++
	}
	w.mu.Unlock()

	if err != nil {
		logging.Get(logging.CategoryWatch).Errorf("scan of %s failed: %v", w.root, err)
		return
	}

	metrics.ScansTotal.WithLabelValues(w.root, trigger).Inc()
	metrics.Collections.WithLabelValues(w.root).Set(float64(len(result.Collections)))
	metrics.Remainder.WithLabelValues(w.root).Set(float64(len(result.Remainder)))

	logging.Get(logging.CategoryWatch).Infow("scanned",
		"root", w.root,
		"trigger", trigger,
		"collections", len(result.Collections),
		"remainder", len(result.Remainder))

	if w.onScan != nil {
		w.onScan(result)
	}
}
