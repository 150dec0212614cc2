package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileEvent is one debounced filesystem event on a benchmark file.
type FileEvent struct {
	Path      string
	Operation string
	Time      time.Time
}

// Watcher reports filesystem activity on files sharing the benchmark
// file prefix. It is informational only; nothing in the run sequences
// on its events.
type Watcher struct {
	watcher    *fsnotify.Watcher
	prefix     string
	events     chan FileEvent
	errors     chan error
	done       chan struct{}
	debounceMs int
}

// NewWatcher creates a watcher for files carrying the given path prefix.
func NewWatcher(prefix string, debounceMs int) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher:    fsWatcher,
		prefix:     prefix,
		events:     make(chan FileEvent),
		errors:     make(chan error),
		done:       make(chan struct{}),
		debounceMs: debounceMs,
	}, nil
}

// Watch starts watching the given directory for activity on prefixed
// files.
func (w *Watcher) Watch(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go w.processEvents()
	return nil
}

// Matches reports whether path belongs to the watched file set.
func (w *Watcher) Matches(path string) bool {
	return strings.HasPrefix(path, w.prefix)
}

func (w *Watcher) processEvents() {
	eventMap := make(map[string]FileEvent)
	timer := time.NewTimer(time.Duration(w.debounceMs) * time.Millisecond)
	timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.Matches(event.Name) {
				continue
			}
			eventMap[event.Name] = FileEvent{
				Path:      event.Name,
				Operation: event.Op.String(),
				Time:      time.Now(),
			}
			timer.Reset(time.Duration(w.debounceMs) * time.Millisecond)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}

		case <-timer.C:
			// a closed consumer must not strand the flush
			for _, event := range eventMap {
				select {
				case w.events <- event:
				case <-w.done:
					return
				}
			}
			eventMap = make(map[string]FileEvent)

		case <-w.done:
			return
		}
	}
}

// Events returns the debounced event stream.
func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

// Errors returns the watcher error stream.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops event processing and releases the underlying watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
