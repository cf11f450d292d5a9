package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/omnix-ai/orchestrator/internal/intent"
	"github.com/omnix-ai/orchestrator/internal/metrics"
)

// PatternWatcher hot-reloads the keyword pattern file into the intent
// extractor. It watches the parent directory rather than the file itself so
// atomic replaces (rename-over, configmap symlink swaps) keep working.
type PatternWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	stopCh  chan struct{}

	// Editors fire several events per save; reloads within the window
	// collapse into one.
	debounce time.Duration
}

// NewPatternWatcher loads the file once, then watches for changes. A missing
// file leaves the built-in defaults active and is not an error.
func NewPatternWatcher(path string, logger *zap.Logger) (*PatternWatcher, error) {
	w := &PatternWatcher{
		path:     path,
		logger:   logger,
		stopCh:   make(chan struct{}),
		debounce: 200 * time.Millisecond,
	}
	if err := w.reload(); err != nil {
		logger.Warn("Pattern file not loaded, using built-in defaults",
			zap.String("path", path),
			zap.Error(err),
		)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	w.watcher = watcher

	go w.run()
	return w, nil
}

func (w *PatternWatcher) run() {
	var pending *time.Timer
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(w.debounce, func() {
				if err := w.reload(); err != nil {
					w.logger.Error("Pattern reload failed, keeping previous patterns",
						zap.String("path", w.path),
						zap.Error(err),
					)
					metrics.PatternReloads.WithLabelValues("error").Inc()
					return
				}
				w.logger.Info("Patterns reloaded", zap.String("path", w.path))
				metrics.PatternReloads.WithLabelValues("ok").Inc()
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Pattern watcher error", zap.Error(err))
		case <-w.stopCh:
			return
		}
	}
}

// reload parses the file and swaps the active pattern set. A parse error
// leaves the previous set in place.
func (w *PatternWatcher) reload() error {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}
	ps, err := intent.PatternsFromYAML(raw)
	if err != nil {
		return err
	}
	intent.SetPatterns(ps)
	return nil
}

// Close stops watching. The last loaded pattern set stays active.
func (w *PatternWatcher) Close() error {
	close(w.stopCh)
	return w.watcher.Close()
}
