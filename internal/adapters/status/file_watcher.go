package status

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/arscan/internal/domain"
	"github.com/bft-labs/arscan/internal/ports"
)

// DefaultDebounceDelay is the delay after a file change before it is re-read.
const DefaultDebounceDelay = 20 * time.Millisecond

// FileWatcher reports the session status written to a text file.
//
// The file holds a single status word (see domain.ParseSessionState). A
// missing or empty file reads as Valid. Status never blocks: it returns the
// last value parsed by the watch goroutine.
type FileWatcher struct {
	path     string
	debounce time.Duration
	logger   ports.Logger
	state    atomic.Int32

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFileWatcher creates a watcher for path. Call Start to begin watching.
func NewFileWatcher(path string, debounce time.Duration, logger ports.Logger) *FileWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}
	return &FileWatcher{
		path:     path,
		debounce: debounce,
		logger:   logger.With(ports.String("component", "status"), ports.String("path", path)),
	}
}

// Status returns the last parsed session status.
func (w *FileWatcher) Status() domain.SessionState {
	return domain.SessionState(w.state.Load())
}

// Start reads the file once and watches its directory for changes.
func (w *FileWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("status watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("status watcher: watch %s: %w", filepath.Dir(w.path), err)
	}

	w.reload()

	watchCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go w.watchLoop(watchCtx, watcher)
	return nil
}

// Close stops watching and waits for the watch goroutine to exit.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	cancel := w.cancel
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
	return nil
}

func (w *FileWatcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer w.wg.Done()
	defer watcher.Close()

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", ports.Err(err))
		}
	}
}

func (w *FileWatcher) debounceReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.reload()
	})
}

func (w *FileWatcher) reload() {
	next, err := readStatus(w.path)
	if err != nil {
		w.logger.Warn("failed to read status file, keeping previous status", ports.Err(err))
		return
	}
	prev := domain.SessionState(w.state.Swap(int32(next)))
	if prev != next {
		w.logger.Info("session status changed",
			ports.Stringer("from", prev),
			ports.Stringer("to", next),
		)
	}
}

func readStatus(path string) (domain.SessionState, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.SessionValid, nil
	}
	if err != nil {
		return domain.SessionOther, err
	}
	word := strings.TrimSpace(string(data))
	if word == "" {
		return domain.SessionValid, nil
	}
	return domain.ParseSessionState(word), nil
}
