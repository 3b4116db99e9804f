package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keyremap/internal/logging"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the delay between the last file event and the reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger for reload results.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher reloads remap configuration when its file changes.
//
// The parent directory is watched rather than the file itself so editors
// that save by rename are still seen. A failed reload keeps the previous
// config.
type Watcher struct {
	dir  string
	file string // empty when watching a config directory

	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *logging.Logger

	mu          sync.RWMutex
	config      *Config
	handlers    []func(*Config)
	errHandlers []func(error)
	timer       *time.Timer
	closed      bool

	done    chan struct{}
	wg      sync.WaitGroup
	reloads sync.WaitGroup // debounced reloads already running
}

// NewWatcher loads the configuration at path and prepares to watch it.
// path is either a config file or a directory searched by Load.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		debounce: DefaultDebounce,
		logger:   logging.Nop(),
		done:     make(chan struct{}),
	}
	if info.IsDir() {
		w.dir = abs
	} else {
		w.dir = filepath.Dir(abs)
		w.file = abs
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("config-watcher")

	cfg, err := w.load()
	if err != nil {
		return nil, err
	}
	w.config = cfg

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.fsw = fsw

	return w, nil
}

// Start begins processing file events in the background.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.watch()
}

// Close stops the watcher. Pending reloads are discarded and a reload
// already running is waited for, so no handler runs after Close returns.
// Handlers must not call Close.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	w.reloads.Wait()
	return err
}

// OnReload registers a handler called with each successfully reloaded config.
func (w *Watcher) OnReload(handler func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// OnError registers a handler called when a reload fails.
func (w *Watcher) OnError(handler func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errHandlers = append(w.errHandlers, handler)
}

// Get returns the current config.
func (w *Watcher) Get() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Reload reads the configuration now and notifies handlers.
func (w *Watcher) Reload() error {
	cfg, err := w.load()
	if err != nil {
		w.logger.Warn("reload failed: %v", err)
		w.mu.RLock()
		handlers := append(([]func(error))(nil), w.errHandlers...)
		w.mu.RUnlock()
		for _, h := range handlers {
			h(err)
		}
		return err
	}

	w.mu.Lock()
	w.config = cfg
	handlers := append(([]func(*Config))(nil), w.handlers...)
	w.mu.Unlock()

	w.logger.WithField("bindings", cfg.BindingCount()).Info("reloaded %s", displayPath(cfg))
	for _, h := range handlers {
		h(cfg)
	}
	return nil
}

func (w *Watcher) load() (*Config, error) {
	if w.file != "" {
		return LoadFile(w.file)
	}
	return Load(w.dir)
}

func (w *Watcher) watch() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error: %v", err)
		}
	}
}

// relevant reports whether event touches a file the watcher loads from.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Clean(event.Name)
	if w.file != "" {
		return name == w.file
	}
	for _, c := range Candidates(w.dir) {
		if name == c.Path {
			return true
		}
	}
	return false
}

// schedule coalesces bursts of events into one reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}
	w.timer = time.AfterFunc(w.debounce, w.debounced)
}

func (w *Watcher) debounced() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.reloads.Add(1)
	w.mu.Unlock()
	defer w.reloads.Done()

	_ = w.Reload()
}

func displayPath(cfg *Config) string {
	if cfg.Path == "" {
		return "defaults"
	}
	return cfg.Path
}
