package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "remaps.toml")
	writeFile(t, path, "[[insert]]\nbefore = \"jj\"\nafter = \"<Esc>\"\n")

	w, err := NewWatcher(dir, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if got := w.Get().BindingCount(); got != 1 {
		t.Fatalf("initial BindingCount() = %d, want 1", got)
	}

	reloaded := make(chan *Config, 4)
	w.OnReload(func(c *Config) { reloaded <- c })
	w.Start()

	writeFile(t, path, "[[insert]]\nbefore = \"jj\"\n\n[[other_modes]]\nbefore = \"Y\"\nafter = \"y$\"\n")

	select {
	case cfg := <-reloaded:
		if cfg.BindingCount() != 2 {
			t.Errorf("reloaded BindingCount() = %d, want 2", cfg.BindingCount())
		}
		if w.Get() != cfg {
			t.Error("Get() does not return the reloaded config")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatcherKeepsConfigOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "remaps.yaml")
	writeFile(t, path, "insert:\n  - before: jj\n")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	var gotErr error
	w.OnError(func(err error) { gotErr = err })
	reloads := 0
	w.OnReload(func(*Config) { reloads++ })

	before := w.Get()
	writeFile(t, path, "insert:\n  - before: []\n")

	if err := w.Reload(); err == nil {
		t.Fatal("Reload() should fail")
	}
	if gotErr == nil {
		t.Error("error handler not called")
	}
	if reloads != 0 {
		t.Errorf("reload handlers called %d times", reloads)
	}
	if w.Get() != before {
		t.Error("config replaced by a failed reload")
	}
}

func TestWatcherRelevant(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "remaps.toml"), "")

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	tests := []struct {
		name string
		op   fsnotify.Op
		want bool
	}{
		{"remaps.toml", fsnotify.Write, true},
		{"remaps.yml", fsnotify.Create, true},
		{"remaps.yaml", fsnotify.Rename, true},
		{"remaps.toml", fsnotify.Chmod, false},
		{"other.toml", fsnotify.Write, false},
	}

	for _, tt := range tests {
		ev := fsnotify.Event{Name: filepath.Join(w.dir, tt.name), Op: tt.op}
		if got := w.relevant(ev); got != tt.want {
			t.Errorf("relevant(%s %v) = %v, want %v", tt.name, tt.op, got, tt.want)
		}
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestNewWatcherMissingPath(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("NewWatcher() on a missing path should fail")
	}
}

func TestWatcherCloseWaitsForRunningReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "remaps.toml")
	writeFile(t, path, "[[insert]]\nbefore = \"jj\"\nafter = \"<Esc>\"\n")

	w, err := NewWatcher(dir, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	w.OnReload(func(*Config) {
		once.Do(func() { close(entered) })
		<-release
	})
	w.Start()

	writeFile(t, path, "[[insert]]\nbefore = \"kk\"\nafter = \"<Esc>\"\n")
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		close(release)
		w.Close()
		t.Fatal("no reload after write")
	}

	closed := make(chan struct{})
	go func() {
		_ = w.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close() returned while a reload handler was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close() did not return after the handler finished")
	}
}
