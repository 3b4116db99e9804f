// Package main is the entry point for the keyremap terminal editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyremap/internal/config"
	"github.com/dshills/keyremap/internal/input/key"
	"github.com/dshills/keyremap/internal/logging"
	"github.com/dshills/keyremap/internal/plugin/lua"
	"github.com/dshills/keyremap/internal/session"
	"github.com/dshills/keyremap/internal/term"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	LuaPath    string
	LogLevel   string
	LogFile    string
	File       string
}

// quitSignal is posted to the event loop when the process is signalled.
type quitSignal struct{}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logger, closeLog, err := newLogger(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	watcher, cfg, err := loadConfig(opts.ConfigPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load remaps: %v\n", err)
		return 1
	}
	if watcher != nil {
		defer watcher.Close()
	}
	if opts.LogLevel == "" {
		logger.SetLevel(cfg.LogLevel)
	}
	logger.Info("loaded %d remaps from %s", cfg.BindingCount(), configSource(cfg))

	normalizer, err := key.NewNormalizer(cfg.Leader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	registry := session.NewRegistry()
	plugins, err := lua.NewState(registry, lua.WithLogger(logger), lua.WithNormalizer(normalizer))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start lua: %v\n", err)
		return 1
	}
	defer plugins.Close()
	if opts.LuaPath != "" {
		if err := plugins.Load(opts.LuaPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load lua scripts: %v\n", err)
			return 1
		}
	}

	text, err := readText(opts.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	screen, err := term.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	defer screen.Close()

	sessOpts := []session.Option{
		session.WithLogger(logger),
		session.WithRegistry(registry),
		session.WithLeader(cfg.Leader),
		session.WithText(text),
	}
	if opts.File != "" {
		sessOpts = append(sessOpts, session.WithWriter(func(text string) error {
			return os.WriteFile(opts.File, []byte(text), 0o644)
		}))
	}
	sess := session.New(cfg.Remaps, sessOpts...)

	if watcher != nil {
		// Handlers run on the watcher goroutine; hand results to the loop.
		watcher.OnReload(func(c *config.Config) { _ = screen.Interrupt(c) })
		watcher.OnError(func(err error) { _ = screen.Interrupt(err) })
		watcher.Start()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		<-signals
		_ = screen.Interrupt(quitSignal{})
	}()

	loop := &eventLoop{
		screen:        screen,
		sess:          sess,
		plugins:       plugins,
		normalizer:    normalizer,
		logger:        logger,
		explicitLevel: opts.LogLevel != "",
	}
	sess.SetMessage(fmt.Sprintf("%d remaps loaded", cfg.BindingCount()))
	loop.run(context.Background())
	return 0
}

type eventLoop struct {
	screen        *term.Screen
	sess          *session.Session
	plugins       *lua.State
	normalizer    *key.Normalizer
	logger        *logging.Logger
	explicitLevel bool
}

func (l *eventLoop) run(ctx context.Context) {
	l.draw()
	for !l.sess.Quitting() {
		switch ev := l.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			l.screen.Sync()
		case *tcell.EventKey:
			tok, ok := term.Token(l.normalizer, ev)
			if !ok {
				continue
			}
			if err := l.sess.HandleKey(ctx, tok); err != nil {
				l.logger.Warn("key %s: %v", tok, err)
				l.sess.SetMessage(err.Error())
			}
		case *tcell.EventInterrupt:
			if !l.interrupt(ev.Data()) {
				return
			}
		}
		l.draw()
	}
}

// interrupt handles data posted from other goroutines. It returns false
// when the editor should exit.
func (l *eventLoop) interrupt(data any) bool {
	switch v := data.(type) {
	case quitSignal:
		return false
	case *config.Config:
		n, err := key.NewNormalizer(v.Leader)
		if err != nil {
			l.sess.SetMessage(err.Error())
			return true
		}
		l.normalizer = n
		l.plugins.SetNormalizer(n)
		l.sess.SetLeader(v.Leader)
		l.sess.SetRemaps(v.Remaps)
		if !l.explicitLevel {
			l.logger.SetLevel(v.LogLevel)
		}
		l.sess.SetMessage(fmt.Sprintf("reloaded %d remaps", v.BindingCount()))
	case error:
		l.sess.SetMessage("remaps not reloaded: " + v.Error())
	}
	return true
}

func (l *eventLoop) draw() {
	l.screen.Draw(term.View{
		Text:    l.sess.Text(),
		Cursors: l.sess.Buffer().Cursors(),
		Mode:    l.sess.Mode(),
		Status:  l.sess.StatusLine(),
	})
}

// loadConfig watches path. Without -config a missing default directory
// means defaults; a missing explicit path is an error.
func loadConfig(path string, logger *logging.Logger) (*config.Watcher, *config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigDir()
	}
	if _, err := os.Stat(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, err
		}
		return nil, config.Default(), nil
	}

	w, err := config.NewWatcher(path, config.WithWatcherLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return w, w.Get(), nil
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "keyremap")
}

func configSource(cfg *config.Config) string {
	if cfg.Path == "" {
		return "defaults"
	}
	return cfg.Path
}

func readText(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newLogger(opts options) (*logging.Logger, func(), error) {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(opts.LogLevel)
	cfg.Output = io.Discard

	closeFn := func() {}
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		cfg.Output = f
		closeFn = func() { _ = f.Close() }
	}
	return logging.New(cfg), closeFn, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Remap file, or directory holding remaps.toml/remaps.yaml")
	flag.StringVar(&opts.ConfigPath, "c", "", "Remap file or directory (shorthand)")
	flag.StringVar(&opts.LuaPath, "lua", "", "Lua script, or directory of scripts, defining commands")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to the config's")
	flag.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keyremap - modal editing with Vim-style key remaps\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keyremap [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keyremap                          Edit an empty buffer\n")
		fmt.Fprintf(os.Stderr, "  keyremap -c remaps.toml notes.txt Edit a file with remaps\n")
		fmt.Fprintf(os.Stderr, "  keyremap -lua ./scripts           Load Lua commands\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keyremap %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: at most one file can be edited\n")
		os.Exit(1)
	}
	opts.File = flag.Arg(0)

	return opts
}
