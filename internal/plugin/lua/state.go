// Package lua lets Lua scripts define host commands for remap bindings.
package lua

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyremap/internal/input/key"
	"github.com/dshills/keyremap/internal/logging"
	"github.com/dshills/keyremap/internal/session"
)

// DefaultExecutionTimeout bounds one top-level command call.
const DefaultExecutionTimeout = 5 * time.Second

// ModuleName is the global table scripts use to talk to the editor.
const ModuleName = "keyremap"

// State is a sandboxed Lua interpreter whose scripts register commands in
// a session.Registry.
//
// gopher-lua's LState is not goroutine-safe. A State must only be used
// from the goroutine that drives the sessions calling its commands.
type State struct {
	L *lua.LState

	registry   *session.Registry
	normalizer *key.Normalizer
	logger     *logging.Logger
	timeout    time.Duration

	commands []string

	// current is the session whose command is running, nil between calls.
	current *session.Session
	depth   int
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout bounds each top-level command call.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used by keyremap.log and load errors.
func WithLogger(l *logging.Logger) StateOption {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNormalizer sets how keyremap.feed turns key strings into tokens.
func WithNormalizer(n *key.Normalizer) StateOption {
	return func(s *State) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// NewState creates a sandboxed Lua state that registers commands in reg.
func NewState(reg *session.Registry, opts ...StateOption) (*State, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	n, err := key.NewNormalizer("")
	if err != nil {
		return nil, err
	}

	s := &State{
		registry:   reg,
		normalizer: n,
		logger:     logging.Nop(),
		timeout:    DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("lua")

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	s.installModule()
	return s, nil
}

// openSafeLibraries opens only libraries without file, process or module access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// DoString executes a chunk of Lua code.
func (s *State) DoString(code string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.doWithRecovery(func() error {
		return s.L.DoString(code)
	})
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.doWithRecovery(func() error {
		return s.L.DoFile(path)
	})
}

// Load executes path, or every *.lua file in it when path is a directory,
// in lexical order.
func (s *State) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return s.DoFile(path)
	}

	files, err := filepath.Glob(filepath.Join(path, "*.lua"))
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, f := range files {
		if err := s.DoFile(f); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		s.logger.Debug("loaded %s", f)
	}
	return nil
}

// Commands returns the names of commands registered by scripts.
func (s *State) Commands() []string {
	out := make([]string, len(s.commands))
	copy(out, s.commands)
	return out
}

// SetNormalizer replaces the normalizer used by keyremap.feed, as when the
// leader changes on reload. A nil n is ignored.
func (s *State) SetNormalizer(n *key.Normalizer) {
	if n != nil {
		s.normalizer = n
	}
}

// Close releases the interpreter and unregisters its commands.
func (s *State) Close() error {
	if s.closed {
		return nil
	}
	for _, name := range s.commands {
		s.registry.Unregister(name)
	}
	s.L.Close()
	s.closed = true
	return nil
}

func (s *State) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// register binds fn as the host command name.
func (s *State) register(name string, fn *lua.LFunction, defaults any) {
	s.registry.Register(name, func(ctx context.Context, sess *session.Session, args any) error {
		if args == nil {
			args = defaults
		}
		return s.call(ctx, sess, name, fn, args)
	})
	for _, existing := range s.commands {
		if existing == name {
			return
		}
	}
	s.commands = append(s.commands, name)
}

// call runs a registered Lua function. Commands may feed keys that run
// further commands, so calls nest; the timeout applies to the outermost one.
func (s *State) call(ctx context.Context, sess *session.Session, name string, fn *lua.LFunction, args any) error {
	if s.closed {
		return ErrStateClosed
	}

	prev := s.current
	s.current = sess
	s.depth++
	defer func() {
		s.current = prev
		s.depth--
	}()

	if s.depth == 1 {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		s.L.SetContext(callCtx)
		defer s.L.RemoveContext()
	}

	err := s.doWithRecovery(func() error {
		return s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, toLua(s.L, args))
	})
	if err != nil {
		return &CommandError{Command: name, Err: err}
	}
	return nil
}
