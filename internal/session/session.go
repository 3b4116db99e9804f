package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/keyremap/internal/input/key"
	"github.com/dshills/keyremap/internal/input/mode"
	"github.com/dshills/keyremap/internal/logging"
	"github.com/dshills/keyremap/internal/remap"
)

// DefaultMaxDepth bounds nested key replay, matching Vim's default maxmapdepth.
const DefaultMaxDepth = 1000

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxDepth sets how deeply replayed keys may nest.
func WithMaxDepth(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxDepth = n
		}
	}
}

// WithRegistry sets the registry used for host commands.
func WithRegistry(r *Registry) Option {
	return func(s *Session) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithText sets the initial buffer text.
func WithText(text string) Option {
	return func(s *Session) {
		s.buf = NewBuffer(text)
	}
}

// WithLeader sets the canonical token of the leader key, so that typing it
// in Insert mode inserts the character.
func WithLeader(token string) Option {
	return func(s *Session) {
		if token != "" {
			s.leader = token
		}
	}
}

// WithRemapOptions passes options through to the remapper.
func WithRemapOptions(opts ...remap.Option) Option {
	return func(s *Session) {
		s.remapOpts = append(s.remapOpts, opts...)
	}
}

// WithWriter sets the function that persists the buffer on ":w".
func WithWriter(fn func(text string) error) Option {
	return func(s *Session) {
		s.writeFn = fn
	}
}

// WithRefresh sets a function called whenever the view is refreshed.
func WithRefresh(fn func()) Option {
	return func(s *Session) {
		s.refreshFn = fn
	}
}

// Session is an in-memory modal editing session with key remapping.
//
// Keys arrive as canonical tokens through HandleKey. The session offers
// each key buffer to its remapper first and executes keys literally only
// when no binding fired and no longer trigger is pending.
//
// A Session is not safe for concurrent use.
type Session struct {
	id     string
	logger *logging.Logger

	modes *mode.Manager
	buf   *Buffer

	count      int
	actionKeys []string // keys awaiting a possible remap outside Insert mode
	history    []string // keys typed since entering Insert mode
	cmdline    []rune
	leader     string

	remapper     *remap.Remapper
	remapOpts    []remap.Option
	remappedKeys int
	depth        int
	maxDepth     int

	registry  *Registry
	settings  map[string]string
	highlight bool
	message   string
	writes    int
	refreshes int
	quit      bool
	writeFn   func(string) error
	refreshFn func()
}

// New creates a session in Normal mode using the given bindings.
func New(cfg remap.Config, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		logger:    logging.Nop(),
		modes:     mode.NewManager(mode.Normal),
		buf:       NewBuffer(""),
		leader:    key.DefaultLeader,
		maxDepth:  DefaultMaxDepth,
		registry:  NewRegistry(),
		settings:  make(map[string]string),
		highlight: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.WithField("session", s.id)
	s.modes.OnChange(s.onModeChange)
	s.remapper = remap.New(cfg, s, s.remapperOptions()...)
	return s
}

func (s *Session) remapperOptions() []remap.Option {
	opts := []remap.Option{remap.WithLogger(s.logger.WithComponent("remap"))}
	return append(opts, s.remapOpts...)
}

// SetRemaps replaces the bindings. Metrics carry over to the new remapper.
func (s *Session) SetRemaps(cfg remap.Config) {
	opts := append(s.remapperOptions(), remap.WithMetrics(s.remapper.Metrics()))
	s.remapper = remap.New(cfg, s, opts...)
	s.actionKeys = nil
	s.logger.Info("remaps replaced")
}

// SetLeader changes the character the leader token types in Insert mode.
func (s *Session) SetLeader(token string) {
	if token != "" {
		s.leader = token
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the current mode.
func (s *Session) Mode() mode.Mode { return s.modes.Current() }

// SetMode switches modes directly.
func (s *Session) SetMode(m mode.Mode) { s.modes.Switch(m) }

// Buffer returns the text buffer.
func (s *Session) Buffer() *Buffer { return s.buf }

// Text returns the buffer text.
func (s *Session) Text() string { return s.buf.String() }

// Remapper returns the session's remapper.
func (s *Session) Remapper() *remap.Remapper { return s.remapper }

// Registry returns the host command registry.
func (s *Session) Registry() *Registry { return s.registry }

// RemappedKeys returns how many keys were consumed by remaps.
func (s *Session) RemappedKeys() int { return s.remappedKeys }

// Refreshes returns how many times the view was refreshed.
func (s *Session) Refreshes() int { return s.refreshes }

// Writes returns how many times the buffer was written.
func (s *Session) Writes() int { return s.writes }

// Message returns the last status message.
func (s *Session) Message() string { return s.message }

// SetMessage sets the status message.
func (s *Session) SetMessage(msg string) { s.message = msg }

// Quitting reports whether a quit command has run.
func (s *Session) Quitting() bool { return s.quit }

// Setting returns the value of an option set with ":set".
func (s *Session) Setting(name string) (string, bool) {
	v, ok := s.settings[name]
	return v, ok
}

// Highlighting reports whether search highlighting is shown.
func (s *Session) Highlighting() bool { return s.highlight }

// CommandLine returns the command line being typed.
func (s *Session) CommandLine() string { return string(s.cmdline) }

// Pending returns the keys held back while a longer trigger may follow.
func (s *Session) Pending() string { return strings.Join(s.actionKeys, "") }

// StatusLine renders mode, pending keys and message for display.
func (s *Session) StatusLine() string {
	var sb strings.Builder
	sb.WriteString("-- ")
	sb.WriteString(s.Mode().DisplayName())
	sb.WriteString(" --")
	if s.Mode() == mode.CommandLine {
		sb.WriteString(" :")
		sb.WriteString(string(s.cmdline))
	}
	if s.count > 0 {
		fmt.Fprintf(&sb, " %d", s.count)
	}
	if p := s.Pending(); p != "" {
		sb.WriteString(" ")
		sb.WriteString(p)
	}
	if s.message != "" {
		sb.WriteString("  ")
		sb.WriteString(s.message)
	}
	return sb.String()
}

// HandleKey processes one key token.
func (s *Session) HandleKey(ctx context.Context, tok string) error {
	if s.depth >= s.maxDepth {
		return fmt.Errorf("%w (%d)", ErrRecursiveRemap, s.maxDepth)
	}
	s.depth++
	defer func() { s.depth-- }()

	current := s.Mode()

	var buffered []string
	if current == mode.Insert {
		buffered = s.history
	} else {
		buffered = s.actionKeys
	}
	keys := make([]string, len(buffered)+1)
	copy(keys, buffered)
	keys[len(buffered)] = tok

	handled, err := s.remapper.SendKey(ctx, keys)
	if handled {
		return err
	}
	if err != nil {
		s.logger.Warn("remap error on unhandled key %q: %v", tok, err)
	}

	if current == mode.Insert {
		s.history = append(s.history, tok)
		return s.literal(ctx, tok)
	}

	s.actionKeys = append(s.actionKeys, tok)
	if s.waiting(current) {
		return nil
	}

	// No trigger starts with the held keys. Like Vim, run the first one
	// literally and offer the rest to the remapper again.
	pending := s.actionKeys
	s.actionKeys = nil
	if err := s.literal(ctx, pending[0]); err != nil {
		return err
	}
	return s.HandleKeys(ctx, pending[1:]...)
}

// HandleKeys processes tokens in order, stopping at the first error.
func (s *Session) HandleKeys(ctx context.Context, toks ...string) error {
	for _, tok := range toks {
		if err := s.HandleKey(ctx, tok); err != nil {
			return err
		}
	}
	return nil
}

// waiting reports whether keys should be held for a longer trigger.
// Keys replayed by a non-recursive binding are never held.
func (s *Session) waiting(current mode.Mode) bool {
	return mode.GroupOther.Contains(current) &&
		s.remapper.IsPotentialRemapIn(current) &&
		!s.remapper.PerformingRemap()
}

func (s *Session) onModeChange(from, to mode.Mode) {
	s.history = nil
	s.actionKeys = nil
	s.cmdline = s.cmdline[:0]
	if from == mode.Insert {
		s.buf.ForgetInsertions()
	}
	s.logger.Debug("mode %s -> %s", from, to)
}

// CurrentMode implements remap.State.
func (s *Session) CurrentMode() mode.Mode { return s.Mode() }

// PendingCount implements remap.State.
func (s *Session) PendingCount() int { return s.count }

// ResetPendingCount implements remap.State.
func (s *Session) ResetPendingCount() { s.count = 0 }

// CursorCount implements remap.State.
func (s *Session) CursorCount() int { return s.buf.CursorCount() }

// RecordRemappedKeys implements remap.State.
func (s *Session) RecordRemappedKeys(n int) { s.remappedKeys += n }

// TrimKeys implements remap.State.
func (s *Session) TrimKeys(n int) {
	s.actionKeys = trimTail(s.actionKeys, n)
	s.history = trimTail(s.history, n)
}

func trimTail(keys []string, n int) []string {
	if n <= 0 {
		return keys
	}
	if n >= len(keys) {
		return keys[:0]
	}
	return keys[:len(keys)-n]
}

// UndoInsertions implements remap.Editor.
func (s *Session) UndoInsertions(ctx context.Context, n int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if undone := s.buf.UndoInsertions(n); undone < n {
		s.logger.Debug("undo requested %d insertions, %d available", n, undone)
	}
	return nil
}

// ReplayKeys implements remap.Editor by feeding keys back through HandleKey.
func (s *Session) ReplayKeys(ctx context.Context, keys []string) error {
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.HandleKey(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// RefreshView implements remap.Editor.
func (s *Session) RefreshView(context.Context) error {
	s.refreshes++
	if s.refreshFn != nil {
		s.refreshFn()
	}
	return nil
}

// ExecuteCommand implements remap.Editor using the command registry.
func (s *Session) ExecuteCommand(ctx context.Context, name string, args any) error {
	return s.registry.Execute(ctx, s, name, args)
}
