package remap

import (
	"context"

	"github.com/dshills/keyremap/internal/input/mode"
	"github.com/dshills/keyremap/internal/logging"
)

// MatcherConfig fixes what a Matcher applies to. It never changes after
// construction.
type MatcherConfig struct {
	// Group is the set of modes the matcher is active in.
	Group mode.Group

	// Recursive allows keys replayed by this matcher's bindings to be
	// remapped again.
	Recursive bool

	// Bindings in declaration order.
	Bindings []Binding
}

// MatchResult is the outcome of one AttemptMatch call.
type MatchResult struct {
	// Handled is true when a binding matched and was applied.
	Handled bool

	// Binding is the applied binding. Valid only when Handled is true.
	Binding Binding
}

// Matcher matches the host's key buffer against one binding table.
//
// Outside Insert mode the whole buffer must equal a trigger. In Insert mode
// growing suffixes of the buffer are tried, shortest first, because every
// key typed is also text and a trigger may end anywhere in it.
type Matcher struct {
	group     mode.Group
	recursive bool
	table     *Table

	// potential is recomputed by every AttemptMatch that reaches matching.
	potential bool

	guard   *Guard
	applier *applier
	metrics *Metrics
	logger  *logging.Logger
}

// NewMatcher creates a matcher with its own reentrancy guard.
// Use Remapper to build matchers that share one session guard.
func NewMatcher(cfg MatcherConfig, opts ...Option) *Matcher {
	o := buildOptions(opts)
	return newMatcher(cfg, &Guard{}, o)
}

func newMatcher(cfg MatcherConfig, guard *Guard, o options) *Matcher {
	logger := o.logger.WithFields(map[string]any{
		"group":     cfg.Group.String(),
		"recursive": cfg.Recursive,
	})
	m := &Matcher{
		group:     cfg.Group,
		recursive: cfg.Recursive,
		table:     NewTable(cfg.Bindings),
		guard:     guard,
		metrics:   o.metrics,
		logger:    logger,
	}
	m.applier = &applier{
		group:     cfg.Group,
		recursive: cfg.Recursive,
		guard:     guard,
		metrics:   o.metrics,
		logger:    logger,
	}
	return m
}

// Group returns the mode group the matcher applies to.
func (m *Matcher) Group() mode.Group { return m.group }

// Recursive reports whether the matcher's bindings may trigger further remaps.
func (m *Matcher) Recursive() bool { return m.recursive }

// Table returns the matcher's binding table.
func (m *Matcher) Table() *Table { return m.table }

// IsPotentialRemap reports whether, as of the last AttemptMatch, the key
// buffer was the start of some trigger and no binding had fired.
func (m *Matcher) IsPotentialRemap() bool { return m.potential }

// AttemptMatch tries to match keys, the host's full key buffer including
// the key just pressed, and applies the first matching binding.
//
// When the host's mode is outside the matcher's group, or a non-recursive
// binding sharing the guard is being applied, nothing is matched and the
// potential flag keeps its previous value.
//
// A non-nil error means a binding matched but one of its effects failed;
// Handled is still true in that case.
func (m *Matcher) AttemptMatch(ctx context.Context, keys []string, host Host) (MatchResult, error) {
	if host == nil {
		return MatchResult{}, ErrNilHost
	}
	if !m.group.Contains(host.CurrentMode()) {
		return MatchResult{}, nil
	}
	if m.guard.Active() {
		return MatchResult{}, nil
	}

	binding, ok := m.match(keys)
	if !ok {
		// The prefix check always uses the full buffer, even in Insert mode
		// where matching itself looks at suffixes.
		m.potential = m.table.hasPrefix(keys)
		return MatchResult{}, nil
	}

	m.potential = false
	m.metrics.RecordMatch(m.group, m.recursive)
	m.logger.Debug("matched %q", binding.String())

	err := m.applier.apply(ctx, binding, host)
	return MatchResult{Handled: true, Binding: binding}, err
}

// match finds the binding to apply for keys under the matcher's discipline.
func (m *Matcher) match(keys []string) (Binding, bool) {
	if !m.group.IncludesInsert() {
		return m.table.find(keys)
	}

	// Shortest suffix first: "jj" fires on the second j even when a
	// longer trigger ending in "jj" exists.
	longest := m.table.LongestBefore()
	for n := 1; n <= longest && n <= len(keys); n++ {
		if b, ok := m.table.find(keys[len(keys)-n:]); ok {
			return b, true
		}
	}
	return Binding{}, false
}
