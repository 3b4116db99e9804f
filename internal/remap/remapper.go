package remap

import (
	"context"
	"errors"

	"github.com/dshills/keyremap/internal/input/mode"
	"github.com/dshills/keyremap/internal/logging"
)

// Config holds the normalized bindings for the four matcher combinations.
type Config struct {
	Insert             []Binding
	Other              []Binding
	InsertNonRecursive []Binding
	OtherNonRecursive  []Binding
}

// Option configures a Remapper or Matcher.
type Option func(*options)

type options struct {
	logger  *logging.Logger
	metrics *Metrics
}

// WithLogger sets the logger. Matches are logged at debug level and
// apply failures at error level.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:  logging.Nop(),
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Remapper coordinates the four matchers of one editing session.
//
// Matchers are consulted in a fixed order: Insert recursive, Other
// recursive, Insert non-recursive, Other non-recursive. Every matcher sees
// every key buffer, even after an earlier one handled it, so each potential
// flag stays current.
type Remapper struct {
	host     Host
	guard    *Guard
	matchers [4]*Matcher
	metrics  *Metrics
	logger   *logging.Logger
}

// New creates a remapper for host from cfg.
func New(cfg Config, host Host, opts ...Option) *Remapper {
	o := buildOptions(opts)
	guard := &Guard{}
	r := &Remapper{
		host:    host,
		guard:   guard,
		metrics: o.metrics,
		logger:  o.logger,
	}

	specs := [4]MatcherConfig{
		{Group: mode.GroupInsert, Recursive: true, Bindings: cfg.Insert},
		{Group: mode.GroupOther, Recursive: true, Bindings: cfg.Other},
		{Group: mode.GroupInsert, Recursive: false, Bindings: cfg.InsertNonRecursive},
		{Group: mode.GroupOther, Recursive: false, Bindings: cfg.OtherNonRecursive},
	}
	for i, spec := range specs {
		r.matchers[i] = newMatcher(spec, guard, o)
	}
	return r
}

// SendKey offers the host's current key buffer to all four matchers.
// It reports whether any of them applied a binding. Errors from failed
// effects are joined and returned after every matcher has run.
func (r *Remapper) SendKey(ctx context.Context, keys []string) (bool, error) {
	if r.host == nil {
		return false, ErrNilHost
	}
	r.metrics.RecordKeyBuffer()

	var (
		handled bool
		errs    []error
	)
	for _, m := range r.matchers {
		res, err := m.AttemptMatch(ctx, keys, r.host)
		if err != nil {
			errs = append(errs, err)
		}
		handled = handled || res.Handled
	}

	if r.IsPotentialRemap() {
		r.metrics.RecordPotential()
	}
	return handled, errors.Join(errs...)
}

// IsPotentialRemap reports whether any matcher saw the key buffer as the
// start of a trigger on the last SendKey. Callers use it to decide whether
// to wait for more keys before acting on the buffer literally.
func (r *Remapper) IsPotentialRemap() bool {
	for _, m := range r.matchers {
		if m.IsPotentialRemap() {
			return true
		}
	}
	return false
}

// IsPotentialRemapIn is IsPotentialRemap restricted to the matchers whose
// group contains m. Matchers outside their group keep a stale flag, so a
// host deciding whether to wait for more keys in mode m should use this.
func (r *Remapper) IsPotentialRemapIn(m mode.Mode) bool {
	for _, mt := range r.matchers {
		if mt.group.Contains(m) && mt.IsPotentialRemap() {
			return true
		}
	}
	return false
}

// PerformingRemap reports whether a non-recursive binding is being applied.
func (r *Remapper) PerformingRemap() bool {
	return r.guard.Active()
}

// Matchers returns the four matchers in consultation order.
func (r *Remapper) Matchers() []*Matcher {
	out := make([]*Matcher, len(r.matchers))
	copy(out, r.matchers[:])
	return out
}

// Metrics returns the remapper's metrics collector.
func (r *Remapper) Metrics() *Metrics {
	return r.metrics
}
