package remap

import (
	"sync/atomic"
	"time"

	"github.com/dshills/keyremap/internal/input/mode"
)

// Metrics tracks remapping activity. All methods are safe on a nil receiver.
type Metrics struct {
	keyBuffers   atomic.Uint64
	potentials   atomic.Uint64
	remappedKeys atomic.Uint64
	applyErrors  atomic.Uint64

	// matches is indexed by matcherIndex.
	matches [4]atomic.Uint64

	applies          atomic.Uint64
	totalApplyNanos  atomic.Int64
	peakApplyLatency atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// matcherIndex maps a matcher combination to its consultation order.
func matcherIndex(g mode.Group, recursive bool) int {
	i := 0
	if g == mode.GroupOther {
		i = 1
	}
	if !recursive {
		i += 2
	}
	return i
}

// RecordKeyBuffer records one key buffer offered to the remapper.
func (m *Metrics) RecordKeyBuffer() {
	if m == nil {
		return
	}
	m.keyBuffers.Add(1)
}

// RecordPotential records a key buffer that left a potential remap pending.
func (m *Metrics) RecordPotential() {
	if m == nil {
		return
	}
	m.potentials.Add(1)
}

// RecordMatch records a binding match by the given matcher.
func (m *Metrics) RecordMatch(g mode.Group, recursive bool) {
	if m == nil {
		return
	}
	m.matches[matcherIndex(g, recursive)].Add(1)
}

// RecordRemappedKeys records keys consumed by a remap.
func (m *Metrics) RecordRemappedKeys(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.remappedKeys.Add(uint64(n))
}

// RecordApplyError records a failed apply.
func (m *Metrics) RecordApplyError() {
	if m == nil {
		return
	}
	m.applyErrors.Add(1)
}

// RecordApply records the time spent applying one binding.
func (m *Metrics) RecordApply(latency time.Duration) {
	if m == nil {
		return
	}
	m.applies.Add(1)

	ns := latency.Nanoseconds()
	m.totalApplyNanos.Add(ns)
	for {
		current := m.peakApplyLatency.Load()
		if ns <= current {
			break
		}
		if m.peakApplyLatency.CompareAndSwap(current, ns) {
			break
		}
	}
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	KeyBuffers   uint64
	Potentials   uint64
	RemappedKeys uint64
	ApplyErrors  uint64

	// Matches per matcher in consultation order: Insert recursive, Other
	// recursive, Insert non-recursive, Other non-recursive.
	Matches [4]uint64

	Applies          uint64
	AvgApplyLatency  time.Duration
	PeakApplyLatency time.Duration

	Uptime time.Duration
}

// TotalMatches returns the number of matches across all matchers.
func (s MetricsSnapshot) TotalMatches() uint64 {
	var total uint64
	for _, n := range s.Matches {
		total += n
	}
	return total
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}

	snap := MetricsSnapshot{
		KeyBuffers:       m.keyBuffers.Load(),
		Potentials:       m.potentials.Load(),
		RemappedKeys:     m.remappedKeys.Load(),
		ApplyErrors:      m.applyErrors.Load(),
		Applies:          m.applies.Load(),
		PeakApplyLatency: time.Duration(m.peakApplyLatency.Load()),
		Uptime:           time.Since(m.startTime),
	}
	for i := range m.matches {
		snap.Matches[i] = m.matches[i].Load()
	}
	if snap.Applies > 0 {
		snap.AvgApplyLatency = time.Duration(m.totalApplyNanos.Load() / int64(snap.Applies))
	}
	return snap
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	if m == nil {
		return
	}
	m.keyBuffers.Store(0)
	m.potentials.Store(0)
	m.remappedKeys.Store(0)
	m.applyErrors.Store(0)
	for i := range m.matches {
		m.matches[i].Store(0)
	}
	m.applies.Store(0)
	m.totalApplyNanos.Store(0)
	m.peakApplyLatency.Store(0)
	m.startTime = time.Now()
}
