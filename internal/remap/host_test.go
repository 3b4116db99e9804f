package remap

import (
	"context"
	"strconv"
	"strings"

	"github.com/dshills/keyremap/internal/input/mode"
)

// call records one host invocation.
type call struct {
	op   string
	n    int
	keys []string
	name string
	args any
}

// fakeHost is an in-memory Host that records every effect.
type fakeHost struct {
	mode     mode.Mode
	count    int
	cursors  int
	remapped int
	calls    []call

	failOn   map[string]error
	onReplay func(ctx context.Context, keys []string) error
}

func newFakeHost(m mode.Mode) *fakeHost {
	return &fakeHost{mode: m, cursors: 1, failOn: make(map[string]error)}
}

func (h *fakeHost) CurrentMode() mode.Mode   { return h.mode }
func (h *fakeHost) PendingCount() int        { return h.count }
func (h *fakeHost) ResetPendingCount()       { h.count = 0 }
func (h *fakeHost) CursorCount() int         { return h.cursors }
func (h *fakeHost) RecordRemappedKeys(n int) { h.remapped += n }
func (h *fakeHost) TrimKeys(n int)           { h.calls = append(h.calls, call{op: "trim", n: n}) }

func (h *fakeHost) RefreshView(context.Context) error {
	h.calls = append(h.calls, call{op: "refresh"})
	return h.failOn["refresh"]
}

func (h *fakeHost) UndoInsertions(_ context.Context, n int) error {
	h.calls = append(h.calls, call{op: "undo", n: n})
	return h.failOn["undo"]
}

func (h *fakeHost) ReplayKeys(ctx context.Context, keys []string) error {
	h.calls = append(h.calls, call{op: "replay", keys: keys})
	if err := h.failOn["replay"]; err != nil {
		return err
	}
	if h.onReplay != nil {
		return h.onReplay(ctx, keys)
	}
	return nil
}

func (h *fakeHost) RunLineCommand(_ context.Context, line string) error {
	h.calls = append(h.calls, call{op: "line", name: line})
	return h.failOn[":"+line]
}

func (h *fakeHost) ExecuteCommand(_ context.Context, name string, args any) error {
	h.calls = append(h.calls, call{op: "exec", name: name, args: args})
	return h.failOn[name]
}

// ops renders the recorded calls compactly, e.g. "undo(3) trim(1) replay(<Esc>)".
func (h *fakeHost) ops() string {
	parts := make([]string, 0, len(h.calls))
	for _, c := range h.calls {
		switch c.op {
		case "undo", "trim":
			parts = append(parts, c.op+"("+strconv.Itoa(c.n)+")")
		case "replay":
			parts = append(parts, "replay("+strings.Join(c.keys, "")+")")
		case "line", "exec":
			parts = append(parts, c.op+"("+c.name+")")
		default:
			parts = append(parts, c.op)
		}
	}
	return strings.Join(parts, " ")
}

func seq(s ...string) []string { return s }
