package remap

import (
	"context"

	"github.com/dshills/keyremap/internal/input/mode"
)

// State is the per-session editor state a remapper reads and updates.
type State interface {
	// CurrentMode returns the editor's current mode.
	CurrentMode() mode.Mode

	// PendingCount returns the numeric prefix typed so far, or 0 if none.
	PendingCount() int

	// ResetPendingCount clears the numeric prefix.
	ResetPendingCount()

	// CursorCount returns the number of active cursors (at least 1).
	CursorCount() int

	// RecordRemappedKeys adds n to the count of keys consumed by remaps.
	RecordRemappedKeys(n int)

	// TrimKeys drops the last n entries of both the pending-action-key
	// buffer and the key history.
	TrimKeys(n int)
}

// Editor performs the side effects of an applied binding.
// Every method may block on the host; a remapper never calls them concurrently.
type Editor interface {
	// UndoInsertions reverts the last n characters inserted in Insert mode.
	UndoInsertions(ctx context.Context, n int) error

	// ReplayKeys feeds keys back through the host's key handling as one
	// logical edit.
	ReplayKeys(ctx context.Context, keys []string) error

	// RunLineCommand runs a line command such as "w" or "nohl".
	RunLineCommand(ctx context.Context, line string) error

	// RefreshView redraws the view after a line command.
	RefreshView(ctx context.Context) error

	// ExecuteCommand invokes an opaque host command.
	ExecuteCommand(ctx context.Context, name string, args any) error
}

// Host is everything a remapper needs from the editing session.
type Host interface {
	State
	Editor
}
