package remap

import (
	"context"
	"time"

	"github.com/dshills/keyremap/internal/input/mode"
	"github.com/dshills/keyremap/internal/logging"
)

// Guard marks that a non-recursive binding is being applied. While it is
// active no remapper sharing the guard matches, so keys replayed by a
// non-recursive binding are never remapped again.
//
// A Guard belongs to one editing session. It is not safe for concurrent use;
// the session serializes key delivery.
type Guard struct {
	active bool
}

// Active reports whether a non-recursive binding is being applied.
func (g *Guard) Active() bool {
	return g != nil && g.active
}

func (g *Guard) set()   { g.active = true }
func (g *Guard) clear() { g.active = false }

// applier runs the effects of a matched binding for one matcher.
type applier struct {
	group     mode.Group
	recursive bool
	guard     *Guard
	metrics   *Metrics
	logger    *logging.Logger
}

// apply executes the binding's effects in order. The guard is cleared on
// every return path, including command failures.
func (a *applier) apply(ctx context.Context, b Binding, host Host) error {
	start := time.Now()
	defer func() { a.metrics.RecordApply(time.Since(start)) }()

	trigger := b.String()
	consumed := len(b.Before)

	host.RecordRemappedKeys(consumed)
	a.metrics.RecordRemappedKeys(consumed)

	// Insert-mode keys were committed as typed. Retract every key of the
	// trigger except the last, which the host has not inserted yet.
	if a.group.IncludesInsert() {
		undo := max(0, (consumed-1)*host.CursorCount())
		if err := host.UndoInsertions(ctx, undo); err != nil {
			return a.fail(&ApplyError{Trigger: trigger, Step: StepUndo, Err: err})
		}
	}

	if !a.recursive {
		a.guard.set()
		defer a.guard.clear()
	}

	// The final key of the trigger has not been appended by the caller yet.
	host.TrimKeys(consumed - 1)

	if len(b.After) > 0 {
		count := host.PendingCount()
		if count < 1 {
			count = 1
		}
		host.ResetPendingCount()

		for i := 0; i < count; i++ {
			if err := host.ReplayKeys(ctx, b.After); err != nil {
				return a.fail(&ApplyError{Trigger: trigger, Step: StepReplay, Err: err})
			}
		}
	}

	for _, cmd := range b.Commands {
		if cmd.IsLineCommand() {
			if err := host.RunLineCommand(ctx, cmd.Line()); err != nil {
				return a.fail(&ApplyError{Trigger: trigger, Step: StepCommand, Command: cmd.Name, Err: err})
			}
			if err := host.RefreshView(ctx); err != nil {
				return a.fail(&ApplyError{Trigger: trigger, Step: StepRefresh, Command: cmd.Name, Err: err})
			}
			continue
		}
		if err := host.ExecuteCommand(ctx, cmd.Name, cmd.Args); err != nil {
			return a.fail(&ApplyError{Trigger: trigger, Step: StepCommand, Command: cmd.Name, Err: err})
		}
	}

	return nil
}

func (a *applier) fail(err *ApplyError) error {
	a.metrics.RecordApplyError()
	a.logger.Error("apply failed: %v", err)
	return err
}
