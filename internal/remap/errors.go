package remap

import (
	"errors"
	"fmt"
)

// ErrNilHost is returned when a remapper is used without a host.
var ErrNilHost = errors.New("remap: nil host")

// Apply steps reported in ApplyError.
const (
	StepUndo    = "undo"
	StepReplay  = "replay"
	StepCommand = "command"
	StepRefresh = "refresh"
)

// ApplyError reports a failure while applying a matched binding.
// Effects that ran before the failing step are not rolled back.
type ApplyError struct {
	Trigger string // Trigger of the binding being applied, e.g. "<leader>w"
	Step    string // One of the Step constants
	Command string // Failing command name, for StepCommand and StepRefresh
	Err     error  // Underlying error
}

func (e *ApplyError) Error() string {
	if e == nil {
		return ""
	}
	if e.Command != "" {
		return fmt.Sprintf("remap %s: %s %s: %v", e.Trigger, e.Step, e.Command, e.Err)
	}
	return fmt.Sprintf("remap %s: %s: %v", e.Trigger, e.Step, e.Err)
}

func (e *ApplyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
