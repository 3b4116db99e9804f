package remap

import "strings"

// LineCommandPrefix marks a command that runs through the line-command
// interpreter instead of the host command dispatcher.
const LineCommandPrefix = ":"

// Command is a named command executed when a binding fires.
type Command struct {
	// Name is the command identifier. Names starting with ":" are line
	// commands (":w", ":nohl"); everything else is an opaque host command.
	Name string

	// Args are passed through to the host command unchanged.
	Args any
}

// IsLineCommand reports whether the command is an internal line command.
func (c Command) IsLineCommand() bool {
	return strings.HasPrefix(c.Name, LineCommandPrefix)
}

// Line returns the line-command text with the marker stripped.
func (c Command) Line() string {
	return strings.TrimPrefix(c.Name, LineCommandPrefix)
}

// Binding maps a trigger key sequence to replacement keys and commands.
// Keys are canonical tokens produced by key.Normalizer.
type Binding struct {
	// Before is the trigger. It is never empty.
	Before []string

	// After is replayed as one logical multi-key event. May be empty.
	After []string

	// Commands run in order after After has been replayed. May be empty.
	Commands []Command
}

// String returns the trigger in compact notation, e.g. "<leader>w".
func (b Binding) String() string {
	return strings.Join(b.Before, "")
}

// Table is an ordered, immutable list of bindings for one
// (mode group, recursion) combination.
type Table struct {
	bindings      []Binding
	longestBefore int
}

// NewTable stores the bindings in declaration order and derives the
// longest trigger length. An empty table reports a longest length of 1.
// Bindings are expected to be normalized already; NewTable does not
// validate them.
func NewTable(bindings []Binding) *Table {
	t := &Table{
		bindings:      make([]Binding, len(bindings)),
		longestBefore: 1,
	}
	copy(t.bindings, bindings)

	for _, b := range t.bindings {
		if len(b.Before) > t.longestBefore {
			t.longestBefore = len(b.Before)
		}
	}
	return t
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bindings)
}

// Bindings returns the bindings in declaration order.
// The returned slice must not be modified.
func (t *Table) Bindings() []Binding {
	if t == nil {
		return nil
	}
	return t.bindings
}

// LongestBefore returns the length of the longest trigger, or 1 for an empty table.
func (t *Table) LongestBefore() int {
	if t == nil {
		return 1
	}
	return t.longestBefore
}

// find returns the first binding whose trigger equals keys exactly.
func (t *Table) find(keys []string) (Binding, bool) {
	for _, b := range t.Bindings() {
		if equalKeys(b.Before, keys) {
			return b, true
		}
	}
	return Binding{}, false
}

// hasPrefix reports whether keys is a prefix of some binding's trigger,
// i.e. the trigger truncated to len(keys) equals keys.
func (t *Table) hasPrefix(keys []string) bool {
	for _, b := range t.Bindings() {
		n := len(keys)
		if n > len(b.Before) {
			n = len(b.Before)
		}
		if equalKeys(b.Before[:n], keys) {
			return true
		}
	}
	return false
}

// equalKeys compares two token sequences element by element.
func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
