// Package remap implements user-defined key remapping for modal editing.
//
// A binding maps a trigger key sequence ("before") to replacement keys
// ("after") and/or commands. Bindings are grouped by mode group (Insert, or
// Normal plus the visual modes) and by recursion, giving four binding tables.
// Each table is served by a Matcher, and a session's four matchers are
// coordinated by a Remapper.
//
// # Matching
//
// Outside Insert mode the whole key buffer must equal a trigger:
//
//	before = ["<leader>", "w"]    buffer = ["<leader>", "w"]    match
//
// In Insert mode every key is also text, so the buffer is the full typing
// history and triggers are matched against its suffixes, shortest first:
//
//	before = ["j", "j"]           buffer = ["h", "e", "j", "j"]  match
//
// When nothing matches, a matcher records whether the buffer is the start of
// some trigger. The host reads Remapper.IsPotentialRemap to decide whether to
// wait for more keys.
//
// # Applying
//
// Applying a binding, in order: count the consumed keys, undo the trigger's
// already-inserted characters (Insert mode, once per cursor), set the
// reentrancy guard (non-recursive bindings), trim the trigger from the host's
// key buffers, replay "after" count times, run commands, clear the guard.
// Commands named ":x" run as line commands followed by a view refresh;
// all others are dispatched to the host untouched.
//
// # Usage
//
//	r := remap.New(remap.Config{
//	    Insert: []remap.Binding{{Before: []string{"j", "j"}, After: []string{"<Esc>"}}},
//	}, session)
//
//	handled, err := r.SendKey(ctx, keys)
//	if !handled && r.IsPotentialRemap() {
//	    // wait for more keys
//	}
package remap
