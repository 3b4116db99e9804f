// Package key provides key event types and key notation parsing.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press with modifiers
//   - Normalizer: Turns key specs into canonical tokens
//
// # Key Specifications
//
// Key specifications can be written in multiple formats:
//
//   - Simple keys: "a", "A", "1", "Enter", "Escape"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
//
// # Tokens
//
// Remapping works on canonical tokens rather than events. A token is the
// Vim bracket notation of an event ("j", "<Esc>", "<C-w>"), with the leader
// key folded into "<leader>". Two key presses are the same key exactly when
// their tokens are equal strings.
package key
