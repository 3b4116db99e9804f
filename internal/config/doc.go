// Package config loads remap definitions for keyremap.
//
// Remaps are read from remaps.toml, remaps.yaml or remaps.yml in the
// configuration directory, first match wins. Both formats share one schema:
//
//	leader = ","
//	log_level = "info"
//
//	[[insert]]
//	before = ["j", "j"]
//	after = ["<Esc>"]
//
//	[[other_modes_nonrecursive]]
//	before = "<leader>w"
//	commands = [{ command = ":w" }]
//
// Key lists accept one key spec per element; a plain string is read as a
// continuous Vim-style sequence. Every key is normalized to its canonical
// token, and the configured leader key becomes "<leader>".
//
// A Watcher reloads the file on change and hands the new Config to
// registered handlers.
package config
