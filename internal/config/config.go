package config

import (
	"errors"
	"fmt"

	"github.com/dshills/keyremap/internal/input/key"
	"github.com/dshills/keyremap/internal/logging"
	"github.com/dshills/keyremap/internal/remap"
)

// Binding list names as they appear in config files.
const (
	GroupInsert                 = "insert"
	GroupInsertNonRecursive     = "insert_nonrecursive"
	GroupOtherModes             = "other_modes"
	GroupOtherModesNonRecursive = "other_modes_nonrecursive"
)

// File is the on-disk schema shared by TOML and YAML.
type File struct {
	Leader   string `toml:"leader" yaml:"leader"`
	LogLevel string `toml:"log_level" yaml:"log_level"`

	Insert                 []BindingEntry `toml:"insert" yaml:"insert"`
	InsertNonRecursive     []BindingEntry `toml:"insert_nonrecursive" yaml:"insert_nonrecursive"`
	OtherModes             []BindingEntry `toml:"other_modes" yaml:"other_modes"`
	OtherModesNonRecursive []BindingEntry `toml:"other_modes_nonrecursive" yaml:"other_modes_nonrecursive"`
}

// BindingEntry is one remap as written by the user. Before and After hold
// either a string in Vim notation or a list of single key specs.
type BindingEntry struct {
	Before   any            `toml:"before" yaml:"before"`
	After    any            `toml:"after" yaml:"after"`
	Commands []CommandEntry `toml:"commands" yaml:"commands"`
}

// CommandEntry is one command attached to a remap.
type CommandEntry struct {
	Command string `toml:"command" yaml:"command"`
	Args    any    `toml:"args" yaml:"args"`
}

// Config is a loaded, normalized remap configuration.
type Config struct {
	// Path is the file the config was read from; empty for defaults.
	Path string

	// Format of the source file.
	Format Format

	// Leader is the canonical token of the leader key.
	Leader string

	// LogLevel is the requested log level.
	LogLevel logging.Level

	// Remaps holds the normalized bindings for the remapper.
	Remaps remap.Config
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	n, _ := key.NewNormalizer("")
	return &Config{
		Leader:   n.Leader(),
		LogLevel: logging.LevelInfo,
	}
}

// BindingCount returns the number of bindings across all lists.
func (c *Config) BindingCount() int {
	if c == nil {
		return 0
	}
	r := c.Remaps
	return len(r.Insert) + len(r.InsertNonRecursive) + len(r.Other) + len(r.OtherNonRecursive)
}

// Build validates f and normalizes every key with the configured leader.
// All invalid entries are reported together.
func (f *File) Build() (*Config, error) {
	n, err := key.NewNormalizer(f.Leader)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Leader:   n.Leader(),
		LogLevel: logging.ParseLevel(f.LogLevel),
	}

	var errs []error
	build := func(group string, entries []BindingEntry) []remap.Binding {
		out := make([]remap.Binding, 0, len(entries))
		for i, entry := range entries {
			b, err := buildBinding(n, group, i, entry)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			out = append(out, b)
		}
		return out
	}

	cfg.Remaps = remap.Config{
		Insert:             build(GroupInsert, f.Insert),
		InsertNonRecursive: build(GroupInsertNonRecursive, f.InsertNonRecursive),
		Other:              build(GroupOtherModes, f.OtherModes),
		OtherNonRecursive:  build(GroupOtherModesNonRecursive, f.OtherModesNonRecursive),
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildBinding(n *key.Normalizer, group string, index int, entry BindingEntry) (remap.Binding, error) {
	fail := func(field string, err error) (remap.Binding, error) {
		return remap.Binding{}, &BindingError{Group: group, Index: index, Field: field, Err: err}
	}

	before, err := normalizeKeys(n, entry.Before)
	if err != nil {
		return fail("before", err)
	}
	if len(before) == 0 {
		return fail("before", ErrEmptyBefore)
	}

	after, err := normalizeKeys(n, entry.After)
	if err != nil {
		return fail("after", err)
	}

	var commands []remap.Command
	for _, c := range entry.Commands {
		if c.Command == "" {
			return fail("commands", ErrEmptyCommand)
		}
		commands = append(commands, remap.Command{Name: c.Command, Args: c.Args})
	}

	return remap.Binding{Before: before, After: after, Commands: commands}, nil
}

// normalizeKeys accepts nil, a Vim-notation string, or a list of key specs.
func normalizeKeys(n *key.Normalizer, v any) ([]string, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		return n.Sequence(v)
	case []string:
		return n.Keys(v)
	case []any:
		specs := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("key %d: %w (got %T)", i, ErrInvalidKeys, item)
			}
			specs[i] = s
		}
		return n.Keys(specs)
	default:
		return nil, fmt.Errorf("%w (got %T)", ErrInvalidKeys, v)
	}
}
