package config

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBefore is returned for a binding without trigger keys.
	ErrEmptyBefore = errors.New("before must not be empty")

	// ErrInvalidKeys is returned when a key list is neither a string nor a list of strings.
	ErrInvalidKeys = errors.New("keys must be a string or a list of strings")

	// ErrEmptyCommand is returned for a command entry without a name.
	ErrEmptyCommand = errors.New("command name must not be empty")

	// ErrUnsupportedFormat is returned for files that are neither TOML nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// ParseError reports a file that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// BindingError reports an invalid binding entry.
type BindingError struct {
	Group string // Binding list name, e.g. "insert"
	Index int    // Zero-based position in the list
	Field string // "before", "after" or "commands"
	Err   error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("%s[%d].%s: %v", e.Group, e.Index, e.Field, e.Err)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}
