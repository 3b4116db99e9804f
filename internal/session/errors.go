package session

import "errors"

var (
	// ErrRecursiveRemap is returned when replayed keys nest deeper than the
	// session's maximum remap depth, usually a recursive binding that maps
	// a key to itself.
	ErrRecursiveRemap = errors.New("recursive remap: maximum depth exceeded")

	// ErrUnknownCommand is returned for unregistered host commands and
	// unknown line commands.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidArgument is returned for malformed line command arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)
