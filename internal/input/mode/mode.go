package mode

import (
	"fmt"
	"strings"
)

// Mode identifies an editor mode.
type Mode uint8

// Editor modes.
const (
	Normal Mode = iota
	Insert
	Visual
	VisualLine
	VisualBlock
	Replace
	CommandLine
)

// Standard mode names.
const (
	NameNormal      = "normal"
	NameInsert      = "insert"
	NameVisual      = "visual"
	NameVisualLine  = "visual-line"
	NameVisualBlock = "visual-block"
	NameReplace     = "replace"
	NameCommandLine = "command"
)

var modeNames = [...]string{
	Normal:      NameNormal,
	Insert:      NameInsert,
	Visual:      NameVisual,
	VisualLine:  NameVisualLine,
	VisualBlock: NameVisualBlock,
	Replace:     NameReplace,
	CommandLine: NameCommandLine,
}

// String returns the mode name.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// DisplayName returns the name shown in the status line.
func (m Mode) DisplayName() string {
	switch m {
	case Normal:
		return "NORMAL"
	case Insert:
		return "INSERT"
	case Visual:
		return "VISUAL"
	case VisualLine:
		return "VISUAL LINE"
	case VisualBlock:
		return "VISUAL BLOCK"
	case Replace:
		return "REPLACE"
	case CommandLine:
		return "COMMAND"
	default:
		return strings.ToUpper(m.String())
	}
}

// IsVisual returns true for the three visual modes.
func (m Mode) IsVisual() bool {
	return m == Visual || m == VisualLine || m == VisualBlock
}

// CursorStyle returns the cursor style for the mode.
func (m Mode) CursorStyle() CursorStyle {
	switch m {
	case Insert, CommandLine:
		return CursorBar
	case Replace:
		return CursorUnderline
	default:
		return CursorBlock
	}
}

// Parse returns the mode with the given name (case-insensitive).
func Parse(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown mode: %q", name)
}

// CursorStyle defines the visual appearance of the cursor.
type CursorStyle uint8

const (
	// CursorBlock is a full-cell block cursor (normal mode).
	CursorBlock CursorStyle = iota

	// CursorBar is a thin vertical bar cursor (insert mode).
	CursorBar

	// CursorUnderline is an underline cursor.
	CursorUnderline
)

// String returns a human-readable cursor style name.
func (c CursorStyle) String() string {
	switch c {
	case CursorBlock:
		return "block"
	case CursorBar:
		return "bar"
	case CursorUnderline:
		return "underline"
	default:
		return "unknown"
	}
}
