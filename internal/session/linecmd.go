package session

import (
	"context"
	"fmt"
	"strings"
)

// RunLineCommand implements remap.Editor. It interprets a command line
// without the leading ':'. Supported: w[rite], q[uit], wq, noh[lsearch],
// se[t], echo.
func (s *Session) RunLineCommand(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "w", "write":
		return s.write(ctx)
	case "q", "q!", "quit", "qa", "qa!":
		s.quit = true
		return nil
	case "wq", "x":
		if err := s.write(ctx); err != nil {
			return err
		}
		s.quit = true
		return nil
	case "noh", "nohl", "nohlsearch":
		s.highlight = false
		return nil
	case "se", "set":
		return s.set(arg)
	case "echo":
		s.message = strings.Trim(arg, `"'`)
		return nil
	default:
		return fmt.Errorf("%w: :%s", ErrUnknownCommand, name)
	}
}

func (s *Session) write(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.writeFn != nil {
		if err := s.writeFn(s.buf.String()); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	s.writes++
	s.message = fmt.Sprintf("%d characters written", s.buf.Len())
	return nil
}

// set handles "opt", "noopt" and "opt=value", several per line.
func (s *Session) set(arg string) error {
	if arg == "" {
		return fmt.Errorf("%w: set requires an option", ErrInvalidArgument)
	}
	for _, field := range strings.Fields(arg) {
		name, value, hasValue := strings.Cut(field, "=")
		switch {
		case name == "":
			return fmt.Errorf("%w: %q", ErrInvalidArgument, field)
		case hasValue:
			s.settings[name] = value
		case strings.HasPrefix(name, "no") && len(name) > 2:
			s.settings[name[2:]] = "false"
		default:
			s.settings[name] = "true"
		}
		if name == "hlsearch" || name == "hls" {
			s.highlight = true
		}
	}
	return nil
}
