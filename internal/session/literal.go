package session

import (
	"context"
	"unicode/utf8"

	"github.com/dshills/keyremap/internal/input/key"
	"github.com/dshills/keyremap/internal/input/mode"
)

// literal executes tok with its built-in meaning in the current mode.
func (s *Session) literal(ctx context.Context, tok string) error {
	switch s.Mode() {
	case mode.Insert:
		s.insertKey(tok)
	case mode.Replace:
		s.replaceKey(tok)
	case mode.CommandLine:
		return s.commandLineKey(ctx, tok)
	default:
		s.normalKey(tok)
	}
	return nil
}

func (s *Session) normalKey(tok string) {
	if d, ok := digit(tok); ok && (d != 0 || s.count > 0) {
		s.count = s.count*10 + d
		return
	}

	count := max(1, s.count)
	s.count = 0

	switch tok {
	case "i":
		s.modes.Switch(mode.Insert)
	case "a":
		s.buf.Move(1)
		s.modes.Switch(mode.Insert)
	case "I":
		s.buf.SetCursors(0)
		s.modes.Switch(mode.Insert)
	case "A":
		s.buf.SetCursors(s.buf.Len())
		s.modes.Switch(mode.Insert)
	case "v":
		s.toggleVisual(mode.Visual)
	case "V":
		s.toggleVisual(mode.VisualLine)
	case "<C-v>":
		s.toggleVisual(mode.VisualBlock)
	case "R":
		s.modes.Switch(mode.Replace)
	case ":":
		s.modes.Switch(mode.CommandLine)
	case "<Esc>":
		s.modes.Switch(mode.Normal)
	case "x", "<Del>":
		s.buf.DeleteUnderCursor(count)
	case "h", "<Left>", "<BS>":
		s.buf.Move(-count)
	case "l", "<Right>", "<Space>":
		s.buf.Move(count)
	case "0", "<Home>":
		s.buf.SetCursors(0)
	case "$", "<End>":
		s.buf.SetCursors(s.buf.Len())
	default:
		s.logger.Debug("no action for %q in %s mode", tok, s.Mode())
	}
}

func (s *Session) toggleVisual(m mode.Mode) {
	if s.Mode() == m {
		s.modes.Switch(mode.Normal)
		return
	}
	s.modes.Switch(m)
}

func (s *Session) insertKey(tok string) {
	switch tok {
	case "<Esc>":
		s.modes.Switch(mode.Normal)
		s.buf.Move(-1)
	case "<BS>":
		s.buf.Backspace()
	case "<Left>":
		s.buf.Move(-1)
	case "<Right>":
		s.buf.Move(1)
	default:
		if r, ok := s.tokenRune(tok); ok {
			s.buf.Insert(r)
		}
	}
}

func (s *Session) replaceKey(tok string) {
	switch tok {
	case "<Esc>":
		s.modes.Switch(mode.Normal)
		s.buf.Move(-1)
	case "<BS>", "<Left>":
		s.buf.Move(-1)
	default:
		if r, ok := s.tokenRune(tok); ok {
			s.buf.DeleteUnderCursor(1)
			s.buf.Insert(r)
		}
	}
}

func (s *Session) commandLineKey(ctx context.Context, tok string) error {
	switch tok {
	case "<Esc>":
		s.modes.Switch(mode.Normal)
	case "<CR>":
		line := string(s.cmdline)
		s.modes.Switch(mode.Normal)
		if err := s.RunLineCommand(ctx, line); err != nil {
			s.message = err.Error()
			return err
		}
		return s.RefreshView(ctx)
	case "<BS>":
		if len(s.cmdline) == 0 {
			s.modes.Switch(mode.Normal)
			return nil
		}
		s.cmdline = s.cmdline[:len(s.cmdline)-1]
	default:
		if r, ok := s.tokenRune(tok); ok {
			s.cmdline = append(s.cmdline, r)
		}
	}
	return nil
}

// tokenRune returns the character a token types as text.
func (s *Session) tokenRune(tok string) (rune, bool) {
	if tok == key.LeaderToken {
		tok = s.leader
	}
	switch tok {
	case "<Space>":
		return ' ', true
	case "<lt>":
		return '<', true
	case "<Tab>":
		return '\t', true
	}
	if utf8.RuneCountInString(tok) == 1 {
		r, _ := utf8.DecodeRuneInString(tok)
		return r, true
	}
	return 0, false
}

func digit(tok string) (int, bool) {
	if len(tok) != 1 || tok[0] < '0' || tok[0] > '9' {
		return 0, false
	}
	return int(tok[0] - '0'), true
}
