package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/keyremap/internal/input/mode"
)

// View is what the screen shows for one frame.
type View struct {
	Text    string
	Cursors []int // rune offsets; the first one is the primary cursor
	Mode    mode.Mode
	Status  string
}

// Screen draws a View on a tcell screen.
type Screen struct {
	scr tcell.Screen

	textStyle   tcell.Style
	cursorStyle tcell.Style
	statusStyle tcell.Style
}

// NewScreen opens the terminal.
func NewScreen() (*Screen, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := scr.Init(); err != nil {
		return nil, err
	}
	return Wrap(scr), nil
}

// Wrap uses an already initialized tcell screen.
func Wrap(scr tcell.Screen) *Screen {
	return &Screen{
		scr:         scr,
		textStyle:   tcell.StyleDefault,
		cursorStyle: tcell.StyleDefault.Reverse(true),
		statusStyle: tcell.StyleDefault.Reverse(true).Bold(true),
	}
}

// PollEvent waits for the next terminal event.
func (s *Screen) PollEvent() tcell.Event {
	return s.scr.PollEvent()
}

// Interrupt wakes PollEvent with an interrupt event carrying data.
func (s *Screen) Interrupt(data any) error {
	return s.scr.PostEvent(tcell.NewEventInterrupt(data))
}

// Sync redraws the whole terminal, as needed after a resize.
func (s *Screen) Sync() {
	s.scr.Sync()
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.scr.Fini()
}

// Draw renders v: the buffer on the first row, secondary cursors
// highlighted, and the status line on the last row.
func (s *Screen) Draw(v View) {
	s.scr.Clear()
	width, height := s.scr.Size()
	if width <= 0 || height <= 0 {
		return
	}

	secondary := make(map[int]bool, len(v.Cursors))
	for _, c := range v.Cursors[min(1, len(v.Cursors)):] {
		secondary[c] = true
	}

	col, primaryCol := 0, 0
	runes := []rune(v.Text)
	for i := 0; i <= len(runes); i++ {
		if len(v.Cursors) > 0 && i == v.Cursors[0] {
			primaryCol = col
		}
		if i == len(runes) || col >= width {
			break
		}
		r := runes[i]
		if r == '\t' {
			r = ' '
		}
		style := s.textStyle
		if secondary[i] {
			style = s.cursorStyle
		}
		s.scr.SetContent(col, 0, r, nil, style)
		col += max(1, runewidth.RuneWidth(r))
	}
	// A secondary cursor past the end of the text.
	if secondary[len(runes)] && col < width {
		s.scr.SetContent(col, 0, ' ', nil, s.cursorStyle)
	}

	s.drawStatus(v.Status, width, height-1)

	s.scr.SetCursorStyle(cursorShape(v.Mode))
	s.scr.ShowCursor(min(primaryCol, width-1), 0)
	s.scr.Show()
}

func (s *Screen) drawStatus(status string, width, row int) {
	for x := 0; x < width; x++ {
		s.scr.SetContent(x, row, ' ', nil, s.statusStyle)
	}

	col := 0
	g := uniseg.NewGraphemes(status)
	for g.Next() {
		w := g.Width()
		if col+w > width {
			return
		}
		rs := g.Runes()
		s.scr.SetContent(col, row, rs[0], rs[1:], s.statusStyle)
		col += w
	}
}

func cursorShape(m mode.Mode) tcell.CursorStyle {
	switch m.CursorStyle() {
	case mode.CursorBar:
		return tcell.CursorStyleSteadyBar
	case mode.CursorUnderline:
		return tcell.CursorStyleSteadyUnderline
	default:
		return tcell.CursorStyleSteadyBlock
	}
}
