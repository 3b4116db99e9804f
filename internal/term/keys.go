// Package term connects a tcell terminal to a keyremap session.
package term

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyremap/internal/input/key"
)

// specialKeys maps tcell's named keys. Control-letter codes that share a
// value with a named key (Tab is Ctrl-I, Enter is Ctrl-M, Esc is Ctrl-[)
// resolve to the named key.
var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

// ConvertKey converts a tcell key event. ok is false for keys that have no
// notation, such as bare modifier presses.
func ConvertKey(ev *tcell.EventKey) (e key.Event, ok bool) {
	mods := convertMod(ev.Modifiers())

	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if mods.Has(key.ModCtrl) {
			r = unicode.ToLower(r)
		}
		// Shift is implied by the rune itself.
		return key.NewRuneEvent(r, mods.Without(key.ModShift)), true
	}

	if ev.Key() == tcell.KeyBacktab {
		return key.NewSpecialEvent(key.KeyTab, mods.With(key.ModShift)), true
	}

	if k, found := specialKeys[ev.Key()]; found {
		// Control codes that double as named keys carry a spurious Ctrl.
		if ev.Key() < tcell.KeyDEL {
			mods = mods.Without(key.ModCtrl)
		}
		return key.NewSpecialEvent(k, mods), true
	}

	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		r := 'a' + rune(ev.Key()-tcell.KeyCtrlA)
		return key.NewRuneEvent(r, mods.With(key.ModCtrl).Without(key.ModShift)), true
	}

	return key.Event{}, false
}

// Token converts a tcell key event to a canonical token through n, so the
// leader key becomes "<leader>".
func Token(n *key.Normalizer, ev *tcell.EventKey) (string, bool) {
	e, ok := ConvertKey(ev)
	if !ok {
		return "", false
	}
	return n.Event(e), true
}

// convertMod converts tcell modifiers.
func convertMod(m tcell.ModMask) key.Modifier {
	var mod key.Modifier
	if m&tcell.ModShift != 0 {
		mod = mod.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mod = mod.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mod = mod.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mod = mod.With(key.ModMeta)
	}
	return mod
}
