package key

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsModified returns true if any modifier is pressed.
// For character events, Shift alone is not considered modified
// (since Shift changes the character itself).
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// Token returns the canonical bracket notation for the event.
// Unmodified characters are returned as-is; everything else is wrapped
// in angle brackets. Examples: "a", "A", "<Esc>", "<C-w>", "<Space>", "<lt>".
func (e Event) Token() string {
	if e.IsRune() && !e.IsModified() {
		switch e.Rune {
		case ' ':
			return "<Space>"
		case '<':
			return "<lt>"
		}
		return string(e.Rune)
	}

	// A character's case already says whether Shift was held.
	mods := e.Modifiers
	if e.IsRune() {
		mods = mods.Without(ModShift)
	}

	var name string
	switch {
	case e.Key != KeyRune:
		name = e.Key.String()
	case e.Rune == ' ':
		name = "Space"
	case e.Rune == '<':
		name = "lt"
	default:
		name = string(e.Rune)
	}
	return "<" + mods.prefix() + name + ">"
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return e.Token()
}
