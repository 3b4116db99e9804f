package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a single key specification into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@", " "
//   - Special keys: "Enter", "Escape", "Tab", "Backspace", "Space"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>", "<lt>"
func Parse(spec string) (Event, error) {
	if utf8.RuneCountInString(spec) == 1 {
		return runeEvent([]rune(spec)[0]), nil
	}

	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseKeyWithModifiers(spec, ModNone)
}

// runeEvent builds the event for a bare character.
// Uppercase letters carry an implicit Shift.
func runeEvent(r rune) Event {
	var mods Modifier
	if unicode.IsUpper(r) {
		mods = ModShift
	}
	return NewRuneEvent(r, mods)
}

// parseVimStyle parses the inside of Vim-style notation like "C-s", "A-F4", "CR".
func parseVimStyle(inner string) (Event, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Event{}, ErrInvalidSpec
	}

	// "<C-->" binds Ctrl to the minus key.
	if strings.HasSuffix(inner, "--") {
		inner = strings.TrimSuffix(inner, "--") + "-minus"
	}

	parts := strings.Split(inner, "-")
	keyPart := parts[len(parts)-1]
	if keyPart == "minus" && len(parts) > 1 {
		keyPart = "-"
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod, ok := lookupModifier(p, true)
		if !ok {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKeyWithModifiers(keyPart, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Event, error) {
	parts := strings.Split(spec, "+")
	if len(parts) < 2 {
		return Event{}, ErrInvalidSpec
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod, ok := lookupModifier(p, false)
		if !ok {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	keyPart := parts[len(parts)-1]
	if keyPart == "" {
		// "Ctrl++" binds the plus key itself.
		keyPart = "+"
	}
	return parseKeyWithModifiers(keyPart, mods)
}

// parseKeyWithModifiers parses a key name or character with already-known modifiers.
func parseKeyWithModifiers(keyPart string, mods Modifier) (Event, error) {
	if keyPart != " " {
		keyPart = strings.TrimSpace(keyPart)
	}
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}

	lower := strings.ToLower(keyPart)
	if k, ok := keyNameMap[lower]; ok {
		return NewSpecialEvent(k, mods), nil
	}
	if r, ok := runeNameMap[lower]; ok {
		return NewRuneEvent(r, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}

	r := runes[0]
	switch {
	case mods.Has(ModCtrl):
		// Terminals cannot distinguish <C-a> from <C-A>.
		r = unicode.ToLower(r)
		mods = mods.Without(ModShift)
	case unicode.IsUpper(r):
		mods = mods.With(ModShift)
	}
	return NewRuneEvent(r, mods), nil
}

// SplitNotation splits a Vim-style key string into single key specs.
// Bracketed groups without whitespace ("<C-w>", "<leader>") stay whole;
// every other rune is its own spec. "jk<Esc>" yields ["j" "k" "<Esc>"].
func SplitNotation(s string) []string {
	var specs []string
	for i := 0; i < len(s); {
		if s[i] == '<' {
			if end := strings.IndexByte(s[i+1:], '>'); end > 0 {
				group := s[i : i+end+2]
				if !strings.ContainsAny(group[1:len(group)-1], " \t<") {
					specs = append(specs, group)
					i += len(group)
					continue
				}
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		specs = append(specs, string(r))
		i += size
	}
	return specs
}
