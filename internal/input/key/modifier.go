package key

import "strings"

// Modifier is the set of modifier keys held during a key press. Vim
// notation writes each one as a single-letter prefix: <C-x>, <A-x>, <D-x>,
// <S-x>.
type Modifier uint8

const (
	ModNone Modifier = 0

	ModCtrl Modifier = 1 << (iota - 1)
	ModAlt
	ModMeta // Cmd on macOS, Super elsewhere; "D" in Vim notation
	ModShift
)

// prefixOrder is the order modifier letters appear in a canonical token.
var prefixOrder = [...]struct {
	mod    Modifier
	letter byte
}{
	{ModCtrl, 'C'},
	{ModAlt, 'A'},
	{ModMeta, 'D'},
	{ModShift, 'S'},
}

// Has reports whether m includes mod.
func (m Modifier) Has(mod Modifier) bool { return m&mod != 0 }

// With returns m plus mod.
func (m Modifier) With(mod Modifier) Modifier { return m | mod }

// Without returns m minus mod.
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }

// prefix renders m as the letters before the key name, "C-S-" for
// Ctrl+Shift.
func (m Modifier) prefix() string {
	var sb strings.Builder
	for _, p := range prefixOrder {
		if m.Has(p.mod) {
			sb.WriteByte(p.letter)
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// String returns the Vim prefix letters without the trailing dash, e.g.
// "C-S". It is empty for ModNone.
func (m Modifier) String() string {
	return strings.TrimSuffix(m.prefix(), "-")
}

// bracketModifiers are the letters accepted inside <...>. Vim reads M as Alt.
var bracketModifiers = map[string]Modifier{
	"c": ModCtrl,
	"a": ModAlt,
	"m": ModAlt,
	"d": ModMeta,
	"s": ModShift,
}

// plusModifiers are the extra spellings accepted in "Ctrl+S" style specs.
var plusModifiers = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"opt":     ModAlt,
	"option":  ModAlt,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"super":   ModMeta,
	"shift":   ModShift,
}

// lookupModifier resolves a modifier spelling case-insensitively. Inside
// brackets only the Vim letters are valid.
func lookupModifier(name string, bracket bool) (Modifier, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if m, ok := bracketModifiers[name]; ok {
		return m, true
	}
	if bracket {
		return ModNone, false
	}
	m, ok := plusModifiers[name]
	return m, ok
}
