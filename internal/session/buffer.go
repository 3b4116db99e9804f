package session

import "sort"

// Buffer is a single-line text buffer with one or more cursors.
//
// Cursor positions are rune offsets in [0, Len()], kept sorted and
// unique. Characters typed in Insert mode are remembered so the most
// recent insertions can be retracted, which is how an Insert-mode
// remap removes the trigger keys that were already typed.
type Buffer struct {
	text    []rune
	cursors []int

	// inserted holds the offsets of inserted runes, oldest first. Offsets
	// are kept current as the text around them changes.
	inserted []int
}

// NewBuffer creates a buffer holding text with one cursor at offset 0.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: []rune(text), cursors: []int{0}}
}

// String returns the buffer text.
func (b *Buffer) String() string { return string(b.text) }

// Len returns the text length in runes.
func (b *Buffer) Len() int { return len(b.text) }

// Cursors returns a copy of the cursor offsets in ascending order.
func (b *Buffer) Cursors() []int {
	out := make([]int, len(b.cursors))
	copy(out, b.cursors)
	return out
}

// CursorCount returns the number of cursors.
func (b *Buffer) CursorCount() int { return len(b.cursors) }

// Primary returns the first cursor offset.
func (b *Buffer) Primary() int { return b.cursors[0] }

// SetCursors replaces all cursors. Offsets are clamped and deduplicated;
// an empty list leaves a single cursor at 0.
func (b *Buffer) SetCursors(offsets ...int) {
	b.cursors = b.cursors[:0]
	for _, off := range offsets {
		b.cursors = append(b.cursors, b.clamp(off))
	}
	if len(b.cursors) == 0 {
		b.cursors = append(b.cursors, 0)
	}
	b.normalizeCursors()
}

// Move shifts every cursor by delta runes.
func (b *Buffer) Move(delta int) {
	for i := range b.cursors {
		b.cursors[i] = b.clamp(b.cursors[i] + delta)
	}
	b.normalizeCursors()
}

// Insert types r at every cursor.
func (b *Buffer) Insert(r rune) {
	for i := 0; i < len(b.cursors); i++ {
		b.insertAt(b.cursors[i], r)
	}
}

// Backspace deletes the rune before every cursor.
func (b *Buffer) Backspace() {
	for i := 0; i < len(b.cursors); i++ {
		if p := b.cursors[i]; p > 0 {
			b.deleteAt(p - 1)
		}
	}
}

// DeleteUnderCursor deletes up to n runes at the primary cursor.
func (b *Buffer) DeleteUnderCursor(n int) {
	for ; n > 0; n-- {
		p := b.cursors[0]
		if p >= len(b.text) {
			return
		}
		b.deleteAt(p)
	}
}

// Inserted returns how many insertions can still be retracted.
func (b *Buffer) Inserted() int { return len(b.inserted) }

// UndoInsertions retracts the last n inserted runes, newest first.
// It stops early when the insertion history runs out.
func (b *Buffer) UndoInsertions(n int) int {
	undone := 0
	for ; n > 0 && len(b.inserted) > 0; n-- {
		p := b.inserted[len(b.inserted)-1]
		b.deleteAt(p)
		undone++
	}
	return undone
}

// ForgetInsertions clears the insertion history.
func (b *Buffer) ForgetInsertions() {
	b.inserted = b.inserted[:0]
}

// insertAt inserts r at offset p. Cursors and recorded insertions at or
// after p move right.
func (b *Buffer) insertAt(p int, r rune) {
	b.text = append(b.text, 0)
	copy(b.text[p+1:], b.text[p:])
	b.text[p] = r

	for i := range b.cursors {
		if b.cursors[i] >= p {
			b.cursors[i]++
		}
	}
	for i := range b.inserted {
		if b.inserted[i] >= p {
			b.inserted[i]++
		}
	}
	b.inserted = append(b.inserted, p)
}

// deleteAt removes the rune at offset p.
func (b *Buffer) deleteAt(p int) {
	b.text = append(b.text[:p], b.text[p+1:]...)

	for i := range b.cursors {
		if b.cursors[i] > p {
			b.cursors[i]--
		}
	}
	b.normalizeCursors()

	// Drop the newest record of p, shift the rest.
	for i := len(b.inserted) - 1; i >= 0; i-- {
		if b.inserted[i] == p {
			b.inserted = append(b.inserted[:i], b.inserted[i+1:]...)
			break
		}
	}
	for i := range b.inserted {
		if b.inserted[i] > p {
			b.inserted[i]--
		}
	}
}

func (b *Buffer) clamp(off int) int {
	return max(0, min(off, len(b.text)))
}

func (b *Buffer) normalizeCursors() {
	sort.Ints(b.cursors)
	out := b.cursors[:1]
	for _, c := range b.cursors[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	b.cursors = out
}
