package richtext

import (
	"sort"
)

// Placeholder is the reserved code point standing in for one widget in
// the buffer: U+FFFC OBJECT REPLACEMENT CHARACTER.
const Placeholder rune = '￼'

// Run is a maximal stretch of buffer text with one resolved style.
type Run struct {
	Start, End int
	Style      Style
}

// Range returns the run's extent as a Range.
func (r Run) Range() Range {
	return Range{Start: r.Start, End: r.End}
}

// Slot binds one placeholder position to its attachment.
type Slot struct {
	Pos int
	Ref *Attachment
}

// Range returns the one-rune range occupied by the placeholder.
func (s Slot) Range() Range {
	return Range{Start: s.Pos, End: s.Pos + 1}
}

// Buffer is the character-level representation a text surface lays out:
// plain characters plus one placeholder per widget, covering style runs
// in the surface-native namespace, and the resolved environment.
// Buffers are immutable after Build.
type Buffer struct {
	text  []rune
	runs  []Run
	slots []Slot
	env   Environment
}

// Len returns the buffer length in runes.
func (b *Buffer) Len() int {
	return len(b.text)
}

// EntireRange returns the range covering the whole buffer.
func (b *Buffer) EntireRange() Range {
	return Range{Start: 0, End: len(b.text)}
}

// RuneAt returns the rune at pos. Out-of-range positions return 0.
func (b *Buffer) RuneAt(pos int) rune {
	if pos < 0 || pos >= len(b.text) {
		return 0
	}
	return b.text[pos]
}

// Runes returns a copy of the buffer's runes, placeholders included.
func (b *Buffer) Runes() []rune {
	out := make([]rune, len(b.text))
	copy(out, b.text)
	return out
}

// String returns the raw buffer text, placeholders included. Extraction
// for display goes through the interceptor, never through String.
func (b *Buffer) String() string {
	return string(b.text)
}

// Environment returns the resolved environment the buffer was built
// with.
func (b *Buffer) Environment() Environment {
	return b.env
}

// Runs returns a copy of the style runs, in document order.
func (b *Buffer) Runs() []Run {
	out := make([]Run, len(b.runs))
	copy(out, b.runs)
	return out
}

// StyleAt returns the resolved style at pos. Positions outside the
// buffer get the environment default.
func (b *Buffer) StyleAt(pos int) Style {
	i := sort.Search(len(b.runs), func(i int) bool {
		return b.runs[i].End > pos
	})
	if i < len(b.runs) && pos >= b.runs[i].Start && pos < b.runs[i].End {
		return b.runs[i].Style
	}
	return resolveStyle(Attributes{}, b.env)
}

// RunsIn calls fn for each style run clipped to r, in document order,
// stopping early if fn returns false.
func (b *Buffer) RunsIn(r Range, fn func(Range, Style) bool) {
	r = r.Clamp(len(b.text))
	if r.IsEmpty() {
		return
	}
	for _, run := range b.runs {
		if run.End <= r.Start {
			continue
		}
		if run.Start >= r.End {
			return
		}
		clipped := run.Range().Intersect(r)
		if clipped.IsEmpty() {
			continue
		}
		if !fn(clipped, run.Style) {
			return
		}
	}
}

// Slots returns a copy of the placeholder slots, in document order.
func (b *Buffer) Slots() []Slot {
	out := make([]Slot, len(b.slots))
	copy(out, b.slots)
	return out
}

// SlotsIn calls fn for each placeholder slot inside r, in document
// order, stopping early if fn returns false.
func (b *Buffer) SlotsIn(r Range, fn func(Slot) bool) {
	for _, s := range b.slots {
		if s.Pos < r.Start {
			continue
		}
		if s.Pos >= r.End {
			return
		}
		if !fn(s) {
			return
		}
	}
}

// SlotAt returns the attachment whose placeholder sits at pos.
func (b *Buffer) SlotAt(pos int) (*Attachment, bool) {
	i := sort.Search(len(b.slots), func(i int) bool {
		return b.slots[i].Pos >= pos
	})
	if i < len(b.slots) && b.slots[i].Pos == pos {
		return b.slots[i].Ref, true
	}
	return nil, false
}

// SlotRange returns the placeholder range for the given identity.
func (b *Buffer) SlotRange(id Identity) (Range, bool) {
	for _, s := range b.slots {
		if s.Ref.Identity() == id {
			return s.Range(), true
		}
	}
	return Range{}, false
}

// PlaceholderCount returns the number of widget placeholders.
func (b *Buffer) PlaceholderCount() int {
	return len(b.slots)
}

// AdjacentTextPos returns the position of the character whose font
// governs baseline alignment at pos: the nearest preceding, else
// following, position holding neither a newline nor a placeholder.
func (b *Buffer) AdjacentTextPos(pos int) (int, bool) {
	for i := pos - 1; i >= 0; i-- {
		if b.isFontBearing(i) {
			return i, true
		}
	}
	for i := pos + 1; i < len(b.text); i++ {
		if b.isFontBearing(i) {
			return i, true
		}
	}
	return 0, false
}

// isFontBearing reports whether the rune at i carries a text font.
func (b *Buffer) isFontBearing(i int) bool {
	r := b.text[i]
	return r != '\n' && r != Placeholder
}
