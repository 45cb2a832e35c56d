package richtext

import "fmt"

// Range is a half-open interval of rune offsets [Start, End) over a
// buffer.
type Range struct {
	Start, End int
}

// NewRange constructs a range, swapping endpoints if reversed.
func NewRange(start, end int) Range {
	if end < start {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// Len returns the number of runes covered.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// IsEmpty returns true if the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// Contains returns true if pos lies inside the range.
func (r Range) Contains(pos int) bool {
	return pos >= r.Start && pos < r.End
}

// Intersects returns true if two ranges overlap.
func (r Range) Intersects(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Intersect returns the overlapping part of two ranges; empty when they
// do not overlap.
func (r Range) Intersect(other Range) Range {
	start := r.Start
	if other.Start > start {
		start = other.Start
	}
	end := r.End
	if other.End < end {
		end = other.End
	}
	if end < start {
		return Range{Start: start, End: start}
	}
	return Range{Start: start, End: end}
}

// Union returns the smallest range covering both.
func (r Range) Union(other Range) Range {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	start := r.Start
	if other.Start < start {
		start = other.Start
	}
	end := r.End
	if other.End > end {
		end = other.End
	}
	return Range{Start: start, End: end}
}

// Clamp limits the range to [0, limit).
func (r Range) Clamp(limit int) Range {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.Start > limit {
		r.Start = limit
	}
	if r.End > limit {
		r.End = limit
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}

// String returns a string representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
