package richtext

import (
	"golang.org/x/text/unicode/bidi"
)

// Alignment is the paragraph alignment, relative to writing direction.
type Alignment int

const (
	// AlignLeading aligns lines to the leading edge (left in LTR).
	AlignLeading Alignment = iota
	// AlignCenter centers lines in the container.
	AlignCenter
	// AlignTrailing aligns lines to the trailing edge.
	AlignTrailing
)

// String returns the alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignLeading:
		return "leading"
	case AlignCenter:
		return "center"
	case AlignTrailing:
		return "trailing"
	default:
		return "unknown"
	}
}

// ParseAlignment parses an alignment name. Unknown names map to leading.
func ParseAlignment(s string) Alignment {
	switch s {
	case "center":
		return AlignCenter
	case "trailing", "right":
		return AlignTrailing
	default:
		return AlignLeading
	}
}

// Direction is the base writing direction.
type Direction int

const (
	// DirectionLeftToRight lays out lines left to right.
	DirectionLeftToRight Direction = iota
	// DirectionRightToLeft lays out lines right to left.
	DirectionRightToLeft
	// DirectionAuto resolves the direction from the first strong
	// directional character of the content.
	DirectionAuto
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionLeftToRight:
		return "ltr"
	case DirectionRightToLeft:
		return "rtl"
	case DirectionAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseDirection parses a direction name. Unknown names map to ltr.
func ParseDirection(s string) Direction {
	switch s {
	case "rtl", "right-to-left":
		return DirectionRightToLeft
	case "auto":
		return DirectionAuto
	default:
		return DirectionLeftToRight
	}
}

// Truncation is the line truncation mode.
type Truncation int

const (
	// TruncateNone wraps overlong lines.
	TruncateNone Truncation = iota
	// TruncateTail clips each paragraph to one line with a trailing
	// ellipsis.
	TruncateTail
)

// String returns the truncation mode name.
func (t Truncation) String() string {
	switch t {
	case TruncateNone:
		return "none"
	case TruncateTail:
		return "tail"
	default:
		return "unknown"
	}
}

// ParseTruncation parses a truncation mode name. Unknown names map to
// none.
func ParseTruncation(s string) Truncation {
	switch s {
	case "tail":
		return TruncateTail
	default:
		return TruncateNone
	}
}

// Environment is the explicit configuration consumed by Build: every
// recognized default, enumerated, with no ambient state. The zero value
// is usable; DefaultEnvironment supplies the documented defaults.
type Environment struct {
	// Font is the default font for runs without an explicit one.
	Font FontSpec
	// Foreground is the default text color.
	Foreground Color
	// Alignment is the paragraph alignment.
	Alignment Alignment
	// LineSpacing is extra space between line bands, in layout units.
	LineSpacing float64
	// Tightening permits kerning tightening when lines barely overflow.
	Tightening bool
	// Direction is the base writing direction.
	Direction Direction
	// Truncation is the line truncation mode.
	Truncation Truncation
	// LineHeight is a multiplier on the natural line height; zero means
	// 1.0.
	LineHeight float64
}

// DefaultEnvironment returns the default configuration.
func DefaultEnvironment() Environment {
	return Environment{
		Font:       FontSpec{Family: "Go", Size: 13},
		Foreground: White,
		Alignment:  AlignLeading,
		Direction:  DirectionLeftToRight,
		Truncation: TruncateNone,
		LineHeight: 1.0,
	}
}

// resolved returns a copy with auto values made concrete against the
// given document text: DirectionAuto resolves from the first strong
// directional character, zero LineHeight becomes 1.0.
func (e Environment) resolved(text string) Environment {
	out := e
	if out.Direction == DirectionAuto {
		out.Direction = detectDirection(text)
	}
	if out.LineHeight <= 0 {
		out.LineHeight = 1.0
	}
	if !out.Foreground.IsSet() {
		out.Foreground = DefaultEnvironment().Foreground
	}
	if !out.Font.IsSet() {
		out.Font = DefaultEnvironment().Font
	}
	return out
}

// detectDirection resolves a base direction from the first strong
// directional character, defaulting to left-to-right.
func detectDirection(text string) Direction {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return DirectionLeftToRight
		case bidi.R, bidi.AL:
			return DirectionRightToLeft
		}
	}
	return DirectionLeftToRight
}
