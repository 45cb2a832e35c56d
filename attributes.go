package richtext

import (
	"strings"
)

// StyleFlags represents boolean text attributes (bold, italic, etc.).
// Flags are additive across merges.
type StyleFlags uint16

// Text attribute flags.
const (
	FlagNone          StyleFlags = 0
	FlagBold          StyleFlags = 1 << iota
	FlagItalic                   // Italic text
	FlagUnderline                // Underlined text
	FlagStrikethrough            // Strikethrough text
	FlagCode                     // Monospace/code text
)

// Has returns true if the flag set contains the given flag.
func (f StyleFlags) Has(flag StyleFlags) bool {
	return f&flag != 0
}

// With returns a new flag set with the given flag added.
func (f StyleFlags) With(flag StyleFlags) StyleFlags {
	return f | flag
}

// Without returns a new flag set with the given flag removed.
func (f StyleFlags) Without(flag StyleFlags) StyleFlags {
	return f &^ flag
}

// String returns a string representation of the flag set.
func (f StyleFlags) String() string {
	if f == FlagNone {
		return "none"
	}
	var parts []string
	if f.Has(FlagBold) {
		parts = append(parts, "bold")
	}
	if f.Has(FlagItalic) {
		parts = append(parts, "italic")
	}
	if f.Has(FlagUnderline) {
		parts = append(parts, "underline")
	}
	if f.Has(FlagStrikethrough) {
		parts = append(parts, "strikethrough")
	}
	if f.Has(FlagCode) {
		parts = append(parts, "code")
	}
	return strings.Join(parts, "|")
}

// FontSpec identifies a font by family and point size. The zero value is
// unset; unset fields inherit field-by-field during resolution.
type FontSpec struct {
	Family string
	Size   float64
}

// IsSet returns true if any field carries an explicit value.
func (f FontSpec) IsSet() bool {
	return f.Family != "" || f.Size > 0
}

// Or fills unset fields from def.
func (f FontSpec) Or(def FontSpec) FontSpec {
	if f.Family == "" {
		f.Family = def.Family
	}
	if f.Size <= 0 {
		f.Size = def.Size
	}
	return f
}

// Equals returns true if two specs are identical.
func (f FontSpec) Equals(other FontSpec) bool {
	return f.Family == other.Family && f.Size == other.Size
}

// Attributes is the framework attribute namespace carried by styled-text
// spans: sparse, with unset fields inheriting from merge defaults.
// Numeric fields treat zero as unset.
type Attributes struct {
	Foreground     Color
	Background     Color
	Font           FontSpec
	Flags          StyleFlags
	Kerning        float64
	BaselineOffset float64
	Link           string
}

// Merge fills unset attributes from defaults. Explicitly set values are
// never overwritten; flags accumulate.
func (a Attributes) Merge(defaults Attributes) Attributes {
	result := a
	result.Foreground = a.Foreground.Or(defaults.Foreground)
	result.Background = a.Background.Or(defaults.Background)
	result.Font = a.Font.Or(defaults.Font)
	result.Flags = a.Flags | defaults.Flags
	if result.Kerning == 0 {
		result.Kerning = defaults.Kerning
	}
	if result.BaselineOffset == 0 {
		result.BaselineOffset = defaults.BaselineOffset
	}
	if result.Link == "" {
		result.Link = defaults.Link
	}
	return result
}

// Equals returns true if two attribute sets are identical.
func (a Attributes) Equals(other Attributes) bool {
	return a.Foreground.Equals(other.Foreground) &&
		a.Background.Equals(other.Background) &&
		a.Font.Equals(other.Font) &&
		a.Flags == other.Flags &&
		a.Kerning == other.Kerning &&
		a.BaselineOffset == other.BaselineOffset &&
		a.Link == other.Link
}

// IsZero returns true if no attribute is set.
func (a Attributes) IsZero() bool {
	return a.Equals(Attributes{})
}

// WithForeground returns a copy with the foreground color set.
func (a Attributes) WithForeground(c Color) Attributes {
	a.Foreground = c
	return a
}

// WithBackground returns a copy with the background color set.
func (a Attributes) WithBackground(c Color) Attributes {
	a.Background = c
	return a
}

// WithFont returns a copy with the font spec set.
func (a Attributes) WithFont(f FontSpec) Attributes {
	a.Font = f
	return a
}

// Bold returns a copy with the bold flag added.
func (a Attributes) Bold() Attributes {
	a.Flags |= FlagBold
	return a
}

// Italic returns a copy with the italic flag added.
func (a Attributes) Italic() Attributes {
	a.Flags |= FlagItalic
	return a
}

// Underline returns a copy with the underline flag added.
func (a Attributes) Underline() Attributes {
	a.Flags |= FlagUnderline
	return a
}

// Strikethrough returns a copy with the strikethrough flag added.
func (a Attributes) Strikethrough() Attributes {
	a.Flags |= FlagStrikethrough
	return a
}

// Code returns a copy with the code flag added.
func (a Attributes) Code() Attributes {
	a.Flags |= FlagCode
	return a
}

// Style is the surface-native attribute namespace: the fully resolved
// form every run carries after aggregation. Foreground and font are
// always concrete; background stays unset for transparency.
type Style struct {
	Foreground     Color
	Background     Color
	Font           FontSpec
	Flags          StyleFlags
	Kerning        float64
	BaselineOffset float64
	Link           string
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Font.Equals(other.Font) &&
		s.Flags == other.Flags &&
		s.Kerning == other.Kerning &&
		s.BaselineOffset == other.BaselineOffset &&
		s.Link == other.Link
}

// resolveStyle converts framework attributes into the surface-native
// namespace against the environment: the second aggregation pass.
func resolveStyle(a Attributes, env Environment) Style {
	return Style{
		Foreground:     a.Foreground.Or(env.Foreground),
		Background:     a.Background,
		Font:           a.Font.Or(env.Font),
		Flags:          a.Flags,
		Kerning:        a.Kerning,
		BaselineOffset: a.BaselineOffset,
		Link:           a.Link,
	}
}
