package richtext

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color in the framework attribute namespace. The zero
// value is unset: an unset color inherits from the environment during
// attribute resolution.
type Color struct {
	R, G, B uint8

	set bool
}

// RGB creates a color from components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, set: true}
}

// Hex parses a color from a hex string ("#RRGGBB" or "#RGB", leading
// '#' optional).
func Hex(hex string) (Color, error) {
	s := hex
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, set: true}, nil
}

// MustHex is Hex that panics on invalid input. For package-level color
// constants.
func MustHex(hex string) Color {
	c, err := Hex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Common colors.
var (
	Black   = RGB(0, 0, 0)
	White   = RGB(255, 255, 255)
	Gray    = RGB(128, 128, 128)
	Red     = RGB(255, 0, 0)
	Green   = RGB(0, 255, 0)
	Blue    = RGB(0, 0, 255)
	Yellow  = RGB(255, 255, 0)
	Cyan    = RGB(0, 255, 255)
	Magenta = RGB(255, 0, 255)

	// LinkBlue is the conventional hyperlink color.
	LinkBlue = MustHex("#0066cc")
)

// IsSet returns true if the color carries an explicit value.
func (c Color) IsSet() bool {
	return c.set
}

// Or returns c when set, otherwise def.
func (c Color) Or(def Color) Color {
	if c.set {
		return c
	}
	return def
}

// Equals returns true if two colors are equal. Two unset colors are
// equal regardless of their component values.
func (c Color) Equals(other Color) bool {
	if c.set != other.set {
		return false
	}
	if !c.set {
		return true
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// Blend mixes c toward other by amount in [0, 1], blending in L*a*b*
// space for perceptually even results. Unset operands return the other
// color unchanged.
func (c Color) Blend(other Color, amount float64) Color {
	if !c.set {
		return other
	}
	if !other.set {
		return c
	}
	blended := c.colorful().BlendLab(other.colorful(), amount).Clamped()
	r, g, b := blended.RGB255()
	return Color{R: r, G: g, B: b, set: true}
}

// Darken returns the color blended toward black.
func (c Color) Darken(amount float64) Color {
	return c.Blend(Black, amount)
}

// Lighten returns the color blended toward white.
func (c Color) Lighten(amount float64) Color {
	return c.Blend(White, amount)
}

// Hex returns the "#RRGGBB" form, or the empty string when unset.
func (c Color) Hex() string {
	if !c.set {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String returns a string representation of the color.
func (c Color) String() string {
	if !c.set {
		return "unset"
	}
	return c.Hex()
}

// colorful converts to the blending library's representation.
func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}
