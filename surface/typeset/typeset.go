// Package typeset implements the text surface on rasterized outline
// fonts: point units, kerned advances, and proportional line bands.
// Faces come from the embedded Go font family, selected per style run.
package typeset

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/geom"
	"github.com/g-Off/RichText/surface"
)

// Measurer reports the live size of a widget identity.
type Measurer interface {
	SizeOf(id richtext.Identity) (geom.Size, bool)
}

// Config holds the typesetter's construction options.
type Config struct {
	// Width is the wrap width in points.
	Width float64
	// Offset is the container's inset in view coordinates.
	Offset geom.Point
	// Measurer supplies live widget sizes.
	Measurer Measurer
	// DPI is the rasterization density; zero means 72.
	DPI float64
	// SelectionBackground is the render-time highlight color.
	SelectionBackground richtext.Color
}

// DefaultConfig returns the default typesetter configuration.
func DefaultConfig() Config {
	return Config{
		Width:               640,
		DPI:                 72,
		SelectionBackground: richtext.Blue.Blend(richtext.White, 0.75),
	}
}

// faceKey selects one cached face variant.
type faceKey struct {
	bold, italic, mono bool
	size               float64
}

// faceBank parses the embedded Go fonts once and caches sized faces.
type faceBank struct {
	regular    *opentype.Font
	bold       *opentype.Font
	italic     *opentype.Font
	boldItalic *opentype.Font
	mono       *opentype.Font
	monoBold   *opentype.Font

	dpi   float64
	cache map[faceKey]font.Face
}

func newFaceBank(dpi float64) (*faceBank, error) {
	bank := &faceBank{dpi: dpi, cache: map[faceKey]font.Face{}}
	parsed := []struct {
		dst **opentype.Font
		ttf []byte
	}{
		{&bank.regular, goregular.TTF},
		{&bank.bold, gobold.TTF},
		{&bank.italic, goitalic.TTF},
		{&bank.boldItalic, gobolditalic.TTF},
		{&bank.mono, gomono.TTF},
		{&bank.monoBold, gomonobold.TTF},
	}
	for _, p := range parsed {
		f, err := opentype.Parse(p.ttf)
		if err != nil {
			return nil, fmt.Errorf("parsing embedded font: %w", err)
		}
		*p.dst = f
	}
	return bank, nil
}

// face returns the cached face for a style, creating it on first use.
func (b *faceBank) face(s richtext.Style) (font.Face, error) {
	size := s.Font.Size
	if size <= 0 {
		size = richtext.DefaultEnvironment().Font.Size
	}
	key := faceKey{
		bold:   s.Flags.Has(richtext.FlagBold),
		italic: s.Flags.Has(richtext.FlagItalic),
		mono:   s.Flags.Has(richtext.FlagCode),
		size:   size,
	}
	if f, ok := b.cache[key]; ok {
		return f, nil
	}

	base := b.regular
	switch {
	case key.mono && key.bold:
		base = b.monoBold
	case key.mono:
		base = b.mono
	case key.bold && key.italic:
		base = b.boldItalic
	case key.bold:
		base = b.bold
	case key.italic:
		base = b.italic
	}

	f, err := opentype.NewFace(base, &opentype.FaceOptions{
		Size:    key.size,
		DPI:     b.dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("sizing face: %w", err)
	}
	b.cache[key] = f
	return f, nil
}

// item is one measured unit on a line.
type item struct {
	start, end int
	width      float64
	ascent     float64
	descent    float64
	x          float64
	text       string
	face       font.Face
	style      richtext.Style
	widget     *richtext.Attachment
	synthetic  bool
}

// line is one laid-out band.
type line struct {
	start, end int
	top        float64
	ascent     float64
	descent    float64
	width      float64
	items      []item
}

func (ln line) height() float64 {
	return ln.ascent + ln.descent
}

// Typesetter is the rasterized text surface. All methods must be
// called from the goroutine that owns it.
type Typesetter struct {
	cfg    Config
	bank   *faceBank
	buffer *richtext.Buffer

	lines  []line
	height float64
	laid   bool

	layouts atomic.Uint64
}

// New creates a typesetter with the given configuration. It parses the
// embedded font family once up front.
func New(cfg Config) (*Typesetter, error) {
	if cfg.Width <= 0 {
		cfg.Width = DefaultConfig().Width
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 72
	}
	bank, err := newFaceBank(cfg.DPI)
	if err != nil {
		return nil, err
	}
	return &Typesetter{cfg: cfg, bank: bank}, nil
}

// SetBuffer replaces the displayed content and marks layout stale.
func (ts *Typesetter) SetBuffer(buf *richtext.Buffer) {
	ts.buffer = buf
	ts.lines = nil
	ts.laid = false
}

// Buffer returns the current buffer, nil before the first SetBuffer.
func (ts *Typesetter) Buffer() *richtext.Buffer {
	return ts.buffer
}

// InvalidateLayout marks the layout stale. Proportional re-flow
// cascades through every following line, so invalidation is
// whole-document.
func (ts *Typesetter) InvalidateLayout(richtext.Range) {
	ts.laid = false
}

// EnsureLayout completes layout covering r, re-flowing if stale.
func (ts *Typesetter) EnsureLayout(richtext.Range) {
	if ts.buffer == nil || ts.laid {
		return
	}
	ts.relayout()
	ts.laid = true
}

// ContainerOffset returns the container's inset in view coordinates.
func (ts *Typesetter) ContainerOffset() geom.Point {
	return ts.cfg.Offset
}

// ContentHeight returns the laid-out document height in points.
func (ts *Typesetter) ContentHeight() float64 {
	return ts.height
}

// Advance returns the measured advance of s in the given style,
// including kerning. Hosts use it to size widgets against surrounding
// text.
func (ts *Typesetter) Advance(s string, style richtext.Style) float64 {
	f, err := ts.bank.face(style)
	if err != nil {
		return 0
	}
	w, _ := measure(f, s, style.Kerning)
	return w
}

// MetricsAt returns the font metrics of the style run covering a text
// position. Placeholders and newlines carry no font.
func (ts *Typesetter) MetricsAt(pos int) (surface.Metrics, bool) {
	if ts.buffer == nil || pos < 0 || pos >= ts.buffer.Len() {
		return surface.Metrics{}, false
	}
	r := ts.buffer.RuneAt(pos)
	if r == richtext.Placeholder || r == '\n' {
		return surface.Metrics{}, false
	}
	f, err := ts.bank.face(ts.buffer.StyleAt(pos))
	if err != nil {
		return surface.Metrics{}, false
	}
	m := f.Metrics()
	return surface.Metrics{Ascent: fromFixed(m.Ascent), Descent: fromFixed(m.Descent)}, true
}

// Stats returns a snapshot of the typesetter's counters.
func (ts *Typesetter) Stats() TypesetterStats {
	return TypesetterStats{Layouts: ts.layouts.Load()}
}

// TypesetterStats contains counters describing layout activity.
type TypesetterStats struct {
	// Layouts is the number of layout passes run.
	Layouts uint64
}

// fromFixed converts a 26.6 fixed-point value to points.
func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// toFixed converts points to 26.6 fixed-point.
func toFixed(p float64) fixed.Int26_6 {
	return fixed.Int26_6(p*64 + 0.5)
}

// measure returns the advance of s under a face, with per-gap extra
// kerning, plus the rune of the final glyph for cross-item kerning.
func measure(f font.Face, s string, extraKern float64) (float64, rune) {
	var (
		adv  fixed.Int26_6
		prev rune = -1
	)
	for _, r := range s {
		if prev >= 0 {
			adv += f.Kern(prev, r)
			adv += toFixed(extraKern)
		}
		a, ok := f.GlyphAdvance(r)
		if !ok {
			a, _ = f.GlyphAdvance('�')
		}
		adv += a
		prev = r
	}
	return fromFixed(adv), prev
}
