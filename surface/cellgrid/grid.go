// Package cellgrid implements the text surface on a monospace cell
// grid: terminal units, grapheme-cluster measurement, soft wrapping,
// and line bands as tall as their tallest item. Widgets occupy whole
// cells; a line carrying a three-cell-tall widget is three cells tall,
// with text sitting on the shared baseline at the band's bottom.
package cellgrid

import (
	"sync/atomic"

	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/geom"
	"github.com/g-Off/RichText/surface"
)

// Measurer reports the live size of a widget identity. The attachment
// registry satisfies it; without one, placeholders reserve each
// attachment's construction-time intrinsic size.
type Measurer interface {
	SizeOf(id richtext.Identity) (geom.Size, bool)
}

// Config holds the grid's construction options.
type Config struct {
	// Width is the wrap width in cells.
	Width int
	// Height is the viewport height in cells; zero shows every line.
	Height int
	// Offset is the container's inset in screen coordinates.
	Offset geom.Point
	// Measurer supplies live widget sizes.
	Measurer Measurer
	// SelectionBackground is the render-time highlight color.
	SelectionBackground richtext.Color
}

// DefaultConfig returns the default grid configuration.
func DefaultConfig() Config {
	return Config{
		Width:               80,
		SelectionBackground: richtext.Blue.Blend(richtext.Black, 0.35),
	}
}

// item is one measured unit on a line: a grapheme cluster, a widget
// placeholder, or a synthetic ellipsis.
type item struct {
	start, end int
	width      int
	height     int
	x          int
	cluster    string
	widget     *richtext.Attachment
	synthetic  bool
}

// line is one laid-out band of the document.
type line struct {
	start, end int
	top        int
	height     int
	width      int
	items      []item
}

// Grid is the cell-grid text surface. All methods must be called from
// the goroutine that owns the grid.
type Grid struct {
	cfg    Config
	buffer *richtext.Buffer

	lines  []line
	height int
	laid   bool
	stale  int

	scrollTop int

	layouts  atomic.Uint64
	partials atomic.Uint64
}

// New creates a grid with the given configuration.
func New(cfg Config) *Grid {
	if cfg.Width <= 0 {
		cfg.Width = DefaultConfig().Width
	}
	return &Grid{cfg: cfg, stale: -1}
}

// SetBuffer replaces the displayed content and marks all layout stale.
func (g *Grid) SetBuffer(buf *richtext.Buffer) {
	g.buffer = buf
	g.lines = nil
	g.laid = false
	g.stale = -1
	g.clampScroll()
}

// Buffer returns the current buffer, nil before the first SetBuffer.
func (g *Grid) Buffer() *richtext.Buffer {
	return g.buffer
}

// EnsureLayout completes layout covering r. Layout is lazy and
// partial: a clean grid returns immediately, and a stale one re-flows
// only from the line preceding the earliest stale position. A request
// that lies entirely before the stale region is already valid and
// triggers no work.
func (g *Grid) EnsureLayout(r richtext.Range) {
	if g.buffer == nil {
		return
	}
	if !g.laid {
		g.relayoutFrom(0)
		g.laid = true
		g.stale = -1
		return
	}
	if g.stale < 0 {
		return
	}

	li := g.lineIndexAt(g.stale)
	if li > 0 {
		// Content can flow backwards into the previous line when an
		// item shrinks, so re-flow starts one line early.
		li--
	}
	r = r.Clamp(g.buffer.Len())
	if li < len(g.lines) && !r.IsEmpty() && r.End <= g.lines[li].start {
		return
	}
	g.relayoutFrom(li)
	g.stale = -1
}

// InvalidateLayout marks the range's layout stale.
func (g *Grid) InvalidateLayout(r richtext.Range) {
	if !g.laid {
		return
	}
	if g.stale < 0 || r.Start < g.stale {
		g.stale = r.Start
	}
}

// Segments calls fn with one segment per laid-out visible line
// overlapping r, in document order. Lines scrolled outside the
// viewport yield nothing, as do ranges the layout has not covered.
func (g *Grid) Segments(r richtext.Range, fn func(surface.Segment) bool) {
	if g.buffer == nil {
		return
	}
	r = r.Clamp(g.buffer.Len())
	if r.IsEmpty() {
		return
	}
	for _, ln := range g.lines {
		if ln.end <= r.Start {
			continue
		}
		if ln.start >= r.End {
			return
		}
		if !g.lineVisible(ln) {
			continue
		}
		seg, ok := g.lineSegment(ln, r)
		if !ok {
			continue
		}
		if !fn(seg) {
			return
		}
	}
}

// lineSegment returns the visual extent of r's overlap with one line.
func (g *Grid) lineSegment(ln line, r richtext.Range) (surface.Segment, bool) {
	minX, maxX := 0, 0
	found := false
	for _, it := range ln.items {
		if it.synthetic || it.end <= r.Start || it.start >= r.End || it.width == 0 {
			continue
		}
		if !found || it.x < minX {
			minX = it.x
		}
		if right := it.x + it.width; !found || right > maxX {
			maxX = right
		}
		found = true
	}
	if !found {
		return surface.Segment{}, false
	}
	return surface.Segment{
		Frame: geom.RectAt(
			float64(minX),
			float64(ln.top-g.scrollTop),
			float64(maxX-minX),
			float64(ln.height),
		),
		Baseline: float64(ln.height),
	}, true
}

// lineVisible reports whether the line's band intersects the viewport.
func (g *Grid) lineVisible(ln line) bool {
	if g.cfg.Height <= 0 {
		return true
	}
	return ln.top+ln.height > g.scrollTop && ln.top < g.scrollTop+g.cfg.Height
}

// ContainerOffset returns the container's inset in screen coordinates.
func (g *Grid) ContainerOffset() geom.Point {
	return g.cfg.Offset
}

// MetricsAt returns the cell-grid font metrics for a text position:
// one cell of ascent, no descent. Placeholders and newlines carry no
// font.
func (g *Grid) MetricsAt(pos int) (surface.Metrics, bool) {
	if g.buffer == nil || pos < 0 || pos >= g.buffer.Len() {
		return surface.Metrics{}, false
	}
	r := g.buffer.RuneAt(pos)
	if r == richtext.Placeholder || r == '\n' {
		return surface.Metrics{}, false
	}
	return surface.Metrics{Ascent: 1, Descent: 0}, true
}

// Resize sets the wrap width and viewport height, marking all layout
// stale.
func (g *Grid) Resize(width, height int) {
	if width > 0 {
		g.cfg.Width = width
	}
	g.cfg.Height = height
	g.lines = nil
	g.laid = false
	g.stale = -1
	g.clampScroll()
}

// ContentHeight returns the laid-out document height in cells.
func (g *Grid) ContentHeight() int {
	return g.height
}

// Viewport returns the current scroll position and viewport height.
func (g *Grid) Viewport() (top, height int) {
	return g.scrollTop, g.cfg.Height
}

// ScrollTo scrolls the viewport so the given document row is at its
// top, clamped to the content, and returns the resulting row.
func (g *Grid) ScrollTo(top int) int {
	g.scrollTop = top
	g.clampScroll()
	return g.scrollTop
}

// Scroll moves the viewport by delta rows and returns the resulting
// top row.
func (g *Grid) Scroll(delta int) int {
	return g.ScrollTo(g.scrollTop + delta)
}

func (g *Grid) clampScroll() {
	max := g.maxScroll()
	if g.scrollTop > max {
		g.scrollTop = max
	}
	if g.scrollTop < 0 {
		g.scrollTop = 0
	}
}

func (g *Grid) maxScroll() int {
	if g.cfg.Height <= 0 {
		return g.height
	}
	if g.height <= g.cfg.Height {
		return 0
	}
	return g.height - g.cfg.Height
}

// PositionAt maps a screen cell to the rune position nearest it, for
// hit testing. The second return is false outside the laid-out content.
func (g *Grid) PositionAt(x, y int) (int, bool) {
	if g.buffer == nil || len(g.lines) == 0 {
		return 0, false
	}
	x -= int(g.cfg.Offset.X)
	y -= int(g.cfg.Offset.Y)
	y += g.scrollTop
	for _, ln := range g.lines {
		if y >= ln.top+ln.height {
			continue
		}
		if y < ln.top {
			return ln.start, true
		}
		for _, it := range ln.items {
			if it.synthetic || it.width == 0 {
				continue
			}
			if x >= it.x && x < it.x+it.width {
				return it.start, true
			}
		}
		// Past the line's content: the position after its last rune,
		// excluding a trailing newline.
		end := ln.end
		if end > ln.start && g.buffer.RuneAt(end-1) == '\n' {
			end--
		}
		return end, true
	}
	return g.buffer.Len(), true
}

// lineIndexAt returns the index of the line containing pos.
func (g *Grid) lineIndexAt(pos int) int {
	for i, ln := range g.lines {
		if pos < ln.end {
			return i
		}
	}
	if len(g.lines) == 0 {
		return 0
	}
	return len(g.lines) - 1
}

// GridStats contains counters describing layout activity.
type GridStats struct {
	// Layouts is the number of layout passes run.
	Layouts uint64
	// Partials is the subset of passes that re-flowed only a suffix of
	// the document.
	Partials uint64
}

// Stats returns a snapshot of the grid's counters.
func (g *Grid) Stats() GridStats {
	return GridStats{
		Layouts:  g.layouts.Load(),
		Partials: g.partials.Load(),
	}
}

var _ surface.Surface = (*Grid)(nil)
