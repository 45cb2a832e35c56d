// Package surface defines the text-surface boundary: the contract any
// backing text-layout engine must satisfy for the reconciliation
// engine and the extraction interceptor to drive it.
package surface

import (
	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/geom"
)

// Segment is one laid-out piece of a line: its frame in container
// coordinates and the baseline's distance from the frame's top edge.
// Segments are produced transiently by geometry queries and never
// persisted.
type Segment struct {
	Frame    geom.Rect
	Baseline float64
}

// BaselineY returns the baseline's absolute y position in container
// coordinates.
func (s Segment) BaselineY() float64 {
	return s.Frame.Min.Y + s.Baseline
}

// Metrics carries the vertical font metrics of one styled position:
// ascent above and descent below the baseline, both non-negative.
type Metrics struct {
	Ascent  float64
	Descent float64
}

// Height returns the total line height the metrics imply.
func (m Metrics) Height() float64 {
	return m.Ascent + m.Descent
}

// Surface is the platform text surface. Implementations own layout;
// callers own the buffer lifecycle and must call EnsureLayout before
// trusting geometry queries. All methods must be called from the
// goroutine that owns the surface.
type Surface interface {
	// SetBuffer replaces the displayed content. Attachment slots pass
	// through unmodified.
	SetBuffer(buf *richtext.Buffer)

	// Buffer returns the current buffer, nil before the first SetBuffer.
	Buffer() *richtext.Buffer

	// EnsureLayout completes layout for the range, synchronously.
	// Geometry queries over the range are valid afterwards.
	EnsureLayout(r richtext.Range)

	// Segments calls fn for each laid-out segment intersecting the
	// range, in document order, stopping early if fn returns false.
	// Ranges without completed layout yield nothing.
	Segments(r richtext.Range, fn func(Segment) bool)

	// InvalidateLayout marks the range's layout stale. The next
	// EnsureLayout over it re-lays exactly the stale region.
	InvalidateLayout(r richtext.Range)

	// ContainerOffset returns the text container's inset in view
	// coordinates.
	ContainerOffset() geom.Point

	// MetricsAt returns the vertical metrics of the font styling the
	// character at pos, or false when no font is resolvable there.
	MetricsAt(pos int) (Metrics, bool)
}
