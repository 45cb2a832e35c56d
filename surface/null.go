package surface

import (
	"fmt"
	"sort"

	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/geom"
)

// Null is a scriptable no-op surface for testing: segment geometry is
// scripted per range, font metrics are injectable per position, and
// every layout-affecting call is recorded.
type Null struct {
	buffer *richtext.Buffer
	offset geom.Point

	scripted []scriptedSegments
	metrics  map[int]Metrics
	fallback *Metrics

	calls []string
}

type scriptedSegments struct {
	r    richtext.Range
	segs []Segment
}

// NewNull creates an empty null surface.
func NewNull() *Null {
	return &Null{metrics: make(map[int]Metrics)}
}

func (n *Null) record(format string, args ...any) {
	n.calls = append(n.calls, fmt.Sprintf(format, args...))
}

func (n *Null) SetBuffer(buf *richtext.Buffer) {
	n.record("SetBuffer")
	n.buffer = buf
}

func (n *Null) Buffer() *richtext.Buffer {
	return n.buffer
}

func (n *Null) EnsureLayout(r richtext.Range) {
	n.record("EnsureLayout %s", r)
}

func (n *Null) Segments(r richtext.Range, fn func(Segment) bool) {
	n.record("Segments %s", r)
	for _, s := range n.scripted {
		if !s.r.Intersects(r) {
			continue
		}
		for _, seg := range s.segs {
			if !fn(seg) {
				return
			}
		}
	}
}

func (n *Null) InvalidateLayout(r richtext.Range) {
	n.record("InvalidateLayout %s", r)
}

func (n *Null) ContainerOffset() geom.Point {
	return n.offset
}

func (n *Null) MetricsAt(pos int) (Metrics, bool) {
	if m, ok := n.metrics[pos]; ok {
		return m, true
	}
	if n.fallback != nil {
		return *n.fallback, true
	}
	return Metrics{}, false
}

// SetContainerOffset sets the offset returned by ContainerOffset.
func (n *Null) SetContainerOffset(p geom.Point) {
	n.offset = p
}

// ScriptSegments makes Segments yield the given segments for queries
// intersecting r. Scripted entries are kept in document order.
func (n *Null) ScriptSegments(r richtext.Range, segs ...Segment) {
	n.scripted = append(n.scripted, scriptedSegments{r: r, segs: segs})
	sort.SliceStable(n.scripted, func(i, j int) bool {
		return n.scripted[i].r.Start < n.scripted[j].r.Start
	})
}

// ClearSegments removes all scripted geometry, simulating a surface
// whose layout produced nothing.
func (n *Null) ClearSegments() {
	n.scripted = nil
}

// ScriptMetrics makes MetricsAt answer for one position.
func (n *Null) ScriptMetrics(pos int, m Metrics) {
	n.metrics[pos] = m
}

// ScriptFallbackMetrics makes MetricsAt answer for every position not
// explicitly scripted. Without it, unscripted positions resolve no
// font.
func (n *Null) ScriptFallbackMetrics(m Metrics) {
	n.fallback = &m
}

// Calls returns a copy of the recorded call log for testing.
func (n *Null) Calls() []string {
	out := make([]string, len(n.calls))
	copy(out, n.calls)
	return out
}

// ResetCalls clears the recorded call log.
func (n *Null) ResetCalls() {
	n.calls = nil
}

var _ Surface = (*Null)(nil)
