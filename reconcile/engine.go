package reconcile

import (
	"sync/atomic"

	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/attach"
	"github.com/g-Off/RichText/geom"
	"github.com/g-Off/RichText/internal/dispatch"
	"github.com/g-Off/RichText/internal/log"
	"github.com/g-Off/RichText/surface"
)

// fallbackDescentRatio is the synthetic descent reserved when no
// adjacent font resolves: 20% of the widget's own height.
const fallbackDescentRatio = 0.2

// Engine reconciles widget layout with text layout: it maps each
// placeholder's character range to segment geometry after every layout
// pass and publishes the resulting origin through the registry.
//
// The engine installs itself as the registry's size handler, so a
// widget's UpdateSize flows back into a partial reconcile of exactly
// that widget's range. All other methods must run on the goroutine
// that owns the surface.
type Engine struct {
	surf      surface.Surface
	registry  *attach.Registry
	scheduler dispatch.Scheduler
	logger    *log.Logger
	guard     dispatch.Guard

	buffer *richtext.Buffer

	passes        atomic.Uint64
	placed        atomic.Uint64
	hidden        atomic.Uint64
	invalidations atomic.Uint64
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithScheduler sets the scheduler bridging size-change events back to
// the owning goroutine. The default runs them immediately.
func WithScheduler(s dispatch.Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithLogger sets the engine's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine driving the given surface and registry, and
// installs the engine as the registry's size handler.
func New(surf surface.Surface, registry *attach.Registry, opts ...Option) *Engine {
	e := &Engine{
		surf:      surf,
		registry:  registry,
		scheduler: dispatch.Sync{},
		logger:    log.Default().WithComponent("reconcile"),
	}
	for _, opt := range opts {
		opt(e)
	}
	registry.OnSizeChange(func(id richtext.Identity, _ geom.Size) {
		e.scheduler.Schedule(func() {
			if err := e.InvalidateAttachment(id); err != nil {
				e.logger.Warn("size-change relayout for %s: %v", id, err)
			}
		})
	})
	return e
}

// SetContent aggregates content into a buffer, resolves every widget
// against the registry inside a rebuild bracket (identities absent
// from the new content are pruned), hands the buffer to the surface,
// and reconciles the full document. It returns the built buffer.
func (e *Engine) SetContent(content richtext.Content, env richtext.Environment) *richtext.Buffer {
	e.guard.Enter()
	buf := richtext.Build(content, env)

	e.registry.BeginBuild()
	for _, slot := range buf.Slots() {
		e.registry.Resolve(slot.Ref)
	}
	pruned := e.registry.EndBuild()

	e.buffer = buf
	e.surf.SetBuffer(buf)
	e.guard.Leave()

	e.logger.Debug("content set: %d runes, %d widgets, %d pruned",
		buf.Len(), buf.PlaceholderCount(), pruned)

	if err := e.Reconcile(); err != nil {
		e.logger.Warn("initial reconcile: %v", err)
	}
	return buf
}

// Buffer returns the engine's current buffer, nil before the first
// SetContent.
func (e *Engine) Buffer() *richtext.Buffer {
	return e.buffer
}

// Reconcile derives and publishes origins for every widget in the
// document.
func (e *Engine) Reconcile() error {
	if e.buffer == nil {
		return richtext.ErrNoBuffer
	}
	return e.ReconcileRange(e.buffer.EntireRange())
}

// ReconcileRange reconciles the widgets whose placeholders fall inside
// r. Layout over r is completed first; each slot's first segment then
// determines its origin, and slots without geometry publish None,
// hiding their widget rather than misplacing it. Publishes are
// idempotent, so reconciling overlapping ranges repeatedly is cheap.
func (e *Engine) ReconcileRange(r richtext.Range) error {
	e.guard.Enter()
	if e.buffer == nil {
		e.guard.Leave()
		return richtext.ErrNoBuffer
	}
	buf := e.buffer
	r = r.Clamp(buf.Len())

	e.surf.EnsureLayout(r)
	offset := e.surf.ContainerOffset()

	buf.SlotsIn(r, func(slot richtext.Slot) bool {
		origin := e.placeSlot(buf, slot, offset)
		if origin.Valid {
			e.placed.Add(1)
		} else {
			e.hidden.Add(1)
		}
		e.registry.PublishOrigin(slot.Ref.Identity(), origin)
		return true
	})
	e.guard.Leave()

	e.passes.Add(1)
	return nil
}

// InvalidateAttachment marks exactly the widget's placeholder range
// stale on the surface, re-lays it, and republishes the origin: the
// partial-relayout path taken when a widget's size changes. An
// identity absent from the current content is ignored.
func (e *Engine) InvalidateAttachment(id richtext.Identity) error {
	e.guard.Enter()
	if e.buffer == nil {
		e.guard.Leave()
		return richtext.ErrNoBuffer
	}
	r, ok := e.buffer.SlotRange(id)
	if ok {
		e.surf.InvalidateLayout(r)
	}
	e.guard.Leave()

	if !ok {
		return nil
	}
	e.invalidations.Add(1)
	return e.ReconcileRange(r)
}

// placeSlot computes the origin for one placeholder slot, or None when
// the surface has no geometry for it.
func (e *Engine) placeSlot(buf *richtext.Buffer, slot richtext.Slot, offset geom.Point) attach.Origin {
	var seg surface.Segment
	found := false
	e.surf.Segments(slot.Range(), func(s surface.Segment) bool {
		seg = s
		found = true
		return false
	})
	if !found {
		return attach.Origin{}
	}

	st, ok := e.registry.Lookup(slot.Ref.Identity())
	if !ok {
		return attach.Origin{}
	}

	ascender := e.ascenderFor(buf, slot, st)
	x := offset.X + seg.Frame.Min.X
	y := offset.Y + seg.Baseline + seg.Frame.Min.Y - ascender
	return attach.OriginAt(geom.Pt(x, y))
}

// ascenderFor returns the distance from the widget's top edge to its
// baseline: the cached value when still valid, else the widget height
// minus the adjacent character's font descent, else the documented
// fallback reserving 20% of the widget's own height as descent. The
// computed value is cached on the state until the size changes.
func (e *Engine) ascenderFor(buf *richtext.Buffer, slot richtext.Slot, st *attach.State) float64 {
	if a, ok := st.Ascender(); ok {
		return a
	}

	h := st.Size().H
	descent := h * fallbackDescentRatio
	if pos, ok := buf.AdjacentTextPos(slot.Pos); ok {
		if m, ok := e.surf.MetricsAt(pos); ok {
			descent = m.Descent
		}
	}

	a := h - descent
	st.SetAscender(a)
	return a
}

// EngineStats contains counters describing engine activity.
type EngineStats struct {
	// Passes is the number of reconcile passes completed.
	Passes uint64
	// Placed is the number of slot placements with geometry.
	Placed uint64
	// Hidden is the number of slot placements without geometry.
	Hidden uint64
	// Invalidations is the number of partial-relayout requests.
	Invalidations uint64
}

// Stats returns a snapshot of the engine's counters.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Passes:        e.passes.Load(),
		Placed:        e.placed.Load(),
		Hidden:        e.hidden.Load(),
		Invalidations: e.invalidations.Load(),
	}
}
