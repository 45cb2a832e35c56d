package attach

import (
	"sync"
	"sync/atomic"

	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/geom"
	"github.com/g-Off/RichText/internal/dispatch"
	"github.com/g-Off/RichText/internal/log"
)

// SizeHandler is notified when a widget's size actually changes. It
// runs synchronously in the goroutine that called UpdateSize and
// should only schedule work.
type SizeHandler func(id richtext.Identity, size geom.Size)

// Registry tracks widget state by identity across content rebuilds.
// All methods are safe for concurrent use.
type Registry struct {
	mu          sync.Mutex
	states      map[richtext.Identity]*State
	generation  uint64
	sizeHandler SizeHandler

	scheduler dispatch.Scheduler
	logger    *log.Logger

	resolves      atomic.Uint64
	revives       atomic.Uint64
	sizeUpdates   atomic.Uint64
	sizeNoops     atomic.Uint64
	publishes     atomic.Uint64
	skips         atomic.Uint64
	notifications atomic.Uint64
	misses        atomic.Uint64
	prunes        atomic.Uint64
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithScheduler sets the scheduler delivering origin notifications.
// The default delivers synchronously.
func WithScheduler(s dispatch.Scheduler) Option {
	return func(r *Registry) {
		if s != nil {
			r.scheduler = s
		}
	}
}

// WithLogger sets the registry's logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		states:    make(map[richtext.Identity]*State),
		scheduler: dispatch.Sync{},
		logger:    log.Default().WithComponent("attach"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the persistent state for the attachment's identity,
// creating it on first sight and reviving the prior record otherwise.
// A new state seeds its size from the attachment's intrinsic size;
// later size changes flow through UpdateSize, never through
// re-resolution.
func (r *Registry) Resolve(ref *richtext.Attachment) *State {
	id := ref.Identity()
	r.resolves.Add(1)

	r.mu.Lock()
	if st, ok := r.states[id]; ok {
		st.generation = r.generation
		// Surrounding fonts may differ in the new content; the ascender
		// is re-derived on the next reconcile pass.
		st.hasAscender = false
		r.mu.Unlock()
		r.revives.Add(1)
		return st
	}

	st := &State{
		reg:        r,
		identity:   id,
		size:       ref.IntrinsicSize(),
		phase:      PhaseUnresolved,
		generation: r.generation,
	}
	if !st.size.IsZero() {
		st.phase = PhaseMeasuring
	}
	r.states[id] = st
	size := st.size
	r.mu.Unlock()

	r.logger.Debug("resolved %s size=%s", id, size)
	return st
}

// Lookup returns the state for an identity, if tracked.
func (r *Registry) Lookup(id richtext.Identity) (*State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[id]
	return st, ok
}

// Len returns the number of tracked identities.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

// SizeOf returns the current size for an identity. Surfaces use it to
// reserve placeholder space at the widget's live size rather than its
// construction-time intrinsic size.
func (r *Registry) SizeOf(id richtext.Identity) (geom.Size, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[id]
	if !ok {
		return geom.Size{}, false
	}
	return st.size, true
}

// OnSizeChange installs the registry-wide size handler, replacing any
// prior one. The reconciliation engine installs itself here.
func (r *Registry) OnSizeChange(fn SizeHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sizeHandler = fn
}

// UpdateSize records a widget's new size. An unchanged size is a
// no-op. A real delta re-enters Measuring, drops the cached ascender,
// and fires the size handler exactly once, synchronously, in the
// caller's goroutine. Unknown identities are ignored: a widget host
// may race ahead of registry teardown.
func (r *Registry) UpdateSize(id richtext.Identity, size geom.Size) {
	r.mu.Lock()
	st, ok := r.states[id]
	if !ok {
		r.mu.Unlock()
		r.misses.Add(1)
		return
	}
	if st.size.Equals(size) {
		r.mu.Unlock()
		r.sizeNoops.Add(1)
		return
	}
	st.size = size
	st.hasAscender = false
	if size.IsZero() {
		st.phase = PhaseUnresolved
	} else {
		st.phase = PhaseMeasuring
	}
	handler := r.sizeHandler
	r.mu.Unlock()

	r.sizeUpdates.Add(1)
	r.logger.Debug("size %s -> %s", id, size)
	if handler != nil {
		handler(id, size)
	}
}

// PublishOrigin records the origin computed by a reconcile pass. The
// publish is idempotent: an unchanged value with an unchanged phase is
// skipped entirely, bounding redraw frequency. A valid origin moves
// the phase to Placed, None moves it to Hidden. Observers are notified
// through the scheduler only when the value actually changed. Unknown
// identities are ignored.
func (r *Registry) PublishOrigin(id richtext.Identity, origin Origin) {
	r.mu.Lock()
	st, ok := r.states[id]
	if !ok {
		r.mu.Unlock()
		r.misses.Add(1)
		return
	}

	phase := PhaseHidden
	if origin.Valid {
		phase = PhasePlaced
	}
	changed := !st.origin.Equals(origin)
	if !changed && st.phase == phase {
		r.mu.Unlock()
		r.skips.Add(1)
		return
	}

	st.origin = origin
	st.phase = phase
	var observers []func(Origin)
	if changed {
		observers = append(observers, st.observers...)
	}
	r.mu.Unlock()

	r.publishes.Add(1)
	for _, fn := range observers {
		fn := fn
		r.notifications.Add(1)
		r.scheduler.Schedule(func() { fn(origin) })
	}
}

// Observe registers fn to receive the identity's origin publications;
// it reports whether the identity is currently tracked. Observers live
// as long as the state: they survive rebuilds that preserve the
// identity and are dropped when it is pruned.
func (r *Registry) Observe(id richtext.Identity, fn func(Origin)) bool {
	if fn == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[id]
	if !ok {
		return false
	}
	st.observers = append(st.observers, fn)
	return true
}

// BeginBuild opens a rebuild bracket: states not resolved before the
// matching EndBuild are considered orphaned.
func (r *Registry) BeginBuild() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
}

// EndBuild closes the rebuild bracket, dropping every state whose
// identity was not resolved since BeginBuild, and returns the number
// dropped. Dropped identities lose their accumulated state and
// observers; a later resolve starts fresh.
func (r *Registry) EndBuild() int {
	r.mu.Lock()
	var dropped []richtext.Identity
	for id, st := range r.states {
		if st.generation != r.generation {
			delete(r.states, id)
			dropped = append(dropped, id)
		}
	}
	r.mu.Unlock()

	for _, id := range dropped {
		r.prunes.Add(1)
		r.logger.Debug("pruned %s", id)
	}
	return len(dropped)
}

// RegistryStats contains counters describing registry activity.
type RegistryStats struct {
	// Resolves is the total number of Resolve calls.
	Resolves uint64
	// Revives is the subset of resolves that found existing state.
	Revives uint64
	// SizeUpdates is the number of real size changes recorded.
	SizeUpdates uint64
	// SizeNoops is the number of UpdateSize calls with an unchanged size.
	SizeNoops uint64
	// Publishes is the number of origin publications applied.
	Publishes uint64
	// Skips is the number of idempotent origin publications skipped.
	Skips uint64
	// Notifications is the number of observer notifications scheduled.
	Notifications uint64
	// Misses is the number of updates addressed to unknown identities.
	Misses uint64
	// Prunes is the number of states dropped by rebuild brackets.
	Prunes uint64
}

// Stats returns a snapshot of the registry's counters.
func (r *Registry) Stats() RegistryStats {
	return RegistryStats{
		Resolves:      r.resolves.Load(),
		Revives:       r.revives.Load(),
		SizeUpdates:   r.sizeUpdates.Load(),
		SizeNoops:     r.sizeNoops.Load(),
		Publishes:     r.publishes.Load(),
		Skips:         r.skips.Load(),
		Notifications: r.notifications.Load(),
		Misses:        r.misses.Load(),
		Prunes:        r.prunes.Load(),
	}
}
