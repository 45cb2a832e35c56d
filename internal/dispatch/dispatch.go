// Package dispatch provides the scheduling primitives for loop-affine
// execution: a Scheduler abstraction for delivering notifications, a
// synchronous scheduler, a next-turn queue for hosts with an event loop,
// and the Guard that enforces single-goroutine ownership.
package dispatch

import (
	"sync"
	"sync/atomic"
)

// Scheduler delivers a function for execution. Implementations decide
// whether delivery is immediate or deferred to the owning loop's next
// turn; callers must not assume the function has run on return.
type Scheduler interface {
	Schedule(fn func())
}

// Sync is a Scheduler that runs functions immediately in the caller's
// goroutine. It is the default, and the right choice for tests.
type Sync struct{}

// Schedule runs fn immediately.
func (Sync) Schedule(fn func()) {
	fn()
}

// Queue is a Scheduler that defers functions to the owning loop's next
// turn. The loop calls Drain once per turn; Wake, when set, is invoked
// after an enqueue into an empty queue so a blocked loop can be woken
// (a terminal host posts a screen event).
type Queue struct {
	mu      sync.Mutex
	pending []func()

	// Wake is called outside the queue lock when the queue transitions
	// from empty to non-empty. May be nil.
	Wake func()

	scheduled atomic.Uint64
	drained   atomic.Uint64
}

// Schedule enqueues fn for the next Drain.
func (q *Queue) Schedule(fn func()) {
	q.mu.Lock()
	wasEmpty := len(q.pending) == 0
	q.pending = append(q.pending, fn)
	wake := q.Wake
	q.mu.Unlock()

	q.scheduled.Add(1)
	if wasEmpty && wake != nil {
		wake()
	}
}

// Drain runs every function enqueued before the call, in order, and
// returns the count. Functions enqueued during Drain run on the next
// turn, preserving the "next turn" contract.
func (q *Queue) Drain() int {
	q.mu.Lock()
	fns := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	q.drained.Add(uint64(len(fns)))
	return len(fns)
}

// Len returns the number of functions currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// QueueStats contains counters for a queue.
type QueueStats struct {
	// Scheduled is the total number of functions enqueued.
	Scheduled uint64
	// Drained is the total number of functions executed.
	Drained uint64
}

// Stats returns queue statistics.
func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Scheduled: q.scheduled.Load(),
		Drained:   q.drained.Load(),
	}
}

// Guard detects overlapping entry into code that must run on a single
// owning goroutine. Overlap is a programmer contract violation, so Enter
// panics rather than returning an error. Guarded sections must be leaf
// sections: callbacks and cross-component calls happen after Leave.
//
// The guard is best-effort: it catches overlap, not wrong-goroutine use
// from a quiescent state.
type Guard struct {
	active atomic.Bool
}

// Enter marks the guarded section active. It panics if the section is
// already active. The caller must pair it with Leave.
func (g *Guard) Enter() {
	if !g.active.CompareAndSwap(false, true) {
		panic("richtext: concurrent use from multiple goroutines")
	}
}

// Leave marks the guarded section inactive.
func (g *Guard) Leave() {
	g.active.Store(false)
}
