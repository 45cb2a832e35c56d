package attach

import (
	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/geom"
)

// State is the persistent record for one widget identity: current
// size, published origin, lifecycle phase, cached ascender, and origin
// observers. States are created and owned by a Registry and survive
// content rebuilds for as long as their identity keeps appearing.
type State struct {
	reg      *Registry
	identity richtext.Identity

	// The fields below are guarded by reg.mu.
	size        geom.Size
	origin      Origin
	phase       Phase
	ascender    float64
	hasAscender bool
	observers   []func(Origin)
	generation  uint64
}

// Identity returns the identity the state is keyed under.
func (s *State) Identity() richtext.Identity {
	return s.identity
}

// Size returns the widget's current size.
func (s *State) Size() geom.Size {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.size
}

// Origin returns the last published origin, None until first placement.
func (s *State) Origin() Origin {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.origin
}

// Phase returns the widget's lifecycle phase.
func (s *State) Phase() Phase {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.phase
}

// Ascender returns the cached baseline ascender, if one has been
// computed since the last size change.
func (s *State) Ascender() (float64, bool) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.ascender, s.hasAscender
}

// SetAscender caches the baseline ascender for the current size. The
// cache is dropped automatically when the size changes.
func (s *State) SetAscender(v float64) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	s.ascender = v
	s.hasAscender = true
}
