package attach

import (
	"github.com/g-Off/RichText/geom"
)

// Origin is a widget's published position in container coordinates.
// The zero value is None: the widget cannot currently be placed and
// must hide itself.
type Origin struct {
	Point geom.Point
	Valid bool
}

// OriginAt returns a valid origin at the given point.
func OriginAt(p geom.Point) Origin {
	return Origin{Point: p, Valid: true}
}

// Equals returns true if two origins are identical. None origins are
// equal regardless of their points.
func (o Origin) Equals(other Origin) bool {
	if o.Valid != other.Valid {
		return false
	}
	return !o.Valid || o.Point.Equals(other.Point)
}

// String returns "none" for an invalid origin, else the point.
func (o Origin) String() string {
	if !o.Valid {
		return "none"
	}
	return o.Point.String()
}

// Phase is one widget's lifecycle state.
type Phase int

const (
	// PhaseUnresolved means the identity is tracked but no usable size
	// has been reported yet.
	PhaseUnresolved Phase = iota
	// PhaseMeasuring means a size is known but no geometry query has
	// completed since it was recorded.
	PhaseMeasuring
	// PhasePlaced means the last reconcile pass published a valid
	// origin.
	PhasePlaced
	// PhaseHidden means the last reconcile pass found no geometry for
	// the widget's range.
	PhaseHidden
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUnresolved:
		return "unresolved"
	case PhaseMeasuring:
		return "measuring"
	case PhasePlaced:
		return "placed"
	case PhaseHidden:
		return "hidden"
	default:
		return "unknown"
	}
}
