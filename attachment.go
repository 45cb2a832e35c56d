package richtext

import (
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/g-Off/RichText/geom"
)

// Identity is the stable key under which a widget's accumulated state
// survives content rebuilds. Two attachments with equal identity are the
// same logical widget, regardless of allocation.
type Identity string

// IsZero returns true for the empty identity.
func (id Identity) IsZero() bool {
	return id == ""
}

// String returns the identity as a string.
func (id Identity) String() string {
	return string(id)
}

// DeriveIdentity produces a stable identity from structural parts of a
// widget (type name, position-independent payload). Equal parts yield
// equal identities across rebuilds.
func DeriveIdentity(parts ...string) Identity {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return Identity(fmt.Sprintf("w-%016x", h.Sum64()))
}

// RandomIdentity produces a fresh unique identity. A widget keyed this
// way cannot preserve state across rebuilds; prefer explicit or derived
// identities.
func RandomIdentity() Identity {
	return Identity(uuid.NewString())
}

// Attachment describes one embedded widget: its identity, its intrinsic
// size at construction, and the styled text substituted for it on
// extraction. Attachments are immutable once constructed and are
// recreated on every content rebuild; runtime state (current size,
// resolved origin) lives in the registry, keyed by identity.
type Attachment struct {
	identity    Identity
	size        geom.Size
	replacement Text
}

// AttachmentOption configures an Attachment at construction.
type AttachmentOption func(*Attachment)

// WithReplacement sets the styled replacement text used on extraction.
func WithReplacement(t Text) AttachmentOption {
	return func(a *Attachment) {
		a.replacement = t
	}
}

// WithReplacementString sets an unstyled replacement text.
func WithReplacementString(s string) AttachmentOption {
	return func(a *Attachment) {
		a.replacement = Plain(s)
	}
}

// NewAttachment creates an attachment with the given identity and
// intrinsic size. A zero identity gets a random fallback.
func NewAttachment(id Identity, size geom.Size, opts ...AttachmentOption) *Attachment {
	if id.IsZero() {
		id = RandomIdentity()
	}
	a := &Attachment{identity: id, size: size}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Identity returns the attachment's stable key.
func (a *Attachment) Identity() Identity {
	return a.identity
}

// IntrinsicSize returns the size reported at construction. Later size
// changes flow through the registry, not the attachment.
func (a *Attachment) IntrinsicSize() geom.Size {
	return a.size
}

// Replacement returns the extraction replacement text and whether one
// was set.
func (a *Attachment) Replacement() (Text, bool) {
	if len(a.replacement) == 0 {
		return nil, false
	}
	return a.replacement, true
}

// String returns a short description of the attachment.
func (a *Attachment) String() string {
	return fmt.Sprintf("attachment(%s, %s)", a.identity, a.size)
}
