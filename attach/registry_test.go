package attach

import (
	"testing"

	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/geom"
	"github.com/g-Off/RichText/internal/dispatch"
)

func TestResolveSeedsFromIntrinsicSize(t *testing.T) {
	reg := NewRegistry()
	st := reg.Resolve(richtext.NewAttachment("bar", geom.Sz(8, 2)))

	if !st.Size().Equals(geom.Sz(8, 2)) {
		t.Errorf("Size = %v, want 8x2", st.Size())
	}
	if st.Phase() != PhaseMeasuring {
		t.Errorf("Phase = %v, want measuring", st.Phase())
	}
	if st.Origin().Valid {
		t.Error("fresh state should have a None origin")
	}
}

func TestResolveZeroSizeStaysUnresolved(t *testing.T) {
	reg := NewRegistry()
	st := reg.Resolve(richtext.NewAttachment("empty", geom.Size{}))

	if st.Phase() != PhaseUnresolved {
		t.Errorf("Phase = %v, want unresolved", st.Phase())
	}

	reg.UpdateSize("empty", geom.Sz(2, 1))
	if st.Phase() != PhaseMeasuring {
		t.Errorf("Phase after first size = %v, want measuring", st.Phase())
	}
}

func TestResolveRevivesByIdentity(t *testing.T) {
	reg := NewRegistry()

	first := reg.Resolve(richtext.NewAttachment("stable", geom.Sz(4, 1)))
	reg.PublishOrigin("stable", OriginAt(geom.Pt(10, 3)))

	// A rebuild recreates the attachment: a fresh allocation, the same
	// identity.
	second := reg.Resolve(richtext.NewAttachment("stable", geom.Sz(4, 1)))

	if first != second {
		t.Fatal("resolving the same identity should return the same state")
	}
	if got := second.Origin(); !got.Equals(OriginAt(geom.Pt(10, 3))) {
		t.Errorf("origin after revive = %v, want (10, 3)", got)
	}

	stats := reg.Stats()
	if stats.Resolves != 2 || stats.Revives != 1 {
		t.Errorf("resolves/revives = %d/%d, want 2/1", stats.Resolves, stats.Revives)
	}
}

func TestReviveKeepsLiveSizeNotIntrinsic(t *testing.T) {
	reg := NewRegistry()
	reg.Resolve(richtext.NewAttachment("grow", geom.Sz(2, 1)))
	reg.UpdateSize("grow", geom.Sz(6, 1))

	st := reg.Resolve(richtext.NewAttachment("grow", geom.Sz(2, 1)))
	if !st.Size().Equals(geom.Sz(6, 1)) {
		t.Errorf("Size after revive = %v, want the live 6x1", st.Size())
	}
}

func TestReviveDropsAscenderCache(t *testing.T) {
	reg := NewRegistry()
	st := reg.Resolve(richtext.NewAttachment("w", geom.Sz(3, 2)))
	st.SetAscender(1.6)

	reg.Resolve(richtext.NewAttachment("w", geom.Sz(3, 2)))
	if _, ok := st.Ascender(); ok {
		t.Error("revive should drop the ascender cache")
	}
	if !st.Size().Equals(geom.Sz(3, 2)) {
		t.Errorf("Size = %v, want 3x2 preserved", st.Size())
	}
}

func TestEndBuildPrunesOmittedIdentities(t *testing.T) {
	reg := NewRegistry()
	reg.Resolve(richtext.NewAttachment("kept", geom.Sz(1, 1)))
	reg.Resolve(richtext.NewAttachment("dropped", geom.Sz(1, 1)))

	reg.BeginBuild()
	reg.Resolve(richtext.NewAttachment("kept", geom.Sz(1, 1)))
	if n := reg.EndBuild(); n != 1 {
		t.Errorf("EndBuild = %d, want 1", n)
	}

	if _, ok := reg.Lookup("kept"); !ok {
		t.Error("kept identity was pruned")
	}
	if _, ok := reg.Lookup("dropped"); ok {
		t.Error("omitted identity survived the rebuild")
	}
	if got := reg.Stats().Prunes; got != 1 {
		t.Errorf("Prunes = %d, want 1", got)
	}
}

func TestUpdateSizeFiresHandlerOncePerDelta(t *testing.T) {
	reg := NewRegistry()
	reg.Resolve(richtext.NewAttachment("bar", geom.Sz(3, 1)))

	fires := 0
	reg.OnSizeChange(func(id richtext.Identity, size geom.Size) {
		fires++
		if id != "bar" {
			t.Errorf("handler id = %s, want bar", id)
		}
		if !size.Equals(geom.Sz(5, 1)) {
			t.Errorf("handler size = %v, want 5x1", size)
		}
	})

	reg.UpdateSize("bar", geom.Sz(3, 1)) // unchanged
	if fires != 0 {
		t.Fatalf("handler fired %d times for an unchanged size, want 0", fires)
	}

	reg.UpdateSize("bar", geom.Sz(5, 1))
	if fires != 1 {
		t.Fatalf("handler fired %d times for one delta, want 1 (synchronous)", fires)
	}

	stats := reg.Stats()
	if stats.SizeUpdates != 1 || stats.SizeNoops != 1 {
		t.Errorf("sizeUpdates/sizeNoops = %d/%d, want 1/1", stats.SizeUpdates, stats.SizeNoops)
	}
}

func TestUpdateSizeDropsAscenderCache(t *testing.T) {
	reg := NewRegistry()
	st := reg.Resolve(richtext.NewAttachment("w", geom.Sz(3, 2)))

	st.SetAscender(1.6)
	if _, ok := st.Ascender(); !ok {
		t.Fatal("ascender cache not set")
	}

	reg.UpdateSize("w", geom.Sz(3, 4))
	if _, ok := st.Ascender(); ok {
		t.Error("ascender cache should drop on size change")
	}
	if st.Phase() != PhaseMeasuring {
		t.Errorf("Phase after size change = %v, want measuring", st.Phase())
	}
}

func TestPublishOriginIdempotent(t *testing.T) {
	reg := NewRegistry()
	reg.Resolve(richtext.NewAttachment("w", geom.Sz(2, 1)))

	notified := 0
	reg.Observe("w", func(Origin) { notified++ })

	at := OriginAt(geom.Pt(7, 1))
	reg.PublishOrigin("w", at)
	reg.PublishOrigin("w", at)
	reg.PublishOrigin("w", at)

	if notified != 1 {
		t.Errorf("observer notified %d times for one distinct value, want 1", notified)
	}
	stats := reg.Stats()
	if stats.Publishes != 1 {
		t.Errorf("Publishes = %d, want 1", stats.Publishes)
	}
	if stats.Skips != 2 {
		t.Errorf("Skips = %d, want 2", stats.Skips)
	}
	if stats.Notifications != 1 {
		t.Errorf("Notifications = %d, want 1", stats.Notifications)
	}
}

func TestPublishOriginPhaseTransitions(t *testing.T) {
	reg := NewRegistry()
	st := reg.Resolve(richtext.NewAttachment("w", geom.Sz(2, 1)))

	reg.PublishOrigin("w", OriginAt(geom.Pt(0, 0)))
	if st.Phase() != PhasePlaced {
		t.Fatalf("Phase after valid publish = %v, want placed", st.Phase())
	}

	reg.PublishOrigin("w", Origin{})
	if st.Phase() != PhaseHidden {
		t.Fatalf("Phase after None publish = %v, want hidden", st.Phase())
	}
	if st.Origin().Valid {
		t.Error("origin should be None while hidden")
	}

	reg.PublishOrigin("w", OriginAt(geom.Pt(0, 5)))
	if st.Phase() != PhasePlaced {
		t.Errorf("Phase after re-placement = %v, want placed", st.Phase())
	}
}

func TestPublishNoneFromMeasuringMovesToHidden(t *testing.T) {
	reg := NewRegistry()
	st := reg.Resolve(richtext.NewAttachment("w", geom.Sz(2, 1)))

	notified := 0
	reg.Observe("w", func(Origin) { notified++ })

	// The origin value is already None; only the phase advances, and no
	// redraw notification goes out for an unchanged value.
	reg.PublishOrigin("w", Origin{})
	if st.Phase() != PhaseHidden {
		t.Errorf("Phase = %v, want hidden", st.Phase())
	}
	if notified != 0 {
		t.Errorf("observer notified %d times for an unchanged value, want 0", notified)
	}
}

func TestUnknownIdentityUpdatesIgnored(t *testing.T) {
	reg := NewRegistry()

	reg.UpdateSize("ghost", geom.Sz(1, 1))
	reg.PublishOrigin("ghost", OriginAt(geom.Pt(0, 0)))

	if got := reg.Stats().Misses; got != 2 {
		t.Errorf("Misses = %d, want 2", got)
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}

func TestObserveUnknownIdentity(t *testing.T) {
	reg := NewRegistry()
	if reg.Observe("ghost", func(Origin) {}) {
		t.Error("Observe should report false for an untracked identity")
	}
	if reg.Observe("ghost", nil) {
		t.Error("Observe should report false for a nil observer")
	}
}

func TestObserverSurvivesRebuild(t *testing.T) {
	reg := NewRegistry()
	reg.Resolve(richtext.NewAttachment("live", geom.Sz(2, 1)))

	var got Origin
	reg.Observe("live", func(o Origin) { got = o })

	reg.BeginBuild()
	reg.Resolve(richtext.NewAttachment("live", geom.Sz(2, 1)))
	reg.EndBuild()

	reg.PublishOrigin("live", OriginAt(geom.Pt(3, 3)))
	if !got.Equals(OriginAt(geom.Pt(3, 3))) {
		t.Errorf("observer saw %v after rebuild, want (3, 3)", got)
	}
}

func TestNotificationsGoThroughScheduler(t *testing.T) {
	var q dispatch.Queue
	reg := NewRegistry(WithScheduler(&q))
	reg.Resolve(richtext.NewAttachment("w", geom.Sz(2, 1)))

	delivered := false
	reg.Observe("w", func(Origin) { delivered = true })

	reg.PublishOrigin("w", OriginAt(geom.Pt(1, 1)))
	if delivered {
		t.Fatal("observer ran before the queue drained")
	}
	q.Drain()
	if !delivered {
		t.Error("observer never ran after drain")
	}
}

func TestSizeOf(t *testing.T) {
	reg := NewRegistry()
	reg.Resolve(richtext.NewAttachment("w", geom.Sz(4, 2)))
	reg.UpdateSize("w", geom.Sz(9, 2))

	size, ok := reg.SizeOf("w")
	if !ok || !size.Equals(geom.Sz(9, 2)) {
		t.Errorf("SizeOf = %v, %v, want 9x2, true", size, ok)
	}
	if _, ok := reg.SizeOf("ghost"); ok {
		t.Error("SizeOf should miss for an untracked identity")
	}
}

func TestOriginString(t *testing.T) {
	if got := (Origin{}).String(); got != "none" {
		t.Errorf("None origin String = %q, want none", got)
	}
	if got := OriginAt(geom.Pt(2, 3)).String(); got != "(2, 3)" {
		t.Errorf("origin String = %q, want (2, 3)", got)
	}
}
