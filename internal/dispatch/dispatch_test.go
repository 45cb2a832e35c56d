package dispatch

import (
	"testing"
)

func TestSyncRunsImmediately(t *testing.T) {
	ran := false
	Sync{}.Schedule(func() { ran = true })
	if !ran {
		t.Error("Sync.Schedule should run the function before returning")
	}
}

func TestQueueDefersUntilDrain(t *testing.T) {
	var q Queue

	ran := false
	q.Schedule(func() { ran = true })
	if ran {
		t.Fatal("queued function ran before Drain")
	}
	if q.Len() != 1 {
		t.Fatalf("Len = %d, want 1", q.Len())
	}

	if n := q.Drain(); n != 1 {
		t.Errorf("Drain = %d, want 1", n)
	}
	if !ran {
		t.Error("queued function did not run on Drain")
	}
	if q.Len() != 0 {
		t.Errorf("Len after Drain = %d, want 0", q.Len())
	}
}

func TestQueueDrainsInOrder(t *testing.T) {
	var q Queue
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		q.Schedule(func() { order = append(order, i) })
	}

	q.Drain()

	for i, v := range order {
		if v != i {
			t.Fatalf("drain order = %v, want ascending", order)
		}
	}
}

func TestQueueNextTurnContract(t *testing.T) {
	var q Queue

	secondRan := false
	q.Schedule(func() {
		q.Schedule(func() { secondRan = true })
	})

	if n := q.Drain(); n != 1 {
		t.Fatalf("first Drain = %d, want 1", n)
	}
	if secondRan {
		t.Fatal("function enqueued during Drain ran in the same turn")
	}

	if n := q.Drain(); n != 1 {
		t.Fatalf("second Drain = %d, want 1", n)
	}
	if !secondRan {
		t.Error("function enqueued during Drain never ran")
	}
}

func TestQueueWakesOnEmptyToNonEmpty(t *testing.T) {
	var q Queue
	wakes := 0
	q.Wake = func() { wakes++ }

	q.Schedule(func() {})
	q.Schedule(func() {})
	if wakes != 1 {
		t.Errorf("wakes after two enqueues = %d, want 1", wakes)
	}

	q.Drain()
	q.Schedule(func() {})
	if wakes != 2 {
		t.Errorf("wakes after drain and re-enqueue = %d, want 2", wakes)
	}
}

func TestQueueStats(t *testing.T) {
	var q Queue
	q.Schedule(func() {})
	q.Schedule(func() {})
	q.Drain()
	q.Schedule(func() {})

	stats := q.Stats()
	if stats.Scheduled != 3 {
		t.Errorf("Scheduled = %d, want 3", stats.Scheduled)
	}
	if stats.Drained != 2 {
		t.Errorf("Drained = %d, want 2", stats.Drained)
	}
}

func TestGuardPanicsOnOverlap(t *testing.T) {
	var g Guard
	g.Enter()
	defer g.Leave()

	defer func() {
		if recover() == nil {
			t.Error("overlapping Enter should panic")
		}
	}()
	g.Enter()
}

func TestGuardReentryAfterLeave(t *testing.T) {
	var g Guard
	g.Enter()
	g.Leave()
	g.Enter()
	g.Leave()
}
