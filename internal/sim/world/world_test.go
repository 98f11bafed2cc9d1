package world

import (
	"testing"

	"cachecraft.gg/internal/protocol"
)

func testWorld(t *testing.T) *World {
	t.Helper()
	return New(Config{Seed: 42})
}

// findNatural scans outward from the origin for an untouched cell whose
// generated content matches want.
func findNatural(t *testing.T, w *World, want Content) Cell {
	t.Helper()
	for i := -60; i <= 60; i++ {
		for j := -60; j <= 60; j++ {
			c := Cell{I: i, J: j}
			if w.overrides.Has(c) {
				continue
			}
			if w.Resolve(c) == want {
				return c
			}
		}
	}
	t.Fatalf("no untouched cell with content %d in scan range", want)
	return Cell{}
}

func TestResolve_Deterministic(t *testing.T) {
	w1 := testWorld(t)
	w2 := testWorld(t)
	for i := -20; i <= 20; i++ {
		for j := -20; j <= 20; j++ {
			c := Cell{I: i, J: j}
			a := w1.Resolve(c)
			if b := w1.Resolve(c); a != b {
				t.Fatalf("cell %s: repeated resolve mismatch: %d vs %d", c, a, b)
			}
			if b := w2.Resolve(c); a != b {
				t.Fatalf("cell %s: fresh world mismatch: %d vs %d", c, a, b)
			}
			if v := a; v != Empty && v != 1 && v != 2 {
				t.Fatalf("cell %s: generated content %d is not empty/1/2", c, v)
			}
		}
	}
}

func TestResolve_NeverMaterializes(t *testing.T) {
	w := testWorld(t)
	for i := -30; i <= 30; i++ {
		for j := -30; j <= 30; j++ {
			w.Resolve(Cell{I: i, J: j})
		}
	}
	if n := w.OverrideCount(); n != 0 {
		t.Fatalf("resolving stored %d overrides; want 0", n)
	}
}

func TestMutate_OverrideDurable(t *testing.T) {
	w := testWorld(t)
	c := findNatural(t, w, 1)

	w.Mutate(c, Empty)
	for k := 0; k < 5; k++ {
		if got := w.Resolve(c); got != Empty {
			t.Fatalf("resolve %d after emptying: got %d, want empty", k, got)
		}
	}

	// Writing the natural value back keeps the cell pinned as overridden.
	w.Mutate(c, 1)
	if !w.overrides.Has(c) {
		t.Fatalf("cell lost override status after writing its natural value")
	}
	if got := w.Resolve(c); got != 1 {
		t.Fatalf("resolve after re-write: got %d, want 1", got)
	}
}

func TestClick_Pickup(t *testing.T) {
	w := testWorld(t)
	c := findNatural(t, w, 1)
	w.SetPos(c)

	res := w.Click(c)
	if res.Outcome != OutcomePickup {
		t.Fatalf("outcome %s, want PICKUP", res.Outcome)
	}
	if w.Held() != 1 {
		t.Fatalf("held %d, want 1", w.Held())
	}
	if got := w.Resolve(c); got != Empty {
		t.Fatalf("cell after pickup: %d, want empty", got)
	}
}

func TestClick_PlaceOnEmpty(t *testing.T) {
	w := testWorld(t)
	w.held = 1
	c := findNatural(t, w, Empty)
	w.SetPos(c)

	res := w.Click(c)
	if res.Outcome != OutcomePlace {
		t.Fatalf("outcome %s, want PLACE", res.Outcome)
	}
	if w.Held() != Empty {
		t.Fatalf("held %d after place, want empty", w.Held())
	}
	if got := w.Resolve(c); got != 1 {
		t.Fatalf("cell after place: %d, want 1", got)
	}
}

func TestClick_CombineEqualValues(t *testing.T) {
	w := testWorld(t)
	c := Cell{I: 5, J: 5}
	w.Mutate(c, 2)
	w.held = 2
	w.SetPos(c)

	res := w.Click(c)
	if res.Outcome != OutcomeCombine {
		t.Fatalf("outcome %s, want COMBINE", res.Outcome)
	}
	if got := w.Resolve(c); got != 4 {
		t.Fatalf("cell after combine: %d, want 4", got)
	}
	if w.Held() != Empty {
		t.Fatalf("held %d after combine, want empty", w.Held())
	}
}

func TestClick_MismatchRejected(t *testing.T) {
	w := testWorld(t)
	c := Cell{I: 5, J: 5}
	w.Mutate(c, 1)
	w.held = 2
	w.SetPos(c)

	res := w.Click(c)
	if res.Outcome != OutcomeRejected {
		t.Fatalf("outcome %s, want REJECTED", res.Outcome)
	}
	if res.Code != protocol.ErrValueMismatch {
		t.Fatalf("code %q, want %q", res.Code, protocol.ErrValueMismatch)
	}
	if got := w.Resolve(c); got != 1 {
		t.Fatalf("cell changed on rejected combine: %d", got)
	}
	if w.Held() != 2 {
		t.Fatalf("held changed on rejected combine: %d", w.Held())
	}
}

func TestClick_EmptyOnEmptyIsNoop(t *testing.T) {
	w := testWorld(t)
	c := findNatural(t, w, Empty)
	w.SetPos(c)

	res := w.Click(c)
	if res.Outcome != OutcomeNoop {
		t.Fatalf("outcome %s, want NOOP", res.Outcome)
	}
	if w.OverrideCount() != 0 {
		t.Fatalf("noop recorded an override")
	}
}

func TestClick_InteractionRadiusBoundary(t *testing.T) {
	w := testWorld(t)
	r := w.Config().InteractRadius
	w.SetPos(Cell{})

	if res := w.Click(Cell{I: r, J: 0}); res.Outcome == OutcomeRejected && res.Code == protocol.ErrTooFar {
		t.Fatalf("cell at distance %d rejected as too far", r)
	}
	res := w.Click(Cell{I: r + 1, J: 0})
	if res.Outcome != OutcomeRejected || res.Code != protocol.ErrTooFar {
		t.Fatalf("cell at distance %d: outcome=%s code=%q, want too-far rejection", r+1, res.Outcome, res.Code)
	}
}

func TestClick_WinSignalDoesNotBlockPlay(t *testing.T) {
	w := New(Config{Seed: 42, WinThreshold: 4})
	c := Cell{I: 1, J: 1}
	w.Mutate(c, 2)
	w.held = 2
	w.SetPos(c)

	res := w.Click(c)
	if res.Outcome != OutcomeCombine || !res.Win {
		t.Fatalf("combine to threshold: outcome=%s win=%v", res.Outcome, res.Win)
	}

	// Winning is an observation; the next click still works.
	res = w.Click(c)
	if res.Outcome != OutcomePickup {
		t.Fatalf("click after win: outcome %s, want PICKUP", res.Outcome)
	}
	if !res.Win {
		t.Fatalf("holding the winning token should still report win")
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	w := testWorld(t)
	w.Mutate(Cell{I: 2, J: 2}, Empty)
	w.Mutate(Cell{I: 3, J: 3}, 4)
	w.Mutate(Cell{I: -7, J: 9}, 2)
	w.held = 2
	w.SetPos(Cell{I: 10, J: -4})

	m := w.Snapshot()
	if len(m.Overrides) != 3 {
		t.Fatalf("snapshot has %d overrides, want 3", len(m.Overrides))
	}

	w2 := testWorld(t)
	if err := w2.Restore(m); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if w2.Digest() != w.Digest() {
		t.Fatalf("digest mismatch after restore")
	}
	for i := -15; i <= 15; i++ {
		for j := -15; j <= 15; j++ {
			c := Cell{I: i, J: j}
			if a, b := w.Resolve(c), w2.Resolve(c); a != b {
				t.Fatalf("cell %s resolves differently after restore: %d vs %d", c, a, b)
			}
		}
	}
}

func TestRestore_InvalidLeavesWorldUnchanged(t *testing.T) {
	w := testWorld(t)
	w.Mutate(Cell{I: 1, J: 1}, 2)
	before := w.Digest()

	bad := Memento{Held: 3} // not a power of two
	if err := w.Restore(bad); err == nil {
		t.Fatalf("restore accepted invalid held token")
	}
	bad = Memento{Overrides: []OverrideRecord{
		{Cell: Cell{I: 0, J: 0}, Content: 1},
		{Cell: Cell{I: 0, J: 0}, Content: 2},
	}}
	if err := w.Restore(bad); err == nil {
		t.Fatalf("restore accepted duplicate override records")
	}

	if w.Digest() != before {
		t.Fatalf("failed restore mutated the world")
	}
}
