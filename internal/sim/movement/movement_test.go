package movement

import (
	"testing"

	"cachecraft.gg/internal/sim/world"
)

func TestStepSource_StepsAndEmits(t *testing.T) {
	s := NewStepSource(world.Cell{})
	var got []world.Cell
	s.Start(func(c world.Cell) { got = append(got, c) })

	s.Step("N")
	s.Step("E")
	s.Step("S")
	s.Step("W")
	if s.Current() != (world.Cell{}) {
		t.Fatalf("N,E,S,W should return to origin; at %v", s.Current())
	}
	if len(got) != 4 {
		t.Fatalf("emitted %d events, want 4", len(got))
	}
	if got[0] != (world.Cell{I: 1, J: 0}) {
		t.Fatalf("first step %v, want (1,0)", got[0])
	}
}

func TestStepSource_UnknownDirIgnored(t *testing.T) {
	s := NewStepSource(world.Cell{})
	fired := false
	s.Start(func(world.Cell) { fired = true })
	s.Step("UP")
	if fired || s.Current() != (world.Cell{}) {
		t.Fatalf("unknown direction moved or emitted")
	}
}

func TestStepSource_StopSilences(t *testing.T) {
	s := NewStepSource(world.Cell{})
	fired := 0
	s.Start(func(world.Cell) { fired++ })
	s.Step("N")
	s.Stop()
	s.Step("N")
	if fired != 1 {
		t.Fatalf("events after stop: %d, want 1", fired)
	}
}

func TestGeoSource_SharesCellConversion(t *testing.T) {
	const tile = 1e-4
	g := NewGeoSource(world.Cell{}, tile)
	var got world.Cell
	g.Start(func(c world.Cell) { got = c })

	f := Fix{Lat: -0.00005, Lng: 0.00025}
	g.Push(f)
	want := world.CellAt(f.Lat, f.Lng, tile)
	if got != want || g.Current() != want {
		t.Fatalf("geo fix converted to %v, want %v", got, want)
	}
}

func TestGeoSource_StopBeforeAnyFix(t *testing.T) {
	g := NewGeoSource(world.Cell{}, 1e-4)
	g.Start(func(world.Cell) { t.Fatalf("callback after stop") })
	g.Stop()
	g.Push(Fix{Lat: 1, Lng: 1})
}

func TestTracker_SwapPreservesPositionAndStopsOld(t *testing.T) {
	step := NewStepSource(world.Cell{})
	geo := NewGeoSource(world.Cell{}, 1e-4)

	var events []world.Cell
	tr := NewTracker(step, func(c world.Cell) { events = append(events, c) })

	step.Step("N")
	step.Step("N")
	if tr.Current() != (world.Cell{I: 2, J: 0}) {
		t.Fatalf("position before swap: %v", tr.Current())
	}

	tr.Swap(geo)
	if tr.Current() != (world.Cell{I: 2, J: 0}) {
		t.Fatalf("swap lost position: %v", tr.Current())
	}

	// The old variant is stopped: its commands neither emit nor move the
	// tracker.
	before := len(events)
	step.Step("N")
	if len(events) != before {
		t.Fatalf("stopped source still emits")
	}

	geo.Push(Fix{Lat: 0.00105, Lng: 0})
	if tr.Current() != (world.Cell{I: 10, J: 0}) {
		t.Fatalf("geo fix after swap: %v", tr.Current())
	}

	// Swap back; the step variant resumes from the geo position.
	tr.Swap(step)
	if tr.Current() != (world.Cell{I: 10, J: 0}) {
		t.Fatalf("swap back lost position: %v", tr.Current())
	}
}

func TestTracker_SwapToActiveIsNoop(t *testing.T) {
	step := NewStepSource(world.Cell{})
	n := 0
	tr := NewTracker(step, func(world.Cell) { n++ })
	tr.Swap(step)
	step.Step("N")
	if n != 1 {
		t.Fatalf("self-swap stopped the active source (events=%d)", n)
	}
}
