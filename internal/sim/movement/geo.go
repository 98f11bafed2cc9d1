package movement

import "cachecraft.gg/internal/sim/world"

// Fix is one external positioning sample.
type Fix struct {
	Lat float64
	Lng float64
}

// GeoSource tracks external positioning fixes. Fixes are pushed in by the
// session loop; there is no background goroutine, so Stop immediately and
// permanently silences the callback.
type GeoSource struct {
	tileDegrees float64
	pos         world.Cell
	onChange    func(world.Cell)
}

func NewGeoSource(start world.Cell, tileDegrees float64) *GeoSource {
	return &GeoSource{tileDegrees: tileDegrees, pos: start}
}

func (g *GeoSource) Current() world.Cell { return g.pos }
func (g *GeoSource) Seed(c world.Cell)   { g.pos = c }

func (g *GeoSource) Start(onChange func(world.Cell)) { g.onChange = onChange }
func (g *GeoSource) Stop()                           { g.onChange = nil }

// Push converts a fix to a cell and emits it if tracking.
func (g *GeoSource) Push(f Fix) {
	g.pos = world.CellAt(f.Lat, f.Lng, g.tileDegrees)
	if g.onChange != nil {
		g.onChange(g.pos)
	}
}

// Tracker owns the active movement source and switches between variants.
// A switch stops the old source before starting the new one and carries
// the current position across.
type Tracker struct {
	active   Source
	onChange func(world.Cell)
}

func NewTracker(initial Source, onChange func(world.Cell)) *Tracker {
	t := &Tracker{active: initial, onChange: onChange}
	initial.Start(onChange)
	return t
}

func (t *Tracker) Active() Source     { return t.active }
func (t *Tracker) Current() world.Cell { return t.active.Current() }

func (t *Tracker) Swap(next Source) {
	if next == t.active {
		return
	}
	pos := t.active.Current()
	t.active.Stop()
	next.Seed(pos)
	next.Start(t.onChange)
	t.active = next
}

func (t *Tracker) Stop() { t.active.Stop() }
