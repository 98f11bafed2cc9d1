// Package movement abstracts how the player position changes: discrete
// step commands or external geolocation fixes. Both variants convert to
// lattice cells through world.CellAt so they can never round differently.
//
// Sources are driven from the session loop only; Start and Stop toggle the
// change callback, and after Stop no further callbacks fire.
package movement

import "cachecraft.gg/internal/sim/world"

// Source is the capability set every movement variant implements.
type Source interface {
	// Current returns the source's notion of the player cell.
	Current() world.Cell
	// Seed sets the position without emitting a change; used to carry the
	// position across a source switch.
	Seed(world.Cell)
	// Start begins tracking; onChange fires for every position event.
	Start(onChange func(world.Cell))
	// Stop ends tracking. Safe to call at any time, including before any
	// event has fired; afterwards no callback runs.
	Stop()
}

// Step directions.
var dirDeltas = map[string][2]int{
	"N": {1, 0},
	"S": {-1, 0},
	"E": {0, 1},
	"W": {0, -1},
}

// DirDelta maps a compass direction to a lattice delta.
func DirDelta(dir string) (di, dj int, ok bool) {
	d, ok := dirDeltas[dir]
	return d[0], d[1], ok
}

// StepSource moves one cell per explicit directional command.
type StepSource struct {
	pos      world.Cell
	onChange func(world.Cell)
}

func NewStepSource(start world.Cell) *StepSource {
	return &StepSource{pos: start}
}

func (s *StepSource) Current() world.Cell { return s.pos }
func (s *StepSource) Seed(c world.Cell)   { s.pos = c }

func (s *StepSource) Start(onChange func(world.Cell)) { s.onChange = onChange }
func (s *StepSource) Stop()                           { s.onChange = nil }

// Step applies one directional command. Unknown directions are ignored.
func (s *StepSource) Step(dir string) {
	di, dj, ok := DirDelta(dir)
	if !ok {
		return
	}
	s.pos = world.Cell{I: s.pos.I + di, J: s.pos.J + dj}
	if s.onChange != nil {
		s.onChange(s.pos)
	}
}
