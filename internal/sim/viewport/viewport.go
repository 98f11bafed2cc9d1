// Package viewport maintains the rendered neighborhood around the player.
// It is a pure cache over the world facade: it may be torn down and
// rebuilt at any time without touching world state, and it never writes
// overrides. Clearing override state on a move is exactly the defect this
// separation exists to prevent.
package viewport

import (
	"sort"

	"cachecraft.gg/internal/sim/world"
)

// Resolver is the read side of the world facade.
type Resolver interface {
	Resolve(world.Cell) world.Content
}

// CellView is one renderable cell descriptor.
type CellView struct {
	Cell        world.Cell
	Content     world.Content
	Interactive bool
}

// Diff lists the cells that entered and left the neighborhood on an
// update, each sorted row-major.
type Diff struct {
	Entered []world.Cell
	Exited  []world.Cell
}

type Manager struct {
	resolver       Resolver
	radius         int
	interactRadius int

	center  world.Cell
	visible map[world.Cell]struct{}
}

func New(r Resolver, radius, interactRadius int) *Manager {
	return &Manager{
		resolver:       r,
		radius:         radius,
		interactRadius: interactRadius,
		visible:        map[world.Cell]struct{}{},
	}
}

// Neighborhood returns the square of cells with Chebyshev distance at
// most radius from center, row-major.
func Neighborhood(center world.Cell, radius int) []world.Cell {
	side := 2*radius + 1
	out := make([]world.Cell, 0, side*side)
	for di := -radius; di <= radius; di++ {
		for dj := -radius; dj <= radius; dj++ {
			out = append(out, world.Cell{I: center.I + di, J: center.J + dj})
		}
	}
	return out
}

// Update recenters the neighborhood and returns the diff. Only render
// bookkeeping is rebuilt here; world state is untouched.
func (m *Manager) Update(center world.Cell) Diff {
	next := make(map[world.Cell]struct{}, (2*m.radius+1)*(2*m.radius+1))
	var d Diff
	for _, c := range Neighborhood(center, m.radius) {
		next[c] = struct{}{}
		if _, ok := m.visible[c]; !ok {
			d.Entered = append(d.Entered, c)
		}
	}
	for c := range m.visible {
		if _, ok := next[c]; !ok {
			d.Exited = append(d.Exited, c)
		}
	}
	sortCells(d.Exited)
	m.center = center
	m.visible = next
	return d
}

// Reset drops all render bookkeeping, as if no neighborhood had ever been
// built. The next Update reports every cell as entered.
func (m *Manager) Reset() {
	m.visible = map[world.Cell]struct{}{}
}

func (m *Manager) Center() world.Cell { return m.center }

func (m *Manager) Contains(c world.Cell) bool {
	_, ok := m.visible[c]
	return ok
}

// Interactive reports whether c is inside the interaction radius of the
// current center.
func (m *Manager) Interactive(c world.Cell) bool {
	return m.Contains(c) && m.center.Chebyshev(c) <= m.interactRadius
}

// Cells resolves every visible cell into a renderable descriptor,
// row-major over the current neighborhood.
func (m *Manager) Cells() []CellView {
	out := make([]CellView, 0, len(m.visible))
	for _, c := range Neighborhood(m.center, m.radius) {
		if _, ok := m.visible[c]; !ok {
			continue
		}
		out = append(out, CellView{
			Cell:        c,
			Content:     m.resolver.Resolve(c),
			Interactive: m.center.Chebyshev(c) <= m.interactRadius,
		})
	}
	return out
}

func sortCells(cs []world.Cell) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].I != cs[j].I {
			return cs[i].I < cs[j].I
		}
		return cs[i].J < cs[j].J
	})
}
