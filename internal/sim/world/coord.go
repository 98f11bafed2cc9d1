package world

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cell is a lattice coordinate: I indexes latitude rows, J longitude
// columns. Cells are the only addressing unit in the system; raw
// coordinates are converted exactly once, in CellAt.
type Cell struct {
	I int
	J int
}

func (c Cell) String() string { return c.Key() }

// Key is the canonical string form "i,j", used to key the field hash.
// The comma keeps distinct cells from colliding ("1,23" vs "12,3").
func (c Cell) Key() string {
	return strconv.Itoa(c.I) + "," + strconv.Itoa(c.J)
}

func ParseCellKey(s string) (Cell, error) {
	i, j, ok := strings.Cut(s, ",")
	if !ok {
		return Cell{}, fmt.Errorf("cell key %q: missing separator", s)
	}
	ci, err := strconv.Atoi(i)
	if err != nil {
		return Cell{}, fmt.Errorf("cell key %q: %w", s, err)
	}
	cj, err := strconv.Atoi(j)
	if err != nil {
		return Cell{}, fmt.Errorf("cell key %q: %w", s, err)
	}
	return Cell{I: ci, J: cj}, nil
}

// Chebyshev is the king-move distance between the two cells.
// Neighborhoods and interaction ranges are squares under it.
func (c Cell) Chebyshev(o Cell) int {
	di := abs(c.I - o.I)
	dj := abs(c.J - o.J)
	if di > dj {
		return di
	}
	return dj
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CellAt maps a geographic coordinate to its lattice cell. Floor, not
// truncation: negative coordinates must bucket toward negative
// infinity or adjacent cells straddling zero would merge.
func CellAt(lat, lng, tileDegrees float64) Cell {
	return Cell{
		I: int(math.Floor(lat / tileDegrees)),
		J: int(math.Floor(lng / tileDegrees)),
	}
}
