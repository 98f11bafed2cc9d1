package world

import "sort"

// OverrideRecord is one touched cell in canonical export form.
type OverrideRecord struct {
	Cell    Cell
	Content Content
}

// OverrideStore holds the sparse delta of every cell a player has
// mutated. An entry is permanent for the session even when the stored
// value equals what the field would generate: the cell stays pinned so
// it can never silently revert.
type OverrideStore struct {
	cells map[Cell]Content
}

func NewOverrideStore() *OverrideStore {
	return &OverrideStore{cells: make(map[Cell]Content)}
}

func (s *OverrideStore) Has(c Cell) bool {
	_, ok := s.cells[c]
	return ok
}

func (s *OverrideStore) Get(c Cell) Content { return s.cells[c] }

func (s *OverrideStore) Set(c Cell, v Content) { s.cells[c] = v }

func (s *OverrideStore) Len() int { return len(s.cells) }

// Records returns every override sorted by (I, J), so exports and
// digests are stable across runs.
func (s *OverrideStore) Records() []OverrideRecord {
	recs := make([]OverrideRecord, 0, len(s.cells))
	for c, v := range s.cells {
		recs = append(recs, OverrideRecord{Cell: c, Content: v})
	}
	sort.Slice(recs, func(a, b int) bool {
		if recs[a].Cell.I != recs[b].Cell.I {
			return recs[a].Cell.I < recs[b].Cell.I
		}
		return recs[a].Cell.J < recs[b].Cell.J
	})
	return recs
}

// Load replaces the store contents with recs.
func (s *OverrideStore) Load(recs []OverrideRecord) {
	s.cells = make(map[Cell]Content, len(recs))
	for _, r := range recs {
		s.cells[r.Cell] = r.Content
	}
}
