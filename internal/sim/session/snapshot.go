package session

import (
	"time"

	"cachecraft.gg/internal/persistence/snapshot"
	"cachecraft.gg/internal/sim/world"
)

func (s *Session) buildSnapshot() snapshot.SnapshotV1 {
	cfg := s.w.Config()
	m := s.w.Snapshot()
	snap := snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version:   1,
			SessionID: s.id,
			SavedUnix: time.Now().Unix(),
		},
		Seed:               cfg.Seed,
		TileDegrees:        cfg.TileDegrees,
		NeighborhoodRadius: cfg.NeighborhoodRadius,
		InteractRadius:     cfg.InteractRadius,
		SpawnPermille:      cfg.SpawnPermille,
		WinThreshold:       int(cfg.WinThreshold),
		Held:               int(m.Held),
		Pos:                [2]int{m.Pos.I, m.Pos.J},
		Overrides:          make([]snapshot.OverrideV1, 0, len(m.Overrides)),
	}
	for _, r := range m.Overrides {
		snap.Overrides = append(snap.Overrides, snapshot.OverrideV1{
			I:       r.Cell.I,
			J:       r.Cell.J,
			Content: int(r.Content),
		})
	}
	return snap
}

// configFromSnapshot rebuilds the effective world parameters a snapshot
// was taken under. Resumes use these, not the current tuning file, so a
// saved world keeps generating identically.
func configFromSnapshot(sn *snapshot.SnapshotV1) world.Config {
	return world.Config{
		Seed:               sn.Seed,
		TileDegrees:        sn.TileDegrees,
		NeighborhoodRadius: sn.NeighborhoodRadius,
		InteractRadius:     sn.InteractRadius,
		SpawnPermille:      sn.SpawnPermille,
		WinThreshold:       world.Content(sn.WinThreshold),
	}
}

func mementoFromSnapshot(sn *snapshot.SnapshotV1) world.Memento {
	m := world.Memento{
		Held:      world.Content(sn.Held),
		Pos:       world.Cell{I: sn.Pos[0], J: sn.Pos[1]},
		Overrides: make([]world.OverrideRecord, 0, len(sn.Overrides)),
	}
	for _, o := range sn.Overrides {
		m.Overrides = append(m.Overrides, world.OverrideRecord{
			Cell:    world.Cell{I: o.I, J: o.J},
			Content: world.Content(o.Content),
		})
	}
	return m
}
