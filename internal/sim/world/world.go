package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"cachecraft.gg/internal/sim/field"
)

// World is the single authority over cell content, the held token and the
// player position. Unmodified cells are derived from the field on every
// read; touched cells live in the override store. Nothing else in the
// system may write either.
type World struct {
	cfg       Config
	field     *field.Field
	overrides *OverrideStore

	held Content
	pos  Cell
}

func New(cfg Config) *World {
	cfg.applyDefaults()
	return &World{
		cfg:       cfg,
		field:     field.New(cfg.Seed),
		overrides: NewOverrideStore(),
	}
}

func (w *World) Config() Config { return w.cfg }
func (w *World) Held() Content  { return w.held }
func (w *World) Pos() Cell      { return w.pos }

// SetPos moves the player. Only the active movement source should call
// this, via the session loop.
func (w *World) SetPos(c Cell) { w.pos = c }

// Resolve returns the content of c: the override if the cell was ever
// touched, otherwise the field-generated content. Generated content is
// never stored.
func (w *World) Resolve(c Cell) Content {
	if w.overrides.Has(c) {
		return w.overrides.Get(c)
	}
	return w.generate(c)
}

func (w *World) generate(c Cell) Content {
	// Two independently keyed draws: one for presence, one for the token
	// value, so the two do not correlate.
	if w.field.Value(c.Key()) >= float64(w.cfg.SpawnPermille)/1000 {
		return Empty
	}
	if w.field.Value(c.Key()+":value") < 0.5 {
		return 1
	}
	return 2
}

// Mutate records v as the authoritative content of c, permanently for the
// session.
func (w *World) Mutate(c Cell, v Content) {
	w.overrides.Set(c, v)
}

// OverrideCount reports how many cells have been touched.
func (w *World) OverrideCount() int { return w.overrides.Len() }

// Memento captures exactly the player-caused state: held token, position
// and the override delta. Cells never touched are excluded, so its size
// scales with overrides, not with distance traveled.
type Memento struct {
	Held      Content
	Pos       Cell
	Overrides []OverrideRecord
}

func (w *World) Snapshot() Memento {
	return Memento{
		Held:      w.held,
		Pos:       w.pos,
		Overrides: w.overrides.Records(),
	}
}

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Restore replaces the player-caused state from m. On error the world is
// left unchanged; callers fall back to a fresh start.
func (w *World) Restore(m Memento) error {
	if !ValidContent(m.Held) {
		return fmt.Errorf("%w: held token %d", ErrInvalidSnapshot, m.Held)
	}
	seen := make(map[Cell]struct{}, len(m.Overrides))
	for _, r := range m.Overrides {
		if !ValidContent(r.Content) {
			return fmt.Errorf("%w: cell %s content %d", ErrInvalidSnapshot, r.Cell, r.Content)
		}
		if _, dup := seen[r.Cell]; dup {
			return fmt.Errorf("%w: duplicate override for %s", ErrInvalidSnapshot, r.Cell)
		}
		seen[r.Cell] = struct{}{}
	}
	w.held = m.Held
	w.pos = m.Pos
	w.overrides.Load(m.Overrides)
	return nil
}

// Digest hashes the authoritative state: seed, held token, position and
// the sorted override records. Worlds with equal digests resolve
// identically at every coordinate.
func (w *World) Digest() string {
	h := sha256.New()
	var buf [8]byte
	put := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	put(w.cfg.Seed)
	put(int64(w.held))
	put(int64(w.pos.I))
	put(int64(w.pos.J))
	for _, r := range w.overrides.Records() {
		put(int64(r.Cell.I))
		put(int64(r.Cell.J))
		put(int64(r.Content))
	}
	return hex.EncodeToString(h.Sum(nil))
}
