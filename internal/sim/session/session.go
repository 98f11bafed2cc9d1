// Package session wires one player's world, viewport and movement sources
// into a single event loop. All mutation happens on the loop goroutine;
// every movement or click event is processed to completion before the
// next one is taken.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	persistlog "cachecraft.gg/internal/persistence/log"
	"cachecraft.gg/internal/persistence/sessiondb"
	"cachecraft.gg/internal/persistence/snapshot"
	"cachecraft.gg/internal/protocol"
	"cachecraft.gg/internal/sim/movement"
	"cachecraft.gg/internal/sim/viewport"
	"cachecraft.gg/internal/sim/world"
)

const (
	SourceStep = "STEP"
	SourceGeo  = "GEO"
)

type Options struct {
	Config     world.Config
	PlayerName string

	// SessionID resumes an existing identity; empty mints a new one.
	SessionID string
	// Snapshot, when set, restores a saved world. A corrupt snapshot falls
	// back to a fresh start; it is never fatal.
	Snapshot *snapshot.SnapshotV1

	DataDir string
	Store   sessiondb.Store // optional
	Logger  *log.Logger     // optional
}

type Session struct {
	id      string
	name    string
	resumed bool

	w       *world.World
	vp      *viewport.Manager
	step    *movement.StepSource
	geo     *movement.GeoSource
	tracker *movement.Tracker

	dataDir string
	store   sessiondb.Store
	audit   *persistlog.AuditLogger
	logger  *log.Logger

	clicks  chan protocol.ClickMsg
	moves   chan string
	fixes   chan movement.Fix
	sources chan string
	saves   chan struct{}

	out chan []byte
}

func New(opts Options) *Session {
	id := opts.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	name := opts.PlayerName
	if name == "" {
		name = "player"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[session] ", log.LstdFlags)
	}

	w := world.New(opts.Config)
	resumed := false
	if opts.Snapshot != nil {
		restored := world.New(configFromSnapshot(opts.Snapshot))
		if err := restored.Restore(mementoFromSnapshot(opts.Snapshot)); err != nil {
			logger.Printf("session %s: %v; starting fresh", id, err)
		} else {
			w = restored
			resumed = true
		}
	}
	cfg := w.Config()

	s := &Session{
		id:      id,
		name:    name,
		resumed: resumed,
		w:       w,
		vp:      viewport.New(w, cfg.NeighborhoodRadius, cfg.InteractRadius),
		dataDir: opts.DataDir,
		store:   opts.Store,
		logger:  logger,
		clicks:  make(chan protocol.ClickMsg, 16),
		moves:   make(chan string, 16),
		fixes:   make(chan movement.Fix, 16),
		sources: make(chan string, 4),
		saves:   make(chan struct{}, 4),
		out:     make(chan []byte, 64),
	}
	s.step = movement.NewStepSource(w.Pos())
	s.geo = movement.NewGeoSource(w.Pos(), cfg.TileDegrees)
	s.tracker = movement.NewTracker(s.step, s.onMove)

	if opts.DataDir != "" {
		s.audit = persistlog.NewAuditLogger(s.sessionDir())
	}
	return s
}

func (s *Session) ID() string    { return s.id }
func (s *Session) Resumed() bool { return s.resumed }
func (s *Session) Digest() string { return s.w.Digest() }

// Channel feeders for the transport layer.
func (s *Session) Clicks() chan<- protocol.ClickMsg { return s.clicks }
func (s *Session) Moves() chan<- string             { return s.moves }
func (s *Session) Fixes() chan<- movement.Fix       { return s.fixes }
func (s *Session) Sources() chan<- string           { return s.sources }
func (s *Session) Saves() chan<- struct{}           { return s.saves }
func (s *Session) Out() <-chan []byte               { return s.out }

func (s *Session) Welcome() protocol.WelcomeMsg {
	cfg := s.w.Config()
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       s.id,
		WorldParams: protocol.WorldParams{
			Seed:               cfg.Seed,
			TileDegrees:        cfg.TileDegrees,
			NeighborhoodRadius: cfg.NeighborhoodRadius,
			InteractRadius:     cfg.InteractRadius,
			SpawnPermille:      cfg.SpawnPermille,
			WinThreshold:       int(cfg.WinThreshold),
		},
		Pos:     [2]int{s.w.Pos().I, s.w.Pos().J},
		Held:    int(s.w.Held()),
		Resumed: s.resumed,
	}
}

// Run drives the session until ctx is canceled. It owns all state; no
// other goroutine touches the world.
func (s *Session) Run(ctx context.Context) {
	// Build and announce the initial neighborhood.
	diff := s.vp.Update(s.w.Pos())
	s.pushView(diff)

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return
		case req := <-s.clicks:
			s.handleClick(req)
		case dir := <-s.moves:
			s.handleMove(dir)
		case f := <-s.fixes:
			s.geo.Push(f)
		case src := <-s.sources:
			s.handleSetSource(src)
		case <-s.saves:
			s.handleSave()
		}
	}
}

func (s *Session) handleMove(dir string) {
	if s.tracker.Active() != s.step {
		// Step commands only drive the step variant.
		return
	}
	s.step.Step(dir)
}

// onMove is the position-changed callback shared by both movement
// variants. Only render bookkeeping is rebuilt here; override state is
// never touched on a move.
func (s *Session) onMove(c world.Cell) {
	s.w.SetPos(c)
	diff := s.vp.Update(c)
	s.pushView(diff)
}

func (s *Session) handleSetSource(src string) {
	switch src {
	case SourceStep:
		s.tracker.Swap(s.step)
	case SourceGeo:
		s.tracker.Swap(s.geo)
	}
}

func (s *Session) handleClick(req protocol.ClickMsg) {
	res := s.w.Click(world.Cell{I: req.Cell[0], J: req.Cell[1]})

	msg := protocol.ClickResultMsg{
		Type:            protocol.TypeClickResult,
		ProtocolVersion: protocol.Version,
		Ref:             req.ID,
		OK:              res.Accepted(),
		Outcome:         string(res.Outcome),
		Code:            res.Code,
		Message:         res.Message,
		Cell:            [2]int{res.Cell.I, res.Cell.J},
		Content:         int(res.Content),
		Held:            int(res.Held),
		Win:             res.Win,
	}
	s.push(msg)

	if s.audit != nil {
		_ = s.audit.WriteAudit(world.AuditEntry{
			TimeUnixMs: time.Now().UnixMilli(),
			SessionID:  s.id,
			Outcome:    string(res.Outcome),
			Code:       res.Code,
			Cell:       [2]int{res.Cell.I, res.Cell.J},
			Content:    int(res.Content),
			Held:       int(res.Held),
			Win:        res.Win,
		})
	}
	if s.store != nil {
		if err := s.store.RecordClick(s.id, string(res.Outcome)); err != nil {
			s.logger.Printf("session %s: record click: %v", s.id, err)
		}
	}
}

func (s *Session) handleSave() {
	path, err := s.save()
	msg := protocol.SavedMsg{
		Type:            protocol.TypeSaved,
		ProtocolVersion: protocol.Version,
		OK:              err == nil,
		Path:            path,
	}
	if err != nil {
		s.logger.Printf("session %s: save: %v", s.id, err)
		msg.Code = protocol.ErrInternal
	}
	s.push(msg)
}

func (s *Session) save() (string, error) {
	if s.dataDir == "" {
		return "", fmt.Errorf("no data dir configured")
	}
	snap := s.buildSnapshot()
	path := filepath.Join(s.sessionDir(), "snapshots",
		fmt.Sprintf("snap-%d.zst", snap.Header.SavedUnix))
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		return "", err
	}
	if s.store != nil {
		err := s.store.UpsertSession(sessiondb.SessionMeta{
			SessionID:    s.id,
			PlayerName:   s.name,
			SavedUnix:    snap.Header.SavedUnix,
			SnapshotPath: path,
			Overrides:    len(snap.Overrides),
			Held:         snap.Held,
			PosI:         snap.Pos[0],
			PosJ:         snap.Pos[1],
		})
		if err != nil {
			s.logger.Printf("session %s: index snapshot: %v", s.id, err)
		}
	}
	return path, nil
}

func (s *Session) sessionDir() string {
	return filepath.Join(s.dataDir, "sessions", s.id)
}

func (s *Session) pushView(diff viewport.Diff) {
	cells := s.vp.Cells()
	msg := protocol.ViewMsg{
		Type:            protocol.TypeView,
		ProtocolVersion: protocol.Version,
		Center:          [2]int{s.vp.Center().I, s.vp.Center().J},
		Held:            int(s.w.Held()),
		Cells:           make([]protocol.CellView, 0, len(cells)),
	}
	for _, cv := range cells {
		msg.Cells = append(msg.Cells, protocol.CellView{
			Cell:        [2]int{cv.Cell.I, cv.Cell.J},
			Content:     int(cv.Content),
			Interactive: cv.Interactive,
		})
	}
	for _, c := range diff.Entered {
		msg.Entered = append(msg.Entered, [2]int{c.I, c.J})
	}
	for _, c := range diff.Exited {
		msg.Exited = append(msg.Exited, [2]int{c.I, c.J})
	}
	s.push(msg)
}

func (s *Session) push(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Printf("session %s: marshal: %v", s.id, err)
		return
	}
	select {
	case s.out <- b:
	default:
		// Slow consumer; drop rather than stall the loop.
	}
}

func (s *Session) shutdown() {
	s.tracker.Stop()
	if s.dataDir != "" {
		if _, err := s.save(); err != nil {
			s.logger.Printf("session %s: final save: %v", s.id, err)
		}
	}
	if s.audit != nil {
		_ = s.audit.Close()
	}
	close(s.out)
}
