package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"cachecraft.gg/internal/persistence/sessiondb"
	"cachecraft.gg/internal/persistence/snapshot"
	"cachecraft.gg/internal/protocol"
	"cachecraft.gg/internal/sim/movement"
	"cachecraft.gg/internal/sim/session"
	"cachecraft.gg/internal/sim/world"
)

// Server hosts one session per websocket connection. The session loop is
// the only mutator; the connection goroutines just feed its channels.
type Server struct {
	cfg     world.Config
	dataDir string
	store   sessiondb.Store
	log     *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(cfg world.Config, dataDir string, store sessiondb.Store, logger *log.Logger) *Server {
	return &Server{
		cfg:     cfg,
		dataDir: dataDir,
		store:   store,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sess := s.handshake(conn)
		if sess == nil {
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go sess.Run(ctx)

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-sess.Out():
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			s.route(sess, msg)
		}
	}
}

func (s *Server) route(sess *session.Session, msg []byte) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return
	}
	if base.ProtocolVersion != protocol.Version {
		return
	}
	switch base.Type {
	case protocol.TypeClick:
		var m protocol.ClickMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return
		}
		sess.Clicks() <- m
	case protocol.TypeMove:
		var m protocol.MoveMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return
		}
		sess.Moves() <- m.Dir
	case protocol.TypeGeoFix:
		var m protocol.GeoFixMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return
		}
		sess.Fixes() <- movement.Fix{Lat: m.Lat, Lng: m.Lng}
	case protocol.TypeSetSource:
		var m protocol.SetSourceMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return
		}
		sess.Sources() <- m.Source
	case protocol.TypeSave:
		sess.Saves() <- struct{}{}
	}
}

func (s *Server) handshake(conn *websocket.Conn) *session.Session {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return nil
	}

	sess := session.New(session.Options{
		Config:     s.cfg,
		PlayerName: hello.PlayerName,
		SessionID:  strings.TrimSpace(hello.SessionID),
		Snapshot:   s.loadSnapshot(strings.TrimSpace(hello.SessionID)),
		DataDir:    s.dataDir,
		Store:      s.store,
		Logger:     s.log,
	})

	if err := writeJSON(conn, sess.Welcome()); err != nil {
		return nil
	}
	return sess
}

// loadSnapshot looks up the latest saved snapshot for a resumed session.
// Any failure just means a fresh start.
func (s *Server) loadSnapshot(sessionID string) *snapshot.SnapshotV1 {
	if sessionID == "" || s.store == nil {
		return nil
	}
	ref, err := s.store.LatestSnapshot(sessionID)
	if err != nil || ref.Path == "" {
		return nil
	}
	snap, err := snapshot.ReadSnapshot(ref.Path)
	if err != nil {
		s.log.Printf("session %s: read snapshot %s: %v", sessionID, ref.Path, err)
		return nil
	}
	return &snap
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
