package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"cachecraft.gg/internal/protocol"
)

// A throwaway client: random-walks and clicks every interactive token it
// sees, saving occasionally. Useful for soaking the server.
func main() {
	var (
		url  = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name = flag.String("name", "bot", "player name")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	dirs := []string{"N", "S", "E", "W"}
	views := 0

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s seed=%d resumed=%v", w.SessionID, w.WorldParams.Seed, w.Resumed)

		case protocol.TypeView:
			var v protocol.ViewMsg
			if err := json.Unmarshal(msg, &v); err != nil {
				continue
			}
			views++
			handleView(conn, r, &v, views)

		case protocol.TypeClickResult:
			var res protocol.ClickResultMsg
			if err := json.Unmarshal(msg, &res); err != nil {
				continue
			}
			if res.Win {
				logger.Printf("WIN at %v (content=%d held=%d)", res.Cell, res.Content, res.Held)
			}
		}

		if views > 0 && views%50 == 0 {
			_ = conn.WriteJSON(protocol.SaveMsg{Type: protocol.TypeSave, ProtocolVersion: protocol.Version})
			views++
		}

		_ = conn.WriteJSON(protocol.MoveMsg{
			Type:            protocol.TypeMove,
			ProtocolVersion: protocol.Version,
			Dir:             dirs[r.Intn(len(dirs))],
		})
	}
}

func handleView(conn *websocket.Conn, r *rand.Rand, v *protocol.ViewMsg, n int) {
	// Click the first interactive token, or place/combine on the center.
	for _, c := range v.Cells {
		if !c.Interactive {
			continue
		}
		if c.Content > 0 || (v.Held > 0 && c.Content == 0) {
			_ = conn.WriteJSON(protocol.ClickMsg{
				Type:            protocol.TypeClick,
				ProtocolVersion: protocol.Version,
				ID:              fmt.Sprintf("C%d", n),
				Cell:            c.Cell,
			})
			return
		}
	}
}
