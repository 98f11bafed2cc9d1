package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Header struct {
	Version   int    `json:"version"`
	SessionID string `json:"session_id"`
	SavedUnix int64  `json:"saved_unix"`
}

// SnapshotV1 is the on-disk session memento: the world parameters needed
// to reproduce generation, plus exactly the player-caused delta. Cells
// never touched are not present, so the payload scales with overrides
// recorded, not with distance traveled.
type SnapshotV1 struct {
	Header Header `json:"header"`

	Seed               int64   `json:"seed"`
	TileDegrees        float64 `json:"tile_degrees"`
	NeighborhoodRadius int     `json:"neighborhood_radius"`
	InteractRadius     int     `json:"interact_radius"`
	SpawnPermille      int     `json:"spawn_permille"`
	WinThreshold       int     `json:"win_threshold"`

	Held      int          `json:"held"`
	Pos       [2]int       `json:"pos"`
	Overrides []OverrideV1 `json:"overrides"`
}

type OverrideV1 struct {
	I       int `json:"i"`
	J       int `json:"j"`
	Content int `json:"content"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 64*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)

	// Header line is informational; gob carries it too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
