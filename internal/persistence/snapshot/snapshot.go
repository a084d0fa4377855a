// Package snapshot defines the on-disk world snapshot format: a JSON
// header line followed by a gob body, zstd-compressed. The header line
// lets tooling identify a file without decoding the body.
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
	Version int    `json:"version"`
	Tick    uint64 `json:"tick"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	Seed     int64 `json:"seed"`
	Width    int   `json:"width"`
	Height   int   `json:"height"`
	TickRate int   `json:"tick_rate_hz"`

	// Tiles is the full grid, row-major, varint RLE, base64.
	Tiles string `json:"tiles"`

	Actor     ActorV1        `json:"actor"`
	Inventory map[string]int `json:"inventory"`
	Env       EnvV1          `json:"env"`
}

type ActorV1 struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	VX           float64 `json:"vx"`
	VY           float64 `json:"vy"`
	Facing       int     `json:"facing"`
	Grounded     bool    `json:"grounded"`
	Health       float64 `json:"health"`
	MaxHealth    float64 `json:"max_health"`
	InvulnFrames float64 `json:"invuln_frames"`
	LastDamageAt float64 `json:"last_damage_at"`
}

type EnvV1 struct {
	Total     float64 `json:"total"`
	Weather   string  `json:"weather"`
	Intensity float64 `json:"intensity"`
	TimeLeft  float64 `json:"time_left"`
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

	bw := bufio.NewWriterSize(enc, 256*1024)
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

	br := bufio.NewReaderSize(dec, 256*1024)

	// Read header line (ignore it; gob also carries the header).
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
