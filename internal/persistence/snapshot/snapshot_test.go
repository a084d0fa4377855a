package snapshot

import (
	"path/filepath"
	"testing"
)

func TestSnapshot_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "tick_600.snap.zst")
	in := SnapshotV1{
		Header:   Header{Version: 1, Tick: 600},
		Seed:     1337,
		Width:    400,
		Height:   200,
		TickRate: 60,
		Tiles:    "AAYCAg==",
		Actor: ActorV1{
			X: 200.5, Y: 107.1, VX: 0.12,
			Facing: 1, Grounded: true,
			Health: 87.5, MaxHealth: 100,
			LastDamageAt: 4.2,
		},
		Inventory: map[string]int{"DIRT": 14, "STONE": 3},
		Env:       EnvV1{Total: 10, Weather: "RAIN", Intensity: 0.5, TimeLeft: 42},
	}
	if err := WriteSnapshot(path, in); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	out, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if out.Header != in.Header || out.Seed != in.Seed || out.Tiles != in.Tiles {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out.Actor != in.Actor || out.Env != in.Env {
		t.Fatalf("actor/env mismatch: %+v %+v", out.Actor, out.Env)
	}
	if out.Inventory["DIRT"] != 14 || out.Inventory["STONE"] != 3 {
		t.Fatalf("inventory mismatch: %+v", out.Inventory)
	}
}

func TestSnapshot_ReadMissingFile(t *testing.T) {
	if _, err := ReadSnapshot(filepath.Join(t.TempDir(), "nope.snap.zst")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
