package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"gridfall/internal/persistence/snapshot"
	"gridfall/internal/sim/tuning"
	"gridfall/internal/sim/world"
	"gridfall/internal/sim/worldgen"
)

func smallGen() worldgen.Config {
	cfg := worldgen.DefaultConfig()
	cfg.Width = 120
	cfg.Height = 80
	return cfg
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestResumeFromSnapshot_RoundTrip(t *testing.T) {
	tune := tuning.Defaults()
	src := world.New(world.Config{Seed: 7, Tune: tune, Gen: smallGen()})
	for i := 0; i < 5; i++ {
		src.Step(world.Intent{MoveRight: true}, 1.0/60)
	}
	path := filepath.Join(t.TempDir(), "5.snap.zst")
	if err := snapshot.WriteSnapshot(path, src.ExportSnapshot()); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	fresh := world.New(world.Config{Seed: 7, Tune: tune, Gen: smallGen()})
	got, err := resumeFromSnapshot(fresh, path, false, 7, tune, quietLogger())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if got.CurrentTick() != src.CurrentTick() {
		t.Fatalf("tick = %d, want %d", got.CurrentTick(), src.CurrentTick())
	}
	if got.Digest() != src.Digest() {
		t.Fatalf("digest mismatch after resume")
	}
}

func TestResumeFromSnapshot_UnreadableDiscoveredStartsFresh(t *testing.T) {
	tune := tuning.Defaults()
	fresh := world.New(world.Config{Seed: 7, Tune: tune, Gen: smallGen()})
	before := fresh.Digest()

	path := filepath.Join(t.TempDir(), "42.snap.zst")
	if err := os.WriteFile(path, []byte("not a snapshot"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// A corrupt leftover on the auto-discovered path must never keep the
	// server from starting on the fresh world.
	got, err := resumeFromSnapshot(fresh, path, false, 7, tune, quietLogger())
	if err != nil {
		t.Fatalf("discovered-path read failure surfaced an error: %v", err)
	}
	if got != fresh || got.CurrentTick() != 0 || got.Digest() != before {
		t.Fatalf("discovered-path read failure did not keep the fresh world")
	}

	// An explicitly requested snapshot is different: surface the error.
	if _, err := resumeFromSnapshot(fresh, path, true, 7, tune, quietLogger()); err == nil {
		t.Fatalf("explicit snapshot read failure returned no error")
	}
}
