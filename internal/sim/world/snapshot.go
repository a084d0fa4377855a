package world

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gridfall/internal/persistence/snapshot"
	"gridfall/internal/sim/encoding"
	"gridfall/internal/sim/env"
	"gridfall/internal/sim/grid"
	"gridfall/internal/sim/physics"
	"gridfall/internal/sim/tile"
)

const snapshotVersion = 1

// ExportSnapshot captures the full mutable state: grid, actor, inventory,
// and environment phase. Safe to hand off across goroutines; nothing in
// the result aliases live state.
func (w *World) ExportSnapshot() snapshot.SnapshotV1 {
	a := w.ctrl.Actor()
	inv := map[string]int{}
	for t, n := range w.ctrl.Inventory() {
		inv[t.Name()] = n
	}
	return snapshot.SnapshotV1{
		Header:   snapshot.Header{Version: snapshotVersion, Tick: w.tick.Load()},
		Seed:     w.cfg.Seed,
		Width:    w.grid.Width(),
		Height:   w.grid.Height(),
		TickRate: w.tune.TickRateHz,
		Tiles:    encoding.EncodeTiles(w.grid.Cells()),
		Actor: snapshot.ActorV1{
			X: a.Pos.X, Y: a.Pos.Y,
			VX: a.Vel.X, VY: a.Vel.Y,
			Facing:       a.Facing,
			Grounded:     a.Grounded,
			Health:       a.Health,
			MaxHealth:    a.MaxHealth,
			InvulnFrames: a.InvulnFrames,
			LastDamageAt: a.LastDamageAt,
		},
		Inventory: inv,
		Env: snapshot.EnvV1{
			Total:     w.env.Now(),
			Weather:   w.env.Weather().String(),
			Intensity: w.env.Intensity(),
			TimeLeft:  w.env.TimeLeft(),
		},
	}
}

// RestoreSnapshot applies a snapshot all-or-nothing: every field is
// validated and decoded before any live state is touched, so a malformed
// snapshot leaves the running simulation exactly as it was.
func (w *World) RestoreSnapshot(snap snapshot.SnapshotV1) error {
	if snap.Header.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	if snap.Width != w.grid.Width() || snap.Height != w.grid.Height() {
		return fmt.Errorf("snapshot dimensions %dx%d do not match world %dx%d",
			snap.Width, snap.Height, w.grid.Width(), w.grid.Height())
	}
	cells, err := encoding.DecodeTiles(snap.Tiles, snap.Width*snap.Height)
	if err != nil {
		return fmt.Errorf("snapshot tiles: %w", err)
	}
	g, err := grid.FromCells(snap.Width, snap.Height, cells)
	if err != nil {
		return err
	}

	sa := snap.Actor
	if sa.MaxHealth <= 0 || sa.Health < 0 || sa.Health > sa.MaxHealth {
		return fmt.Errorf("snapshot health %v/%v out of range", sa.Health, sa.MaxHealth)
	}
	if sa.X < 0 || sa.X > float64(snap.Width) || sa.Y < 0 || sa.Y > float64(snap.Height) {
		return fmt.Errorf("snapshot actor position (%v,%v) outside world", sa.X, sa.Y)
	}
	if sa.Facing != -1 && sa.Facing != 1 {
		return fmt.Errorf("snapshot facing %d invalid", sa.Facing)
	}

	inv := map[tile.Tile]int{}
	for name, n := range snap.Inventory {
		t, ok := tile.Parse(name)
		if !ok || t == tile.Air {
			return fmt.Errorf("snapshot inventory tile %q unknown", name)
		}
		if n < 0 {
			return fmt.Errorf("snapshot inventory count %d for %s negative", n, name)
		}
		inv[t] = n
	}

	weather, ok := parseWeather(snap.Env.Weather)
	if !ok {
		return fmt.Errorf("snapshot weather %q unknown", snap.Env.Weather)
	}
	if snap.Env.Total < 0 {
		return fmt.Errorf("snapshot clock %v negative", snap.Env.Total)
	}

	// Validation complete; commit.
	w.grid = g
	w.time = snap.Env.Total
	w.tick.Store(snap.Header.Tick)

	a := w.ctrl.Actor()
	a.Pos = physics.Vec2{X: sa.X, Y: sa.Y}
	a.Vel = physics.Vec2{X: sa.VX, Y: sa.VY}
	a.Facing = sa.Facing
	a.Grounded = sa.Grounded
	a.Health = sa.Health
	a.MaxHealth = sa.MaxHealth
	a.InvulnFrames = sa.InvulnFrames
	a.LastDamageAt = sa.LastDamageAt

	held := w.ctrl.Inventory()
	for t := range held {
		delete(held, t)
	}
	for t, n := range inv {
		held[t] = n
	}

	w.env.RestoreClock(snap.Env.Total)
	w.env.RestoreWeather(weather, snap.Env.Intensity, snap.Env.TimeLeft)
	return nil
}

func parseWeather(s string) (env.Weather, bool) {
	switch s {
	case "CLEAR":
		return env.Clear, true
	case "RAIN":
		return env.Rain, true
	case "STORM":
		return env.Storm, true
	}
	return env.Clear, false
}

// Digest hashes the full mutable state for determinism checks and the
// tick log.
func (w *World) Digest() string {
	h := sha256.New()
	fmt.Fprintf(h, "grid:%s\n", w.grid.Digest())
	a := w.ctrl.Actor()
	fmt.Fprintf(h, "actor:%v %v %v %v %d %v %v %v\n",
		a.Pos, a.Vel, a.Health, a.MaxHealth, a.Facing, a.Grounded, a.InvulnFrames, a.LastDamageAt)
	fmt.Fprintf(h, "env:%v %v %v %v\n",
		w.env.Now(), w.env.Weather(), w.env.Intensity(), w.env.TimeLeft())
	for _, s := range inventoryObs(w.ctrl.Inventory()) {
		fmt.Fprintf(h, "inv:%s=%d\n", s.Tile, s.Count)
	}
	return hex.EncodeToString(h.Sum(nil))
}
