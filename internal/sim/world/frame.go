package world

import (
	"encoding/json"
	"sort"

	"gridfall/internal/protocol"
	"gridfall/internal/sim/actor"
	"gridfall/internal/sim/encoding"
	"gridfall/internal/sim/env"
	"gridfall/internal/sim/tile"
)

// Frame builds the read-only presentation snapshot for the current tick:
// the visible window's tiles and shade factors, actor kinematics, the
// environment phase, particles, and the inventory.
func (w *World) Frame() protocol.FrameMsg {
	win := w.window()
	a := w.ctrl.Actor()

	wd, ht := win.X1-win.X0, win.Y1-win.Y0
	tiles := make([]tile.Tile, 0, wd*ht)
	for y := win.Y0; y < win.Y1; y++ {
		for x := win.X0; x < win.X1; x++ {
			tiles = append(tiles, w.grid.Get(x, y))
		}
	}

	sources := w.env.Sources(w.grid, win, a.Pos)
	darkness := w.env.Darkness()
	shade := make([]float64, 0, wd*ht)
	for y := win.Y0; y < win.Y1; y++ {
		for x := win.X0; x < win.X1; x++ {
			light := env.LightAt(sources, float64(x)+0.5, float64(y)+0.5)
			shade = append(shade, env.Shade(darkness, light))
		}
	}

	parts := w.env.Particles()
	pobs := make([]protocol.ParticleObs, len(parts))
	for i, p := range parts {
		pobs[i] = protocol.ParticleObs{X: p.X, Y: p.Y, VX: p.VX, VY: p.VY, Len: p.Len}
	}

	msg := protocol.FrameMsg{
		Type:            protocol.TypeFrame,
		ProtocolVersion: protocol.Version,
		Tick:            w.tick.Load(),
		Time:            w.time,
		Window: protocol.WindowObs{
			X:        win.X0,
			Y:        win.Y0,
			Width:    wd,
			Height:   ht,
			Encoding: "RLE",
			Tiles:    encoding.EncodeTiles(tiles),
			Shade:    shade,
		},
		Actor: protocol.ActorObs{
			Pos:       [2]float64{a.Pos.X, a.Pos.Y},
			Vel:       [2]float64{a.Vel.X, a.Vel.Y},
			Grounded:  a.Grounded,
			Facing:    a.Facing,
			Health:    a.Health,
			MaxHealth: a.MaxHealth,
		},
		Env: protocol.EnvObs{
			DayTime:   w.env.DayTime(),
			Daytime:   w.env.IsDaytime(),
			Weather:   w.env.Weather().String(),
			Intensity: w.env.Intensity(),
			Darkness:  darkness,
		},
		Particles: pobs,
		Inventory: inventoryObs(w.ctrl.Inventory()),
	}
	if w.notice.TimeLeft > 0 {
		msg.Message = &protocol.NoticeObs{Text: w.notice.Text, TimeLeft: w.notice.TimeLeft}
	}
	return msg
}

// inventoryObs lists held stacks in palette order so frames are stable
// across ticks.
func inventoryObs(inv actor.Inventory) []protocol.ItemStack {
	keys := make([]tile.Tile, 0, len(inv))
	for t := range inv {
		keys = append(keys, t)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]protocol.ItemStack, 0, len(keys))
	for _, t := range keys {
		out = append(out, protocol.ItemStack{Tile: t.Name(), Count: inv[t]})
	}
	return out
}

func (w *World) frameJSON() []byte {
	b, _ := json.Marshal(w.Frame())
	return b
}
