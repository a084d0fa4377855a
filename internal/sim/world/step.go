package world

import (
	"math"

	"gridfall/internal/sim/actor"
	"gridfall/internal/sim/env"
	"gridfall/internal/sim/tile"
)

const noticeSeconds = 3

// Step advances the whole simulation by dt seconds: actor physics, then
// mine/place interaction, then the environment layer. dt is clamped so a
// stalled host cannot tunnel the actor through terrain.
func (w *World) Step(in Intent, dt float64) {
	if dt <= 0 {
		return
	}
	if dt > w.tune.MaxStepSeconds {
		dt = w.tune.MaxStepSeconds
	}
	frames := dt * w.tune.ReferenceHz
	w.time += dt

	w.ctrl.Step(w.grid, actor.MoveIntent{
		Left:  in.MoveLeft,
		Right: in.MoveRight,
		Jump:  in.Jump,
	}, frames, w.time)

	switch {
	case in.MineHeld:
		w.ctrl.Mine(w.grid, in.PointerX, in.PointerY)
	case in.PlaceHeld:
		w.ctrl.Place(w.grid, in.PointerX, in.PointerY, hotbarTile(in.HotbarIndex))
	}

	before := w.env.Weather()
	w.env.Step(w.grid, w.ctrl, w.window(), dt)
	if after := w.env.Weather(); after != before {
		w.weatherNotice(after)
	}

	if w.notice.TimeLeft > 0 {
		w.notice.TimeLeft -= dt
		if w.notice.TimeLeft <= 0 {
			w.notice = notice{}
		}
	}

	w.tick.Add(1)
}

// hotbarTile maps an intent's hotbar index to a placeable tile; anything
// out of range selects nothing.
func hotbarTile(idx int) tile.Tile {
	if idx < 0 || idx >= len(Hotbar) {
		return tile.Air
	}
	return Hotbar[idx]
}

func (w *World) weatherNotice(after env.Weather) {
	switch after {
	case env.Rain:
		w.notice = notice{Text: "Rain begins to fall", TimeLeft: noticeSeconds}
	case env.Storm:
		w.notice = notice{Text: "A storm is rolling in", TimeLeft: noticeSeconds}
	default:
		w.notice = notice{Text: "The sky clears", TimeLeft: noticeSeconds}
	}
}

// window is the visible tile region centered on the actor, clamped to the
// grid. Light queries and particle culling are bounded to it.
func (w *World) window() env.Window {
	vw, vh := w.tune.View.Width, w.tune.View.Height
	if vw > w.grid.Width() {
		vw = w.grid.Width()
	}
	if vh > w.grid.Height() {
		vh = w.grid.Height()
	}
	a := w.ctrl.Actor()
	x0 := clampInt(int(math.Floor(a.Pos.X))-vw/2, 0, w.grid.Width()-vw)
	y0 := clampInt(int(math.Floor(a.Pos.Y))-vh/2, 0, w.grid.Height()-vh)
	return env.Window{X0: x0, Y0: y0, X1: x0 + vw, Y1: y0 + vh}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
