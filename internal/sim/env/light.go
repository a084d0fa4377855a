package env

import (
	"math"

	"gridfall/internal/sim/grid"
	"gridfall/internal/sim/physics"
)

// Source is a point light with a falloff radius in tile units.
type Source struct {
	X, Y   float64
	Radius float64
}

// Sources gathers the active light sources for this frame: the actor,
// always, plus every torch tile inside the visible window when it is not
// daytime. Bounded by the window so the per-frame cost never scales with
// grid size.
func (e *Environment) Sources(g *grid.Grid, win Window, actorPos physics.Vec2) []Source {
	out := []Source{{X: actorPos.X, Y: actorPos.Y, Radius: e.tune.PlayerLightRadius}}
	if e.IsDaytime() {
		return out
	}
	for y := win.Y0; y < win.Y1; y++ {
		for x := win.X0; x < win.X1; x++ {
			if r := g.Get(x, y).LightRadius(); r > 0 {
				out = append(out, Source{X: float64(x) + 0.5, Y: float64(y) + 0.5, Radius: r})
			}
		}
	}
	return out
}

// LightAt is the normalized light level at a world position: the maximum
// over all sources of a linear falloff, exactly 1 at the source and
// exactly 0 at the radius.
func LightAt(sources []Source, x, y float64) float64 {
	best := 0.0
	for _, s := range sources {
		if s.Radius <= 0 {
			continue
		}
		d := math.Hypot(x-s.X, y-s.Y)
		if l := 1 - d/s.Radius; l > best {
			best = l
		}
	}
	return best
}

// Darkness is the ambient darkening factor applied inversely to light:
// zero during the day, ramping linearly with how deep into night the
// clock is (peaking mid-night).
func (e *Environment) Darkness() float64 {
	t := e.DayTime()
	if t < e.tune.DayPortion {
		return 0
	}
	depth := (t - e.tune.DayPortion) / (1 - e.tune.DayPortion) // 0..1 across the night
	return e.tune.DarknessMax * (1 - math.Abs(2*depth-1))
}

// Shade combines ambient darkness with a local light level into the
// factor presentation multiplies a tile's base color by.
func Shade(darkness, light float64) float64 {
	f := 1 - darkness*(1-light)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
