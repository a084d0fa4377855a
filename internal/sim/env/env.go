// Package env advances the continuous environment layer: the day/night
// clock, the weather state machine, weather particles, and the hazard
// coupling back into the actor's health.
package env

import (
	"math"
	"math/rand"

	"gridfall/internal/sim/actor"
	"gridfall/internal/sim/grid"
	"gridfall/internal/sim/tile"
	"gridfall/internal/sim/tuning"
)

type Weather uint8

const (
	Clear Weather = iota
	Rain
	Storm
)

func (w Weather) String() string {
	switch w {
	case Rain:
		return "RAIN"
	case Storm:
		return "STORM"
	}
	return "CLEAR"
}

// Particle is a transient weather streak. Particles have no identity
// beyond their slot in the active set.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Len    float64
}

// Window bounds, in tile coordinates, the region the presentation layer
// currently shows. Particle culling and torch discovery scan only this
// window, never the whole grid.
type Window struct {
	X0, Y0 int // inclusive
	X1, Y1 int // exclusive
}

// Environment owns the clock and weather state. Its randomness comes from
// an injected stream, separate from the seeded worldgen stream: weather is
// explicitly non-reproducible in production, and substitutable in tests.
type Environment struct {
	tune tuning.Environment
	surv tuning.Survival
	rng  *rand.Rand

	total     float64
	weather   Weather
	intensity float64
	timeLeft  float64
	particles []Particle
}

func New(tune tuning.Environment, surv tuning.Survival, rng *rand.Rand) *Environment {
	return &Environment{tune: tune, surv: surv, rng: rng}
}

func (e *Environment) Now() float64          { return e.total }
func (e *Environment) Weather() Weather      { return e.weather }
func (e *Environment) Intensity() float64    { return e.intensity }
func (e *Environment) TimeLeft() float64     { return e.timeLeft }
func (e *Environment) Particles() []Particle { return e.particles }

// DayTime is the phase in [0,1) of the current day cycle.
func (e *Environment) DayTime() float64 {
	cycle := e.tune.DayLengthSeconds
	return math.Mod(e.total, cycle) / cycle
}

func (e *Environment) IsDaytime() bool {
	return e.DayTime() < e.tune.DayPortion
}

// Step advances the environment by dt seconds and applies hazard effects
// to the actor through its controller.
func (e *Environment) Step(g *grid.Grid, ctrl *actor.Controller, win Window, dt float64) {
	e.total += dt
	e.stepWeather(dt)
	e.stepParticles(g, win, dt)
	e.stepLightning(g, ctrl, dt)
}

// stepWeather runs the clear -> {rain|storm} -> clear machine. Onset is a
// probabilistic per-frame trigger scaled by elapsed time; decay back to
// clear is deterministic on the countdown.
func (e *Environment) stepWeather(dt float64) {
	if e.weather == Clear {
		if e.rng.Float64() >= e.tune.WeatherChancePerSecond*dt {
			return
		}
		if e.rng.Float64() < e.tune.StormWeight {
			e.weather = Storm
			e.intensity = e.tune.StormIntensityMin + e.rng.Float64()*(e.tune.StormIntensityMax-e.tune.StormIntensityMin)
			e.timeLeft = e.tune.StormDurationMin + e.rng.Float64()*(e.tune.StormDurationMax-e.tune.StormDurationMin)
		} else {
			e.weather = Rain
			e.intensity = e.tune.RainIntensityMin + e.rng.Float64()*(e.tune.RainIntensityMax-e.tune.RainIntensityMin)
			e.timeLeft = e.tune.RainDurationMin + e.rng.Float64()*(e.tune.RainDurationMax-e.tune.RainDurationMin)
		}
		return
	}
	e.timeLeft -= dt
	if e.timeLeft <= 0 {
		e.weather = Clear
		e.intensity = 0
		e.timeLeft = 0
		e.particles = e.particles[:0]
	}
}

func (e *Environment) stepParticles(g *grid.Grid, win Window, dt float64) {
	if e.weather != Clear {
		e.spawnParticles(win, dt)
	}

	kept := e.particles[:0]
	for _, p := range e.particles {
		p.X += p.VX * dt
		p.Y += p.VY * dt
		if p.Y >= float64(win.Y1) || p.X < float64(win.X0)-2 || p.X >= float64(win.X1)+2 {
			continue
		}
		tx, ty := int(math.Floor(p.X)), int(math.Floor(p.Y))
		if g.Solid(tx, ty) {
			// Rain slowly weathers exposed sand into dirt.
			if e.weather == Rain && g.Get(tx, ty) == tile.Sand && e.rng.Float64() < e.tune.SandWeatherChance {
				g.Set(tx, ty, tile.Dirt)
			}
			continue
		}
		kept = append(kept, p)
	}
	e.particles = kept
}

func (e *Environment) spawnParticles(win Window, dt float64) {
	want := e.tune.ParticlesPerSecond * e.intensity * dt
	n := int(want)
	if e.rng.Float64() < want-float64(n) {
		n++
	}
	for i := 0; i < n; i++ {
		x := float64(win.X0) + e.rng.Float64()*float64(win.X1-win.X0)
		p := Particle{X: x, Y: float64(win.Y0) - 1}
		switch e.weather {
		case Storm:
			p.VX = -8 * e.intensity
			p.VY = 30 + 10*e.intensity
			p.Len = 0.8 + 0.6*e.rng.Float64()
		default:
			p.VX = -2 * e.intensity
			p.VY = 20 + 8*e.intensity
			p.Len = 0.4 + 0.4*e.rng.Float64()
		}
		e.particles = append(e.particles, p)
	}
}

// stepLightning applies storm damage: only at night, only while the storm
// lasts, and only when the actor stands under open sky.
func (e *Environment) stepLightning(g *grid.Grid, ctrl *actor.Controller, dt float64) {
	if e.weather != Storm || e.IsDaytime() {
		return
	}
	a := ctrl.Actor()
	if !ExposedToSky(g, a) {
		return
	}
	if e.rng.Float64() >= e.surv.LightningChancePerSecond*e.intensity*dt {
		return
	}
	dmg := e.surv.LightningDamageMin + e.rng.Float64()*(e.surv.LightningDamageMax-e.surv.LightningDamageMin)
	ctrl.Damage(g, dmg, e.total)
}

// ExposedToSky reports whether the column of tiles above the actor's head
// is clear all the way to the top of the grid.
func ExposedToSky(g *grid.Grid, a *actor.Actor) bool {
	col := int(math.Floor(a.Pos.X))
	top := int(math.Floor(a.Pos.Y - a.Half.Y))
	for y := top - 1; y >= 0; y-- {
		if g.Solid(col, y) {
			return false
		}
	}
	return true
}

// RestoreClock is used by snapshot restore to resume the day phase.
func (e *Environment) RestoreClock(total float64) { e.total = total }

// RestoreWeather is used by snapshot restore; invalid values fall back to
// clear weather.
func (e *Environment) RestoreWeather(w Weather, intensity, timeLeft float64) {
	if w > Storm || timeLeft <= 0 {
		e.weather = Clear
		e.intensity = 0
		e.timeLeft = 0
		return
	}
	e.weather = w
	e.intensity = intensity
	e.timeLeft = timeLeft
}
