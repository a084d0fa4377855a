package env

import (
	"math"
	"math/rand"
	"testing"

	"gridfall/internal/sim/actor"
	"gridfall/internal/sim/grid"
	"gridfall/internal/sim/physics"
	"gridfall/internal/sim/tile"
	"gridfall/internal/sim/tuning"
)

func testEnv(t *testing.T, seed int64, mut func(*tuning.Tuning)) (*Environment, *grid.Grid) {
	t.Helper()
	tune := tuning.Defaults()
	if mut != nil {
		mut(&tune)
	}
	g, err := grid.New(40, 40)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	for x := 0; x < 40; x++ {
		g.Set(x, 30, tile.Stone)
	}
	return New(tune.Environment, tune.Survival, rand.New(rand.NewSource(seed))), g
}

func testActor(g *grid.Grid, tune tuning.Tuning) *actor.Controller {
	a := actor.NewActor(physics.Vec2{X: 20, Y: 30 - actor.DefaultHalf.Y}, tune.Survival.MaxHealth)
	a.Grounded = true
	return actor.NewController(a, actor.NewInventory(), tune.Physics, tune.Survival)
}

var testWindow = Window{X0: 0, Y0: 0, X1: 40, Y1: 40}

func TestDayTime_PhaseAndDaytime(t *testing.T) {
	e, _ := testEnv(t, 1, nil)
	if !e.IsDaytime() {
		t.Fatalf("t=0 should be daytime")
	}
	cycle := tuning.Defaults().Environment.DayLengthSeconds
	e.RestoreClock(cycle * 0.8)
	if e.IsDaytime() {
		t.Fatalf("phase 0.8 should be night")
	}
	if got := e.DayTime(); math.Abs(got-0.8) > 1e-9 {
		t.Fatalf("DayTime = %v, want 0.8", got)
	}
	e.RestoreClock(cycle * 2.3)
	if got := e.DayTime(); math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("DayTime wraps: got %v, want 0.3", got)
	}
}

func TestWeather_TransitionsAndCountdown(t *testing.T) {
	e, g := testEnv(t, 7, func(tn *tuning.Tuning) {
		tn.Environment.WeatherChancePerSecond = 1000 // force onset on the next frame
	})
	ctrl := testActor(g, tuning.Defaults())

	e.Step(g, ctrl, testWindow, 1.0/60)
	w := e.Weather()
	if w == Clear {
		t.Fatalf("forced onset did not leave clear state")
	}
	switch w {
	case Rain:
		if e.Intensity() < 0.3 || e.Intensity() > 1.0 {
			t.Fatalf("rain intensity %v outside [0.3,1.0]", e.Intensity())
		}
		if e.TimeLeft() < 30 || e.TimeLeft() > 150 {
			t.Fatalf("rain duration %v outside [30,150]", e.TimeLeft())
		}
	case Storm:
		if e.Intensity() < 0.6 || e.Intensity() > 1.0 {
			t.Fatalf("storm intensity %v outside [0.6,1.0]", e.Intensity())
		}
		if e.TimeLeft() < 20 || e.TimeLeft() > 80 {
			t.Fatalf("storm duration %v outside [20,80]", e.TimeLeft())
		}
	}

	// timeLeft is strictly decreasing while active, and the state resets
	// to clear with zero intensity and no particles when it runs out.
	prev := e.TimeLeft()
	for i := 0; i < 200000 && e.Weather() != Clear; i++ {
		e.Step(g, ctrl, testWindow, 1.0/60)
		if e.Weather() != Clear {
			if e.TimeLeft() >= prev {
				t.Fatalf("timeLeft not strictly decreasing: %v -> %v", prev, e.TimeLeft())
			}
			prev = e.TimeLeft()
		}
	}
	if e.Weather() != Clear || e.Intensity() != 0 || len(e.Particles()) != 0 {
		t.Fatalf("weather did not reset cleanly: %v %v %d", e.Weather(), e.Intensity(), len(e.Particles()))
	}
}

func TestWeather_InjectedStreamReproducible(t *testing.T) {
	run := func() (Weather, float64, float64) {
		e, g := testEnv(t, 99, func(tn *tuning.Tuning) {
			tn.Environment.WeatherChancePerSecond = 1000
		})
		ctrl := testActor(g, tuning.Defaults())
		for i := 0; i < 10; i++ {
			e.Step(g, ctrl, testWindow, 1.0/60)
		}
		return e.Weather(), e.Intensity(), e.TimeLeft()
	}
	w1, i1, t1 := run()
	w2, i2, t2 := run()
	if w1 != w2 || i1 != i2 || t1 != t2 {
		t.Fatalf("same injected stream diverged: %v/%v %v/%v %v/%v", w1, w2, i1, i2, t1, t2)
	}
}

func TestLightAt_FalloffBoundaries(t *testing.T) {
	src := []Source{{X: 10, Y: 10, Radius: 8}}
	if got := LightAt(src, 10, 10); got != 1 {
		t.Fatalf("light at distance 0 = %v, want exactly 1", got)
	}
	if got := LightAt(src, 18, 10); got != 0 {
		t.Fatalf("light at distance == radius = %v, want exactly 0", got)
	}
	mid := LightAt(src, 14, 10)
	if math.Abs(mid-0.5) > 1e-9 {
		t.Fatalf("light at half radius = %v, want 0.5", mid)
	}
}

func TestSources_TorchesOnlyAtNight(t *testing.T) {
	e, g := testEnv(t, 3, nil)
	g.Set(5, 29, tile.Torch)
	pos := physics.Vec2{X: 20, Y: 29}

	day := e.Sources(g, testWindow, pos)
	if len(day) != 1 {
		t.Fatalf("daytime sources = %d, want actor only", len(day))
	}
	e.RestoreClock(tuning.Defaults().Environment.DayLengthSeconds * 0.9)
	night := e.Sources(g, testWindow, pos)
	if len(night) != 2 {
		t.Fatalf("night sources = %d, want actor+torch", len(night))
	}
	// Torch source sits at the tile center with the tile's radius.
	torch := night[1]
	if torch.X != 5.5 || torch.Y != 29.5 || torch.Radius != tile.TorchLightRadius {
		t.Fatalf("torch source = %+v", torch)
	}
}

func TestDarkness_LinearNightRamp(t *testing.T) {
	e, _ := testEnv(t, 3, nil)
	cfg := tuning.Defaults().Environment
	if e.Darkness() != 0 {
		t.Fatalf("daytime darkness = %v, want 0", e.Darkness())
	}
	// Mid-night is the darkest point of the ramp.
	e.RestoreClock(cfg.DayLengthSeconds * (cfg.DayPortion + (1-cfg.DayPortion)/2))
	if math.Abs(e.Darkness()-cfg.DarknessMax) > 1e-9 {
		t.Fatalf("mid-night darkness = %v, want %v", e.Darkness(), cfg.DarknessMax)
	}
	e.RestoreClock(cfg.DayLengthSeconds * (cfg.DayPortion + (1-cfg.DayPortion)/4))
	d := e.Darkness()
	if d <= 0 || d >= cfg.DarknessMax {
		t.Fatalf("quarter-night darkness %v outside (0,%v)", d, cfg.DarknessMax)
	}
}

func TestExposedToSky(t *testing.T) {
	_, g := testEnv(t, 3, nil)
	tune := tuning.Defaults()
	ctrl := testActor(g, tune)
	if !ExposedToSky(g, ctrl.Actor()) {
		t.Fatalf("open column reported covered")
	}
	g.Set(20, 5, tile.Wood)
	if ExposedToSky(g, ctrl.Actor()) {
		t.Fatalf("covered column reported exposed")
	}
}

func TestLightning_DamagesExposedActorInNightStorm(t *testing.T) {
	e, g := testEnv(t, 11, func(tn *tuning.Tuning) {
		tn.Survival.LightningChancePerSecond = 1e9 // fire every frame
	})
	tune := tuning.Defaults()
	ctrl := testActor(g, tune)

	// Push into a storm at night.
	e.RestoreClock(tune.Environment.DayLengthSeconds * 0.9)
	e.RestoreWeather(Storm, 1.0, 60)

	before := ctrl.Actor().Health
	for i := 0; i < 10; i++ {
		e.Step(g, ctrl, testWindow, 1.0/60)
	}
	if ctrl.Actor().Health >= before {
		t.Fatalf("exposed night storm dealt no lightning damage")
	}

	// Under cover there is no strike.
	e2, g2 := testEnv(t, 11, func(tn *tuning.Tuning) {
		tn.Survival.LightningChancePerSecond = 1e9
	})
	ctrl2 := testActor(g2, tune)
	g2.Set(20, 5, tile.Brick)
	e2.RestoreClock(tune.Environment.DayLengthSeconds * 0.9)
	e2.RestoreWeather(Storm, 1.0, 60)
	before2 := ctrl2.Actor().Health
	for i := 0; i < 10; i++ {
		e2.Step(g2, ctrl2, testWindow, 1.0/60)
	}
	if ctrl2.Actor().Health != before2 {
		t.Fatalf("covered actor took lightning damage")
	}
}

func TestParticles_SpawnAndStrikeCulling(t *testing.T) {
	e, g := testEnv(t, 5, func(tn *tuning.Tuning) {
		tn.Environment.ParticlesPerSecond = 10000
	})
	tune := tuning.Defaults()
	ctrl := testActor(g, tune)
	e.RestoreWeather(Rain, 1.0, 120)

	e.Step(g, ctrl, testWindow, 1.0/60)
	if len(e.Particles()) == 0 {
		t.Fatalf("active rain spawned no particles")
	}
	// Particles fall; none may survive inside the solid floor row.
	for i := 0; i < 600; i++ {
		e.Step(g, ctrl, testWindow, 1.0/60)
		for _, p := range e.Particles() {
			if p.Y >= 30 && g.Solid(int(p.X), int(p.Y)) {
				t.Fatalf("particle persists inside solid tile at (%v,%v)", p.X, p.Y)
			}
		}
	}
}

func TestRain_WeathersSandToDirt(t *testing.T) {
	e, g := testEnv(t, 13, func(tn *tuning.Tuning) {
		tn.Environment.ParticlesPerSecond = 10000
		tn.Environment.SandWeatherChance = 1.0
	})
	tune := tuning.Defaults()
	ctrl := testActor(g, tune)
	for x := 0; x < 40; x++ {
		g.Set(x, 30, tile.Sand)
	}
	e.RestoreWeather(Rain, 1.0, 3600)

	for i := 0; i < 3600; i++ {
		e.Step(g, ctrl, testWindow, 1.0/60)
	}
	dirt := 0
	for x := 0; x < 40; x++ {
		if g.Get(x, 30) == tile.Dirt {
			dirt++
		}
	}
	if dirt == 0 {
		t.Fatalf("heavy rain never weathered sand")
	}
}

func TestShade_Bounds(t *testing.T) {
	if Shade(0, 0) != 1 {
		t.Fatalf("no darkness must not shade")
	}
	if Shade(1, 1) != 1 {
		t.Fatalf("full light cancels darkness")
	}
	if got := Shade(0.8, 0); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("Shade(0.8, 0) = %v, want 0.2", got)
	}
}
