// Package tuning holds the gameplay constants the simulation reads at
// runtime. Thresholds here are balance knobs, not invariants; they load
// from YAML with defaults applied for anything unset.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz     int     `yaml:"tick_rate_hz"`
	ReferenceHz    float64 `yaml:"reference_hz"`
	MaxStepSeconds float64 `yaml:"max_step_seconds"`

	Physics     Physics     `yaml:"physics"`
	Survival    Survival    `yaml:"survival"`
	Environment Environment `yaml:"environment"`
	View        View        `yaml:"view"`
}

// Physics constants are expressed per reference frame (1/ReferenceHz
// seconds), so gameplay feel is frame-rate-independent.
type Physics struct {
	MoveAccel   float64 `yaml:"move_accel"`
	AirAccel    float64 `yaml:"air_accel"`
	Friction    float64 `yaml:"friction"`
	MaxRunSpeed float64 `yaml:"max_run_speed"`
	Gravity     float64 `yaml:"gravity"`
	TerminalVel float64 `yaml:"terminal_velocity"`
	JumpSpeed   float64 `yaml:"jump_speed"`
	Reach       float64 `yaml:"reach"`
}

type Survival struct {
	MaxHealth         float64 `yaml:"max_health"`
	InvulnSeconds     float64 `yaml:"invuln_seconds"`
	RegenDelaySeconds float64 `yaml:"regen_delay_seconds"`
	RegenPerFrame     float64 `yaml:"regen_per_frame"`
	FallThresholdFrac float64 `yaml:"fall_threshold_frac"`
	FallDamageScale   float64 `yaml:"fall_damage_scale"`

	LightningDamageMin       float64 `yaml:"lightning_damage_min"`
	LightningDamageMax       float64 `yaml:"lightning_damage_max"`
	LightningChancePerSecond float64 `yaml:"lightning_chance_per_second"`
}

type Environment struct {
	DayLengthSeconds float64 `yaml:"day_length_seconds"`
	DayPortion       float64 `yaml:"day_portion"`

	WeatherChancePerSecond float64 `yaml:"weather_chance_per_second"`
	StormWeight            float64 `yaml:"storm_weight"`
	RainIntensityMin       float64 `yaml:"rain_intensity_min"`
	RainIntensityMax       float64 `yaml:"rain_intensity_max"`
	RainDurationMin        float64 `yaml:"rain_duration_min"`
	RainDurationMax        float64 `yaml:"rain_duration_max"`
	StormIntensityMin      float64 `yaml:"storm_intensity_min"`
	StormIntensityMax      float64 `yaml:"storm_intensity_max"`
	StormDurationMin       float64 `yaml:"storm_duration_min"`
	StormDurationMax       float64 `yaml:"storm_duration_max"`

	DarknessMax        float64 `yaml:"darkness_max"`
	PlayerLightRadius  float64 `yaml:"player_light_radius"`
	ParticlesPerSecond float64 `yaml:"particles_per_second"`
	SandWeatherChance  float64 `yaml:"sand_weather_chance"`
}

// View is the visible window, in tiles, that frames and light queries are
// bounded to.
type View struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func Defaults() Tuning {
	t := Tuning{}
	t.applyDefaults()
	return t
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning: %w", err)
	}
	t.applyDefaults()
	return t, nil
}

func (t *Tuning) applyDefaults() {
	if t.TickRateHz <= 0 {
		t.TickRateHz = 60
	}
	if t.ReferenceHz <= 0 {
		t.ReferenceHz = 60
	}
	if t.MaxStepSeconds <= 0 {
		t.MaxStepSeconds = 0.1
	}
	t.Physics.applyDefaults()
	t.Survival.applyDefaults()
	t.Environment.applyDefaults()
	if t.View.Width <= 0 {
		t.View.Width = 40
	}
	if t.View.Height <= 0 {
		t.View.Height = 22
	}
}

func (p *Physics) applyDefaults() {
	if p.MoveAccel <= 0 {
		p.MoveAccel = 0.025
	}
	if p.AirAccel <= 0 {
		p.AirAccel = 0.012
	}
	if p.Friction <= 0 || p.Friction >= 1 {
		p.Friction = 0.85
	}
	if p.MaxRunSpeed <= 0 {
		p.MaxRunSpeed = 0.15
	}
	if p.Gravity <= 0 {
		p.Gravity = 0.025
	}
	if p.TerminalVel <= 0 {
		p.TerminalVel = 0.6
	}
	if p.JumpSpeed <= 0 {
		p.JumpSpeed = 0.42
	}
	if p.Reach <= 0 {
		p.Reach = 5
	}
}

func (s *Survival) applyDefaults() {
	if s.MaxHealth <= 0 {
		s.MaxHealth = 100
	}
	if s.InvulnSeconds <= 0 {
		s.InvulnSeconds = 1
	}
	if s.RegenDelaySeconds <= 0 {
		s.RegenDelaySeconds = 5
	}
	if s.RegenPerFrame <= 0 {
		s.RegenPerFrame = 0.05
	}
	if s.FallThresholdFrac <= 0 {
		s.FallThresholdFrac = 0.7
	}
	if s.FallDamageScale <= 0 {
		s.FallDamageScale = 120
	}
	if s.LightningDamageMin <= 0 {
		s.LightningDamageMin = 10
	}
	if s.LightningDamageMax <= s.LightningDamageMin {
		s.LightningDamageMax = 25
	}
	if s.LightningChancePerSecond <= 0 {
		s.LightningChancePerSecond = 0.05
	}
}

func (e *Environment) applyDefaults() {
	if e.DayLengthSeconds <= 0 {
		e.DayLengthSeconds = 600
	}
	if e.DayPortion <= 0 || e.DayPortion >= 1 {
		e.DayPortion = 0.7
	}
	if e.WeatherChancePerSecond <= 0 {
		e.WeatherChancePerSecond = 0.01
	}
	if e.StormWeight <= 0 || e.StormWeight >= 1 {
		e.StormWeight = 0.3
	}
	if e.RainIntensityMin <= 0 {
		e.RainIntensityMin = 0.3
	}
	if e.RainIntensityMax <= 0 {
		e.RainIntensityMax = 1.0
	}
	if e.RainDurationMin <= 0 {
		e.RainDurationMin = 30
	}
	if e.RainDurationMax <= 0 {
		e.RainDurationMax = 150
	}
	if e.StormIntensityMin <= 0 {
		e.StormIntensityMin = 0.6
	}
	if e.StormIntensityMax <= 0 {
		e.StormIntensityMax = 1.0
	}
	if e.StormDurationMin <= 0 {
		e.StormDurationMin = 20
	}
	if e.StormDurationMax <= 0 {
		e.StormDurationMax = 80
	}
	if e.DarknessMax <= 0 {
		e.DarknessMax = 0.85
	}
	if e.PlayerLightRadius <= 0 {
		e.PlayerLightRadius = 6
	}
	if e.ParticlesPerSecond <= 0 {
		e.ParticlesPerSecond = 90
	}
	if e.SandWeatherChance <= 0 {
		e.SandWeatherChance = 0.02
	}
}
