package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults_Complete(t *testing.T) {
	d := Defaults()
	if d.TickRateHz != 60 || d.ReferenceHz != 60 {
		t.Fatalf("tick/reference rates: %d/%v", d.TickRateHz, d.ReferenceHz)
	}
	if d.Physics.Friction <= 0 || d.Physics.Friction >= 1 {
		t.Fatalf("friction default %v outside (0,1)", d.Physics.Friction)
	}
	if d.Environment.DayPortion != 0.7 {
		t.Fatalf("day portion default %v", d.Environment.DayPortion)
	}
	if d.View.Width <= 0 || d.View.Height <= 0 {
		t.Fatalf("view defaults %dx%d", d.View.Width, d.View.Height)
	}
}

func TestLoad_PartialYAMLGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	raw := "tick_rate_hz: 30\nphysics:\n  gravity: 0.05\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tn, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tn.TickRateHz != 30 || tn.Physics.Gravity != 0.05 {
		t.Fatalf("explicit values not honored: %d %v", tn.TickRateHz, tn.Physics.Gravity)
	}
	if tn.Physics.JumpSpeed != 0.42 || tn.Survival.MaxHealth != 100 {
		t.Fatalf("omitted values not defaulted: %v %v", tn.Physics.JumpSpeed, tn.Survival.MaxHealth)
	}
}

func TestLoad_ShippedConfig(t *testing.T) {
	tn, err := Load(filepath.Join("..", "..", "..", "configs", "world.yaml"))
	if err != nil {
		t.Fatalf("Load shipped config: %v", err)
	}
	if tn != Defaults() {
		t.Fatalf("shipped config drifted from defaults:\n%+v\n%+v", tn, Defaults())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("tick_rate_hz: [oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
