package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/autogamer/config"
)

func TestRunSetup(t *testing.T) {
	setup, err := Run([]byte(`
math := import("math")
gravity := [0, -math.pi * 100]
player := {jump_velocity: 520, air_control: 0.25, health: 5}
`))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	cfg := config.Default()
	setup.Apply(&cfg)
	if cfg.Simulation.Gravity.X != 0 || cfg.Simulation.Gravity.Y > -314 || cfg.Simulation.Gravity.Y < -315 {
		t.Fatalf("gravity not applied: %+v", cfg.Simulation.Gravity)
	}
	if cfg.Player.JumpVelocity != 520 || cfg.Player.AirControl != 0.25 || cfg.Player.Health != 5 {
		t.Fatalf("player overrides not applied: %+v", cfg.Player)
	}
	if cfg.Player.LeftVelocity != config.Default().Player.LeftVelocity {
		t.Fatalf("missing keys must keep config values")
	}
}

func TestRunSetupEmpty(t *testing.T) {
	setup, err := Run([]byte(`x := 1`))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if setup.Gravity != nil || setup.Player.JumpVelocity != nil {
		t.Fatalf("expected no overrides, got %+v", setup)
	}
}

func TestRunSetupErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		bad  bool
	}{
		{"syntax", `gravity := [`, false},
		{"gravity_shape", `gravity := [1]`, true},
		{"gravity_type", `gravity := ["a", 1]`, true},
		{"player_type", `player := 3`, true},
		{"velocity_type", `player := {jump_velocity: "high"}`, true},
		{"negative_health", `player := {health: -1}`, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Run([]byte(c.src))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if c.bad && !errors.Is(err, ErrBadValue) {
				t.Fatalf("expected ErrBadValue, got %v", err)
			}
		})
	}
}

func TestLoadSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.tengo")
	if err := os.WriteFile(path, []byte(`gravity := [10, -20]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	setup, err := LoadSetup(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if setup.Gravity == nil || *setup.Gravity != (config.Vec{X: 10, Y: -20}) {
		t.Fatalf("unexpected gravity %+v", setup.Gravity)
	}
	if _, err := LoadSetup(filepath.Join(t.TempDir(), "missing.tengo")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}
