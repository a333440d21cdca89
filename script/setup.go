package script

import (
	"errors"
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/autogamer/config"
)

var ErrBadValue = errors.New("script: bad value")

// Setup is what a level setup script overrides. Nil fields were not set by
// the script.
type Setup struct {
	Gravity *config.Vec
	Player  PlayerSetup
}

type PlayerSetup struct {
	LeftVelocity  *float64
	RightVelocity *float64
	JumpVelocity  *float64
	AirControl    *float64
	Health        *uint32
}

// LoadSetup compiles and runs the tengo script at path and reads its
// `gravity` and `player` globals.
func LoadSetup(path string) (Setup, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Setup{}, fmt.Errorf("script: load %s: %w", path, err)
	}
	setup, err := Run(src)
	if err != nil {
		return Setup{}, fmt.Errorf("script: %s: %w", path, err)
	}
	return setup, nil
}

// Run executes a setup script held in memory.
func Run(src []byte) (Setup, error) {
	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap("math", "fmt"))

	compiled, err := s.Compile()
	if err != nil {
		return Setup{}, err
	}
	if err := compiled.Run(); err != nil {
		return Setup{}, err
	}

	var setup Setup
	if compiled.IsDefined("gravity") {
		g, err := readVec(compiled.Get("gravity").Value())
		if err != nil {
			return Setup{}, fmt.Errorf("gravity: %w", err)
		}
		setup.Gravity = &g
	}
	if compiled.IsDefined("player") {
		values, ok := compiled.Get("player").Value().(map[string]any)
		if !ok {
			return Setup{}, fmt.Errorf("%w: player must be a map", ErrBadValue)
		}
		if setup.Player, err = readPlayer(values); err != nil {
			return Setup{}, err
		}
	}
	return setup, nil
}

// Apply overlays the script values on cfg.
func (s Setup) Apply(cfg *config.Config) {
	if s.Gravity != nil {
		cfg.Simulation.Gravity = *s.Gravity
	}
	p := s.Player
	if p.LeftVelocity != nil {
		cfg.Player.LeftVelocity = *p.LeftVelocity
	}
	if p.RightVelocity != nil {
		cfg.Player.RightVelocity = *p.RightVelocity
	}
	if p.JumpVelocity != nil {
		cfg.Player.JumpVelocity = *p.JumpVelocity
	}
	if p.AirControl != nil {
		cfg.Player.AirControl = *p.AirControl
	}
	if p.Health != nil {
		cfg.Player.Health = *p.Health
	}
}

func readVec(v any) (config.Vec, error) {
	arr, ok := v.([]any)
	if !ok || len(arr) != 2 {
		return config.Vec{}, fmt.Errorf("%w: expected [x, y]", ErrBadValue)
	}
	x, okX := number(arr[0])
	y, okY := number(arr[1])
	if !okX || !okY {
		return config.Vec{}, fmt.Errorf("%w: expected numbers in [x, y]", ErrBadValue)
	}
	return config.Vec{X: x, Y: y}, nil
}

func readPlayer(values map[string]any) (PlayerSetup, error) {
	var p PlayerSetup
	fields := map[string]**float64{
		"left_velocity":  &p.LeftVelocity,
		"right_velocity": &p.RightVelocity,
		"jump_velocity":  &p.JumpVelocity,
		"air_control":    &p.AirControl,
	}
	for name, dst := range fields {
		v, ok := values[name]
		if !ok {
			continue
		}
		f, ok := number(v)
		if !ok {
			return PlayerSetup{}, fmt.Errorf("%w: player.%s must be a number", ErrBadValue, name)
		}
		*dst = &f
	}
	if v, ok := values["health"]; ok {
		n, ok := v.(int64)
		if !ok || n < 0 {
			return PlayerSetup{}, fmt.Errorf("%w: player.health must be a non-negative int", ErrBadValue)
		}
		h := uint32(n)
		p.Health = &h
	}
	return p, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
