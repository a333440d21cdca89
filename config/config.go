package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/milk9111/autogamer/input"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidWindow     = errors.New("config: window size must be positive")
	ErrInvalidTPS        = errors.New("config: simulation tps must be positive")
	ErrInvalidPlayer     = errors.New("config: invalid player tuning")
	ErrInvalidViewport   = errors.New("config: viewport size must be positive")
	ErrUnknownKey        = errors.New("config: unknown key")
	ErrMissingBinding    = errors.New("config: control has no keys")
	ErrInvalidDebugRange = errors.New("config: pan step must not be negative")
)

type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Simulation SimulationConfig `yaml:"simulation"`
	Player     PlayerConfig     `yaml:"player"`
	Viewport   ViewportConfig   `yaml:"viewport"`
	Controls   ControlsConfig   `yaml:"controls"`
	Debug      DebugConfig      `yaml:"debug"`
	Level      string           `yaml:"level"`
	Script     string           `yaml:"script"`
}

type WindowConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Title  string  `yaml:"title"`
	Scale  float64 `yaml:"scale"`
}

type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type SimulationConfig struct {
	TPS     int `yaml:"tps"`
	Gravity Vec `yaml:"gravity"`
}

type PlayerConfig struct {
	LeftVelocity  float64 `yaml:"left_velocity"`
	RightVelocity float64 `yaml:"right_velocity"`
	JumpVelocity  float64 `yaml:"jump_velocity"`
	AirControl    float64 `yaml:"air_control"`
	Health        uint32  `yaml:"health"`
	Size          Vec     `yaml:"size"`
}

type ViewportConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	TweenFrames  int     `yaml:"tween_frames"`
	SnapDistance float64 `yaml:"snap_distance"`
}

// ControlsConfig names keys as input.ParseKey understands them.
type ControlsConfig struct {
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
	Jump  []string `yaml:"jump"`
}

type DebugConfig struct {
	PanStep float64 `yaml:"pan_step"`
	Overlay bool    `yaml:"overlay"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  960,
			Height: 540,
			Title:  "autogamer",
			Scale:  1,
		},
		Simulation: SimulationConfig{
			TPS:     60,
			Gravity: Vec{Y: -900},
		},
		Player: PlayerConfig{
			LeftVelocity:  -200,
			RightVelocity: 200,
			JumpVelocity:  450,
			AirControl:    0.5,
			Health:        3,
			Size:          Vec{X: 24, Y: 32},
		},
		Viewport: ViewportConfig{
			Width:        480,
			Height:       270,
			TweenFrames:  20,
			SnapDistance: 160,
		},
		Controls: ControlsConfig{
			Left:  []string{"left", "a"},
			Right: []string{"right", "d"},
			Jump:  []string{"space"},
		},
		Debug: DebugConfig{PanStep: 35},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidWindow, c.Window.Width, c.Window.Height)
	}
	if c.Window.Scale <= 0 {
		return fmt.Errorf("%w: scale %v", ErrInvalidWindow, c.Window.Scale)
	}
	if c.Simulation.TPS <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTPS, c.Simulation.TPS)
	}
	if c.Player.AirControl < 0 || c.Player.AirControl > 1 {
		return fmt.Errorf("%w: air_control %v outside [0, 1]", ErrInvalidPlayer, c.Player.AirControl)
	}
	if c.Player.Size.X <= 0 || c.Player.Size.Y <= 0 {
		return fmt.Errorf("%w: size %vx%v", ErrInvalidPlayer, c.Player.Size.X, c.Player.Size.Y)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("%w: %vx%v", ErrInvalidViewport, c.Viewport.Width, c.Viewport.Height)
	}
	if c.Debug.PanStep < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDebugRange, c.Debug.PanStep)
	}
	_, _, _, err := c.Controls.Keys()
	return err
}

// Keys resolves the configured key names.
func (c ControlsConfig) Keys() (left, right, jump []input.Key, err error) {
	if left, err = parseKeys("left", c.Left); err != nil {
		return nil, nil, nil, err
	}
	if right, err = parseKeys("right", c.Right); err != nil {
		return nil, nil, nil, err
	}
	if jump, err = parseKeys("jump", c.Jump); err != nil {
		return nil, nil, nil, err
	}
	return left, right, jump, nil
}

func parseKeys(control string, names []string) ([]input.Key, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingBinding, control)
	}
	keys := make([]input.Key, 0, len(names))
	for _, name := range names {
		k, ok := input.ParseKey(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q", ErrUnknownKey, control, name)
		}
		keys = append(keys, k)
	}
	return keys, nil
}
