package fpsproto

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/fpsproto/controller"
)

type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Controls ControlsConfig `yaml:"controls"`
	Logging  LoggingConfig  `yaml:"logging"`
	Assets   AssetsConfig   `yaml:"assets"`
}

type WindowConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Title        string `yaml:"title"`
	CaptureMouse bool   `yaml:"capture_mouse"`
}

type ControlsConfig struct {
	YawSensitivity   float32           `yaml:"yaw_sensitivity"`
	PitchSensitivity float32           `yaml:"pitch_sensitivity"`
	MoveSpeed        float32           `yaml:"move_speed"`
	Bindings         map[string]string `yaml:"bindings"`
}

type LoggingConfig struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

type AssetsConfig struct {
	Crosshair     string `yaml:"crosshair"`
	CrosshairSize int    `yaml:"crosshair_size"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:        1280,
			Height:       720,
			Title:        "fpsproto",
			CaptureMouse: true,
		},
		Controls: ControlsConfig{
			YawSensitivity:   controller.DefaultSensitivity.X(),
			PitchSensitivity: controller.DefaultSensitivity.Y(),
			MoveSpeed:        controller.DefaultMoveSpeed,
			Bindings: map[string]string{
				controller.MoveForward.String(): "W",
				controller.MoveBack.String():    "S",
				controller.StrafeLeft.String():  "A",
				controller.StrafeRight.String(): "D",
				controller.MoveUp.String():      "Space",
				controller.MoveDown.String():    "Control",
			},
		},
		Logging: LoggingConfig{
			Prefix: "fpsproto",
		},
		Assets: AssetsConfig{
			Crosshair:     "assets/crosshair007.png",
			CrosshairSize: 32,
		},
	}
}

// LoadConfig overlays the YAML file at path on DefaultConfig. Bindings missing from the file keep
// their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	defaults := maps.Clone(cfg.Controls.Bindings)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Controls.Bindings == nil {
		cfg.Controls.Bindings = make(map[string]string, len(defaults))
	}
	for action, key := range defaults {
		if _, ok := cfg.Controls.Bindings[action]; !ok {
			cfg.Controls.Bindings[action] = key
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Controls.MoveSpeed <= 0 {
		return fmt.Errorf("%w: move_speed must be positive, got %v", ErrInvalidConfig, c.Controls.MoveSpeed)
	}
	if c.Controls.YawSensitivity <= 0 || c.Controls.PitchSensitivity <= 0 {
		return fmt.Errorf("%w: sensitivity must be positive, got %v", ErrInvalidConfig, c.Sensitivity())
	}
	if c.Assets.CrosshairSize <= 0 {
		return fmt.Errorf("%w: crosshair_size must be positive, got %d", ErrInvalidConfig, c.Assets.CrosshairSize)
	}
	if _, err := c.KeyBindings(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Sensitivity() mgl32.Vec2 {
	return mgl32.Vec2{c.Controls.YawSensitivity, c.Controls.PitchSensitivity}
}

// KeyBindings resolves the configured key names. Every action must be bound.
func (c *Config) KeyBindings() (*KeyBindings, error) {
	names := make(map[string]controller.Action, len(controller.Actions()))
	for _, a := range controller.Actions() {
		names[a.String()] = a
	}

	kb := &KeyBindings{}
	bound := make(map[controller.Action]bool)
	for actionName, keyName := range c.Controls.Bindings {
		action, ok := names[actionName]
		if !ok {
			return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidConfig, actionName)
		}
		key, err := ParseKey(keyName)
		if err != nil {
			return nil, fmt.Errorf("%w: binding %s: %w", ErrInvalidConfig, actionName, err)
		}
		kb.Keys[action] = key
		bound[action] = true
	}
	for _, a := range controller.Actions() {
		if !bound[a] {
			return nil, fmt.Errorf("%w: action %s is not bound", ErrInvalidConfig, a)
		}
	}
	return kb, nil
}
