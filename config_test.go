package fpsproto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/fpsproto/controller"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, controller.DefaultSensitivity, cfg.Sensitivity())
	assert.Equal(t, float32(controller.DefaultMoveSpeed), cfg.Controls.MoveSpeed)

	kb, err := cfg.KeyBindings()
	require.NoError(t, err)
	assert.Equal(t, DefaultKeyBindings(), kb)
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 800
  height: 600
  title: test
controls:
  yaw_sensitivity: 0.01
  move_speed: 5
  bindings:
    up: E
logging:
  debug: true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "test", cfg.Window.Title)
	assert.True(t, cfg.Window.CaptureMouse, "unset fields keep their defaults")
	assert.Equal(t, mgl32.Vec2{0.01, controller.DefaultSensitivity.Y()}, cfg.Sensitivity())
	assert.Equal(t, float32(5), cfg.Controls.MoveSpeed)
	assert.True(t, cfg.Logging.Debug)
	assert.Equal(t, "fpsproto", cfg.Logging.Prefix)

	kb, err := cfg.KeyBindings()
	require.NoError(t, err)
	assert.Equal(t, KeyE, kb.Keys[controller.MoveUp])
	assert.Equal(t, KeyW, kb.Keys[controller.MoveForward], "bindings missing from the file keep their defaults")
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "controls:\n  bindings:\n    forward: NotAKey\n"},
		{"unknown action", "controls:\n  bindings:\n    jump: Space\n"},
		{"negative speed", "controls:\n  move_speed: -1\n"},
		{"bad window", "window:\n  width: 0\n"},
		{"negative sensitivity", "controls:\n  pitch_sensitivity: -0.1\n"},
		{"zero yaw sensitivity", "controls:\n  yaw_sensitivity: 0\n"},
		{"zero sensitivity", "controls:\n  yaw_sensitivity: 0\n  pitch_sensitivity: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig_Malformed(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "window: [1, 2"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestKeyBindings_RequiresEveryAction(t *testing.T) {
	cfg := DefaultConfig()
	delete(cfg.Controls.Bindings, controller.MoveDown.String())

	_, err := cfg.KeyBindings()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "down")
}
