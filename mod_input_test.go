package fpsproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyNameRoundTrip(t *testing.T) {
	for key, name := range keyNames {
		assert.Equal(t, name, KeyName(key))
		got, err := ParseKey(name)
		require.NoError(t, err)
		assert.Equal(t, key, got)
	}
}

func TestParseKey(t *testing.T) {
	key, err := ParseKey(" space ")
	require.NoError(t, err)
	assert.Equal(t, KeySpace, key)

	_, err = ParseKey("Hyper")
	assert.EqualError(t, err, `unknown key "Hyper"`)

	assert.Equal(t, "Key(250)", KeyName(250))
}

func TestInput_Edges(t *testing.T) {
	input := &Input{}

	input.Press(KeyW)
	assert.True(t, input.Pressed[KeyW])
	assert.True(t, input.JustPressed[KeyW])

	input.EndFrame()
	input.Press(KeyW)
	assert.False(t, input.JustPressed[KeyW], "holding is not a new press")

	input.Release(KeyW)
	assert.False(t, input.Pressed[KeyW])
	assert.True(t, input.JustReleased[KeyW])

	input.EndFrame()
	input.Release(KeyW)
	assert.False(t, input.JustReleased[KeyW])
}

func TestInput_EndFrameClearsMotion(t *testing.T) {
	input := &Input{MouseDeltaX: 4, MouseDeltaY: 2}
	input.EndFrame()
	assert.Zero(t, input.MouseDeltaX)
	assert.Zero(t, input.MouseDeltaY)
}

func TestCursorCapture_TabToggles(t *testing.T) {
	input := &Input{}

	input.Press(KeyTab)
	cursorCaptureSystem(input)
	assert.True(t, input.MouseCaptured)

	// held Tab does not toggle again
	input.EndFrame()
	input.Press(KeyTab)
	cursorCaptureSystem(input)
	assert.True(t, input.MouseCaptured)

	input.Release(KeyTab)
	input.EndFrame()
	input.Press(KeyTab)
	input.MouseDeltaX = 12
	cursorCaptureSystem(input)
	assert.False(t, input.MouseCaptured)
	assert.Zero(t, input.MouseDeltaX)
}

func TestInputSystem_HeadlessLeavesInputAlone(t *testing.T) {
	app := NewApp().UseModules(InputModule{})
	input, _ := Resource[Input](app)
	input.Press(KeyA)
	input.MouseDeltaX = 3

	app.Step()

	assert.True(t, input.Pressed[KeyA])
	assert.Equal(t, 3.0, input.MouseDeltaX)
}
