package fpsproto

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/fpsproto/controller"
)

const testFrame = 16 * time.Millisecond

// newPlayerApp builds a headless app with the default scene and a fixed frame time.
func newPlayerApp(t *testing.T, modules ...Module) (*App, *Input) {
	t.Helper()
	app := NewApp()
	app.addResources(&Time{Dt: testFrame})
	app.UseModules(InputModule{}, AssetServerModule{}, HierarchyModule{}, SceneModule{})
	if len(modules) == 0 {
		modules = []Module{PlayerModule{}}
	}
	app.UseModules(modules...)
	input, ok := Resource[Input](app)
	require.True(t, ok)
	return app, input
}

func currentPlayer(t *testing.T, app *App) PlayerRef {
	t.Helper()
	p, err := SinglePlayer(app.Commands())
	require.NoError(t, err)
	return p
}

func assertVecInDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestPlayer_MovesBeforeLookWithinAFrame(t *testing.T) {
	app, input := newPlayerApp(t)

	input.Press(KeyW)
	input.MouseDeltaX = float64(mgl32.DegToRad(90) / controller.DefaultSensitivity.X())
	app.Step()

	p := currentPlayer(t, app)
	// moved along the spawn heading (-Z) even though the same frame turned the player right
	assertVecInDelta(t, mgl32.Vec3{0, 1, -16}, p.Transform.Position, 1e-3)
	assert.InDelta(t, -mgl32.DegToRad(90), controller.EulerFromQuat(p.Transform.Rotation).Yaw, 1e-4)

	input.EndFrame()
	app.Step()

	p = currentPlayer(t, app)
	assertVecInDelta(t, mgl32.Vec3{16, 1, -16}, p.Transform.Position, 1e-2)
	assert.InDelta(t, 1, p.Player.Facing.X(), 1e-4)
}

func TestPlayer_IdleFrameKeepsTransform(t *testing.T) {
	app, _ := newPlayerApp(t)
	before := *currentPlayer(t, app).Transform

	for i := 0; i < 10; i++ {
		app.Step()
	}
	assert.Equal(t, before, *currentPlayer(t, app).Transform)
}

func TestPlayer_CustomBindings(t *testing.T) {
	kb := DefaultKeyBindings()
	kb.Keys[controller.MoveUp] = KeyE
	app, input := newPlayerApp(t, PlayerModule{Bindings: kb})

	input.Press(KeySpace)
	app.Step()
	assertVecInDelta(t, mgl32.Vec3{0, 1, 0}, currentPlayer(t, app).Transform.Position, 1e-6)

	input.Press(KeyE)
	app.Step()
	assertVecInDelta(t, mgl32.Vec3{0, 17, 0}, currentPlayer(t, app).Transform.Position, 1e-3)
}

func TestPlayer_CamerasAndArmFollow(t *testing.T) {
	app, input := newPlayerApp(t)
	input.Press(KeyD)
	input.MouseDeltaY = -100
	app.Step()

	p := currentPlayer(t, app)
	cmd := app.Commands()

	cameras := 0
	MakeQuery2[CameraComponent, TransformComponent](cmd).Map(func(_ EntityId, _ *CameraComponent, tr *TransformComponent) bool {
		cameras++
		assertVecInDelta(t, p.Transform.Position, tr.Position, 1e-5)
		assert.InDelta(t, 1, tr.Rotation.Dot(p.Transform.Rotation), 1e-5)
		return true
	})
	assert.Equal(t, 2, cameras)

	arms := 0
	MakeQuery3[MeshComponent, Parent, TransformComponent](cmd).Map(func(_ EntityId, mesh *MeshComponent, parent *Parent, tr *TransformComponent) bool {
		arms++
		assert.Equal(t, p.Entity, parent.Entity)
		assert.Equal(t, Layers(ViewModelRenderLayer), mesh.Layers)
		want := p.Transform.Position.Add(p.Transform.Rotation.Rotate(mgl32.Vec3{0.2, -0.1, -0.25}))
		assertVecInDelta(t, want, tr.Position, 1e-5)
		return true
	})
	assert.Equal(t, 1, arms)
}

func TestPlayer_ReleasingCaptureDropsMotion(t *testing.T) {
	app, input := newPlayerApp(t)
	input.MouseCaptured = true
	before := currentPlayer(t, app).Transform.Rotation

	input.Press(KeyTab)
	input.MouseDeltaX = 300
	app.Step()

	assert.False(t, input.MouseCaptured)
	assert.Equal(t, before, currentPlayer(t, app).Transform.Rotation)
}

func TestPlayer_UsesEntitySensitivity(t *testing.T) {
	app := NewApp()
	app.addResources(&Time{Dt: testFrame})
	scene := DefaultScene()
	scene.Player.Sensitivity = mgl32.Vec2{0.01, 0.01}
	app.UseModules(InputModule{}, AssetServerModule{}, SceneModule{Scene: scene}, PlayerModule{})
	input, _ := Resource[Input](app)

	input.MouseDeltaX = 10
	app.Step()

	assert.InDelta(t, -0.1, controller.EulerFromQuat(currentPlayer(t, app).Transform.Rotation).Yaw, 1e-5)
}

func TestSinglePlayer_Errors(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	_, err := SinglePlayer(cmd)
	assert.ErrorIs(t, err, ErrNoPlayer)

	cmd.AddEntity(NewTransform(mgl32.Vec3{}), PlayerComponent{})
	app.FlushCommands()
	p, err := SinglePlayer(cmd)
	require.NoError(t, err)
	assert.Equal(t, controller.DefaultSensitivity, p.Sensitivity, "missing sensitivity falls back to the default")

	cmd.AddEntity(NewTransform(mgl32.Vec3{}), PlayerComponent{}, CameraSensitivity{})
	app.FlushCommands()
	_, err = SinglePlayer(cmd)
	assert.ErrorIs(t, err, ErrMultiplePlayers)
}

func TestPlayerSystems_PanicWithoutPlayer(t *testing.T) {
	app := NewApp()
	app.addResources(&Time{Dt: testFrame})
	app.UseModules(InputModule{}, PlayerModule{})

	assert.PanicsWithError(t, ErrNoPlayer.Error(), app.Step)
}

func TestInputSnapshot(t *testing.T) {
	input := &Input{}
	snap := InputSnapshot{Input: input, Bindings: DefaultKeyBindings()}

	input.Press(KeyControl)
	input.MouseDeltaX, input.MouseDeltaY = 3, -4

	assert.True(t, snap.Held(controller.MoveDown))
	assert.False(t, snap.Held(controller.MoveUp))
	assert.False(t, snap.Held(controller.Action(99)))
	assert.Equal(t, mgl32.Vec2{3, -4}, snap.MouseMotion())
}
