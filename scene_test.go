package fpsproto

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/fpsproto/controller"
)

func TestLoadScene_DefaultScene(t *testing.T) {
	app := NewApp().UseModules(AssetServerModule{})
	cmd := app.Commands()
	assets, _ := Resource[AssetServer](app)

	playerId, ok := LoadScene(cmd, assets, DefaultScene())
	require.True(t, ok)
	app.FlushCommands()

	p, err := SinglePlayer(cmd)
	require.NoError(t, err)
	assert.Equal(t, playerId, p.Entity)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, p.Transform.Position)
	assert.Equal(t, controller.DefaultFacing, p.Player.Facing)
	assert.Equal(t, controller.DefaultSensitivity, p.Sensitivity)

	var roots, children, shadowless int
	MakeQuery3[MeshComponent, MaterialComponent, TransformComponent](cmd).Map(func(eid EntityId, mesh *MeshComponent, mat *MaterialComponent, tr *TransformComponent) bool {
		_, hasMesh := assets.Mesh(mesh.Mesh)
		assert.True(t, hasMesh)
		if hasComponent[Parent](cmd, eid) {
			children++
		} else {
			roots++
		}
		if hasComponent[NotShadowCaster](cmd, eid) {
			shadowless++
		}
		return true
	})
	assert.Equal(t, 2, roots, "cube and plane")
	assert.Equal(t, 1, children, "arm")
	assert.Equal(t, 1, shadowless)

	var lights []LightComponent
	MakeQuery1[LightComponent](cmd).Map(func(_ EntityId, l *LightComponent) bool {
		lights = append(lights, *l)
		return true
	})
	require.Len(t, lights, 1)
	assert.Equal(t, LightTypePoint, lights[0].Type)
	assert.True(t, lights[0].ShadowsEnabled)

	cameras := map[int]CameraComponent{}
	MakeQuery2[CameraComponent, Parent](cmd).Map(func(_ EntityId, cam *CameraComponent, parent *Parent) bool {
		assert.Equal(t, playerId, parent.Entity)
		cameras[cam.Order] = *cam
		return true
	})
	require.Len(t, cameras, 2)
	assert.Equal(t, float32(90), cameras[0].Fov)
	assert.True(t, cameras[0].Layers.Intersects(Layers(DefaultRenderLayer)))
	assert.False(t, cameras[0].Layers.Intersects(Layers(ViewModelRenderLayer)))
	assert.Equal(t, float32(70), cameras[1].Fov)
	assert.Equal(t, Layers(ViewModelRenderLayer), cameras[1].Layers)
}

func TestLoadScene_WithoutPlayer(t *testing.T) {
	app := NewApp().UseModules(AssetServerModule{})
	assets, _ := Resource[AssetServer](app)

	scene := DefaultScene()
	scene.Player = nil
	_, ok := LoadScene(app.Commands(), assets, scene)
	assert.False(t, ok)
}

func TestSceneModule_RequiresAssets(t *testing.T) {
	assert.Panics(t, func() { NewApp().UseModules(SceneModule{}) })
}

func TestMeshComponent_EffectiveLayers(t *testing.T) {
	assert.Equal(t, Layers(DefaultRenderLayer), MeshComponent{}.EffectiveLayers())
	assert.Equal(t, Layers(ViewModelRenderLayer), MeshComponent{Layers: Layers(ViewModelRenderLayer)}.EffectiveLayers())
}

func TestCameraComponent_LooksDownNegativeZ(t *testing.T) {
	cam := CameraComponent{Fov: 90, Near: 0.1, Far: 1000}
	tr := NewTransform(mgl32.Vec3{0, 1, 0})
	viewProj := cam.Projection(1).Mul4(cam.View(tr))

	ahead := viewProj.Mul4x1(mgl32.Vec4{0, 1, -5, 1})
	assert.InDelta(t, 0, ahead.X()/ahead.W(), 1e-5)
	assert.InDelta(t, 0, ahead.Y()/ahead.W(), 1e-5)
	assert.Greater(t, ahead.W(), float32(0))

	behind := viewProj.Mul4x1(mgl32.Vec4{0, 1, 5, 1})
	assert.Less(t, behind.W(), float32(0))
}

func TestSensitivityOrDefault_PerAxis(t *testing.T) {
	def := controller.DefaultSensitivity
	assert.Equal(t, def, sensitivityOrDefault(mgl32.Vec2{}))
	assert.Equal(t, mgl32.Vec2{def.X(), 0.05}, sensitivityOrDefault(mgl32.Vec2{0, 0.05}))
	assert.Equal(t, mgl32.Vec2{0.05, def.Y()}, sensitivityOrDefault(mgl32.Vec2{0.05, 0}))
	assert.Equal(t, mgl32.Vec2{0.01, 0.02}, sensitivityOrDefault(mgl32.Vec2{0.01, 0.02}))
}

func TestLoadScene_ZeroYawSensitivityKeepsYaw(t *testing.T) {
	app := NewApp()
	app.addResources(&Time{Dt: testFrame})
	scene := DefaultScene()
	scene.Player.Sensitivity = mgl32.Vec2{0, 0.01}
	app.UseModules(InputModule{}, AssetServerModule{}, SceneModule{Scene: scene}, PlayerModule{})
	input, _ := Resource[Input](app)

	input.MouseDeltaX = 100
	app.Step()

	p := currentPlayer(t, app)
	assert.Equal(t, mgl32.Vec2{controller.DefaultSensitivity.X(), 0.01}, p.Sensitivity)
	assert.InDelta(t, -0.3, controller.EulerFromQuat(p.Transform.Rotation).Yaw, 1e-5)
}
