package fpsproto

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/fpsproto/controller"
)

// SceneDef defines the initial state of a scene.
type SceneDef struct {
	Meshes []MeshDef
	Lights []LightDef
	Player *PlayerDef
}

type MeshShape int

const (
	ShapeCuboid MeshShape = iota
	ShapePlane
)

// MeshDef defines a procedural mesh instantiation. Size is the full extent; planes use X and Z.
type MeshDef struct {
	Shape           MeshShape
	Size            mgl32.Vec3
	Subdivisions    int
	Color           [4]float32
	Position        mgl32.Vec3
	Rotation        mgl32.Quat
	Layers          RenderLayers // zero means DefaultRenderLayer
	NotShadowCaster bool
}

type LightDef struct {
	Type           LightType
	Position       mgl32.Vec3
	Color          [3]float32
	Intensity      float32
	Range          float32
	ShadowsEnabled bool
}

// CameraDef is a camera attached to the player at Offset.
type CameraDef struct {
	Camera CameraComponent
	Offset mgl32.Vec3
}

// PlayerDef is the player rig: a root entity carrying the controller state, with cameras and
// view-model meshes parented to it.
type PlayerDef struct {
	Spawn       mgl32.Vec3
	Sensitivity mgl32.Vec2
	MoveSpeed   float32
	Cameras     []CameraDef
	ViewModel   []MeshDef
}

var (
	White = [4]float32{1, 1, 1, 1}
	Black = [4]float32{0, 0, 0, 1}
)

var defaultClearColor = [4]float32{0.17, 0.17, 0.17, 1}

// DefaultScene is the prototype world: a unit cube on a 10x10 plane lit by one point light, and
// a player rig with a world camera, a view-model camera and an arm.
func DefaultScene() *SceneDef {
	return &SceneDef{
		Meshes: []MeshDef{
			{
				Shape:    ShapeCuboid,
				Size:     mgl32.Vec3{1, 1, 1},
				Color:    Black,
				Position: mgl32.Vec3{0, 0.5, 0},
			},
			{
				Shape: ShapePlane,
				Size:  mgl32.Vec3{10, 0, 10},
				Color: White,
			},
		},
		Lights: []LightDef{
			{
				Type:           LightTypePoint,
				Position:       mgl32.Vec3{5, 8, 5},
				Color:          [3]float32{1, 1, 1},
				Intensity:      100000,
				Range:          20,
				ShadowsEnabled: true,
			},
		},
		Player: &PlayerDef{
			Spawn:       mgl32.Vec3{0, 1, 0},
			Sensitivity: controller.DefaultSensitivity,
			MoveSpeed:   controller.DefaultMoveSpeed,
			Cameras: []CameraDef{
				{Camera: CameraComponent{
					Fov:        90,
					Near:       0.1,
					Far:        1000,
					Order:      0,
					Layers:     Layers(DefaultRenderLayer),
					ClearColor: defaultClearColor,
				}},
				{Camera: CameraComponent{
					Fov:    70,
					Near:   0.1,
					Far:    1000,
					Order:  1,
					Layers: Layers(ViewModelRenderLayer),
				}},
			},
			ViewModel: []MeshDef{
				{
					Shape:           ShapeCuboid,
					Size:            mgl32.Vec3{0.1, 0.1, 0.5},
					Color:           [4]float32{0.9, 0.1, 0.4, 1},
					Position:        mgl32.Vec3{0.2, -0.1, -0.25},
					Layers:          Layers(ViewModelRenderLayer),
					NotShadowCaster: true,
				},
			},
		},
	}
}

type SceneModule struct {
	Scene *SceneDef
}

func (m SceneModule) Install(app *App, cmd *Commands) {
	assets, ok := Resource[AssetServer](app)
	if !ok {
		panic("SceneModule needs AssetServerModule installed first")
	}
	scene := m.Scene
	if scene == nil {
		scene = DefaultScene()
	}
	LoadScene(cmd, assets, scene)
}

// LoadScene iterates through the SceneDef and spawns entities. The player root, if any, is returned.
func LoadScene(cmd *Commands, assets *AssetServer, scene *SceneDef) (EntityId, bool) {
	for _, mesh := range scene.Meshes {
		spawnMesh(cmd, assets, mesh, nil)
	}

	for _, light := range scene.Lights {
		spawnLight(cmd, light)
	}

	if scene.Player == nil {
		return 0, false
	}
	return spawnPlayer(cmd, assets, *scene.Player), true
}

func meshAsset(assets *AssetServer, def MeshDef) AssetId {
	switch def.Shape {
	case ShapeCuboid:
		return assets.CreateCuboidMesh(def.Size.X(), def.Size.Y(), def.Size.Z())
	case ShapePlane:
		return assets.CreatePlaneMesh(def.Size.X(), def.Size.Z(), def.Subdivisions)
	default:
		panic(fmt.Sprintf("unknown mesh shape %d", def.Shape))
	}
}

func orIdentity(q mgl32.Quat) mgl32.Quat {
	if q == (mgl32.Quat{}) {
		return mgl32.QuatIdent()
	}
	return q
}

// spawnMesh spawns def at the world position, or relative to parent when one is given.
func spawnMesh(cmd *Commands, assets *AssetServer, def MeshDef, parent *EntityId) EntityId {
	components := []any{
		&MeshComponent{Mesh: meshAsset(assets, def), Layers: def.Layers},
		&MaterialComponent{Color: def.Color},
	}
	if def.NotShadowCaster {
		components = append(components, &NotShadowCaster{})
	}

	if parent == nil {
		tr := NewTransform(def.Position)
		tr.Rotation = orIdentity(def.Rotation)
		components = append(components, &tr)
	} else {
		local := NewLocalTransform(def.Position)
		local.Rotation = orIdentity(def.Rotation)
		components = append(components, &Parent{Entity: *parent}, &local, &TransformComponent{})
	}
	return cmd.AddEntity(components...)
}

func spawnLight(cmd *Commands, def LightDef) EntityId {
	tr := NewTransform(def.Position)
	return cmd.AddEntity(
		&tr,
		&LightComponent{
			Type:           def.Type,
			Color:          def.Color,
			Intensity:      def.Intensity,
			Range:          def.Range,
			ShadowsEnabled: def.ShadowsEnabled,
		},
	)
}

// sensitivityOrDefault replaces unset (zero) axes with the default sensitivity of that axis.
func sensitivityOrDefault(v mgl32.Vec2) mgl32.Vec2 {
	for i := range v {
		if v[i] == 0 {
			v[i] = controller.DefaultSensitivity[i]
		}
	}
	return v
}

func spawnPlayer(cmd *Commands, assets *AssetServer, def PlayerDef) EntityId {
	tr := NewTransform(def.Spawn)
	sensitivity := sensitivityOrDefault(def.Sensitivity)
	player := cmd.AddEntity(
		&tr,
		&PlayerComponent{Facing: controller.DefaultFacing, MoveSpeed: def.MoveSpeed},
		&CameraSensitivity{Value: sensitivity},
	)

	for _, cam := range def.Cameras {
		camera := cam.Camera
		local := NewLocalTransform(cam.Offset)
		cmd.AddEntity(&camera, &Parent{Entity: player}, &local, &TransformComponent{})
	}
	for _, mesh := range def.ViewModel {
		spawnMesh(cmd, assets, mesh, &player)
	}
	return player
}
