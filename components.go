package fpsproto

import (
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent is the world transform. Children derive it from Parent and
// LocalTransformComponent every frame.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

type LocalTransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

type Parent struct {
	Entity EntityId
}

func NewTransform(position mgl32.Vec3) TransformComponent {
	return TransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func NewLocalTransform(position mgl32.Vec3) LocalTransformComponent {
	return LocalTransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix is the model matrix T * R * S.
func (t TransformComponent) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// RenderLayers is a bit mask; a camera draws the entities sharing at least one layer with it.
type RenderLayers uint32

const (
	DefaultRenderLayer   = 0
	ViewModelRenderLayer = 1
	CursorRenderLayer    = 2
)

func Layers(layers ...int) RenderLayers {
	var res RenderLayers
	for _, l := range layers {
		res |= 1 << l
	}
	return res
}

func (l RenderLayers) Intersects(other RenderLayers) bool {
	return l&other != 0
}

type CameraComponent struct {
	Fov        float32 // vertical, degrees
	Near, Far  float32
	Order      int
	Layers     RenderLayers
	ClearColor [4]float32
}

func (c CameraComponent) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

// View is the inverse of the camera's world transform, ignoring scale.
func (c CameraComponent) View(t TransformComponent) mgl32.Mat4 {
	rot := t.Rotation.Normalize()
	forward := rot.Rotate(mgl32.Vec3{0, 0, -1})
	up := rot.Rotate(mgl32.Vec3{0, 1, 0})
	return mgl32.LookAtV(t.Position, t.Position.Add(forward), up)
}

type MeshComponent struct {
	Mesh   AssetId
	Layers RenderLayers // zero means DefaultRenderLayer
}

func (m MeshComponent) EffectiveLayers() RenderLayers {
	if m.Layers == 0 {
		return Layers(DefaultRenderLayer)
	}
	return m.Layers
}

type MaterialComponent struct {
	Color [4]float32
}

// NotShadowCaster excludes a mesh from shadow casting.
type NotShadowCaster struct{}

func hasComponent[T any](cmd *Commands, eid EntityId) bool {
	_, ok := cmd.app.ecs.component(eid, reflect.TypeFor[T]())
	return ok
}

// GetComponent returns a copy of the entity's component of type T.
func GetComponent[T any](cmd *Commands, eid EntityId) (T, bool) {
	c, ok := cmd.app.ecs.component(eid, reflect.TypeFor[T]())
	if !ok {
		var zero T
		return zero, false
	}
	return c.(T), true
}
