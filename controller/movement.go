package controller

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultFacing is the ground-facing vector of the identity orientation.
var DefaultFacing = mgl32.Vec2{0, -1}

// Below this horizontal length the forward vector is treated as pointing straight up or down.
const facingEpsilon = 1e-4

// Intent is the movement input in the player's local frame, each axis in [-1, 1].
type Intent struct {
	Forward  float32
	Strafe   float32
	Vertical float32
}

func (i Intent) IsZero() bool {
	return i.Forward == 0 && i.Strafe == 0 && i.Vertical == 0
}

// ReadIntent collapses held actions into a local intent. Opposite actions cancel.
func ReadIntent(snap Snapshot) Intent {
	var in Intent
	if snap.Held(MoveForward) {
		in.Forward += 1
	}
	if snap.Held(MoveBack) {
		in.Forward -= 1
	}
	if snap.Held(StrafeRight) {
		in.Strafe += 1
	}
	if snap.Held(StrafeLeft) {
		in.Strafe -= 1
	}
	if snap.Held(MoveUp) {
		in.Vertical += 1
	}
	if snap.Held(MoveDown) {
		in.Vertical -= 1
	}
	return in
}

// Forward is the world-space view direction of rot.
func Forward(rot mgl32.Quat) mgl32.Vec3 {
	return rot.Rotate(mgl32.Vec3{0, 0, -1})
}

// GroundFacing projects the view direction of rot onto the ground plane and normalizes it.
// When the player looks (almost) straight up or down the projection has no usable length;
// fallback is returned instead and ok is false.
func GroundFacing(rot mgl32.Quat, fallback mgl32.Vec2) (facing mgl32.Vec2, ok bool) {
	f := Forward(rot)
	flat := mgl32.Vec2{f.X(), f.Z()}
	if flat.Len() < facingEpsilon {
		return fallback, false
	}
	return flat.Normalize(), true
}

// Displacement rotates a local intent into world space around facing and scales it by
// speed*dt. Vertical intent maps straight onto world Y.
func Displacement(in Intent, facing mgl32.Vec2, speed, dt float32) mgl32.Vec3 {
	if dt <= 0 || in.IsZero() {
		return mgl32.Vec3{}
	}
	world := mgl32.Vec3{
		facing.X()*in.Forward - in.Strafe*facing.Y(),
		in.Vertical,
		facing.Y()*in.Forward + in.Strafe*facing.X(),
	}
	return world.Mul(speed * dt)
}

// Move computes the position delta for one frame and the facing to remember for the next one.
// rot is only read.
func Move(rot mgl32.Quat, lastFacing mgl32.Vec2, in Intent, speed, dt float32) (mgl32.Vec3, mgl32.Vec2) {
	if lastFacing.Len() < facingEpsilon {
		lastFacing = DefaultFacing
	}
	facing, _ := GroundFacing(rot, lastFacing)
	return Displacement(in, facing, speed, dt), facing
}
