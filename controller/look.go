package controller

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Euler is a YXZ decomposition: yaw about world up, then pitch about local right, then roll
// about local forward. Angles are radians.
type Euler struct {
	Yaw   float32
	Pitch float32
	Roll  float32
}

// EulerFromQuat decomposes q in YXZ order.
func EulerFromQuat(q mgl32.Quat) Euler {
	q = q.Normalize()
	w, x, y, z := float64(q.W), float64(q.V[0]), float64(q.V[1]), float64(q.V[2])

	m02 := 2 * (x*z + w*y)
	m22 := 1 - 2*(x*x+y*y)
	m12 := 2 * (y*z - w*x)
	m10 := 2 * (x*y + w*z)
	m11 := 1 - 2*(x*x+z*z)

	return Euler{
		Yaw:   float32(math.Atan2(m02, m22)),
		Pitch: float32(math.Atan2(-m12, math.Hypot(m02, m22))),
		Roll:  float32(math.Atan2(m10, m11)),
	}
}

// Quat recomposes the angles in YXZ order.
func (e Euler) Quat() mgl32.Quat {
	yaw := mgl32.QuatRotate(e.Yaw, mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(e.Pitch, mgl32.Vec3{1, 0, 0})
	roll := mgl32.QuatRotate(e.Roll, mgl32.Vec3{0, 0, 1})
	return yaw.Mul(pitch).Mul(roll)
}

// ClampPitch saturates pitch to [-PitchLimit, PitchLimit].
func ClampPitch(pitch float32) float32 {
	return mgl32.Clamp(pitch, -PitchLimit, PitchLimit)
}

// Look applies accumulated mouse motion to rot. Screen-space motion is inverted into rotation:
// moving right turns right (negative yaw), moving down looks down (negative pitch).
// The result is rebuilt from yaw and pitch alone; roll left over from the decomposition is
// dropped. Zero motion returns rot untouched.
func Look(rot mgl32.Quat, motion, sensitivity mgl32.Vec2) mgl32.Quat {
	if motion.X() == 0 && motion.Y() == 0 {
		return rot
	}
	deltaYaw := -motion.X() * sensitivity.X()
	deltaPitch := -motion.Y() * sensitivity.Y()

	e := EulerFromQuat(rot)
	e.Yaw += deltaYaw
	e.Pitch = ClampPitch(e.Pitch + deltaPitch)
	e.Roll = 0
	return e.Quat()
}
