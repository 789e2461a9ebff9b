package controller

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

// sameRotation treats q and -q as the same orientation.
func sameRotation(t *testing.T, want, got mgl32.Quat, tolerance float64) {
	t.Helper()
	dot := math.Abs(float64(want.Dot(got)))
	assert.InDelta(t, 1.0, dot, tolerance, "want %v got %v", want, got)
}

func TestEuler_RoundTrip(t *testing.T) {
	angles := []Euler{
		{},
		{Yaw: 0.3},
		{Pitch: -0.7},
		{Yaw: -2.5, Pitch: 1.2},
		{Yaw: 3.0, Pitch: -PitchLimit},
		{Yaw: 1.0, Pitch: 0.5, Roll: 0.2},
	}
	for _, e := range angles {
		got := EulerFromQuat(e.Quat())
		assert.InDelta(t, e.Yaw, got.Yaw, 1e-4, "yaw of %+v", e)
		assert.InDelta(t, e.Pitch, got.Pitch, 1e-4, "pitch of %+v", e)
		assert.InDelta(t, e.Roll, got.Roll, 1e-4, "roll of %+v", e)
	}
}

func TestEuler_PositivePitchLooksUp(t *testing.T) {
	f := Forward(Euler{Pitch: 0.5}.Quat())
	assert.Greater(t, f.Y(), float32(0))
}

func TestLook_ZeroMotionIsIdentity(t *testing.T) {
	rot := Euler{Yaw: 1.234, Pitch: -0.567, Roll: 0.001}.Quat()
	got := rot
	for i := 0; i < 1000; i++ {
		got = Look(got, mgl32.Vec2{}, DefaultSensitivity)
	}
	// bit-for-bit
	assert.Equal(t, rot, got)
}

func TestLook_YawScenario(t *testing.T) {
	got := EulerFromQuat(Look(mgl32.QuatIdent(), mgl32.Vec2{100, 0}, mgl32.Vec2{0.003, 0.002}))
	assert.InDelta(t, -0.3, got.Yaw, 1e-5)
	assert.InDelta(t, 0, got.Pitch, 1e-6)
	assert.InDelta(t, 0, got.Roll, 1e-6)
}

func TestLook_MouseDownLooksDown(t *testing.T) {
	got := EulerFromQuat(Look(mgl32.QuatIdent(), mgl32.Vec2{0, 50}, DefaultSensitivity))
	assert.InDelta(t, -0.1, got.Pitch, 1e-5)
	assert.InDelta(t, 0, got.Yaw, 1e-6)
}

func TestLook_PitchNeverExceedsLimit(t *testing.T) {
	motions := []mgl32.Vec2{
		{0, 1}, {0, -1}, {0, 1e3}, {0, -1e3}, {0, 1e6}, {0, -1e6},
		{250, -4000}, {-90, 3333}, {1e4, 1e4}, {0.5, -0.25},
	}
	rot := mgl32.QuatIdent()
	for i := 0; i < 50; i++ {
		for _, m := range motions {
			rot = Look(rot, m, DefaultSensitivity)
			pitch := EulerFromQuat(rot).Pitch
			if pitch > PitchLimit+1e-5 || pitch < -PitchLimit-1e-5 {
				t.Fatalf("pitch %v escaped [-%v, %v] after motion %v", pitch, PitchLimit, PitchLimit, m)
			}
		}
	}
}

func TestLook_PitchSaturates(t *testing.T) {
	rot := mgl32.QuatIdent()
	// moving the mouse up (negative y) raises pitch
	for i := 0; i < 20; i++ {
		rot = Look(rot, mgl32.Vec2{0, -200}, DefaultSensitivity)
	}
	saturated := EulerFromQuat(rot).Pitch
	assert.InDelta(t, PitchLimit, saturated, 1e-4)

	for i := 0; i < 20; i++ {
		rot = Look(rot, mgl32.Vec2{0, -200}, DefaultSensitivity)
		assert.InDelta(t, saturated, EulerFromQuat(rot).Pitch, 1e-4)
	}

	for i := 0; i < 40; i++ {
		rot = Look(rot, mgl32.Vec2{0, 200}, DefaultSensitivity)
	}
	assert.InDelta(t, -PitchLimit, EulerFromQuat(rot).Pitch, 1e-4)
}

func TestLook_YawAccumulatesLikeSingleDelta(t *testing.T) {
	stepped := mgl32.QuatIdent()
	for i := 0; i < 40; i++ {
		stepped = Look(stepped, mgl32.Vec2{125, 0}, DefaultSensitivity)
	}
	once := Look(mgl32.QuatIdent(), mgl32.Vec2{40 * 125, 0}, DefaultSensitivity)

	// 15 rad total, well past a full turn
	sameRotation(t, once, stepped, 1e-4)

	wrapped := float64(EulerFromQuat(stepped).Yaw)
	want := math.Remainder(-15.0, 2*math.Pi)
	assert.InDelta(t, want, wrapped, 1e-3)
}

func TestLook_YawKeepsPitch(t *testing.T) {
	rot := Euler{Pitch: 0.6}.Quat()
	got := EulerFromQuat(Look(rot, mgl32.Vec2{-80, 0}, DefaultSensitivity))
	assert.InDelta(t, 0.24, got.Yaw, 1e-5)
	assert.InDelta(t, 0.6, got.Pitch, 1e-5)
}

func TestLook_KeepsRollNearZero(t *testing.T) {
	rot := mgl32.QuatIdent()
	for i := 0; i < 500; i++ {
		rot = Look(rot, mgl32.Vec2{float32(i%7) - 3, float32(i%5) - 2}, DefaultSensitivity)
	}
	assert.InDelta(t, 0, EulerFromQuat(rot).Roll, 1e-4)
	assert.InDelta(t, 1, rot.Len(), 1e-5)
}

func TestLook_DropsRollAtPitchLimit(t *testing.T) {
	rot := Euler{Pitch: PitchLimit}.Quat()
	for i := 0; i < 100000; i++ {
		rot = Look(rot, mgl32.Vec2{37, -5}, DefaultSensitivity)
		if i%20000 == 19999 {
			assert.InDelta(t, 0, EulerFromQuat(rot).Roll, 1e-6, "after %d frames", i+1)
		}
	}
	assert.InDelta(t, PitchLimit, EulerFromQuat(rot).Pitch, 1e-4)
}

func TestLook_DropsExistingRoll(t *testing.T) {
	rot := Euler{Yaw: 0.4, Pitch: 0.2, Roll: 0.3}.Quat()
	got := EulerFromQuat(Look(rot, mgl32.Vec2{10, 0}, DefaultSensitivity))
	assert.InDelta(t, 0, got.Roll, 1e-6)
	assert.InDelta(t, 0.37, got.Yaw, 1e-5)
	assert.InDelta(t, 0.2, got.Pitch, 1e-5)
}
