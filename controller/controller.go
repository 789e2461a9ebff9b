// Package controller holds the first-person movement and look math.
//
// Everything here operates on plain mgl32 values handed in by the caller. The host owns the
// player transform, the input snapshot and the frame clock; this package only turns them into
// a new position and orientation.
package controller

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PitchLimit bounds the pitch component of the player's orientation, just short of vertical.
const PitchLimit = float32(math.Pi/2 - 0.01)

// DefaultMoveSpeed is the displacement per second for a fully held direction.
const DefaultMoveSpeed float32 = 1000

// DefaultSensitivity is the yaw/pitch scale applied to raw mouse motion.
var DefaultSensitivity = mgl32.Vec2{0.003, 0.002}

// Action is a logical movement input, bound to a physical key by the host.
type Action int

const (
	MoveForward Action = iota
	MoveBack
	StrafeLeft
	StrafeRight
	MoveUp
	MoveDown
)

var actionNames = [...]string{
	MoveForward: "forward",
	MoveBack:    "back",
	StrafeLeft:  "left",
	StrafeRight: "right",
	MoveUp:      "up",
	MoveDown:    "down",
}

// NumActions is the number of defined actions.
const NumActions = len(actionNames)

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Actions lists every action in declaration order.
func Actions() []Action {
	return []Action{MoveForward, MoveBack, StrafeLeft, StrafeRight, MoveUp, MoveDown}
}

// Snapshot is the read-only per-frame view of the input layer.
type Snapshot interface {
	Held(a Action) bool
	// MouseMotion is the pointer motion accumulated since the previous frame.
	MouseMotion() mgl32.Vec2
}

// Settings are the per-player tuning values.
type Settings struct {
	Sensitivity mgl32.Vec2
	MoveSpeed   float32
}

func DefaultSettings() Settings {
	return Settings{
		Sensitivity: DefaultSensitivity,
		MoveSpeed:   DefaultMoveSpeed,
	}
}

// State is the slice of the player transform the controller reads and writes.
type State struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	// Facing is the last valid ground-facing unit vector as (x, z).
	Facing mgl32.Vec2
}

// NewState returns a state at pos looking down -Z.
func NewState(pos mgl32.Vec3) State {
	return State{
		Position: pos,
		Rotation: mgl32.QuatIdent(),
		Facing:   DefaultFacing,
	}
}

// Step advances one frame: movement first, using the incoming orientation, then look.
func Step(s State, snap Snapshot, dt float32, settings Settings) State {
	delta, facing := Move(s.Rotation, s.Facing, ReadIntent(snap), settings.MoveSpeed, dt)
	s.Position = s.Position.Add(delta)
	s.Facing = facing
	s.Rotation = Look(s.Rotation, snap.MouseMotion(), settings.Sensitivity)
	return s
}
