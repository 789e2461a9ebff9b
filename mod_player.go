package fpsproto

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/fpsproto/controller"
)

var (
	ErrNoPlayer        = errors.New("no player entity")
	ErrMultiplePlayers = errors.New("more than one player entity")
)

// PlayerComponent marks the controlled entity. Facing is the last valid ground-facing
// direction, kept for frames where the player looks straight up or down.
type PlayerComponent struct {
	Facing    mgl32.Vec2
	MoveSpeed float32
}

// CameraSensitivity scales raw mouse motion into yaw (X) and pitch (Y).
type CameraSensitivity struct {
	Value mgl32.Vec2
}

// KeyBindings maps every movement action to a key code.
type KeyBindings struct {
	Keys [controller.NumActions]int
}

func DefaultKeyBindings() *KeyBindings {
	kb := &KeyBindings{}
	kb.Keys[controller.MoveForward] = KeyW
	kb.Keys[controller.MoveBack] = KeyS
	kb.Keys[controller.StrafeLeft] = KeyA
	kb.Keys[controller.StrafeRight] = KeyD
	kb.Keys[controller.MoveUp] = KeySpace
	kb.Keys[controller.MoveDown] = KeyControl
	return kb
}

// InputSnapshot adapts the Input resource to controller.Snapshot through a set of bindings.
type InputSnapshot struct {
	Input    *Input
	Bindings *KeyBindings
}

func (s InputSnapshot) Held(a controller.Action) bool {
	if a < 0 || int(a) >= controller.NumActions {
		return false
	}
	return s.Input.Pressed[s.Bindings.Keys[a]]
}

func (s InputSnapshot) MouseMotion() mgl32.Vec2 {
	return mgl32.Vec2{float32(s.Input.MouseDeltaX), float32(s.Input.MouseDeltaY)}
}

// PlayerModule drives the player from input. Movement runs before look in the Update stage,
// so a frame moves along the orientation the previous frame left behind.
type PlayerModule struct {
	Bindings *KeyBindings
}

func (m PlayerModule) Install(app *App, cmd *Commands) {
	bindings := m.Bindings
	if bindings == nil {
		bindings = DefaultKeyBindings()
	}
	cmd.AddResources(bindings)

	app.UseSystem(
		System(playerMoveSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(playerLookSystem).
			InStage(Update),
	)
}

type PlayerRef struct {
	Entity      EntityId
	Transform   *TransformComponent
	Player      *PlayerComponent
	Sensitivity mgl32.Vec2
}

// SinglePlayer resolves the one entity carrying PlayerComponent. The returned pointers are only
// valid until the next command flush.
func SinglePlayer(cmd *Commands) (PlayerRef, error) {
	var ref PlayerRef
	count := 0
	MakeQuery3[TransformComponent, PlayerComponent, CameraSensitivity](cmd).Map(
		func(eid EntityId, tr *TransformComponent, player *PlayerComponent, sens *CameraSensitivity) bool {
			count++
			if count > 1 {
				return false
			}
			ref = PlayerRef{Entity: eid, Transform: tr, Player: player, Sensitivity: controller.DefaultSensitivity}
			if sens != nil {
				ref.Sensitivity = sensitivityOrDefault(sens.Value)
			}
			return true
		}, CameraSensitivity{})

	switch count {
	case 0:
		return PlayerRef{}, ErrNoPlayer
	case 1:
		return ref, nil
	default:
		return PlayerRef{}, ErrMultiplePlayers
	}
}

func mustSinglePlayer(cmd *Commands) PlayerRef {
	ref, err := SinglePlayer(cmd)
	if err != nil {
		cmd.Logger().Errorf("player systems need exactly one player: %v", err)
		panic(err)
	}
	return ref
}

func playerMoveSystem(cmd *Commands, input *Input, bindings *KeyBindings, t *Time) {
	p := mustSinglePlayer(cmd)

	speed := p.Player.MoveSpeed
	if speed <= 0 {
		speed = controller.DefaultMoveSpeed
	}
	intent := controller.ReadIntent(InputSnapshot{Input: input, Bindings: bindings})
	delta, facing := controller.Move(p.Transform.Rotation, p.Player.Facing, intent, speed, t.Seconds())

	p.Transform.Position = p.Transform.Position.Add(delta)
	p.Player.Facing = facing
}

func playerLookSystem(cmd *Commands, input *Input, bindings *KeyBindings) {
	p := mustSinglePlayer(cmd)

	snap := InputSnapshot{Input: input, Bindings: bindings}
	p.Transform.Rotation = controller.Look(p.Transform.Rotation, snap.MouseMotion(), p.Sensitivity)
}
