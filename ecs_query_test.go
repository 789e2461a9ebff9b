package fpsproto

import (
	"reflect"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestQuery_Map(t *testing.T) {
	ecs := MakeEcs()
	ecs.addEntity(NewTransform(mgl32.Vec3{1, 0, 0}))
	id2 := ecs.addEntity(NewTransform(mgl32.Vec3{2, 0, 0}), PlayerComponent{MoveSpeed: 2})
	// extra components still match
	id3 := ecs.addEntity(NewTransform(mgl32.Vec3{3, 0, 0}), PlayerComponent{MoveSpeed: 3}, NotShadowCaster{})
	ecs.addEntity(NewTransform(mgl32.Vec3{4, 0, 0}), NotShadowCaster{})
	ecs.addEntity(PlayerComponent{MoveSpeed: 5})

	got := map[EntityId]float32{}
	Query2[TransformComponent, PlayerComponent]{ecs: &ecs}.Map(func(eid EntityId, tr *TransformComponent, p *PlayerComponent) bool {
		assert.Equal(t, tr.Position.X(), p.MoveSpeed)
		got[eid] = p.MoveSpeed
		return true
	})

	assert.Equal(t, map[EntityId]float32{id2: 2, id3: 3}, got)
}

func TestQuery_MapWritesThrough(t *testing.T) {
	ecs := MakeEcs()
	eid := ecs.addEntity(PlayerComponent{MoveSpeed: 1})

	Query1[PlayerComponent]{ecs: &ecs}.Map(func(_ EntityId, p *PlayerComponent) bool {
		p.MoveSpeed = 7
		return true
	})

	got, _ := ecs.component(eid, reflect.TypeFor[PlayerComponent]())
	assert.Equal(t, float32(7), got.(PlayerComponent).MoveSpeed)
}

func TestQuery_Optionals(t *testing.T) {
	ecs := MakeEcs()
	with := ecs.addEntity(PlayerComponent{}, CameraSensitivity{Value: mgl32.Vec2{1, 1}})
	without := ecs.addEntity(PlayerComponent{})

	var seen []EntityId
	Query2[PlayerComponent, CameraSensitivity]{ecs: &ecs}.Map(func(eid EntityId, _ *PlayerComponent, s *CameraSensitivity) bool {
		seen = append(seen, eid)
		if eid == without {
			assert.Nil(t, s)
		} else {
			assert.NotNil(t, s)
		}
		return true
	}, CameraSensitivity{})

	slices.Sort(seen)
	assert.Equal(t, []EntityId{with, without}, seen)
}

func TestQuery_StopsWhenMapperReturnsFalse(t *testing.T) {
	ecs := MakeEcs()
	for i := 0; i < 5; i++ {
		ecs.addEntity(PlayerComponent{})
	}

	calls := 0
	Query1[PlayerComponent]{ecs: &ecs}.Map(func(EntityId, *PlayerComponent) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}
