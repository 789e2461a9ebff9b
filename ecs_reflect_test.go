package fpsproto

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestEcsReflect_SliceMake(t *testing.T) {
	s := reflectSliceMake(reflect.TypeOf(TransformComponent{}))
	_, ok := s.([]TransformComponent)
	assert.True(t, ok, "got %T", s)
	assert.Len(t, s, 0)
}

func TestEcsReflect_SliceGetSet(t *testing.T) {
	s := []PlayerComponent{{MoveSpeed: 1}, {MoveSpeed: 2}}

	assert.Equal(t, float32(2), reflectSliceGet(s, 1).Interface().(PlayerComponent).MoveSpeed)

	reflectSliceSet(s, 0, reflect.ValueOf(PlayerComponent{MoveSpeed: 9}))
	assert.Equal(t, float32(9), s[0].MoveSpeed)
}

func TestEcsReflect_SliceGetOutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { reflectSliceGet([]int{1, 2}, 10) })
}

func TestEcsReflect_SliceSetTypeMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { reflectSliceSet([]int{1, 2}, 0, reflect.ValueOf("wrong type")) })
}

func TestEcsReflect_SliceAppend(t *testing.T) {
	var s any = []mgl32.Vec3{}
	for i := 0; i < 5; i++ {
		s = reflectSliceAppend(s, reflect.ValueOf(mgl32.Vec3{float32(i)}))
	}
	vs := s.([]mgl32.Vec3)
	assert.Len(t, vs, 5)
	for i, v := range vs {
		assert.Equal(t, float32(i), v.X())
	}

	assert.Panics(t, func() { reflectSliceAppend([]int{}, reflect.ValueOf("string")) })
}
