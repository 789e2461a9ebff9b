package fpsproto

import (
	"reflect"
)

// Queries iterate every archetype holding the requested components. Components passed as
// optionals may be missing; their pointer is then nil.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }
type Query4[A, B, C, D any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }
func MakeQuery4[A, B, C, D any](cmd *Commands) Query4[A, B, C, D] {
	return Query4[A, B, C, D]{ecs: cmd.app.ecs}
}

// column resolves the typed slice of one component in arch. ok is false when the archetype
// does not match: the component is missing and was not requested as optional.
func column[T any](arch *archetype, id componentId, opt set[componentId]) (comps []T, present bool, ok bool) {
	if data, found := arch.componentData[id]; found {
		return data.([]T), true, true
	}
	if _, optional := opt[id]; optional {
		return nil, false, true
	}
	return nil, false, false
}

func at[T any](comps []T, present bool, r row) *T {
	if !present {
		return nil
	}
	return &comps[r]
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	id1 := componentIdOf[A](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, has1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		for entityId, row := range arch.entities {
			if !m(entityId, at(comps1, has1, row)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	id1, id2 := componentIdOf[A](q.ecs), componentIdOf[B](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, has1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, has2, ok := column[B](arch, id2, opt)
		if !ok {
			continue
		}
		for entityId, row := range arch.entities {
			if !m(entityId, at(comps1, has1, row), at(comps2, has2, row)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	id1, id2, id3 := componentIdOf[A](q.ecs), componentIdOf[B](q.ecs), componentIdOf[C](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, has1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, has2, ok := column[B](arch, id2, opt)
		if !ok {
			continue
		}
		comps3, has3, ok := column[C](arch, id3, opt)
		if !ok {
			continue
		}
		for entityId, row := range arch.entities {
			if !m(entityId, at(comps1, has1, row), at(comps2, has2, row), at(comps3, has3, row)) {
				return
			}
		}
	}
}

func (q Query4[A, B, C, D]) Map(m func(EntityId, *A, *B, *C, *D) bool, optionals ...any) {
	id1, id2 := componentIdOf[A](q.ecs), componentIdOf[B](q.ecs)
	id3, id4 := componentIdOf[C](q.ecs), componentIdOf[D](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, has1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, has2, ok := column[B](arch, id2, opt)
		if !ok {
			continue
		}
		comps3, has3, ok := column[C](arch, id3, opt)
		if !ok {
			continue
		}
		comps4, has4, ok := column[D](arch, id4, opt)
		if !ok {
			continue
		}
		for entityId, row := range arch.entities {
			if !m(entityId, at(comps1, has1, row), at(comps2, has2, row), at(comps3, has3, row), at(comps4, has4, row)) {
				return
			}
		}
	}
}

func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId], len(components))
	for _, component := range components {
		t := reflect.TypeOf(component)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		res[ecs.getComponentId(t)] = struct{}{}
	}
	return res
}

func componentIdOf[T any](ecs *Ecs) componentId {
	return ecs.getComponentId(reflect.TypeFor[T]())
}
