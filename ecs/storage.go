package ecs

import (
	"github.com/milk9111/autogamer/common"
	"github.com/milk9111/autogamer/ecs/component"
)

// entityStore tracks entity generations and free indices.
type entityStore struct {
	gen   []generation
	alive []bool
	free  []entityIndex
	count int
}

func (s *entityStore) create() Entity {
	var index entityIndex
	if n := len(s.free); n > 0 {
		index = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		s.alive = append(s.alive, false)
		index = entityIndex(len(s.gen))
	}
	s.alive[index-1] = true
	s.count++
	return makeEntity(index, s.gen[index-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	i := e.Index() - 1
	s.alive[i] = false
	s.gen[i]++
	s.free = append(s.free, e.Index())
	s.count--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	i := int(e.Index()) - 1
	if i < 0 || i >= len(s.gen) {
		return false
	}
	return s.alive[i] && s.gen[i] == e.Generation()
}

func (s *entityStore) at(index uint32) (Entity, bool) {
	i := int(index) - 1
	if i < 0 || i >= len(s.gen) || !s.alive[i] {
		return 0, false
	}
	return makeEntity(index, s.gen[i]), true
}

// storage is the type-erased view of a component store used by Maintain.
type storage interface {
	has(index uint32) bool
	remove(index uint32) bool
}

type componentStore[T any] struct {
	set     SparseSet[*T]
	changes *common.EventChannel[ComponentEvent]
}

func newComponentStore[T any]() *componentStore[T] {
	return &componentStore[T]{changes: common.NewEventChannel[ComponentEvent]()}
}

func (s *componentStore[T]) has(index uint32) bool {
	return s.set.Has(index)
}

func (s *componentStore[T]) remove(index uint32) bool {
	if !s.set.Remove(index) {
		return false
	}
	s.changes.Write(ComponentEvent{Kind: ComponentRemoved, Index: index})
	return true
}

func lookupStore[T any](w *World, kind component.ComponentKind[T]) *componentStore[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	s, ok := w.stores[kind.ID()]
	if !ok {
		return nil
	}
	return s.(*componentStore[T])
}

func ensureStore[T any](w *World, kind component.ComponentKind[T]) *componentStore[T] {
	if s := lookupStore(w, kind); s != nil {
		return s
	}
	s := newComponentStore[T]()
	w.stores[kind.ID()] = s
	return s
}
