package ecs

import (
	"github.com/milk9111/autogamer/common"
	"github.com/milk9111/autogamer/ecs/component"
)

// Add attaches value to e. Replacing an existing component is reported as
// a removal followed by an insertion.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	s := ensureStore(w, kind)
	if s.set.Has(e.Index()) {
		s.changes.Write(ComponentEvent{Kind: ComponentRemoved, Index: e.Index()})
	}
	s.set.Set(e.Index(), value)
	s.changes.Write(ComponentEvent{Kind: ComponentInserted, Index: e.Index()})
	return nil
}

// Get returns the component without flagging it as modified.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	s := lookupStore(w, kind)
	if s == nil {
		return nil, false
	}
	return s.set.Get(e.Index())
}

// GetMut returns the component and flags it as modified.
func GetMut[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	v, ok := Get(w, e, kind)
	if ok {
		lookupStore(w, kind).changes.Write(ComponentEvent{Kind: ComponentModified, Index: e.Index()})
	}
	return v, ok
}

// MarkModified flags a component changed through a plain Get pointer.
func MarkModified[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := GetMut(w, e, kind)
	return ok
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := Get(w, e, kind)
	return ok
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	s := lookupStore(w, kind)
	if s == nil {
		return false
	}
	return s.remove(e.Index())
}

// Changes returns the change channel of a storage, creating the storage
// if needed. Readers should be registered during setup.
func Changes[T any](w *World, kind component.ComponentKind[T]) *common.EventChannel[ComponentEvent] {
	return ensureStore(w, kind).changes
}

// Count is the number of entities holding the component.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	s := lookupStore(w, kind)
	if s == nil {
		return 0
	}
	return s.set.Len()
}

// First returns the lowest-index entity holding the component.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	ents := Query(w, kind)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// Query returns the entities holding the component in index order.
func Query[T any](w *World, kind component.ComponentKind[T]) []Entity {
	s := lookupStore(w, kind)
	if s == nil {
		return nil
	}
	return entitiesOf(w, sortedIndices(s.set.Indices()))
}

func ForEach[A any](w *World, a component.ComponentKind[A], fn func(Entity, *A)) {
	for _, e := range Query(w, a) {
		va, ok := Get(w, e, a)
		if !ok {
			continue
		}
		fn(e, va)
	}
}

func ForEach2[A, B any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range Query(w, a) {
		va, okA := Get(w, e, a)
		vb, okB := Get(w, e, b)
		if !okA || !okB {
			continue
		}
		fn(e, va, vb)
	}
}

func ForEach3[A, B, C any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range Query(w, a) {
		va, okA := Get(w, e, a)
		vb, okB := Get(w, e, b)
		vc, okC := Get(w, e, c)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, va, vb, vc)
	}
}

func ForEach4[A, B, C, D any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], d component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	for _, e := range Query(w, a) {
		va, okA := Get(w, e, a)
		vb, okB := Get(w, e, b)
		vc, okC := Get(w, e, c)
		vd, okD := Get(w, e, d)
		if !okA || !okB || !okC || !okD {
			continue
		}
		fn(e, va, vb, vc, vd)
	}
}
