package physics

import "fmt"

// BodyHandle is an index/generation key into a BodySet. The zero value
// never resolves.
type BodyHandle struct {
	index uint32
	gen   uint32
}

func (h BodyHandle) IsZero() bool { return h.gen == 0 }

func (h BodyHandle) String() string { return fmt.Sprintf("body(%d:%d)", h.index, h.gen) }

// ColliderHandle is an index/generation key into a ColliderSet.
type ColliderHandle struct {
	index uint32
	gen   uint32
}

func (h ColliderHandle) IsZero() bool { return h.gen == 0 }

func (h ColliderHandle) String() string { return fmt.Sprintf("collider(%d:%d)", h.index, h.gen) }

func (h ColliderHandle) less(o ColliderHandle) bool {
	if h.index != o.index {
		return h.index < o.index
	}
	return h.gen < o.gen
}

// Binding is the component-side view of a handle. It can only be set or
// cleared by a HandleMap, which keeps the entity-index to handle map in
// step with it.
type Binding[H comparable] struct {
	handle H
	bound  bool
}

// Handle returns the bound handle, if any.
func (b *Binding[H]) Handle() (H, bool) {
	return b.handle, b.bound
}

func (b *Binding[H]) Bound() bool {
	return b.bound
}

type (
	BodyBinding     = Binding[BodyHandle]
	ColliderBinding = Binding[ColliderHandle]
)

// HandleMap maps entity indices to engine handles. Together with the
// Binding stored on each component it forms the only record of which
// engine objects belong to which entity; any disagreement between the two
// panics.
type HandleMap[H comparable] struct {
	name    string
	handles map[uint32]H
}

func NewHandleMap[H comparable](name string) *HandleMap[H] {
	return &HandleMap[H]{name: name, handles: make(map[uint32]H)}
}

// Bind records h for index on both sides.
func (m *HandleMap[H]) Bind(index uint32, b *Binding[H], h H) {
	if b.bound {
		panic(fmt.Sprintf("%s: bind index %d: component already holds %v", m.name, index, b.handle))
	}
	if old, ok := m.handles[index]; ok {
		panic(fmt.Sprintf("%s: bind index %d: map already holds %v", m.name, index, old))
	}
	m.handles[index] = h
	b.handle = h
	b.bound = true
}

// Release clears both sides for index and returns the handle that was
// bound. b may be nil when the component is already gone.
func (m *HandleMap[H]) Release(index uint32, b *Binding[H]) (H, bool) {
	h, ok := m.handles[index]
	if b != nil && b.bound {
		if !ok || h != b.handle {
			panic(fmt.Sprintf("%s: release index %d: component holds %v, map holds %v", m.name, index, b.handle, h))
		}
		var zero H
		b.handle = zero
		b.bound = false
	}
	if ok {
		delete(m.handles, index)
	}
	return h, ok
}

// Verify panics unless b and the map agree on index.
func (m *HandleMap[H]) Verify(index uint32, b *Binding[H]) {
	h, ok := m.handles[index]
	switch {
	case b.bound && !ok:
		panic(fmt.Sprintf("%s: index %d: component holds %v but map has no entry", m.name, index, b.handle))
	case b.bound && h != b.handle:
		panic(fmt.Sprintf("%s: index %d: component holds %v, map holds %v", m.name, index, b.handle, h))
	case !b.bound && ok:
		panic(fmt.Sprintf("%s: index %d: component unbound but map holds %v", m.name, index, h))
	}
}

func (m *HandleMap[H]) Lookup(index uint32) (H, bool) {
	h, ok := m.handles[index]
	return h, ok
}

func (m *HandleMap[H]) Len() int {
	return len(m.handles)
}

// Indices returns the mapped entity indices in ascending order.
func (m *HandleMap[H]) Indices() []uint32 {
	out := make([]uint32, 0, len(m.handles))
	for index := range m.handles {
		out = append(out, index)
	}
	sortIndices(out)
	return out
}

type slot[T any] struct {
	value *T
	gen   uint32
}

// arena hands out index/generation pairs for stored values.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func (a *arena[T]) insert(v *T) (uint32, uint32) {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot[T]{})
		index = uint32(len(a.slots) - 1)
	}
	s := &a.slots[index]
	s.gen++
	s.value = v
	a.count++
	return index, s.gen
}

func (a *arena[T]) get(index, gen uint32) (*T, bool) {
	if int(index) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[index]
	if s.value == nil || s.gen != gen {
		return nil, false
	}
	return s.value, true
}

func (a *arena[T]) remove(index, gen uint32) (*T, bool) {
	v, ok := a.get(index, gen)
	if !ok {
		return nil, false
	}
	a.slots[index].value = nil
	a.free = append(a.free, index)
	a.count--
	return v, true
}

func (a *arena[T]) each(fn func(index, gen uint32, v *T)) {
	for i, s := range a.slots {
		if s.value != nil {
			fn(uint32(i), s.gen, s.value)
		}
	}
}
