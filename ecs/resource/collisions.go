package resource

import (
	"slices"

	"github.com/milk9111/autogamer/ecs"
)

// Collisions is the directional touch state of one entity. Each list may
// contain an entity more than once if it touches through several pairs.
type Collisions struct {
	TouchingTop    []ecs.Entity
	TouchingBottom []ecs.Entity
	TouchingLeft   []ecs.Entity
	TouchingRight  []ecs.Entity
	Intersecting   []ecs.Entity
}

// TouchingGround reports whether anything is beneath the entity.
func (c Collisions) TouchingGround() bool {
	return len(c.TouchingBottom) > 0
}

func (c Collisions) IsEmpty() bool {
	return len(c.TouchingTop) == 0 && len(c.TouchingBottom) == 0 &&
		len(c.TouchingLeft) == 0 && len(c.TouchingRight) == 0 && len(c.Intersecting) == 0
}

var noCollisions Collisions

// CollisionsMap holds the touch state of every entity that has ever been
// part of a classified pair. Entries are never evicted.
type CollisionsMap struct {
	entries map[ecs.Entity]*Collisions
}

func NewCollisionsMap() *CollisionsMap {
	return &CollisionsMap{entries: make(map[ecs.Entity]*Collisions)}
}

// Get returns the entity's state, or the shared empty value. The returned
// slices must not be modified.
func (m *CollisionsMap) Get(e ecs.Entity) Collisions {
	if m == nil {
		return noCollisions
	}
	if c, ok := m.entries[e]; ok {
		return *c
	}
	return noCollisions
}

// GetOrDefault returns the mutable entry for e, creating it if needed.
func (m *CollisionsMap) GetOrDefault(e ecs.Entity) *Collisions {
	c, ok := m.entries[e]
	if !ok {
		c = &Collisions{}
		m.entries[e] = c
	}
	return c
}

// GetOrDefault2 returns the mutable entries of both entities of a pair.
func (m *CollisionsMap) GetOrDefault2(a, b ecs.Entity) (*Collisions, *Collisions) {
	return m.GetOrDefault(a), m.GetOrDefault(b)
}

func (m *CollisionsMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// RemoveFirst drops the first occurrence of e from list without keeping
// order.
func RemoveFirst(list []ecs.Entity, e ecs.Entity) []ecs.Entity {
	i := slices.Index(list, e)
	if i < 0 {
		return list
	}
	last := len(list) - 1
	list[i] = list[last]
	return list[:last]
}
