package ecs

import (
	"reflect"
	"sort"

	"github.com/milk9111/autogamer/ecs/component"
)

// World owns entities, component storages and resources.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]storage
	resources map[reflect.Type]any
	pending   []Entity
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]storage),
		resources: make(map[reflect.Type]any),
	}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its index at once.
// Systems should use Delete so in-flight iteration is not disturbed.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	ids := make([]component.ComponentID, 0, len(w.stores))
	for id := range w.stores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		w.stores[id].remove(e.Index())
	}
	return w.entities.destroy(e)
}

// Delete schedules e for destruction at the next Maintain.
func Delete(w *World, e Entity) {
	if w == nil || !w.entities.isAlive(e) {
		return
	}
	w.pending = append(w.pending, e)
}

// Maintain applies deferred deletions and returns how many entities died.
func Maintain(w *World) int {
	if w == nil || len(w.pending) == 0 {
		return 0
	}
	pending := w.pending
	w.pending = nil
	n := 0
	for _, e := range pending {
		if DestroyEntity(w, e) {
			n++
		}
	}
	return n
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// EntityAt resolves the live entity currently occupying index.
func EntityAt(w *World, index uint32) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	return w.entities.at(index)
}

// Entities returns all live entities in index order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.count)
	for i := range w.entities.gen {
		if e, ok := w.entities.at(uint32(i + 1)); ok {
			out = append(out, e)
		}
	}
	return out
}
