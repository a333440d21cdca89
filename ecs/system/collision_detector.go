package system

import (
	"fmt"

	"github.com/milk9111/autogamer/common"
	"github.com/milk9111/autogamer/ecs"
	"github.com/milk9111/autogamer/ecs/component"
	"github.com/milk9111/autogamer/ecs/resource"
	"github.com/milk9111/autogamer/physics"
)

type touchAxis int

const (
	touchNone touchAxis = iota
	touchVertical
	touchHorizontal
)

// touch is one classified contact between an ordered pair.
type touch struct {
	axis          touchAxis
	first, second ecs.Entity
}

type entityPair struct {
	a, b ecs.Entity
}

func makeEntityPair(a, b ecs.Entity) entityPair {
	if b < a {
		a, b = b, a
	}
	return entityPair{a: a, b: b}
}

// CollisionDetector turns engine contact and proximity events into the
// resource.CollisionsMap touch lists. A Stopped contact undoes the
// classification its Started got, so a body sliding off an edge still
// clears the list it was added to, and a survivor is cleared even when its
// partner is already dead.
type CollisionDetector struct {
	engine          *physics.Engine
	contactReader   common.ReaderID
	proximityReader common.ReaderID
	ready           bool
	touches         map[entityPair][]touch
}

func NewCollisionDetector(engine *physics.Engine) *CollisionDetector {
	return &CollisionDetector{engine: engine, touches: make(map[entityPair][]touch)}
}

func (d *CollisionDetector) Setup(w *ecs.World) {
	if d.ready {
		return
	}
	d.ready = true
	d.contactReader = d.engine.ContactEvents().RegisterReader()
	d.proximityReader = d.engine.ProximityEvents().RegisterReader()
	if _, ok := ecs.Resource[resource.CollisionsMap](w); !ok {
		ecs.SetResource(w, resource.NewCollisionsMap())
	}
}

func (d *CollisionDetector) Update(w *ecs.World) {
	if w == nil || d.engine == nil {
		return
	}
	d.Setup(w)
	collisions := ecs.MustResource[resource.CollisionsMap](w)

	for _, ev := range d.engine.ContactEvents().Read(d.contactReader) {
		d.handleContact(w, collisions, ev)
	}
	for _, ev := range d.engine.ProximityEvents().Read(d.proximityReader) {
		d.handleProximity(w, collisions, ev)
	}
}

func (d *CollisionDetector) handleContact(w *ecs.World, collisions *resource.CollisionsMap, ev physics.ContactEvent) {
	a, b := ecs.Entity(ev.Collider1), ecs.Entity(ev.Collider2)
	key := makeEntityPair(a, b)
	started := ev.Type == physics.ContactStarted
	if !started {
		if t, ok := d.forget(key); ok {
			ca, cb := survivors(w, collisions, t.first, t.second)
			applyTouch(t.axis, ca, cb, t.first, t.second, false)
			return
		}
	}

	boxA, okA := worldBox(w, a)
	boxB, okB := worldBox(w, b)
	if !okA || !okB {
		return
	}
	axis, first, second := classify(a, b, boxA, boxB)
	if axis == touchNone {
		return
	}
	if started {
		d.touches[key] = append(d.touches[key], touch{axis: axis, first: first, second: second})
	}
	ca, cb := collisions.GetOrDefault2(first, second)
	applyTouch(axis, ca, cb, first, second, started)
}

// applyTouch records or clears a touch. first is below or left of second.
func applyTouch(axis touchAxis, ca, cb *resource.Collisions, first, second ecs.Entity, started bool) {
	switch axis {
	case touchVertical:
		ca.TouchingTop = updateTouch(ca.TouchingTop, second, started)
		cb.TouchingBottom = updateTouch(cb.TouchingBottom, first, started)
	case touchHorizontal:
		ca.TouchingRight = updateTouch(ca.TouchingRight, second, started)
		cb.TouchingLeft = updateTouch(cb.TouchingLeft, first, started)
	}
}

// survivors returns the entries of the live entities of a pair. A dead
// entity gets a scratch entry so it is never added to the map.
func survivors(w *ecs.World, collisions *resource.CollisionsMap, a, b ecs.Entity) (*resource.Collisions, *resource.Collisions) {
	ca, cb := &resource.Collisions{}, &resource.Collisions{}
	if ecs.IsAlive(w, a) {
		ca = collisions.GetOrDefault(a)
	}
	if ecs.IsAlive(w, b) {
		cb = collisions.GetOrDefault(b)
	}
	return ca, cb
}

// forget pops the most recent classification recorded for a pair.
func (d *CollisionDetector) forget(key entityPair) (touch, bool) {
	list := d.touches[key]
	if len(list) == 0 {
		return touch{}, false
	}
	t := list[len(list)-1]
	if len(list) == 1 {
		delete(d.touches, key)
	} else {
		d.touches[key] = list[:len(list)-1]
	}
	return t, true
}

// handleProximity treats WithinMargin like Intersecting: a pair overlaps
// from the moment it leaves Disjoint until it returns there.
func (d *CollisionDetector) handleProximity(w *ecs.World, collisions *resource.CollisionsMap, ev physics.ProximityEvent) {
	if ev.Prev == ev.Current {
		panic(fmt.Sprintf("collision detector: proximity event without transition (%v)", ev.Current))
	}
	a, b := ecs.Entity(ev.Collider1), ecs.Entity(ev.Collider2)
	wasOn, isOn := ev.Prev != physics.Disjoint, ev.Current != physics.Disjoint
	switch {
	case !wasOn && isOn:
		if _, ok := worldBox(w, a); !ok {
			return
		}
		if _, ok := worldBox(w, b); !ok {
			return
		}
		ca, cb := collisions.GetOrDefault2(a, b)
		ca.Intersecting = append(ca.Intersecting, b)
		cb.Intersecting = append(cb.Intersecting, a)
	case wasOn && !isOn:
		ca, cb := survivors(w, collisions, a, b)
		ca.Intersecting = resource.RemoveFirst(ca.Intersecting, b)
		cb.Intersecting = resource.RemoveFirst(cb.Intersecting, a)
	}
}

func updateTouch(list []ecs.Entity, e ecs.Entity, started bool) []ecs.Entity {
	if started {
		return append(list, e)
	}
	return resource.RemoveFirst(list, e)
}

// classify orders the pair so the first entity is below (vertical) or left
// of (horizontal) the second. A wide overlap means the boxes meet along a
// horizontal edge.
func classify(a, b ecs.Entity, boxA, boxB physics.BB) (touchAxis, ecs.Entity, ecs.Entity) {
	ca, cb := physics.Center(boxA), physics.Center(boxB)
	overlap, ok := physics.Intersection(boxA, boxB)
	var vertical bool
	if ok {
		vertical = overlap.R-overlap.L >= overlap.T-overlap.B
	} else {
		// Touching at distance: pick the axis with the larger separation.
		vertical = gap(boxA.B, boxA.T, boxB.B, boxB.T) >= gap(boxA.L, boxA.R, boxB.L, boxB.R)
	}

	order := func(axis touchAxis, lo, hi float64) (touchAxis, ecs.Entity, ecs.Entity) {
		if lo < hi {
			return axis, a, b
		}
		return axis, b, a
	}
	if vertical {
		if ca.Y != cb.Y {
			return order(touchVertical, ca.Y, cb.Y)
		}
		if ca.X != cb.X {
			return order(touchHorizontal, ca.X, cb.X)
		}
		return touchNone, a, b
	}
	if ca.X != cb.X {
		return order(touchHorizontal, ca.X, cb.X)
	}
	if ca.Y != cb.Y {
		return order(touchVertical, ca.Y, cb.Y)
	}
	return touchNone, a, b
}

// gap is the distance between two intervals, zero when they overlap.
func gap(lo1, hi1, lo2, hi2 float64) float64 {
	switch {
	case hi1 < lo2:
		return lo2 - hi1
	case hi2 < lo1:
		return lo1 - hi2
	}
	return 0
}

// worldBox is the collider box of a live entity in world space.
func worldBox(w *ecs.World, e ecs.Entity) (physics.BB, bool) {
	if !ecs.IsAlive(w, e) {
		return physics.BB{}, false
	}
	pos, ok := ecs.Get(w, e, component.PositionComponent.Kind())
	if !ok {
		return physics.BB{}, false
	}
	col, ok := ecs.Get(w, e, component.PhysicsColliderComponent.Kind())
	if !ok {
		return physics.BB{}, false
	}
	return col.WorldBounds(*pos), true
}
