package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

type ContactType uint8

const (
	ContactStarted ContactType = iota + 1
	ContactStopped
)

func (t ContactType) String() string {
	switch t {
	case ContactStarted:
		return "started"
	case ContactStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ContactEvent reports two solid colliders starting or stopping contact.
// Collider1 and Collider2 carry each collider's user data.
type ContactEvent struct {
	Collider1 uint64
	Collider2 uint64
	Type      ContactType
}

type Proximity uint8

const (
	Disjoint Proximity = iota
	WithinMargin
	Intersecting
)

func (p Proximity) String() string {
	switch p {
	case Disjoint:
		return "disjoint"
	case WithinMargin:
		return "within margin"
	case Intersecting:
		return "intersecting"
	default:
		return fmt.Sprintf("proximity(%d)", uint8(p))
	}
}

// ProximityEvent reports a status transition for a pair involving at
// least one sensor.
type ProximityEvent struct {
	Collider1 uint64
	Collider2 uint64
	Prev      Proximity
	Current   Proximity
}

type pairKey struct {
	a, b ColliderHandle
}

type pairState struct {
	shapes int
	first  *Collider
	second *Collider
}

func makePairKey(a, b *Collider) pairKey {
	if b.handle.less(a.handle) {
		return pairKey{a: b.handle, b: a.handle}
	}
	return pairKey{a: a.handle, b: b.handle}
}

func (e *Engine) installHandler() {
	handler := e.space.NewCollisionHandler(collisionTypeCollider, collisionTypeCollider)
	handler.UserData = e
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		eng, ok := userData.(*Engine)
		if !ok {
			return true
		}
		a, b := arb.Shapes()
		eng.beginShapes(a, b)
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		eng, ok := userData.(*Engine)
		if !ok {
			return
		}
		a, b := arb.Shapes()
		eng.separateShapes(a, b)
	}
}

// beginShapes counts shape pairs per collider pair so compound colliders
// report a single start.
func (e *Engine) beginShapes(sa, sb *cp.Shape) {
	ca, okA := e.shapeOwner[sa]
	cb, okB := e.shapeOwner[sb]
	if !okA || !okB || ca == cb {
		return
	}
	key := makePairKey(ca, cb)
	st, ok := e.pairs[key]
	if !ok {
		st = &pairState{first: ca, second: cb}
		e.pairs[key] = st
	}
	st.shapes++
	if st.shapes == 1 {
		e.emit(st.first, st.second, true)
	}
}

func (e *Engine) separateShapes(sa, sb *cp.Shape) {
	ca, okA := e.shapeOwner[sa]
	cb, okB := e.shapeOwner[sb]
	if !okA || !okB {
		return
	}
	key := makePairKey(ca, cb)
	st, ok := e.pairs[key]
	if !ok {
		return
	}
	st.shapes--
	if st.shapes <= 0 {
		delete(e.pairs, key)
		e.emit(st.first, st.second, false)
	}
}

// endPairs closes every open pair involving c once its shapes are gone.
func (e *Engine) endPairs(c *Collider) {
	var keys []pairKey
	for key := range e.pairs {
		if key.a == c.handle || key.b == c.handle {
			keys = append(keys, key)
		}
	}
	sortPairKeys(keys)
	for _, key := range keys {
		st := e.pairs[key]
		delete(e.pairs, key)
		e.emit(st.first, st.second, false)
	}
}

func (e *Engine) emit(a, b *Collider, started bool) {
	u1, u2 := a.desc.UserData, b.desc.UserData
	if a.desc.Sensor || b.desc.Sensor {
		ev := ProximityEvent{Collider1: u1, Collider2: u2, Prev: Disjoint, Current: Intersecting}
		if !started {
			ev.Prev, ev.Current = Intersecting, Disjoint
		}
		e.proximity.Write(ev)
		return
	}
	ev := ContactEvent{Collider1: u1, Collider2: u2, Type: ContactStarted}
	if !started {
		ev.Type = ContactStopped
	}
	e.contacts.Write(ev)
}

func sortPairKeys(keys []pairKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && pairLess(keys[j], keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

func pairLess(x, y pairKey) bool {
	if x.a != y.a {
		return x.a.less(y.a)
	}
	return x.b.less(y.b)
}
