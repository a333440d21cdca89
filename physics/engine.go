package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/autogamer/common"
)

// Engine owns the cp space and every body and collider in it. Only the
// sync system holds handles into it.
type Engine struct {
	space      *cp.Space
	bodies     BodySet
	colliders  ColliderSet
	ground     BodyHandle
	gravity    Vec2
	shapeOwner map[*cp.Shape]*Collider
	pairs      map[pairKey]*pairState
	contacts   *common.EventChannel[ContactEvent]
	proximity  *common.EventChannel[ProximityEvent]
	mutations  uint64
}

func NewEngine() *Engine {
	e := &Engine{
		space:      cp.NewSpace(),
		shapeOwner: make(map[*cp.Shape]*Collider),
		pairs:      make(map[pairKey]*pairState),
		contacts:   common.NewEventChannel[ContactEvent](),
		proximity:  common.NewEventChannel[ProximityEvent](),
	}
	e.bodies.engine = e
	e.colliders.engine = e
	e.ground = e.bodies.insertGround(e.space.StaticBody)
	e.installHandler()
	return e
}

func (e *Engine) SetGravity(g Vec2) {
	e.gravity = g
	e.space.SetGravity(g)
}

func (e *Engine) Gravity() Vec2 {
	return e.gravity
}

// Step integrates the world by dt seconds, emitting contact and proximity
// events for pairs that start or stop touching.
func (e *Engine) Step(dt float64) {
	if dt <= 0 {
		return
	}
	e.space.Step(dt)
}

func (e *Engine) Bodies() *BodySet { return &e.bodies }

func (e *Engine) Colliders() *ColliderSet { return &e.colliders }

// Ground is the static body that anchors colliders of entities without a
// body of their own.
func (e *Engine) Ground() BodyHandle { return e.ground }

func (e *Engine) ContactEvents() *common.EventChannel[ContactEvent] { return e.contacts }

func (e *Engine) ProximityEvents() *common.EventChannel[ProximityEvent] { return e.proximity }

// Mutations counts every write to engine state made through the adapter.
func (e *Engine) Mutations() uint64 { return e.mutations }

func (e *Engine) mutated() { e.mutations++ }
