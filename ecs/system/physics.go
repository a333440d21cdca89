package system

import (
	"fmt"
	"log"

	"github.com/milk9111/autogamer/common"
	"github.com/milk9111/autogamer/ecs"
	"github.com/milk9111/autogamer/ecs/component"
	"github.com/milk9111/autogamer/physics"
)

// PhysicsSystem mirrors PhysicsBody, PhysicsCollider and Position
// components into the physics engine, steps it, and writes the simulated
// state back. Engine objects are created the tick after a component
// appears and removed the tick after it disappears.
type PhysicsSystem struct {
	engine    *physics.Engine
	dt        float64
	bodies    *physics.HandleMap[physics.BodyHandle]
	colliders *physics.HandleMap[physics.ColliderHandle]

	positionReader common.ReaderID
	bodyReader     common.ReaderID
	colliderReader common.ReaderID
	ready          bool
	seed           ecs.IndexSet
}

// changeSet is the set of entity indices touched since the last tick.
type changeSet struct {
	bodies           ecs.IndexSet
	colliders        ecs.IndexSet
	removedBodies    ecs.IndexSet
	removedColliders ecs.IndexSet
}

func NewPhysicsSystem(engine *physics.Engine, dt float64) *PhysicsSystem {
	if engine == nil {
		engine = physics.NewEngine()
	}
	return &PhysicsSystem{
		engine:    engine,
		dt:        dt,
		bodies:    physics.NewHandleMap[physics.BodyHandle]("physics system: bodies"),
		colliders: physics.NewHandleMap[physics.ColliderHandle]("physics system: colliders"),
	}
}

func (ps *PhysicsSystem) Engine() *physics.Engine { return ps.engine }

func (ps *PhysicsSystem) SetGravity(g physics.Vec2) { ps.engine.SetGravity(g) }

func (ps *PhysicsSystem) SetTimestep(dt float64) { ps.dt = dt }

func (ps *PhysicsSystem) BodyHandles() *physics.HandleMap[physics.BodyHandle] { return ps.bodies }

func (ps *PhysicsSystem) ColliderHandles() *physics.HandleMap[physics.ColliderHandle] {
	return ps.colliders
}

// Setup registers the change readers. Components that already exist are
// queued so the first tick creates their engine objects.
func (ps *PhysicsSystem) Setup(w *ecs.World) {
	if ps.ready {
		return
	}
	ps.ready = true
	ps.positionReader = ecs.Changes(w, component.PositionComponent.Kind()).RegisterReader()
	ps.bodyReader = ecs.Changes(w, component.PhysicsBodyComponent.Kind()).RegisterReader()
	ps.colliderReader = ecs.Changes(w, component.PhysicsColliderComponent.Kind()).RegisterReader()

	ps.seed = ecs.IndexSet{}
	for _, e := range ecs.Query(w, component.PhysicsBodyComponent.Kind()) {
		ps.seed.Add(e.Index())
	}
	for _, e := range ecs.Query(w, component.PhysicsColliderComponent.Kind()) {
		ps.seed.Add(e.Index())
	}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ps.Setup(w)

	changes := ps.collectChanges(w)
	ps.syncBodies(w, changes)
	ps.syncColliders(w, changes)
	ps.engine.Step(ps.dt)
	ps.writeBack(w)

	// Drop the events written by writeBack so they are not taken for
	// outside changes next tick.
	ecs.Changes(w, component.PositionComponent.Kind()).SkipToHead(ps.positionReader)
	ecs.Changes(w, component.PhysicsBodyComponent.Kind()).SkipToHead(ps.bodyReader)
	ecs.Changes(w, component.PhysicsColliderComponent.Kind()).SkipToHead(ps.colliderReader)
}

func (ps *PhysicsSystem) collectChanges(w *ecs.World) changeSet {
	cs := changeSet{
		bodies:           ecs.IndexSet{},
		colliders:        ecs.IndexSet{},
		removedBodies:    ecs.IndexSet{},
		removedColliders: ecs.IndexSet{},
	}
	cs.bodies.Union(ps.seed)
	cs.colliders.Union(ps.seed)
	ps.seed = nil

	// A position change moves the body and any ground-anchored collider.
	for _, ev := range ecs.Changes(w, component.PositionComponent.Kind()).Read(ps.positionReader) {
		cs.bodies.Add(ev.Index)
		cs.colliders.Add(ev.Index)
	}
	for _, ev := range ecs.Changes(w, component.PhysicsBodyComponent.Kind()).Read(ps.bodyReader) {
		cs.bodies.Add(ev.Index)
		if ev.Kind == ecs.ComponentRemoved {
			cs.removedBodies.Add(ev.Index)
		}
	}
	for _, ev := range ecs.Changes(w, component.PhysicsColliderComponent.Kind()).Read(ps.colliderReader) {
		cs.colliders.Add(ev.Index)
		if ev.Kind == ecs.ComponentRemoved {
			cs.removedColliders.Add(ev.Index)
		}
	}
	// Body changes can change which body a collider hangs off.
	cs.colliders.Union(cs.bodies)
	return cs
}

func (ps *PhysicsSystem) syncBodies(w *ecs.World, cs changeSet) {
	set := ps.engine.Bodies()
	for _, index := range cs.bodies.Sorted() {
		e, body, pos := lookupBody(w, index)
		if body == nil || pos == nil {
			var binding *physics.BodyBinding
			if body != nil {
				binding = &body.BodyBinding
			}
			if h, ok := ps.bodies.Release(index, binding); ok {
				set.Remove(h)
			}
			continue
		}

		if body.Bound() {
			ps.bodies.Verify(index, &body.BodyBinding)
			h, _ := body.Handle()
			rb, ok := set.Get(h)
			if !ok {
				panic(fmt.Sprintf("physics system: entity %v: %v missing from engine", e, h))
			}
			updateBody(rb, body, pos)
			continue
		}

		if stale, ok := ps.bodies.Lookup(index); ok {
			if !cs.removedBodies.Has(index) {
				panic(fmt.Sprintf("physics system: entity %v: unbound body but map holds %v", e, stale))
			}
			ps.bodies.Release(index, nil)
			set.Remove(stale)
		}

		h := set.Insert(physics.BodyDesc{
			Position:          pos.Vec(),
			Status:            body.Status,
			GravityEnabled:    body.GravityEnabled,
			LinearVelocity:    body.Velocity.Linear,
			AngularVelocity:   body.Velocity.Angular,
			Mass:              body.Mass,
			AngularInertia:    body.AngularInertia,
			LocalCenterOfMass: body.LocalCenterOfMass,
			UserData:          uint64(e),
		})
		ps.bodies.Bind(index, &body.BodyBinding, h)
		if rb, ok := set.Get(h); ok && body.ExternalForce != (physics.Vec2{}) {
			rb.ApplyImpulse(body.ExternalForce)
			body.ExternalForce = physics.Vec2{}
		}
	}
}

// updateBody writes only the fields that differ from the engine state.
// Status goes first since a type change resets cp velocities.
func updateBody(rb *physics.RigidBody, body *component.PhysicsBody, pos *component.Position) {
	if rb.GravityEnabled() != body.GravityEnabled {
		rb.SetGravityEnabled(body.GravityEnabled)
	}
	if rb.Status() != body.Status {
		rb.SetStatus(body.Status)
	}
	if rb.LinearVelocity() != body.Velocity.Linear {
		rb.SetLinearVelocity(body.Velocity.Linear)
	}
	if rb.AngularVelocity() != body.Velocity.Angular {
		rb.SetAngularVelocity(body.Velocity.Angular)
	}
	if rb.AngularInertia() != body.AngularInertia {
		rb.SetAngularInertia(body.AngularInertia)
	}
	if rb.Mass() != body.Mass {
		rb.SetMass(body.Mass)
	}
	if rb.LocalCenterOfMass() != body.LocalCenterOfMass {
		rb.SetLocalCenterOfMass(body.LocalCenterOfMass)
	}
	if body.ExternalForce != (physics.Vec2{}) {
		rb.ApplyImpulse(body.ExternalForce)
		body.ExternalForce = physics.Vec2{}
	}
	if p := pos.Vec(); rb.Position() != p {
		rb.SetPosition(p)
	}
}

func (ps *PhysicsSystem) syncColliders(w *ecs.World, cs changeSet) {
	set := ps.engine.Colliders()
	for _, index := range cs.colliders.Sorted() {
		e, col, pos := lookupCollider(w, index)
		if col == nil || pos == nil {
			var binding *physics.ColliderBinding
			if col != nil {
				binding = &col.ColliderBinding
			}
			// The collider may already be gone with its parent body.
			if h, ok := ps.colliders.Release(index, binding); ok && set.Contains(h) {
				set.Remove(h)
			}
			continue
		}

		parent, local := ps.placement(index, col, pos)
		if col.Bound() {
			ps.colliders.Verify(index, &col.ColliderBinding)
			h, _ := col.Handle()
			c, ok := set.Get(h)
			if ok && c.Parent() == parent {
				updateCollider(e, c, col, local)
				continue
			}
			ps.colliders.Release(index, &col.ColliderBinding)
			if ok {
				set.Remove(h)
			}
		} else if stale, ok := ps.colliders.Lookup(index); ok {
			if !cs.removedColliders.Has(index) {
				panic(fmt.Sprintf("physics system: entity %v: unbound collider but map holds %v", e, stale))
			}
			ps.colliders.Release(index, nil)
			if set.Contains(stale) {
				set.Remove(stale)
			}
		}

		h, err := set.Insert(physics.ColliderDesc{
			Shape:    col.Shape,
			Position: local,
			Density:  col.Density,
			Material: col.Material,
			Margin:   col.Margin,
			Groups:   col.Groups,
			Sensor:   col.Sensor,
			UserData: uint64(e),
		}, parent)
		if err != nil {
			panic(fmt.Sprintf("physics system: entity %v: %v", e, err))
		}
		ps.colliders.Bind(index, &col.ColliderBinding, h)
	}
}

// placement picks the collider parent: the entity's own body with the
// configured offset, or the ground body at the absolute position.
func (ps *PhysicsSystem) placement(index uint32, col *component.PhysicsCollider, pos *component.Position) (physics.BodyHandle, physics.Vec2) {
	if h, ok := ps.bodies.Lookup(index); ok {
		return h, col.Offset
	}
	return ps.engine.Ground(), pos.Vec().Add(col.Offset)
}

func updateCollider(e ecs.Entity, c *physics.Collider, col *component.PhysicsCollider, local physics.Vec2) {
	if !c.Shape().Equal(col.Shape) || c.Density() != col.Density || c.Material() != col.Material || c.Sensor() != col.Sensor {
		panic(fmt.Sprintf("physics system: entity %v: collider shape, density, material and sensor cannot change after creation", e))
	}
	if c.Margin() != col.Margin {
		c.SetMargin(col.Margin)
	}
	if c.CollisionGroups() != col.Groups {
		c.SetCollisionGroups(col.Groups)
	}
	if c.LocalPosition() != local {
		c.SetLocalPosition(local)
	}
}

// writeBack copies the simulated state of every bound body into its
// components, flagging only the ones that changed.
func (ps *PhysicsSystem) writeBack(w *ecs.World) {
	set := ps.engine.Bodies()
	for _, index := range ps.bodies.Indices() {
		e, body, pos := lookupBody(w, index)
		if body == nil || pos == nil {
			log.Printf("PhysicsSystem: index %d has a body handle but no components", index)
			continue
		}
		h, _ := ps.bodies.Lookup(index)
		rb, ok := set.Get(h)
		if !ok {
			panic(fmt.Sprintf("physics system: entity %v: %v missing from engine", e, h))
		}

		if p := rb.Position(); p != pos.Vec() {
			pos, _ = ecs.GetMut(w, e, component.PositionComponent.Kind())
			pos.Set(p)
		}
		if bodyDiffers(rb, body) {
			body, _ = ecs.GetMut(w, e, component.PhysicsBodyComponent.Kind())
			body.Velocity.Linear = rb.LinearVelocity()
			body.Velocity.Angular = rb.AngularVelocity()
			body.GravityEnabled = rb.GravityEnabled()
			body.Status = rb.Status()
			body.AngularInertia = rb.AngularInertia()
			body.Mass = rb.Mass()
			body.LocalCenterOfMass = rb.LocalCenterOfMass()
		}
	}
}

func bodyDiffers(rb *physics.RigidBody, body *component.PhysicsBody) bool {
	return rb.LinearVelocity() != body.Velocity.Linear ||
		rb.AngularVelocity() != body.Velocity.Angular ||
		rb.GravityEnabled() != body.GravityEnabled ||
		rb.Status() != body.Status ||
		rb.AngularInertia() != body.AngularInertia ||
		rb.Mass() != body.Mass ||
		rb.LocalCenterOfMass() != body.LocalCenterOfMass
}

func lookupBody(w *ecs.World, index uint32) (ecs.Entity, *component.PhysicsBody, *component.Position) {
	e, ok := ecs.EntityAt(w, index)
	if !ok {
		return 0, nil, nil
	}
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	pos, _ := ecs.Get(w, e, component.PositionComponent.Kind())
	return e, body, pos
}

func lookupCollider(w *ecs.World, index uint32) (ecs.Entity, *component.PhysicsCollider, *component.Position) {
	e, ok := ecs.EntityAt(w, index)
	if !ok {
		return 0, nil, nil
	}
	col, _ := ecs.Get(w, e, component.PhysicsColliderComponent.Kind())
	pos, _ := ecs.Get(w, e, component.PositionComponent.Kind())
	return e, col, pos
}
