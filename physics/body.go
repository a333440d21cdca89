package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// DefaultMass is used when a body asks for a non-positive mass.
const DefaultMass = 1.0

// BodyDesc is everything needed to create a rigid body.
type BodyDesc struct {
	Position          Vec2
	Status            BodyStatus
	GravityEnabled    bool
	LinearVelocity    Vec2
	AngularVelocity   float64
	Mass              float64
	AngularInertia    float64
	LocalCenterOfMass Vec2
	UserData          uint64
}

// RigidBody wraps a cp body. Mass, inertia, center of mass, status and
// the gravity flag are kept on the wrapper since cp discards them when a
// body changes type; position and velocity are read from cp.
//
// cp has no center of gravity setter, so the cp body always pivots about
// its origin. The local center of mass is stored and reported but does not
// move the pivot.
type RigidBody struct {
	engine    *Engine
	handle    BodyHandle
	body      *cp.Body
	ground    bool
	status    BodyStatus
	gravity   bool
	mass      float64
	inertia   float64
	com       Vec2
	colliders []ColliderHandle

	UserData uint64
}

func (rb *RigidBody) Handle() BodyHandle { return rb.handle }

// IsGround reports whether this is the engine's static anchor body.
func (rb *RigidBody) IsGround() bool { return rb.ground }

func (rb *RigidBody) Position() Vec2 { return rb.body.Position() }

func (rb *RigidBody) SetPosition(p Vec2) {
	rb.engine.mutated()
	rb.body.SetPosition(p)
	rb.reindexStatic()
}

func (rb *RigidBody) LinearVelocity() Vec2 { return rb.body.Velocity() }

func (rb *RigidBody) SetLinearVelocity(v Vec2) {
	rb.engine.mutated()
	rb.body.SetVelocityVector(v)
}

func (rb *RigidBody) AngularVelocity() float64 { return rb.body.AngularVelocity() }

func (rb *RigidBody) SetAngularVelocity(w float64) {
	rb.engine.mutated()
	rb.body.SetAngularVelocity(w)
}

func (rb *RigidBody) GravityEnabled() bool { return rb.gravity }

func (rb *RigidBody) SetGravityEnabled(enabled bool) {
	rb.engine.mutated()
	rb.gravity = enabled
	applyGravityFlag(rb.body, enabled)
}

func (rb *RigidBody) Status() BodyStatus { return rb.status }

func (rb *RigidBody) SetStatus(status BodyStatus) {
	rb.engine.mutated()
	v, w := rb.body.Velocity(), rb.body.AngularVelocity()
	rb.status = status
	rb.body.SetType(status.cpType())
	if status == StatusDynamic {
		rb.applyMassProperties()
	}
	if status != StatusStatic {
		rb.body.SetVelocityVector(v)
		rb.body.SetAngularVelocity(w)
	}
	rb.reindexStatic()
}

func (rb *RigidBody) Mass() float64 { return rb.mass }

func (rb *RigidBody) SetMass(mass float64) {
	rb.engine.mutated()
	rb.mass = clampMass(mass)
	if rb.status == StatusDynamic {
		rb.body.SetMass(rb.mass)
	}
}

// AngularInertia of 0 means infinite, which locks rotation.
func (rb *RigidBody) AngularInertia() float64 { return rb.inertia }

func (rb *RigidBody) SetAngularInertia(inertia float64) {
	rb.engine.mutated()
	rb.inertia = math.Max(inertia, 0)
	if rb.status == StatusDynamic {
		rb.body.SetMoment(moment(rb.inertia))
	}
}

func (rb *RigidBody) LocalCenterOfMass() Vec2 { return rb.com }

func (rb *RigidBody) SetLocalCenterOfMass(c Vec2) {
	rb.engine.mutated()
	rb.com = c
}

// ApplyImpulse applies an instantaneous impulse through the body's pivot,
// so it never adds spin.
func (rb *RigidBody) ApplyImpulse(impulse Vec2) {
	rb.engine.mutated()
	rb.body.ApplyImpulseAtLocalPoint(impulse, Vec2{})
}

// Colliders lists the colliders attached to this body.
func (rb *RigidBody) Colliders() []ColliderHandle {
	return append([]ColliderHandle(nil), rb.colliders...)
}

func (rb *RigidBody) applyMassProperties() {
	rb.body.SetMass(rb.mass)
	rb.body.SetMoment(moment(rb.inertia))
}

// reindexStatic re-adds a static body's shapes so the static index sees
// its new transform. cp only refreshes dynamic and kinematic shapes on step.
func (rb *RigidBody) reindexStatic() {
	if rb.status != StatusStatic || !rb.engine.space.ContainsBody(rb.body) {
		return
	}
	for _, h := range rb.colliders {
		if c, ok := rb.engine.colliders.Get(h); ok {
			c.rebuild()
		}
	}
}

func (rb *RigidBody) detach(h ColliderHandle) {
	for i, c := range rb.colliders {
		if c == h {
			rb.colliders = append(rb.colliders[:i], rb.colliders[i+1:]...)
			return
		}
	}
}

func clampMass(mass float64) float64 {
	if mass <= 0 || math.IsInf(mass, 0) || math.IsNaN(mass) {
		return DefaultMass
	}
	return mass
}

func moment(inertia float64) float64 {
	if inertia <= 0 {
		return math.Inf(1)
	}
	return inertia
}

func applyGravityFlag(body *cp.Body, enabled bool) {
	if enabled {
		body.SetVelocityUpdateFunc(cp.BodyUpdateVelocity)
		return
	}
	body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
	})
}

// BodySet is the engine's collection of rigid bodies. The ground body is
// always present and cannot be removed.
type BodySet struct {
	engine *Engine
	arena  arena[RigidBody]
}

func (s *BodySet) Insert(desc BodyDesc) BodyHandle {
	e := s.engine
	e.mutated()
	rb := &RigidBody{
		engine:   e,
		status:   desc.Status,
		gravity:  desc.GravityEnabled,
		mass:     clampMass(desc.Mass),
		inertia:  math.Max(desc.AngularInertia, 0),
		com:      desc.LocalCenterOfMass,
		UserData: desc.UserData,
	}
	rb.body = cp.NewBody(rb.mass, moment(rb.inertia))
	if desc.Status != StatusDynamic {
		rb.body.SetType(desc.Status.cpType())
	}
	rb.body.SetPosition(desc.Position)
	if desc.Status != StatusStatic {
		rb.body.SetVelocityVector(desc.LinearVelocity)
		rb.body.SetAngularVelocity(desc.AngularVelocity)
	}
	applyGravityFlag(rb.body, rb.gravity)
	rb.body.UserData = rb
	e.space.AddBody(rb.body)

	index, gen := s.arena.insert(rb)
	rb.handle = BodyHandle{index: index, gen: gen}
	return rb.handle
}

// Remove deletes the body and every collider attached to it.
func (s *BodySet) Remove(h BodyHandle) bool {
	rb, ok := s.arena.get(h.index, h.gen)
	if !ok || rb.ground {
		return false
	}
	e := s.engine
	e.mutated()
	for _, ch := range rb.Colliders() {
		e.colliders.Remove(ch)
	}
	if e.space.ContainsBody(rb.body) {
		e.space.RemoveBody(rb.body)
	}
	s.arena.remove(h.index, h.gen)
	return true
}

func (s *BodySet) Get(h BodyHandle) (*RigidBody, bool) {
	return s.arena.get(h.index, h.gen)
}

func (s *BodySet) Contains(h BodyHandle) bool {
	_, ok := s.Get(h)
	return ok
}

// Len counts bodies other than the ground body.
func (s *BodySet) Len() int {
	return s.arena.count - 1
}

// Each visits every body except the ground body.
func (s *BodySet) Each(fn func(BodyHandle, *RigidBody)) {
	s.arena.each(func(index, gen uint32, rb *RigidBody) {
		if !rb.ground {
			fn(BodyHandle{index: index, gen: gen}, rb)
		}
	})
}

func (s *BodySet) insertGround(body *cp.Body) BodyHandle {
	rb := &RigidBody{
		engine: s.engine,
		body:   body,
		ground: true,
		status: StatusStatic,
		mass:   DefaultMass,
	}
	body.UserData = rb
	index, gen := s.arena.insert(rb)
	rb.handle = BodyHandle{index: index, gen: gen}
	return rb.handle
}
