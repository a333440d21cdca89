package component

import "github.com/milk9111/autogamer/physics"

type Velocity struct {
	Linear  physics.Vec2
	Angular float64
}

// PhysicsBody describes a rigid body. The physics system creates the
// engine body on the first tick after the component appears and writes
// the simulated state back after every step. Changes made through a plain
// Get pointer are not noticed; use ecs.GetMut.
type PhysicsBody struct {
	GravityEnabled bool
	Status         physics.BodyStatus
	Velocity       Velocity
	// AngularInertia of 0 locks rotation.
	AngularInertia    float64
	Mass              float64
	LocalCenterOfMass physics.Vec2
	// ExternalForce is applied as an impulse on the next sync and cleared.
	ExternalForce physics.Vec2

	physics.BodyBinding
}

// NewPhysicsBody returns a dynamic, gravity-affected body of mass 1.
func NewPhysicsBody() PhysicsBody {
	return PhysicsBody{
		GravityEnabled: true,
		Status:         physics.StatusDynamic,
		Mass:           physics.DefaultMass,
	}
}

// AddForce accumulates an impulse for the next sync.
func (b *PhysicsBody) AddForce(f physics.Vec2) {
	b.ExternalForce = b.ExternalForce.Add(f)
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// PhysicsCollider is collision geometry for an entity. Shape, Density,
// Material and Sensor cannot change once the engine collider exists.
type PhysicsCollider struct {
	Shape    physics.Shape
	Offset   physics.Vec2
	Density  float64
	Material physics.Material
	Margin   float64
	Groups   physics.CollisionGroups
	Sensor   bool

	physics.ColliderBinding
}

// NewPhysicsCollider returns a collider with default material and groups.
func NewPhysicsCollider(shape physics.Shape, membership uint32) PhysicsCollider {
	return PhysicsCollider{
		Shape:    shape,
		Density:  1,
		Material: physics.DefaultMaterial,
		Groups:   physics.InGroup(membership),
	}
}

// WorldBounds is the collider's box at the given entity position.
func (c *PhysicsCollider) WorldBounds(pos Position) physics.BB {
	return physics.Translate(c.Shape.Bounds(), pos.Vec().Add(c.Offset))
}

var PhysicsColliderComponent = NewComponent[PhysicsCollider]()
