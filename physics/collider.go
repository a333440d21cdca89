package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

const collisionTypeCollider cp.CollisionType = 1

// ColliderDesc is everything needed to create a collider. Position is in
// the parent body's local space.
type ColliderDesc struct {
	Shape    Shape
	Position Vec2
	// Density is recorded but never given to cp; the body's mass is
	// authoritative.
	Density  float64
	Material Material
	Margin   float64
	Groups   CollisionGroups
	Sensor   bool
	UserData uint64
}

// Collider is a set of cp shapes attached to one body. A polyline maps to
// one segment per edge and a compound shape to one cp shape per part.
type Collider struct {
	engine *Engine
	handle ColliderHandle
	parent BodyHandle
	desc   ColliderDesc
	shapes []*cp.Shape
}

func (c *Collider) Handle() ColliderHandle { return c.handle }
func (c *Collider) Parent() BodyHandle     { return c.parent }
func (c *Collider) Shape() Shape           { return c.desc.Shape }
func (c *Collider) Density() float64       { return c.desc.Density }
func (c *Collider) Material() Material     { return c.desc.Material }
func (c *Collider) Sensor() bool           { return c.desc.Sensor }
func (c *Collider) Margin() float64        { return c.desc.Margin }
func (c *Collider) UserData() uint64       { return c.desc.UserData }

func (c *Collider) CollisionGroups() CollisionGroups { return c.desc.Groups }

// LocalPosition is the collider origin relative to its parent body.
func (c *Collider) LocalPosition() Vec2 { return c.desc.Position }

// ShapeCount is the number of cp shapes backing the collider.
func (c *Collider) ShapeCount() int { return len(c.shapes) }

// SetMargin rebuilds the shapes with a new rounding radius.
func (c *Collider) SetMargin(margin float64) {
	c.engine.mutated()
	c.desc.Margin = margin
	c.rebuild()
}

func (c *Collider) SetCollisionGroups(groups CollisionGroups) {
	c.engine.mutated()
	c.desc.Groups = groups
	for _, s := range c.shapes {
		s.SetFilter(groups.filter())
	}
}

// SetLocalPosition rebuilds the shapes at a new offset from the parent.
func (c *Collider) SetLocalPosition(p Vec2) {
	c.engine.mutated()
	c.desc.Position = p
	c.rebuild()
}

func (c *Collider) rebuild() {
	c.detachShapes()
	c.attachShapes()
}

func (c *Collider) attachShapes() {
	rb, ok := c.engine.bodies.Get(c.parent)
	if !ok {
		panic(fmt.Sprintf("physics: %v has no parent %v", c.handle, c.parent))
	}
	c.shapes = buildShapes(rb.body, c.desc.Shape, c.desc.Position, c.desc.Margin, nil)
	for _, s := range c.shapes {
		s.SetSensor(c.desc.Sensor)
		s.SetFriction(c.desc.Material.Friction)
		s.SetElasticity(c.desc.Material.Restitution)
		s.SetFilter(c.desc.Groups.filter())
		s.SetCollisionType(collisionTypeCollider)
		c.engine.shapeOwner[s] = c
		c.engine.space.AddShape(s)
	}
}

func (c *Collider) detachShapes() {
	for _, s := range c.shapes {
		if c.engine.space.ContainsShape(s) {
			c.engine.space.RemoveShape(s)
		}
		delete(c.engine.shapeOwner, s)
	}
	c.shapes = nil
	c.engine.endPairs(c)
}

func buildShapes(body *cp.Body, shape Shape, at Vec2, margin float64, out []*cp.Shape) []*cp.Shape {
	switch shape.Kind {
	case ShapeRect:
		bb := Translate(shape.Bounds(), at)
		out = append(out, cp.NewBox2(body, bb, margin))
	case ShapeCircle:
		out = append(out, cp.NewCircle(body, shape.Radius+margin, at))
	case ShapePolyline:
		for i := 0; i+1 < len(shape.Points); i++ {
			a := shape.Points[i].Add(at)
			b := shape.Points[i+1].Add(at)
			out = append(out, cp.NewSegment(body, a, b, margin))
		}
	case ShapeConvexPolygon:
		verts := make([]cp.Vector, len(shape.Points))
		for i, p := range shape.Points {
			verts[i] = p.Add(at)
		}
		out = append(out, cp.NewPolyShapeRaw(body, len(verts), verts, margin))
	case ShapeCompound:
		for _, part := range shape.Parts {
			out = buildShapes(body, part.Shape, at.Add(part.Offset), margin, out)
		}
	}
	return out
}

// ColliderSet is the engine's collection of colliders.
type ColliderSet struct {
	engine *Engine
	arena  arena[Collider]
}

// Insert attaches a new collider to parent.
func (s *ColliderSet) Insert(desc ColliderDesc, parent BodyHandle) (ColliderHandle, error) {
	if err := desc.Shape.Validate(); err != nil {
		return ColliderHandle{}, fmt.Errorf("physics: insert %s collider: %w", desc.Shape.Kind, err)
	}
	rb, ok := s.engine.bodies.Get(parent)
	if !ok {
		return ColliderHandle{}, fmt.Errorf("physics: insert collider: unknown parent %v", parent)
	}
	s.engine.mutated()
	c := &Collider{engine: s.engine, parent: parent, desc: desc}
	index, gen := s.arena.insert(c)
	c.handle = ColliderHandle{index: index, gen: gen}
	c.attachShapes()
	rb.colliders = append(rb.colliders, c.handle)
	return c.handle, nil
}

func (s *ColliderSet) Remove(h ColliderHandle) bool {
	c, ok := s.arena.get(h.index, h.gen)
	if !ok {
		return false
	}
	s.engine.mutated()
	c.detachShapes()
	if rb, ok := s.engine.bodies.Get(c.parent); ok {
		rb.detach(h)
	}
	s.arena.remove(h.index, h.gen)
	return true
}

func (s *ColliderSet) Get(h ColliderHandle) (*Collider, bool) {
	return s.arena.get(h.index, h.gen)
}

func (s *ColliderSet) Contains(h ColliderHandle) bool {
	_, ok := s.Get(h)
	return ok
}

func (s *ColliderSet) Len() int {
	return s.arena.count
}

func (s *ColliderSet) Each(fn func(ColliderHandle, *Collider)) {
	s.arena.each(func(index, gen uint32, c *Collider) {
		fn(ColliderHandle{index: index, gen: gen}, c)
	})
}
