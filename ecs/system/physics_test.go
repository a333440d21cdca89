package system

import (
	"testing"

	"github.com/milk9111/autogamer/ecs"
	"github.com/milk9111/autogamer/ecs/component"
	"github.com/milk9111/autogamer/physics"
)

const testDT = 1.0 / 60.0

func newPhysicsWorld() (*ecs.World, *PhysicsSystem) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(physics.NewEngine(), testDT)
	ps.SetGravity(physics.Vec2{Y: -900})
	ps.Setup(w)
	return w, ps
}

func spawnBody(t *testing.T, w *ecs.World, pos component.Position, gravity bool) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	body := component.NewPhysicsBody()
	body.GravityEnabled = gravity
	if err := ecs.Add(w, e, component.PositionComponent.Kind(), &pos); err != nil {
		t.Fatalf("add position: %v", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &body); err != nil {
		t.Fatalf("add body: %v", err)
	}
	return e
}

func addCollider(t *testing.T, w *ecs.World, e ecs.Entity, col component.PhysicsCollider) {
	t.Helper()
	if err := ecs.Add(w, e, component.PhysicsColliderComponent.Kind(), &col); err != nil {
		t.Fatalf("add collider: %v", err)
	}
}

func spawnTile(t *testing.T, w *ecs.World, pos component.Position, width, height float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PositionComponent.Kind(), &pos); err != nil {
		t.Fatalf("add position: %v", err)
	}
	col := component.NewPhysicsCollider(physics.NewRect(width, height), physics.GroupGround)
	col.Offset = physics.Vec2{X: width / 2, Y: height / 2}
	addCollider(t, w, e, col)
	return e
}

func bodyHandle(t *testing.T, w *ecs.World, e ecs.Entity) physics.BodyHandle {
	t.Helper()
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no body", e)
	}
	h, bound := body.Handle()
	if !bound {
		t.Fatalf("entity %v body is unbound", e)
	}
	return h
}

// checkHandles asserts every body component, map entry and engine body
// line up one to one.
func checkHandles(t *testing.T, w *ecs.World, ps *PhysicsSystem) {
	t.Helper()
	bodies := ecs.Query(w, component.PhysicsBodyComponent.Kind())
	if ps.BodyHandles().Len() != len(bodies) {
		t.Fatalf("map has %d entries, store has %d bodies", ps.BodyHandles().Len(), len(bodies))
	}
	if ps.Engine().Bodies().Len() != len(bodies) {
		t.Fatalf("engine has %d bodies, store has %d", ps.Engine().Bodies().Len(), len(bodies))
	}
	seen := map[physics.BodyHandle]bool{}
	for _, e := range bodies {
		h := bodyHandle(t, w, e)
		if mapped, ok := ps.BodyHandles().Lookup(e.Index()); !ok || mapped != h {
			t.Fatalf("entity %v: component %v, map %v", e, h, mapped)
		}
		if !ps.Engine().Bodies().Contains(h) {
			t.Fatalf("entity %v: %v not live in engine", e, h)
		}
		if seen[h] {
			t.Fatalf("handle %v shared by two entities", h)
		}
		seen[h] = true
	}
}

func TestPhysicsSyncHandleUniqueness(t *testing.T) {
	w, ps := newPhysicsWorld()
	var ents []ecs.Entity
	for i := 0; i < 5; i++ {
		ents = append(ents, spawnBody(t, w, component.Position{X: float64(i) * 50}, false))
	}

	steps := []struct {
		name string
		do   func(t *testing.T)
	}{
		{"create", func(t *testing.T) {}},
		{"remove_two", func(t *testing.T) {
			ecs.Remove(w, ents[0], component.PhysicsBodyComponent.Kind())
			ecs.Remove(w, ents[3], component.PhysicsBodyComponent.Kind())
		}},
		{"delete_one", func(t *testing.T) {
			ecs.Delete(w, ents[1])
			ecs.Maintain(w)
		}},
		{"re_add", func(t *testing.T) {
			body := component.NewPhysicsBody()
			_ = ecs.Add(w, ents[0], component.PhysicsBodyComponent.Kind(), &body)
		}},
		{"replace_bound", func(t *testing.T) {
			body := component.NewPhysicsBody()
			_ = ecs.Add(w, ents[2], component.PhysicsBodyComponent.Kind(), &body)
		}},
		{"reuse_index", func(t *testing.T) {
			spawnBody(t, w, component.Position{}, true)
		}},
		{"remove_position", func(t *testing.T) {
			ecs.Remove(w, ents[4], component.PositionComponent.Kind())
		}},
	}
	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			s.do(t)
			ps.Update(w)
			if s.name == "remove_position" {
				body, _ := ecs.Get(w, ents[4], component.PhysicsBodyComponent.Kind())
				if body.Bound() {
					t.Fatalf("body without position must be released")
				}
				if ps.Engine().Bodies().Len() != ps.BodyHandles().Len() {
					t.Fatalf("engine and map disagree")
				}
				return
			}
			checkHandles(t, w, ps)
		})
	}
}

func TestPhysicsSyncReplaceRemovesOldBody(t *testing.T) {
	w, ps := newPhysicsWorld()
	e := spawnBody(t, w, component.Position{}, false)
	ps.Update(w)
	old := bodyHandle(t, w, e)

	fresh := component.NewPhysicsBody()
	_ = ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &fresh)
	ps.Update(w)

	if ps.Engine().Bodies().Contains(old) {
		t.Fatalf("replaced body %v should be removed", old)
	}
	if got := bodyHandle(t, w, e); got == old {
		t.Fatalf("expected a new handle")
	}
	checkHandles(t, w, ps)
}

func TestPhysicsSyncNoRedundantWrites(t *testing.T) {
	w, ps := newPhysicsWorld()
	spawnTile(t, w, component.Position{X: -100, Y: -20}, 200, 20)
	e := spawnBody(t, w, component.Position{Y: 30}, true)
	addCollider(t, w, e, component.NewPhysicsCollider(physics.NewRect(10, 10), physics.GroupPlayer))

	ps.Update(w)
	for i := 0; i < 3; i++ {
		before := ps.Engine().Mutations()
		ps.Update(w)
		if got := ps.Engine().Mutations() - before; got != 0 {
			t.Fatalf("tick %d: expected no engine writes, got %d", i, got)
		}
	}
}

func TestPhysicsSyncRoundTripPosition(t *testing.T) {
	w, ps := newPhysicsWorld()
	e := spawnBody(t, w, component.Position{}, false)
	ps.Update(w)
	h := bodyHandle(t, w, e)
	rb, _ := ps.Engine().Bodies().Get(h)

	t.Run("component_to_engine", func(t *testing.T) {
		pos, _ := ecs.GetMut(w, e, component.PositionComponent.Kind())
		pos.X, pos.Y = 50, 75
		ps.Update(w)
		if got := rb.Position(); got != (physics.Vec2{X: 50, Y: 75}) {
			t.Fatalf("engine should report teleported position, got %v", got)
		}
	})

	t.Run("engine_to_component", func(t *testing.T) {
		body, _ := ecs.GetMut(w, e, component.PhysicsBodyComponent.Kind())
		body.Velocity.Linear = physics.Vec2{X: 60}
		ps.Update(w)
		pos, _ := ecs.Get(w, e, component.PositionComponent.Kind())
		if pos.Vec() != rb.Position() {
			t.Fatalf("component %v should match engine %v", pos.Vec(), rb.Position())
		}
		if pos.X <= 50 {
			t.Fatalf("body should have moved right, got %v", pos.X)
		}
	})
}

func TestPhysicsSyncGravityWriteBack(t *testing.T) {
	w, ps := newPhysicsWorld()
	e := spawnBody(t, w, component.Position{Y: 100}, true)
	for i := 0; i < 5; i++ {
		ps.Update(w)
	}
	pos, _ := ecs.Get(w, e, component.PositionComponent.Kind())
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if pos.Y >= 100 || body.Velocity.Linear.Y >= 0 {
		t.Fatalf("body should fall, pos=%v vel=%v", pos, body.Velocity.Linear)
	}
}

func TestPhysicsSyncColliderRemovalCleanup(t *testing.T) {
	w, ps := newPhysicsWorld()
	e := spawnTile(t, w, component.Position{}, 16, 16)
	ps.Update(w)
	col, _ := ecs.Get(w, e, component.PhysicsColliderComponent.Kind())
	h, ok := col.Handle()
	if !ok {
		t.Fatalf("collider should be bound after one tick")
	}

	ecs.Remove(w, e, component.PhysicsColliderComponent.Kind())
	ps.Update(w)
	if _, ok := ps.ColliderHandles().Lookup(e.Index()); ok {
		t.Fatalf("map should forget the collider")
	}
	if ps.Engine().Colliders().Contains(h) {
		t.Fatalf("engine should no longer hold %v", h)
	}
}

func TestPhysicsSyncColliderParenting(t *testing.T) {
	w, ps := newPhysicsWorld()
	e := spawnTile(t, w, component.Position{X: 32, Y: 16}, 16, 16)
	ps.Update(w)

	colliderOf := func() *physics.Collider {
		col, _ := ecs.Get(w, e, component.PhysicsColliderComponent.Kind())
		h, _ := col.Handle()
		c, ok := ps.Engine().Colliders().Get(h)
		if !ok {
			t.Fatalf("collider not in engine")
		}
		return c
	}

	c := colliderOf()
	if c.Parent() != ps.Engine().Ground() {
		t.Fatalf("body-less collider should hang off the ground body")
	}
	if c.LocalPosition() != (physics.Vec2{X: 40, Y: 24}) {
		t.Fatalf("ground collider should sit at position+offset, got %v", c.LocalPosition())
	}

	t.Run("moves_with_position", func(t *testing.T) {
		pos, _ := ecs.GetMut(w, e, component.PositionComponent.Kind())
		pos.X = 0
		ps.Update(w)
		if got := colliderOf().LocalPosition(); got != (physics.Vec2{X: 8, Y: 24}) {
			t.Fatalf("expected moved collider, got %v", got)
		}
	})

	t.Run("reparents_to_new_body", func(t *testing.T) {
		body := component.NewPhysicsBody()
		body.GravityEnabled = false
		_ = ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &body)
		ps.Update(w)
		c := colliderOf()
		if c.Parent() != bodyHandle(t, w, e) {
			t.Fatalf("collider should move onto the entity body")
		}
		if c.LocalPosition() != (physics.Vec2{X: 8, Y: 8}) {
			t.Fatalf("body collider should use the offset, got %v", c.LocalPosition())
		}
	})

	t.Run("back_to_ground_when_body_removed", func(t *testing.T) {
		ecs.Remove(w, e, component.PhysicsBodyComponent.Kind())
		ps.Update(w)
		if colliderOf().Parent() != ps.Engine().Ground() {
			t.Fatalf("collider should return to the ground body")
		}
		if ps.Engine().Colliders().Len() != 1 {
			t.Fatalf("expected exactly one collider, got %d", ps.Engine().Colliders().Len())
		}
	})
}

func TestPhysicsSyncMutableColliderFields(t *testing.T) {
	w, ps := newPhysicsWorld()
	e := spawnTile(t, w, component.Position{}, 16, 16)
	ps.Update(w)

	col, _ := ecs.GetMut(w, e, component.PhysicsColliderComponent.Kind())
	col.Margin = 0.5
	col.Groups = physics.InGroup(physics.GroupLadder)
	ps.Update(w)

	h, _ := col.Handle()
	c, _ := ps.Engine().Colliders().Get(h)
	if c.Margin() != 0.5 || c.CollisionGroups() != physics.InGroup(physics.GroupLadder) {
		t.Fatalf("mutable fields not pushed: margin=%v groups=%v", c.Margin(), c.CollisionGroups())
	}
}

func TestPhysicsSyncImmutableColliderFieldsPanic(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*component.PhysicsCollider)
	}{
		{"shape", func(c *component.PhysicsCollider) { c.Shape = physics.NewCircle(3) }},
		{"density", func(c *component.PhysicsCollider) { c.Density = 9 }},
		{"material", func(c *component.PhysicsCollider) { c.Material.Friction = 0.1 }},
		{"sensor", func(c *component.PhysicsCollider) { c.Sensor = true }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, ps := newPhysicsWorld()
			e := spawnTile(t, w, component.Position{}, 16, 16)
			ps.Update(w)
			col, _ := ecs.GetMut(w, e, component.PhysicsColliderComponent.Kind())
			c.mutate(col)
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic when changing %s", c.name)
				}
			}()
			ps.Update(w)
		})
	}
}

func TestPhysicsSyncDrainsExternalForce(t *testing.T) {
	w, ps := newPhysicsWorld()
	e := spawnBody(t, w, component.Position{}, false)
	ps.Update(w)

	body, _ := ecs.GetMut(w, e, component.PhysicsBodyComponent.Kind())
	body.AddForce(physics.Vec2{X: 5})
	ps.Update(w)

	body, _ = ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if body.ExternalForce != (physics.Vec2{}) {
		t.Fatalf("force accumulator should be drained, got %v", body.ExternalForce)
	}
	if body.Velocity.Linear.X <= 0 {
		t.Fatalf("impulse should change velocity, got %v", body.Velocity.Linear)
	}
}

func TestPhysicsSyncSetupSeedsExistingComponents(t *testing.T) {
	w := ecs.NewWorld()
	spawnTile(t, w, component.Position{}, 16, 16)
	ps := NewPhysicsSystem(nil, testDT)
	ps.Update(w)
	if ps.Engine().Colliders().Len() != 1 {
		t.Fatalf("pre-existing collider should be created on the first tick")
	}
}
