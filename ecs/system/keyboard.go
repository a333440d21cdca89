package system

import (
	"slices"

	"github.com/milk9111/autogamer/ecs"
	"github.com/milk9111/autogamer/ecs/component"
	"github.com/milk9111/autogamer/ecs/resource"
	"github.com/milk9111/autogamer/input"
)

const DefaultAirControl = 0.5

type KeyBindings struct {
	Left  []input.Key
	Right []input.Key
	Jump  []input.Key
}

func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Left:  []input.Key{input.KeyLeft, input.KeyA},
		Right: []input.Key{input.KeyRight, input.KeyD},
		Jump:  []input.Key{input.KeySpace},
	}
}

// KeyboardSystem applies platformer movement from the frame's key events
// to every entity with PlatformerControls.
type KeyboardSystem struct {
	bindings KeyBindings
	held     map[input.Key]bool
	jump     bool
}

func NewKeyboardSystem(bindings KeyBindings) *KeyboardSystem {
	return &KeyboardSystem{bindings: bindings, held: make(map[input.Key]bool)}
}

func (s *KeyboardSystem) SetBindings(bindings KeyBindings) {
	s.bindings = bindings
	clear(s.held)
}

func (s *KeyboardSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.jump = false
	if events, ok := ecs.Resource[input.EventStream](w); ok {
		events.Each(s.handle)
	}

	left := s.anyHeld(s.bindings.Left)
	right := s.anyHeld(s.bindings.Right)
	collisions, _ := ecs.Resource[resource.CollisionsMap](w)

	ecs.ForEach(w, component.PlatformerControlsComponent.Kind(), func(e ecs.Entity, controls *component.PlatformerControls) {
		if !ecs.Has(w, e, component.PositionComponent.Kind()) || !ecs.Has(w, e, component.PhysicsColliderComponent.Kind()) {
			return
		}
		body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			return
		}

		grounded := collisions.Get(e).TouchingGround()
		mult := 1.0
		if !grounded {
			mult = controls.AirControl
		}

		vx := 0.0
		switch {
		case left && !right:
			vx = controls.LeftVelocity * mult
		case right && !left:
			vx = controls.RightVelocity * mult
		}
		vy := body.Velocity.Linear.Y
		if s.jump && grounded {
			vy = controls.JumpVelocity
		}

		if body.Velocity.Linear.X == vx && body.Velocity.Linear.Y == vy {
			return
		}
		body, _ = ecs.GetMut(w, e, component.PhysicsBodyComponent.Kind())
		body.Velocity.Linear.X = vx
		body.Velocity.Linear.Y = vy
	})
}

func (s *KeyboardSystem) handle(ev *input.Event) {
	switch ev.Kind {
	case input.EventKeyDown:
		if ev.Repeat {
			return
		}
		s.held[ev.Key] = true
		if slices.Contains(s.bindings.Jump, ev.Key) {
			s.jump = true
		}
	case input.EventKeyUp:
		delete(s.held, ev.Key)
	}
}

func (s *KeyboardSystem) anyHeld(keys []input.Key) bool {
	for _, k := range keys {
		if s.held[k] {
			return true
		}
	}
	return false
}
