package resource

import (
	"testing"

	"github.com/milk9111/autogamer/ecs"
	"github.com/milk9111/autogamer/physics"
)

func TestCollisionsMapDefaults(t *testing.T) {
	w := ecs.NewWorld()
	a := ecs.CreateEntity(w)
	b := ecs.CreateEntity(w)
	m := NewCollisionsMap()

	if got := m.Get(a); !got.IsEmpty() {
		t.Fatalf("expected empty default, got %+v", got)
	}
	if m.Len() != 0 {
		t.Fatalf("Get must not create entries")
	}
	ca, cb := m.GetOrDefault2(a, b)
	ca.TouchingBottom = append(ca.TouchingBottom, b)
	cb.TouchingTop = append(cb.TouchingTop, a)
	if !m.Get(a).TouchingGround() || m.Get(b).TouchingGround() {
		t.Fatalf("unexpected ground state")
	}
	if m.Len() != 2 {
		t.Fatalf("expected two entries, got %d", m.Len())
	}
}

func TestRemoveFirst(t *testing.T) {
	cases := []struct {
		name string
		in   []ecs.Entity
		drop ecs.Entity
		want int
	}{
		{"missing", []ecs.Entity{1, 2}, 3, 2},
		{"single", []ecs.Entity{1}, 1, 0},
		{"duplicate_keeps_one", []ecs.Entity{1, 2, 1}, 1, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := RemoveFirst(append([]ecs.Entity(nil), c.in...), c.drop)
			if len(got) != c.want {
				t.Fatalf("expected len %d, got %v", c.want, got)
			}
		})
	}
}

func TestViewportToScreen(t *testing.T) {
	v := NewViewport(100, 50)
	v.CenterOn(physics.Vec2{X: 50, Y: 25})
	x, y := v.ToScreen(physics.Vec2{X: 0, Y: 50}, 200, 100)
	if x != 0 || y != 0 {
		t.Fatalf("top-left should map to origin, got %v,%v", x, y)
	}
	x, y = v.ToScreen(physics.Vec2{X: 100, Y: 0}, 200, 100)
	if x != 200 || y != 100 {
		t.Fatalf("bottom-right should map to screen corner, got %v,%v", x, y)
	}
}
