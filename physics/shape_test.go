package physics

import (
	"errors"
	"testing"
)

func TestNewConvexPolygon(t *testing.T) {
	cases := []struct {
		name   string
		points []Vec2
		err    error
	}{
		{"triangle_ccw", []Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}, nil},
		{"triangle_cw", []Vec2{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 0}}, nil},
		{"square", []Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, nil},
		{"arrow_concave", []Vec2{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 10}, {X: 3, Y: 5}}, ErrNotConvex},
		{"too_few", []Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}, ErrEmptyShape},
		{"degenerate_line", []Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}, ErrNotConvex},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := NewConvexPolygon(c.points)
			if !errors.Is(err, c.err) {
				t.Fatalf("expected %v, got %v", c.err, err)
			}
			if err == nil && signedArea(s.Points) <= 0 {
				t.Fatalf("points should be stored counter-clockwise")
			}
		})
	}
}

func TestShapeBounds(t *testing.T) {
	poly, _ := NewConvexPolygon([]Vec2{{X: 1, Y: 2}, {X: 5, Y: 2}, {X: 3, Y: 8}})
	cases := []struct {
		name  string
		shape Shape
		want  BB
	}{
		{"rect", NewRect(10, 4), BB{L: -5, B: -2, R: 5, T: 2}},
		{"circle", NewCircle(3), BB{L: -3, B: -3, R: 3, T: 3}},
		{"polygon", poly, BB{L: 1, B: 2, R: 5, T: 8}},
		{"compound", NewCompound(
			ShapePart{Offset: Vec2{X: -10}, Shape: NewRect(2, 2)},
			ShapePart{Offset: Vec2{Y: 10}, Shape: NewCircle(1)},
		), BB{L: -11, B: -1, R: 1, T: 11}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.shape.Bounds(); got != c.want {
				t.Fatalf("expected %+v, got %+v", c.want, got)
			}
		})
	}
}

func TestShapeEqual(t *testing.T) {
	a := NewCompound(ShapePart{Shape: NewRect(1, 2)})
	b := NewCompound(ShapePart{Shape: NewRect(1, 2)})
	if !a.Equal(b) {
		t.Fatalf("identical compounds should be equal")
	}
	if a.Equal(NewRect(1, 2)) {
		t.Fatalf("different kinds should not be equal")
	}
}

func TestIntersection(t *testing.T) {
	a := BB{L: 0, B: 0, R: 10, T: 10}
	touching := BB{L: 10, B: 0, R: 20, T: 10}
	apart := BB{L: 11, B: 0, R: 20, T: 10}
	if got, ok := Intersection(a, touching); !ok || got.L != 10 || got.R != 10 {
		t.Fatalf("touching boxes should intersect on an edge, got %+v %v", got, ok)
	}
	if _, ok := Intersection(a, apart); ok {
		t.Fatalf("separated boxes should not intersect")
	}
}
