package physics

import (
	"errors"
	"math"
	"slices"
	"sort"
)

var (
	ErrNotConvex    = errors.New("physics: polygon is not convex")
	ErrEmptyShape   = errors.New("physics: shape has no points")
	ErrInvalidShape = errors.New("physics: invalid shape dimensions")
)

type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota + 1
	ShapeCircle
	ShapePolyline
	ShapeConvexPolygon
	ShapeCompound
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRect:
		return "rect"
	case ShapeCircle:
		return "circle"
	case ShapePolyline:
		return "polyline"
	case ShapeConvexPolygon:
		return "convex polygon"
	case ShapeCompound:
		return "compound"
	default:
		return "unknown"
	}
}

// Shape is collision geometry in the collider's local space. Rects and
// circles are centered on the local origin; polylines and polygons use
// their points as given.
type Shape struct {
	Kind   ShapeKind
	Width  float64
	Height float64
	Radius float64
	Points []Vec2
	Parts  []ShapePart
}

// ShapePart is one offset piece of a compound shape.
type ShapePart struct {
	Offset Vec2
	Shape  Shape
}

func NewRect(width, height float64) Shape {
	return Shape{Kind: ShapeRect, Width: width, Height: height}
}

func NewCircle(radius float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius}
}

func NewPolyline(points []Vec2) (Shape, error) {
	if len(points) < 2 {
		return Shape{}, ErrEmptyShape
	}
	return Shape{Kind: ShapePolyline, Points: slices.Clone(points)}, nil
}

// NewConvexPolygon validates points and stores them counter-clockwise.
func NewConvexPolygon(points []Vec2) (Shape, error) {
	if len(points) < 3 {
		return Shape{}, ErrEmptyShape
	}
	pts := slices.Clone(points)
	if signedArea(pts) < 0 {
		slices.Reverse(pts)
	}
	if !isConvex(pts) {
		return Shape{}, ErrNotConvex
	}
	return Shape{Kind: ShapeConvexPolygon, Points: pts}, nil
}

func NewCompound(parts ...ShapePart) Shape {
	return Shape{Kind: ShapeCompound, Parts: slices.Clone(parts)}
}

// Bounds is the local axis-aligned bounding box of the shape.
func (s Shape) Bounds() BB {
	switch s.Kind {
	case ShapeRect:
		return BB{L: -s.Width / 2, B: -s.Height / 2, R: s.Width / 2, T: s.Height / 2}
	case ShapeCircle:
		return BB{L: -s.Radius, B: -s.Radius, R: s.Radius, T: s.Radius}
	case ShapePolyline, ShapeConvexPolygon:
		return pointBounds(s.Points)
	case ShapeCompound:
		var out BB
		for i, p := range s.Parts {
			bb := Translate(p.Shape.Bounds(), p.Offset)
			if i == 0 {
				out = bb
				continue
			}
			out = BB{L: min(out.L, bb.L), B: min(out.B, bb.B), R: max(out.R, bb.R), T: max(out.T, bb.T)}
		}
		return out
	default:
		return BB{}
	}
}

// Validate reports geometry the engine cannot build.
func (s Shape) Validate() error {
	switch s.Kind {
	case ShapeRect:
		if s.Width <= 0 || s.Height <= 0 {
			return ErrInvalidShape
		}
	case ShapeCircle:
		if s.Radius <= 0 {
			return ErrInvalidShape
		}
	case ShapePolyline:
		if len(s.Points) < 2 {
			return ErrEmptyShape
		}
	case ShapeConvexPolygon:
		if len(s.Points) < 3 {
			return ErrEmptyShape
		}
		if !isConvex(s.Points) {
			return ErrNotConvex
		}
	case ShapeCompound:
		if len(s.Parts) == 0 {
			return ErrEmptyShape
		}
		for _, p := range s.Parts {
			if err := p.Shape.Validate(); err != nil {
				return err
			}
		}
	default:
		return ErrInvalidShape
	}
	return nil
}

func (s Shape) Equal(o Shape) bool {
	if s.Kind != o.Kind || s.Width != o.Width || s.Height != o.Height || s.Radius != o.Radius {
		return false
	}
	if !slices.Equal(s.Points, o.Points) || len(s.Parts) != len(o.Parts) {
		return false
	}
	for i := range s.Parts {
		if s.Parts[i].Offset != o.Parts[i].Offset || !s.Parts[i].Shape.Equal(o.Parts[i].Shape) {
			return false
		}
	}
	return true
}

func pointBounds(points []Vec2) BB {
	if len(points) == 0 {
		return BB{}
	}
	out := BB{L: points[0].X, B: points[0].Y, R: points[0].X, T: points[0].Y}
	for _, p := range points[1:] {
		out.L = min(out.L, p.X)
		out.B = min(out.B, p.Y)
		out.R = max(out.R, p.X)
		out.T = max(out.T, p.Y)
	}
	return out
}

func signedArea(points []Vec2) float64 {
	area := 0.0
	for i, p := range points {
		q := points[(i+1)%len(points)]
		area += p.X*q.Y - q.X*p.Y
	}
	return area / 2
}

// isConvex expects counter-clockwise points. Collinear runs are allowed.
func isConvex(points []Vec2) bool {
	n := len(points)
	if math.Abs(signedArea(points)) < 1e-9 {
		return false
	}
	for i := 0; i < n; i++ {
		a, b, c := points[i], points[(i+1)%n], points[(i+2)%n]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross < -1e-9 {
			return false
		}
	}
	return true
}

func sortIndices(indices []uint32) {
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
}
