package level

import (
	"errors"

	"github.com/lafriks/go-tiled"
	"github.com/milk9111/autogamer/physics"
)

// collisionShape converts a tile's collision objects to a single shape in
// world units relative to the tile's bottom-left corner. It returns false
// when the tile has no collision objects.
func collisionShape(gid uint32, groups []*tiled.ObjectGroup, tileHeight float64) (physics.Shape, physics.Vec2, bool, error) {
	var parts []physics.ShapePart
	for _, group := range groups {
		if group == nil {
			continue
		}
		for _, obj := range group.Objects {
			part, err := objectShape(gid, obj, tileHeight)
			if err != nil {
				return physics.Shape{}, physics.Vec2{}, false, err
			}
			parts = append(parts, part)
		}
	}
	switch len(parts) {
	case 0:
		return physics.Shape{}, physics.Vec2{}, false, nil
	case 1:
		return parts[0].Shape, parts[0].Offset, true, nil
	default:
		return physics.NewCompound(parts...), physics.Vec2{}, true, nil
	}
}

// objectShape flips a Tiled object (y down from the tile's top edge) into
// a shape centered at its returned offset.
func objectShape(gid uint32, obj *tiled.Object, tileHeight float64) (physics.ShapePart, error) {
	toWorld := func(x, y float64) physics.Vec2 {
		return physics.Vec2{X: x, Y: tileHeight - y}
	}

	switch {
	case len(obj.Polygons) > 0:
		var points []physics.Vec2
		if poly := obj.Polygons[0]; poly != nil && poly.Points != nil {
			for _, p := range *poly.Points {
				points = append(points, toWorld(obj.X+p.X, obj.Y+p.Y))
			}
		}
		shape, err := physics.NewConvexPolygon(points)
		if errors.Is(err, physics.ErrNotConvex) {
			return physics.ShapePart{}, unsupported("tile %d: only convex polygons are supported", gid)
		}
		if err != nil {
			return physics.ShapePart{}, unsupported("tile %d: %v", gid, err)
		}
		return physics.ShapePart{Shape: shape}, nil

	case len(obj.PolyLines) > 0:
		var points []physics.Vec2
		if line := obj.PolyLines[0]; line != nil && line.Points != nil {
			for _, p := range *line.Points {
				points = append(points, toWorld(obj.X+p.X, obj.Y+p.Y))
			}
		}
		shape, err := physics.NewPolyline(points)
		if err != nil {
			return physics.ShapePart{}, unsupported("tile %d: %v", gid, err)
		}
		return physics.ShapePart{Shape: shape}, nil

	case len(obj.Ellipses) > 0:
		if obj.Width != obj.Height {
			return physics.ShapePart{}, unsupported("tile %d: only circular ellipses are supported", gid)
		}
		if obj.Width <= 0 {
			return physics.ShapePart{}, unsupported("tile %d: empty ellipse", gid)
		}
		center := toWorld(obj.X+obj.Width/2, obj.Y+obj.Height/2)
		return physics.ShapePart{Offset: center, Shape: physics.NewCircle(obj.Width / 2)}, nil

	case obj.Width == 0 && obj.Height == 0:
		return physics.ShapePart{}, unsupported("tile %d: point collision shapes are not supported", gid)
	}

	center := toWorld(obj.X+obj.Width/2, obj.Y+obj.Height/2)
	return physics.ShapePart{Offset: center, Shape: physics.NewRect(obj.Width, obj.Height)}, nil
}
