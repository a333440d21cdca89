package component

import "github.com/milk9111/autogamer/physics"

// Position is an entity origin in y-up world units.
type Position struct {
	X float64
	Y float64
}

func (p Position) Vec() physics.Vec2 {
	return physics.Vec2{X: p.X, Y: p.Y}
}

func (p *Position) Set(v physics.Vec2) {
	p.X, p.Y = v.X, v.Y
}

var PositionComponent = NewComponent[Position]()
