package resource

import "github.com/milk9111/autogamer/physics"

// Viewport is the visible world rectangle. X and Y are its bottom-left
// corner in y-up world units.
type Viewport struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func NewViewport(width, height float64) *Viewport {
	return &Viewport{Width: width, Height: height}
}

func (v Viewport) Center() physics.Vec2 {
	return physics.Vec2{X: v.X + v.Width/2, Y: v.Y + v.Height/2}
}

// CenterOn moves the viewport so c is in the middle.
func (v *Viewport) CenterOn(c physics.Vec2) {
	v.X = c.X - v.Width/2
	v.Y = c.Y - v.Height/2
}

func (v Viewport) Top() float64 {
	return v.Y + v.Height
}

// ToScreen maps a world point to screen pixels for a screen of the given
// width, assuming the viewport fills it.
func (v Viewport) ToScreen(p physics.Vec2, screenWidth, screenHeight float64) (float64, float64) {
	sx, sy := v.Scale(screenWidth, screenHeight)
	return (p.X - v.X) * sx, (v.Top() - p.Y) * sy
}

// Scale is the world to screen factor on each axis.
func (v Viewport) Scale(screenWidth, screenHeight float64) (float64, float64) {
	if v.Width <= 0 || v.Height <= 0 {
		return 1, 1
	}
	return screenWidth / v.Width, screenHeight / v.Height
}
