package component

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Align says which point of an image sits on the entity position.
type Align uint8

const (
	AlignBottomLeft Align = iota
	AlignTopLeft
	AlignTop
	AlignTopRight
	AlignLeft
	AlignCenter
	AlignRight
	AlignBottom
	AlignBottomRight
)

// Draw orders, lowest first.
const (
	DrawOrderTile      = 0
	DrawOrderObject    = 1
	DrawOrderCharacter = 2
)

// Sprite is an image drawn at the entity position. When Image is nil the
// renderer uploads Source once and reuses the texture for every sprite
// sharing it.
type Sprite struct {
	Image          *ebiten.Image
	Source         image.Image
	Width          float64
	Height         float64
	Align          Align
	FlipHorizontal bool
	FlipVertical   bool
	FlipDiagonal   bool
	// Opacity of 0 draws fully opaque.
	Opacity   float64
	DrawOrder int
}

var SpriteComponent = NewComponent[Sprite]()
