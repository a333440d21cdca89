package system

import (
	"image"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/autogamer/ecs"
	"github.com/milk9111/autogamer/ecs/component"
	"github.com/milk9111/autogamer/ecs/resource"
	"github.com/milk9111/autogamer/physics"
)

type RenderSystem struct {
	textures map[image.Image]*ebiten.Image
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{textures: make(map[image.Image]*ebiten.Image)}
}

func (r *RenderSystem) texture(s *component.Sprite) *ebiten.Image {
	if s.Image != nil {
		return s.Image
	}
	if s.Source == nil {
		return nil
	}
	if img, ok := r.textures[s.Source]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(s.Source)
	r.textures[s.Source] = img
	return img
}

// Draw renders every positioned sprite through the viewport, lowest draw
// order first.
func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image, viewport resource.Viewport) {
	if r == nil || w == nil || screen == nil {
		return
	}
	bounds := screen.Bounds()
	sw, sh := float64(bounds.Dx()), float64(bounds.Dy())
	sx, sy := viewport.Scale(sw, sh)

	for _, e := range drawList(w) {
		pos, ok := ecs.Get(w, e, component.PositionComponent.Kind())
		if !ok {
			continue
		}
		s, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
		if !ok {
			continue
		}
		img := r.texture(s)
		if img == nil {
			continue
		}

		ib := img.Bounds()
		iw, ih := float64(ib.Dx()), float64(ib.Dy())
		if iw == 0 || ih == 0 {
			continue
		}
		width, height := s.Width, s.Height
		if width <= 0 || height <= 0 {
			width, height = iw, ih
		}

		origin := anchorOrigin(s.Align, pos.Vec(), width, height)
		x, y := viewport.ToScreen(physics.Vec2{X: origin.X, Y: origin.Y + height}, sw, sh)

		op := &ebiten.DrawImageOptions{}
		op.GeoM = flipGeoM(s, iw, ih)
		bw, bh := iw, ih
		if s.FlipDiagonal {
			bw, bh = ih, iw
		}
		op.GeoM.Scale(width/bw*sx, height/bh*sy)
		op.GeoM.Translate(x, y)
		if s.Opacity > 0 && s.Opacity < 1 {
			op.ColorScale.ScaleAlpha(float32(s.Opacity))
		}
		screen.DrawImage(img, op)
	}
}

// drawList returns sprite entities sorted by draw order. Equal orders keep
// entity index order.
func drawList(w *ecs.World) []ecs.Entity {
	entities := ecs.Query(w, component.SpriteComponent.Kind())
	order := make(map[ecs.Entity]int, len(entities))
	for _, e := range entities {
		s, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
		order[e] = s.DrawOrder
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return order[entities[i]] < order[entities[j]]
	})
	return entities
}

// anchorOrigin is the world bottom-left corner of a width x height image
// whose align point sits at pos.
func anchorOrigin(align component.Align, pos physics.Vec2, width, height float64) physics.Vec2 {
	out := pos
	switch align {
	case component.AlignTop, component.AlignCenter, component.AlignBottom:
		out.X -= width / 2
	case component.AlignTopRight, component.AlignRight, component.AlignBottomRight:
		out.X -= width
	}
	switch align {
	case component.AlignLeft, component.AlignCenter, component.AlignRight:
		out.Y -= height / 2
	case component.AlignTopLeft, component.AlignTop, component.AlignTopRight:
		out.Y -= height
	}
	return out
}

// flipGeoM maps the image into its unscaled box, applying the diagonal
// flip before the horizontal and vertical ones as Tiled does.
func flipGeoM(s *component.Sprite, iw, ih float64) ebiten.GeoM {
	var g ebiten.GeoM
	bw, bh := iw, ih
	if s.FlipDiagonal {
		g.SetElement(0, 0, 0)
		g.SetElement(0, 1, 1)
		g.SetElement(1, 0, 1)
		g.SetElement(1, 1, 0)
		bw, bh = ih, iw
	}
	if s.FlipHorizontal {
		g.Scale(-1, 1)
		g.Translate(bw, 0)
	}
	if s.FlipVertical {
		g.Scale(1, -1)
		g.Translate(0, bh)
	}
	return g
}
