package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	repeatDelay    = 30
	repeatInterval = 5
)

var ebitenKeys = map[Key]ebiten.Key{
	KeyLeft:   ebiten.KeyArrowLeft,
	KeyRight:  ebiten.KeyArrowRight,
	KeyUp:     ebiten.KeyArrowUp,
	KeyDown:   ebiten.KeyArrowDown,
	KeySpace:  ebiten.KeySpace,
	KeyEscape: ebiten.KeyEscape,
	KeyEnter:  ebiten.KeyEnter,
	KeyP:      ebiten.KeyP,
	KeyA:      ebiten.KeyA,
	KeyD:      ebiten.KeyD,
	KeyW:      ebiten.KeyW,
	KeyS:      ebiten.KeyS,
}

// EbitenSource polls the ebiten keyboard state once per tick. Escape and
// closing the window are reported as quit requests.
type EbitenSource struct {
	order []Key
}

func NewEbitenSource() *EbitenSource {
	order := make([]Key, 0, len(ebitenKeys))
	for k := KeyLeft; k <= KeyS; k++ {
		if _, ok := ebitenKeys[k]; ok {
			order = append(order, k)
		}
	}
	return &EbitenSource{order: order}
}

func (s *EbitenSource) Poll(emit func(Event)) {
	if ebiten.IsWindowBeingClosed() {
		emit(Quit())
	}
	mods := currentModifiers()
	for _, k := range s.order {
		ek := ebitenKeys[k]
		switch {
		case inpututil.IsKeyJustPressed(ek):
			if k == KeyEscape {
				emit(Quit())
				continue
			}
			emit(Press(k, mods))
		case inpututil.IsKeyJustReleased(ek):
			emit(Release(k, mods))
		default:
			d := inpututil.KeyPressDuration(ek)
			if d > repeatDelay && (d-repeatDelay)%repeatInterval == 0 {
				ev := Press(k, mods)
				ev.Repeat = true
				emit(ev)
			}
		}
	}
}

func currentModifiers() Modifiers {
	var m Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= ModAlt
	}
	return m
}
