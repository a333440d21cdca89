package system

import (
	"log"

	"github.com/milk9111/autogamer/ecs"
	"github.com/milk9111/autogamer/ecs/component"
	"github.com/milk9111/autogamer/ecs/resource"
	"github.com/milk9111/autogamer/physics"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ViewportSystem keeps resource.Viewport centered on the ViewportTarget.
// When the target moves more than SnapDistance in one frame the camera
// eases over TweenFrames instead of cutting.
type ViewportSystem struct {
	SnapDistance float64
	TweenFrames  int

	last    physics.Vec2
	hasLast bool
	warned  bool
	tween   *gween.Tween
	offset  physics.Vec2
}

func NewViewportSystem(snapDistance float64, tweenFrames int) *ViewportSystem {
	return &ViewportSystem{SnapDistance: snapDistance, TweenFrames: tweenFrames}
}

func (s *ViewportSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	viewport, ok := ecs.Resource[resource.Viewport](w)
	if !ok {
		return
	}

	var targets []ecs.Entity
	var target physics.Vec2
	ecs.ForEach2(w, component.ViewportTargetComponent.Kind(), component.PositionComponent.Kind(), func(e ecs.Entity, _ *component.ViewportTarget, pos *component.Position) {
		if len(targets) == 0 {
			target = pos.Vec()
		}
		targets = append(targets, e)
	})
	if len(targets) == 0 {
		return
	}
	if len(targets) > 1 && !s.warned {
		log.Printf("Warning: ViewportSystem: %d viewport targets, following %v", len(targets), targets[0])
		s.warned = true
	}

	if s.hasLast && s.TweenFrames > 0 && s.SnapDistance > 0 && target.Distance(s.last) > s.SnapDistance {
		s.offset = viewport.Center().Sub(target)
		s.tween = gween.New(1, 0, float32(s.TweenFrames), ease.OutQuad)
	}
	s.last, s.hasLast = target, true

	center := target
	if s.tween != nil {
		k, done := s.tween.Update(1)
		if done {
			s.tween = nil
		} else {
			center = target.Add(s.offset.Mult(float64(k)))
		}
	}

	if viewport.Center() != center {
		viewport.CenterOn(center)
	}
}

// Easing reports whether a teleport transition is in progress.
func (s *ViewportSystem) Easing() bool {
	return s.tween != nil
}
