package system

import (
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
)

// PlatformSystem advances moving platforms along their timelines. One
// instance runs in the fixed pass and one in the variable pass; each only
// touches platforms whose FixedStep matches.
type PlatformSystem struct {
	fixed bool
}

func NewPlatformSystem(fixed bool) *PlatformSystem { return &PlatformSystem{fixed: fixed} }

func (s *PlatformSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	ecs.ForEach2(w, component.PlatformComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Platform, t *component.Transform) {
		if p == nil || t == nil || t.Frame == nil || p.Timeline == nil || p.FixedStep != s.fixed {
			return
		}
		p.Timeline.Advance(dt)
		pos := p.Timeline.Position()
		t.Frame.SetWorldPosition(pos)
		w.PhysicsWorld().SetPosition(e, pos)
	})
}
