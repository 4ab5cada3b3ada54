package system

import (
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
)

type NavigationSystem struct{}

func NewNavigationSystem() *NavigationSystem { return &NavigationSystem{} }

// Update walks every live enemy along the path its agent requested on the
// previous tick. It runs before the AISystem so an attacking agent's halt is
// the last word on movement for the tick.
func (s *NavigationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	ecs.ForEach(w, component.EnemyComponent.Kind(), func(e ecs.Entity, en *component.Enemy) {
		if en == nil || en.Nav == nil || ecs.Has(w, e, component.DeadComponent.Kind()) {
			return
		}
		en.Nav.Update(dt)
	})
}
