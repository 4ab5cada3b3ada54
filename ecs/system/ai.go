package system

import (
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
)

type AISystem struct{}

func NewAISystem() *AISystem { return &AISystem{} }

// Update ticks each enemy's pursuit agent, consumes the animation triggers
// it fired and reports state changes.
func (s *AISystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	ecs.ForEach(w, component.EnemyComponent.Kind(), func(e ecs.Entity, en *component.Enemy) {
		if en == nil || en.Agent == nil || ecs.Has(w, e, component.DeadComponent.Kind()) {
			return
		}
		en.Agent.Update(dt)
		for _, trigger := range en.Animator.DrainTriggers() {
			w.Logger().Debug("ai: animation", "enemy", en.Name, "trigger", trigger)
		}

		state := en.Agent.State()
		if state == en.LastState {
			return
		}
		w.Logger().Debug("ai: state", "enemy", en.Name, "from", en.LastState.String(), "to", state.String())
		w.Emit(ecs.Event{
			Type:     ecs.EventStateChange,
			Entity:   e,
			Position: en.Agent.Frame().WorldPosition(),
			Detail:   state.String(),
		})
		en.LastState = state
	})
}
