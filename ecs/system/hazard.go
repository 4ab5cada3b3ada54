package system

import (
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
)

const hazardSensorTag = "hazard"

type HazardSystem struct{}

func NewHazardSystem() *HazardSystem { return &HazardSystem{} }

// Update damages every living actor standing in a hazard sensor. Kill
// hazards drain the pool outright; the rest go through the usual damage
// rules so the invulnerability window spaces out repeated hits.
func (s *HazardSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.PhysicsWorld()
	ecs.ForEach(w, component.HealthComponent.Kind(), func(e ecs.Entity, h *component.Health) {
		if h == nil || h.Pool == nil || !h.Pool.IsAlive() || ecs.Has(w, e, component.DeadComponent.Kind()) {
			return
		}
		for _, src := range pw.SensorsTouching(e, hazardSensorTag) {
			hz, ok := ecs.Get(w, src, component.HazardComponent.Kind())
			if !ok || hz == nil {
				continue
			}
			if hz.Kill {
				remaining := h.Pool.Current()
				h.Pool.Kill()
				w.Emit(ecs.Event{Type: ecs.EventDamage, Entity: e, Source: src, Amount: remaining, Position: positionOf(w, e), Detail: "kill"})
				return
			}
			damage(w, e, src, hz.Damage)
			if !h.Pool.IsAlive() {
				return
			}
		}
	})
}
