package system

import (
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
)

type PickupSystem struct{}

func NewPickupSystem() *PickupSystem { return &PickupSystem{} }

// Update lets the player collect power-ups in reach. Power-ups that need an
// interaction only trigger on the tick the player pressed interact.
func (s *PickupSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	player, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok || ecs.Has(w, player, component.DeadComponent.Kind()) {
		return
	}
	p, _ := ecs.Get(w, player, component.PlayerComponent.Kind())
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if p == nil || !ok || t == nil || t.Frame == nil {
		return
	}

	target := core.PowerUpTarget{Token: p.Token}
	if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok && h != nil {
		target.Health = h.Pool
	}
	if st, ok := ecs.Get(w, player, component.StatsComponent.Kind()); ok && st != nil && st.Block != nil {
		target.Stats = st.Block
	}
	pos := t.Frame.WorldPosition()

	ecs.ForEach(w, component.PowerUpComponent.Kind(), func(e ecs.Entity, pu *component.PowerUp) {
		if pu == nil || pu.Item == nil {
			return
		}
		if !pu.Item.TryCollect(target, pos, p.Input.Interact) {
			return
		}
		w.Logger().Info("pickup: collected", "powerup", pu.Name, "kind", string(pu.Item.Config().Kind))
		w.Emit(ecs.Event{
			Type:     ecs.EventPickup,
			Entity:   player,
			Source:   e,
			Position: pu.Item.Position(),
			Detail:   string(pu.Item.Config().Kind),
		})
	})
}
