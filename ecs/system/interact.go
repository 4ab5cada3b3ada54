package system

import (
	"github.com/milk9111/reverie/common"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/ecs/entity"
)

type InteractSystem struct{}

func NewInteractSystem() *InteractSystem { return &InteractSystem{} }

// Update handles the interact button: one press does at most one thing,
// trying the staff first, then a chicken on the ground, then a closed box.
// Carried chickens follow their carrier every tick and drop when it dies.
func (s *InteractSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	player, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	s.carry(w)
	if ecs.Has(w, player, component.DeadComponent.Kind()) {
		return
	}
	p, _ := ecs.Get(w, player, component.PlayerComponent.Kind())
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if p == nil || !ok || t == nil || t.Frame == nil || !p.InteractPressed {
		return
	}
	pos := t.Frame.WorldPosition()
	switch {
	case s.equipStaff(w, player, pos):
	case s.pickUpChicken(w, player, pos):
	case s.openBox(w, player, pos):
	}
}

func (s *InteractSystem) equipStaff(w *ecs.World, player ecs.Entity, pos common.Vec3) bool {
	done := false
	ecs.ForEach2(w, component.StaffPickupComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, sp *component.StaffPickup, t *component.Transform) {
		if done || sp == nil || t == nil || t.Frame == nil || t.Frame.WorldPosition().Dist(pos) > sp.InteractRadius {
			return
		}
		if err := entity.EquipStaff(w, player, sp.Weapon); err != nil {
			w.Logger().Warn("interact: staff", "staff", sp.Name, "err", err)
			return
		}
		done = true
		w.Logger().Info("interact: staff equipped", "staff", sp.Name, "attacks", len(sp.Weapon.Attacks))
		w.Emit(ecs.Event{Type: ecs.EventPickup, Entity: player, Source: e, Position: t.Frame.WorldPosition(), Detail: "staff"})
		ecs.DestroyEntity(w, e)
	})
	return done
}

func (s *InteractSystem) pickUpChicken(w *ecs.World, player ecs.Entity, pos common.Vec3) bool {
	if s.carrying(w, player) {
		return false
	}
	done := false
	ecs.ForEach2(w, component.CarryableComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Carryable, t *component.Transform) {
		if done || c == nil || c.Carrier != 0 || t == nil || t.Frame == nil {
			return
		}
		if t.Frame.WorldPosition().Dist(pos) > c.PickupRadius {
			return
		}
		c.Carrier = player.Handle()
		done = true
		w.Logger().Info("interact: carrying", "item", c.Name)
		w.Emit(ecs.Event{Type: ecs.EventPickup, Entity: player, Source: e, Position: t.Frame.WorldPosition(), Detail: "chicken"})
	})
	if done {
		s.carry(w)
	}
	return done
}

func (s *InteractSystem) openBox(w *ecs.World, player ecs.Entity, pos common.Vec3) bool {
	done := false
	ecs.ForEach2(w, component.BoxComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *component.Box, t *component.Transform) {
		if done || b == nil || b.Opened || t == nil || t.Frame == nil {
			return
		}
		at := t.Frame.WorldPosition()
		if at.Dist(pos) > b.InteractRadius {
			return
		}
		b.Opened = true
		done = true
		if _, err := entity.NewChicken(w, b.Name+"-chicken", at, b.PickupRadius, b.CarryHeight); err != nil {
			w.Logger().Warn("interact: box", "box", b.Name, "err", err)
		}
		w.Logger().Info("interact: box opened", "box", b.Name)
		w.Emit(ecs.Event{Type: ecs.EventInteract, Entity: player, Source: e, Position: at, Detail: "box"})
		ecs.DestroyEntity(w, e)
	})
	return done
}

func (s *InteractSystem) carrying(w *ecs.World, player ecs.Entity) bool {
	held := false
	ecs.ForEach(w, component.CarryableComponent.Kind(), func(_ ecs.Entity, c *component.Carryable) {
		if c != nil && c.Carrier == player.Handle() {
			held = true
		}
	})
	return held
}

// carry keeps carried items above their carrier. An item whose carrier is
// gone or dead is set down where the carrier was.
func (s *InteractSystem) carry(w *ecs.World) {
	ecs.ForEach2(w, component.CarryableComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Carryable, t *component.Transform) {
		if c == nil || c.Carrier == 0 || t == nil || t.Frame == nil {
			return
		}
		carrier := ecs.EntityFromHandle(c.Carrier)
		ct, ok := ecs.Get(w, carrier, component.TransformComponent.Kind())
		if !ok || ct == nil || ct.Frame == nil || ecs.Has(w, carrier, component.DeadComponent.Kind()) {
			c.Carrier = 0
			t.Frame.SetWorldPosition(t.Frame.WorldPosition().Sub(common.V3(0, c.CarryHeight, 0)))
			w.Logger().Debug("interact: dropped", "item", c.Name)
			return
		}
		t.Frame.SetWorldPosition(ct.Frame.WorldPosition().Add(common.V3(0, c.CarryHeight, 0)))
	})
}
