package system

import (
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
)

// riderSensorTag is the shape tag of a platform's detection volume.
const riderSensorTag = "riders"

// RiderSystem forwards platform displacement to riders. It must run right
// after the PlatformSystem of the same pass and before anything moves the
// riders themselves.
type RiderSystem struct {
	fixed bool
}

func NewRiderSystem(fixed bool) *RiderSystem { return &RiderSystem{fixed: fixed} }

func (s *RiderSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.PhysicsWorld()
	ecs.ForEach2(w, component.PlatformComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Platform, t *component.Transform) {
		if p == nil || t == nil || t.Frame == nil || p.Riders == nil || p.FixedStep != s.fixed {
			return
		}
		delta := p.Riders.Track(t.Frame.WorldPosition())
		p.Riders.Propagate(delta)

		inside := map[core.EntityHandle]bool{}
		for _, r := range pw.Overlapping(e, riderSensorTag, ecs.RoleActor) {
			if !ecs.Has(w, r, component.RiderComponent.Kind()) || ecs.Has(w, r, component.DeadComponent.Kind()) {
				continue
			}
			h := r.Handle()
			inside[h] = true
			if p.Riders.Contains(h) {
				continue
			}
			b, ok := riderBinding(w, r)
			if !ok {
				continue
			}
			if p.Riders.OnEnter(h, b) {
				w.Logger().Debug("rider: boarded", "platform", p.Name, "rider", r.String())
			}
		}
		for _, h := range p.Riders.Riders() {
			if inside[h] {
				continue
			}
			if p.Riders.OnExit(h) {
				w.Logger().Debug("rider: left", "platform", p.Name, "rider", ecs.EntityFromHandle(h).String())
			}
		}
		p.Riders.Reapply(delta)

		if p.Riders.Strategy() == core.RiderParenting {
			syncRiderBodies(w, p.Riders.Riders())
		}
	})
}

func riderBinding(w *ecs.World, e ecs.Entity) (core.RiderBinding, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil || t.Frame == nil {
		return core.RiderBinding{}, false
	}
	b := core.RiderBinding{Frame: t.Frame}
	if m, ok := ecs.Get(w, e, component.MoverComponent.Kind()); ok && m != nil && m.Integrator != nil {
		b.Mover = m.Integrator
	}
	return b, true
}

// syncRiderBodies moves the physics bodies of parented riders to where
// their frames now are.
func syncRiderBodies(w *ecs.World, riders []core.EntityHandle) {
	for _, h := range riders {
		e := ecs.EntityFromHandle(h)
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || t == nil || t.Frame == nil {
			continue
		}
		w.PhysicsWorld().SetPosition(e, t.Frame.WorldPosition())
	}
}
