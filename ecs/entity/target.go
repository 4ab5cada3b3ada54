package entity

import (
	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
)

// EntityTarget is a pursuit target that follows a live entity. A dead or
// destroyed entity has no position.
type EntityTarget struct {
	World  *ecs.World
	Entity ecs.Entity
}

func (t EntityTarget) Position() (common.Vec3, bool) {
	if t.World == nil || !ecs.IsAlive(t.World, t.Entity) || ecs.Has(t.World, t.Entity, component.DeadComponent.Kind()) {
		return common.Vec3{}, false
	}
	tr, ok := ecs.Get(t.World, t.Entity, component.TransformComponent.Kind())
	if !ok || tr == nil || tr.Frame == nil {
		return common.Vec3{}, false
	}
	return tr.Frame.WorldPosition(), true
}

// FindByTag returns the lowest entity carrying the scene tag name.
func FindByTag(w *ecs.World, name string) (ecs.Entity, bool) {
	var (
		found ecs.Entity
		ok    bool
	)
	ecs.ForEach(w, component.TagComponent.Kind(), func(e ecs.Entity, tag *component.Tag) {
		if ok || tag == nil || tag.Name != name {
			return
		}
		found, ok = e, true
	})
	return found, ok
}

// Scene answers tag and overlap lookups against a world.
type Scene struct {
	World *ecs.World
}

var _ core.SceneQuery = Scene{}

func (s Scene) FindEntityByTag(tag string) (core.EntityHandle, bool) {
	if s.World == nil {
		return 0, false
	}
	e, ok := FindByTag(s.World, tag)
	if !ok {
		return 0, false
	}
	return e.Handle(), true
}

func (s Scene) OverlapSphere(center common.Vec3, radius float64) []core.EntityHandle {
	if s.World == nil || s.World.PhysicsWorld() == nil {
		return nil
	}
	hits := s.World.PhysicsWorld().OverlapSphere(center, radius)
	out := make([]core.EntityHandle, 0, len(hits))
	for _, e := range hits {
		out = append(out, e.Handle())
	}
	return out
}

// TargetByTag resolves tag through q into a pursuit target on w.
func TargetByTag(w *ecs.World, q core.SceneQuery, tag string) (EntityTarget, bool) {
	if w == nil || q == nil {
		return EntityTarget{}, false
	}
	h, ok := q.FindEntityByTag(tag)
	if !ok {
		return EntityTarget{}, false
	}
	return EntityTarget{World: w, Entity: ecs.EntityFromHandle(h)}, true
}
