package system

import (
	"github.com/milk9111/reverie/common"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
)

type CheckpointSystem struct{}

func NewCheckpointSystem() *CheckpointSystem { return &CheckpointSystem{} }

// Update saves a respawn point whenever an entity with a tracker stands on
// a checkpoint island, and teleports it back when it falls below the kill
// height.
func (s *CheckpointSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.PhysicsWorld()
	ecs.ForEach2(w, component.RespawnComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, r *component.Respawn, t *component.Transform) {
		if r == nil || r.Tracker == nil || t == nil || t.Frame == nil || ecs.Has(w, e, component.DeadComponent.Kind()) {
			return
		}

		if ground, contact, normalY, ok := pw.GroundContact(e); ok {
			if cp, ok := ecs.Get(w, ground, component.CheckpointComponent.Kind()); ok && cp != nil {
				r.Tracker.RegisterIsland(cp.Island, contact, normalY)
			}
		}

		pos, ok := r.Tracker.Check(t.Frame.WorldPosition())
		if !ok {
			return
		}
		t.Frame.SetWorldPosition(pos)
		if m, ok := ecs.Get(w, e, component.MoverComponent.Kind()); ok && m != nil {
			m.Velocity = common.Vec3{}
			m.Grounded = false
		}
		pw.SetPosition(e, pos)
		w.Logger().Debug("checkpoint: teleported", "entity", e.String())
		w.Emit(ecs.Event{Type: ecs.EventRespawn, Entity: e, Position: pos})
	})
}
