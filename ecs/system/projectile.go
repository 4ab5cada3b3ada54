package system

import (
	"math"

	"github.com/milk9111/reverie/common"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/ecs/entity"
)

type ProjectileSystem struct{}

func NewProjectileSystem() *ProjectileSystem { return &ProjectileSystem{} }

// Update flies every projectile along its heading. A projectile is spent on
// the first enemy or solid it touches; its source is never hit. The path is
// checked in radius-sized steps so fast shots cannot skip a target.
func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	if dt <= 0 {
		return
	}
	pw := w.PhysicsWorld()
	var spent []ecs.Entity
	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Projectile, t *component.Transform) {
		if p == nil || t == nil || t.Frame == nil {
			return
		}
		from := t.Frame.WorldPosition()
		travel := p.Speed * dt
		steps := 1
		if p.Radius > 0 {
			steps = max(1, int(math.Ceil(travel/p.Radius)))
		}
		for i := 1; i <= steps; i++ {
			pos := from.Add(p.Direction.Scale(travel * float64(i) / float64(steps)))
			t.Frame.SetWorldPosition(pos)
			pw.SetPosition(e, pos)
			if s.impact(w, e, p, pos) {
				spent = append(spent, e)
				return
			}
		}
	})
	for _, e := range spent {
		ecs.DestroyEntity(w, e)
	}
}

// impact reports whether the projectile at pos hit something, damaging the
// first living enemy it touches.
func (s *ProjectileSystem) impact(w *ecs.World, e ecs.Entity, p *component.Projectile, pos common.Vec3) bool {
	pw := w.PhysicsWorld()
	source := ecs.EntityFromHandle(p.Source)
	for _, target := range pw.OverlapSphere(pos, p.Radius) {
		if target == source || !ecs.Has(w, target, component.EnemyTagComponent.Kind()) {
			continue
		}
		if ecs.Has(w, target, component.DeadComponent.Kind()) {
			continue
		}
		w.Logger().Debug("projectile: hit", "attack", p.Attack, "target", target.String())
		damage(w, target, source, p.Damage)
		return true
	}
	return len(pw.Overlapping(e, entity.ProjectileSensorTag, ecs.RoleSolid)) > 0
}
