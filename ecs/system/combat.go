package system

import (
	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/ecs/entity"
)

const defaultAttackDamage = 1.0

type CombatSystem struct{}

func NewCombatSystem() *CombatSystem { return &CombatSystem{} }

// Update resolves the attacks started this tick: enemy attacks recorded by
// the pursuit agents and the player's queued staff attack.
func (s *CombatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.resolveEnemyAttacks(w)
	s.resolvePlayerAttacks(w)
}

func (s *CombatSystem) resolveEnemyAttacks(w *ecs.World) {
	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, en *component.Enemy, t *component.Transform) {
		if en == nil || t == nil || t.Frame == nil || en.PendingAttacks == 0 {
			return
		}
		attacks := en.PendingAttacks
		en.PendingAttacks = 0
		if ecs.Has(w, e, component.DeadComponent.Kind()) || en.Agent == nil {
			return
		}
		pos := t.Frame.WorldPosition()
		radius := en.AttackReach
		if radius <= 0 {
			radius = en.Agent.Config().AttackRadius
		}
		for i := 0; i < attacks; i++ {
			w.Emit(ecs.Event{Type: ecs.EventAttack, Entity: e, Position: pos})
			for _, target := range w.PhysicsWorld().OverlapSphere(pos, radius) {
				if !ecs.Has(w, target, component.PlayerTagComponent.Kind()) {
					continue
				}
				damage(w, target, e, en.ContactDamage)
			}
		}
	})
}

// resolvePlayerAttacks starts a staff attack. The projectile leaves the
// staff after the windup; the cooldown runs from the button press.
func (s *CombatSystem) resolvePlayerAttacks(w *ecs.World) {
	now := w.Clock().Now()
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Player, t *component.Transform) {
		if p == nil || t == nil || t.Frame == nil || !p.AttackQueued {
			return
		}
		p.AttackQueued = false
		if ecs.Has(w, e, component.DeadComponent.Kind()) {
			return
		}
		wp, ok := ecs.Get(w, e, component.WeaponComponent.Kind())
		if !ok || wp == nil || len(wp.Attacks) == 0 {
			w.Logger().Debug("combat: no staff equipped")
			return
		}
		if wp.Casting || now-wp.LastFire < wp.Cooldown {
			return
		}
		if v := p.Input.Variant; v >= 1 && v <= len(wp.Attacks) {
			wp.Selected = v - 1
		}
		if wp.Selected < 0 || wp.Selected >= len(wp.Attacks) {
			wp.Selected = 0
		}
		attack := wp.Attacks[wp.Selected]
		wp.LastFire = now
		wp.Casting = true

		w.Emit(ecs.Event{Type: ecs.EventAttack, Entity: e, Position: t.Frame.WorldPosition(), Detail: attack.Name})
		w.Timers().Schedule(wp.Windup, p.Token, func() {
			launch(w, e, attack)
		})
	})
}

// launch fires attack's projectile from the player's staff along its
// facing. Damage is fixed here, so buffs active at launch count.
func launch(w *ecs.World, e ecs.Entity, attack component.StaffAttack) {
	wp, ok := ecs.Get(w, e, component.WeaponComponent.Kind())
	if !ok || wp == nil {
		return
	}
	wp.Casting = false
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil || t.Frame == nil || ecs.Has(w, e, component.DeadComponent.Kind()) {
		return
	}
	pos := t.Frame.WorldPosition().Add(common.V3(0, wp.SpawnHeight, 0))
	amount := attackDamage(w, e) * attack.Damage
	proj := component.Projectile{Attack: attack.Name, Speed: attack.Speed, Damage: amount, Radius: wp.Radius}
	pe, err := entity.NewProjectile(w, e, pos, common.Forward(t.Frame.Yaw()), proj, wp.Lifetime)
	if err != nil {
		w.Logger().Warn("combat: launch", "attack", attack.Name, "err", err)
		return
	}
	w.Logger().Debug("combat: launched", "attack", attack.Name, "projectile", pe.String(), "damage", amount)
}

func attackDamage(w *ecs.World, e ecs.Entity) float64 {
	st, ok := ecs.Get(w, e, component.StatsComponent.Kind())
	if !ok || st == nil || st.Block == nil || !st.Block.Has(core.StatAttackDamage) {
		return defaultAttackDamage
	}
	return st.Block.Value(core.StatAttackDamage)
}

// damage applies amount to target's health and reports it when it landed.
func damage(w *ecs.World, target, source ecs.Entity, amount float64) core.DamageResult {
	h, ok := ecs.Get(w, target, component.HealthComponent.Kind())
	if !ok || h == nil || h.Pool == nil {
		return core.DamageRejectedInvalid
	}
	res := h.Pool.ApplyDamage(amount)
	if !res.Applied() {
		w.Logger().Debug("combat: damage rejected", "target", target.String(), "reason", res.String())
		return res
	}
	w.Emit(ecs.Event{Type: ecs.EventDamage, Entity: target, Source: source, Amount: amount, Position: positionOf(w, target)})
	return res
}

func positionOf(w *ecs.World, e ecs.Entity) common.Vec3 {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil || t.Frame == nil {
		return common.Vec3{}
	}
	return t.Frame.WorldPosition()
}
