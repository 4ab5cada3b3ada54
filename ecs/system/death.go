package system

import (
	"fmt"

	"github.com/milk9111/reverie/common"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
)

// Death actions a DeathPolicy can return.
const (
	DeathActionReset    = "reset"
	DeathActionGameOver = "game_over"
	DeathActionDestroy  = "destroy"
)

const (
	defaultPlayerDeathDelay = 2.0
	defaultEnemyDeathDelay  = 1.0
)

// DeathPolicy decides what happens after something dies and how long to
// wait first.
type DeathPolicy interface {
	Decide(player bool, deaths int) (action string, delay float64, err error)
}

type DeathSystem struct {
	policy DeathPolicy
}

// NewDeathSystem builds the system. A nil policy resets the level after a
// player death and removes dead enemies.
func NewDeathSystem(policy DeathPolicy) *DeathSystem { return &DeathSystem{policy: policy} }

// SetPolicy swaps the policy, as when its script is reloaded.
func (s *DeathSystem) SetPolicy(policy DeathPolicy) {
	if s == nil {
		return
	}
	s.policy = policy
}

// Update marks entities whose health ran out as dead. Death is terminal:
// enemies are disabled and later destroyed, and a player death schedules a
// level reset or game over for the host to act on.
func (s *DeathSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := w.Clock().Now()
	ecs.ForEach(w, component.HealthComponent.Kind(), func(e ecs.Entity, h *component.Health) {
		if h == nil || h.Pool == nil || h.Pool.IsAlive() || ecs.Has(w, e, component.DeadComponent.Kind()) {
			return
		}
		if err := ecs.Add(w, e, component.DeadComponent.Kind(), &component.Dead{At: now}); err != nil {
			w.Logger().Warn("death: mark dead", "entity", e.String(), "err", err)
			return
		}
		w.Emit(ecs.Event{Type: ecs.EventDeath, Entity: e, Position: positionOf(w, e)})

		if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok && p != nil {
			s.playerDied(w, e, p)
			return
		}
		s.enemyDied(w, e)
	})
}

func (s *DeathSystem) playerDied(w *ecs.World, e ecs.Entity, p *component.Player) {
	p.Deaths++
	p.AttackQueued = false
	if p.Token != nil {
		p.Token.Cancel()
	}
	if wp, ok := ecs.Get(w, e, component.WeaponComponent.Kind()); ok && wp != nil {
		wp.Casting = false
	}
	if m, ok := ecs.Get(w, e, component.MoverComponent.Kind()); ok && m != nil {
		m.Velocity.X, m.Velocity.Z = 0, 0
	}

	action, delay := s.decide(w, true, p.Deaths)
	var evt ecs.EventType
	switch action {
	case DeathActionGameOver:
		evt = ecs.EventGameOver
	default:
		evt = ecs.EventLevelReset
	}
	w.Logger().Info("death: player", "deaths", p.Deaths, "action", action, "delay", delay)
	w.Timers().Schedule(delay, nil, func() {
		w.Emit(ecs.Event{Type: evt, Entity: e, Amount: float64(p.Deaths)})
	})
}

func (s *DeathSystem) enemyDied(w *ecs.World, e ecs.Entity) {
	name := e.String()
	if en, ok := ecs.Get(w, e, component.EnemyComponent.Kind()); ok && en != nil {
		name = en.Name
		if en.Token != nil {
			en.Token.Cancel()
		}
		en.Agent.Disable()
		en.Nav.Halt()
		en.PendingAttacks = 0
	}
	w.PhysicsWorld().Remove(e)

	action, delay := s.decide(w, false, 0)
	w.Logger().Info("death: enemy", "enemy", name, "action", action, "delay", delay)
	if action != DeathActionDestroy {
		return
	}
	w.Timers().Schedule(delay, nil, func() {
		ecs.DestroyEntity(w, e)
	})
}

func (s *DeathSystem) decide(w *ecs.World, player bool, deaths int) (string, float64) {
	action, delay := DeathActionDestroy, defaultEnemyDeathDelay
	if player {
		action, delay = DeathActionReset, defaultPlayerDeathDelay
	}
	if s.policy == nil {
		return action, delay
	}
	a, d, err := s.policy.Decide(player, deaths)
	if err != nil {
		w.Logger().Warn("death: policy", "err", fmt.Errorf("death: decide: %w", err))
		return action, delay
	}
	if d < 0 || !common.IsFinite(d) {
		d = 0
	}
	return a, d
}
