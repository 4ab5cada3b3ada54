package entity

import (
	"fmt"

	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/prefabs"
)

const enemyTag = "Enemy"

// NewEnemy builds a pursuing enemy at pos that plans on grid and chases
// target.
func NewEnemy(w *ecs.World, spec prefabs.EnemySpec, pos common.Vec3, grid *core.NavGrid, target core.Target) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("enemy: nil world")
	}
	if err := spec.Validate(); err != nil {
		w.Logger().Warn("enemy: spec", "enemy", spec.Name, "err", err)
	}
	pw := physicsFor(w)
	e := ecs.CreateEntity(w)

	frame := core.NewFrame(pos)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Frame: frame}); err != nil {
		return 0, fmt.Errorf("enemy: add transform: %w", err)
	}
	pw.AddBody(e, pos, actorShape(spec.Collider))
	mover := ecs.NewBodyMover(pw, e, frame)
	if err := ecs.Add(w, e, component.MoverComponent.Kind(), &component.Mover{Integrator: mover}); err != nil {
		return 0, fmt.Errorf("enemy: add mover: %w", err)
	}

	cfg := pursuitConfig(spec.Pursuit)
	stopping := spec.StoppingDistance
	if stopping <= 0 {
		stopping = cfg.StoppingDistance()
	}
	nav := core.NewNavAgent(core.NavAgentConfig{Speed: cfg.ChaseSpeed, StoppingDistance: stopping}, grid, frame, mover)
	anim := core.NewAnimationParams()
	agent := core.NewPursuitAgent(cfg, core.PursuitDeps{
		Name:     spec.Name,
		Frame:    frame,
		Planner:  nav,
		Animator: anim,
		Target:   target,
		Clock:    w.Clock(),
		Timers:   w.Timers(),
		Logger:   w.Logger(),
	})

	enemy := &component.Enemy{
		Name:          spec.Name,
		Agent:         agent,
		Nav:           nav,
		Animator:      anim,
		Token:         core.NewCancelToken(),
		ContactDamage: spec.ContactDamage,
		AttackReach:   max(cfg.AttackRadius, stopping+cfg.PathSlack),
	}
	agent.OnAttack = func(*core.PursuitAgent) { enemy.PendingAttacks++ }
	if err := ecs.Add(w, e, component.EnemyComponent.Kind(), enemy); err != nil {
		return 0, fmt.Errorf("enemy: add enemy: %w", err)
	}
	if err := ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{}); err != nil {
		return 0, fmt.Errorf("enemy: add enemy tag: %w", err)
	}
	if err := ecs.Add(w, e, component.TagComponent.Kind(), &component.Tag{Name: enemyTag}); err != nil {
		return 0, fmt.Errorf("enemy: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.RiderComponent.Kind(), &component.Rider{}); err != nil {
		return 0, fmt.Errorf("enemy: add rider: %w", err)
	}

	pool := core.NewHealthPool(healthConfig(spec.Health), w.Clock())
	pool.BindCapabilities(agent)
	if err := ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Pool: pool}); err != nil {
		return 0, fmt.Errorf("enemy: add health: %w", err)
	}
	return e, nil
}
