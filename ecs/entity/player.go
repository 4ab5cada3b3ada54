package entity

import (
	"fmt"

	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/prefabs"
)

const defaultPlayerTag = "Player"

func physicsFor(w *ecs.World) *ecs.PhysicsWorld {
	pw := w.PhysicsWorld()
	if pw == nil {
		pw = ecs.NewPhysicsWorld(w.Logger())
		w.SetPhysicsWorld(pw)
	}
	return pw
}

// NewPlayer builds the player at pos, with pos saved as the first
// checkpoint.
func NewPlayer(w *ecs.World, spec prefabs.PlayerSpec, pos common.Vec3) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("player: nil world")
	}
	if err := spec.Validate(); err != nil {
		w.Logger().Warn("player: spec", "err", err)
	}
	pw := physicsFor(w)
	e := ecs.CreateEntity(w)

	frame := core.NewFrame(pos)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Frame: frame}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	pw.AddBody(e, pos, actorShape(spec.Collider))
	mover := ecs.NewBodyMover(pw, e, frame)
	if err := ecs.Add(w, e, component.MoverComponent.Kind(), &component.Mover{Gravity: spec.Gravity, Integrator: mover}); err != nil {
		return 0, fmt.Errorf("player: add mover: %w", err)
	}

	tag := spec.Tag
	if tag == "" {
		tag = defaultPlayerTag
	}
	if err := ecs.Add(w, e, component.TagComponent.Kind(), &component.Tag{Name: tag}); err != nil {
		return 0, fmt.Errorf("player: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add player tag: %w", err)
	}
	if err := ecs.Add(w, e, component.RiderComponent.Kind(), &component.Rider{}); err != nil {
		return 0, fmt.Errorf("player: add rider: %w", err)
	}

	player := &component.Player{Token: core.NewCancelToken()}
	if err := ecs.Add(w, e, component.PlayerComponent.Kind(), player); err != nil {
		return 0, fmt.Errorf("player: add player: %w", err)
	}

	pool := core.NewHealthPool(healthConfig(spec.Health), w.Clock())
	pool.OnDamage = func(h *core.HealthPool, amount float64) {
		w.Logger().Debug("player: hurt", "amount", amount, "health", h.Current())
	}
	if err := ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Pool: pool, PerHeart: spec.Health.PerHeart}); err != nil {
		return 0, fmt.Errorf("player: add health: %w", err)
	}
	if err := ecs.Add(w, e, component.StatsComponent.Kind(), &component.Stats{Block: statBlock(spec.Stats)}); err != nil {
		return 0, fmt.Errorf("player: add stats: %w", err)
	}

	tracker := core.NewCheckpointTracker(checkpointConfig(spec.Checkpoint), w.Clock(), w.Logger())
	tracker.Save(pos)
	if err := ecs.Add(w, e, component.RespawnComponent.Kind(), &component.Respawn{Tracker: tracker}); err != nil {
		return 0, fmt.Errorf("player: add respawn: %w", err)
	}
	return e, nil
}
