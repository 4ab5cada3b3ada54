package entity

import (
	"fmt"

	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/prefabs"
)

func NewPowerUp(w *ecs.World, name string, spec prefabs.PowerUpSpec, pos common.Vec3) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("powerup: nil world")
	}
	cfg, err := PowerUpConfig(spec)
	if err != nil {
		return 0, fmt.Errorf("powerup %s: %w", name, err)
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Frame: core.NewFrame(pos)}); err != nil {
		return 0, fmt.Errorf("powerup: add transform: %w", err)
	}
	item := core.NewPowerUp(cfg, pos, w.Timers(), w.Logger())
	if err := ecs.Add(w, e, component.PowerUpComponent.Kind(), &component.PowerUp{Name: name, Item: item}); err != nil {
		return 0, fmt.Errorf("powerup: add powerup: %w", err)
	}
	return e, nil
}
