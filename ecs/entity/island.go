package entity

import (
	"fmt"

	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/prefabs"
)

const islandTag = "Island"

// NewIsland builds a static piece of ground whose top is at its position.
func NewIsland(w *ecs.World, spec prefabs.IslandSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("island: nil world")
	}
	pw := physicsFor(w)
	pos := vec(spec.Position)
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Frame: core.NewFrame(pos)}); err != nil {
		return 0, fmt.Errorf("island: add transform: %w", err)
	}
	pw.AddBody(e, pos, groundShapes(spec.Width, spec.Height, "")...)
	if err := ecs.Add(w, e, component.TagComponent.Kind(), &component.Tag{Name: islandTag}); err != nil {
		return 0, fmt.Errorf("island: add tag: %w", err)
	}
	if spec.Checkpoint {
		if err := NewCheckpoint(w, e, spec.Name); err != nil {
			return 0, err
		}
	}
	return e, nil
}

// NewCheckpoint makes landing on island save the player's respawn point.
func NewCheckpoint(w *ecs.World, island ecs.Entity, name string) error {
	if name == "" {
		name = island.String()
	}
	if err := ecs.Add(w, island, component.CheckpointComponent.Kind(), &component.Checkpoint{Island: name}); err != nil {
		return fmt.Errorf("checkpoint %s: %w", name, err)
	}
	return nil
}
