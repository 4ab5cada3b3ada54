package entity

import (
	"fmt"

	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/prefabs"
)

const hazardSensorTag = "hazard"

// NewHazard builds a damaging sensor resting on the ground at its position.
func NewHazard(w *ecs.World, spec prefabs.HazardSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("hazard: nil world")
	}
	pw := physicsFor(w)
	pos := vec(spec.Position)
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Frame: core.NewFrame(pos)}); err != nil {
		return 0, fmt.Errorf("hazard: add transform: %w", err)
	}
	pw.AddBody(e, pos, ecs.ShapeSpec{Role: ecs.RoleSensor, Tag: hazardSensorTag, Width: spec.Width, Height: spec.Height, OffsetY: spec.Height / 2})
	if err := ecs.Add(w, e, component.HazardComponent.Kind(), &component.Hazard{Damage: spec.Damage, Kill: spec.Kill}); err != nil {
		return 0, fmt.Errorf("hazard: add hazard: %w", err)
	}
	return e, nil
}
