package entity

import (
	"fmt"

	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/prefabs"
)

const (
	boxSensorTag = "box"
	chickenTag   = "Chicken"
)

// NewBox builds a closed crate resting on the ground at its position.
func NewBox(w *ecs.World, spec prefabs.BoxSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("box: nil world")
	}
	pw := physicsFor(w)
	pos := vec(spec.Position)
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Frame: core.NewFrame(pos)}); err != nil {
		return 0, fmt.Errorf("box %s: add transform: %w", spec.Name, err)
	}
	pw.AddBody(e, pos, ecs.ShapeSpec{Role: ecs.RoleSensor, Tag: boxSensorTag, Width: spec.Width, Height: spec.Height, OffsetY: spec.Height / 2})
	box := &component.Box{
		Name:           spec.Name,
		InteractRadius: spec.InteractRadius,
		PickupRadius:   spec.Chicken.PickupRadius,
		CarryHeight:    spec.Chicken.CarryHeight,
	}
	if err := ecs.Add(w, e, component.BoxComponent.Kind(), box); err != nil {
		return 0, fmt.Errorf("box %s: add box: %w", spec.Name, err)
	}
	return e, nil
}

// NewChicken drops a carryable chicken at pos.
func NewChicken(w *ecs.World, name string, pos common.Vec3, pickupRadius, carryHeight float64) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("chicken: nil world")
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Frame: core.NewFrame(pos)}); err != nil {
		return 0, fmt.Errorf("chicken: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.TagComponent.Kind(), &component.Tag{Name: chickenTag}); err != nil {
		return 0, fmt.Errorf("chicken: add tag: %w", err)
	}
	c := &component.Carryable{Name: name, PickupRadius: pickupRadius, CarryHeight: carryHeight}
	if err := ecs.Add(w, e, component.CarryableComponent.Kind(), c); err != nil {
		return 0, fmt.Errorf("chicken: add carryable: %w", err)
	}
	return e, nil
}
