package entity

import (
	"fmt"

	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/prefabs"
)

const platformSensorTag = "riders"

// NewPlatform builds a moving platform. An empty strategy in the spec falls
// back to fallback.
func NewPlatform(w *ecs.World, spec prefabs.PlatformSpec, fallback core.RiderStrategy) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("platform: nil world")
	}
	cfg, err := TimelineConfig(spec)
	if err != nil {
		return 0, err
	}
	if err := cfg.Validate(); err != nil {
		w.Logger().Warn("platform: timeline", "platform", spec.Name, "err", err)
	}
	strategy := fallback
	if spec.Strategy != "" {
		if strategy, err = core.ParseRiderStrategy(spec.Strategy); err != nil {
			w.Logger().Warn("platform: strategy", "platform", spec.Name, "err", err)
			strategy = fallback
		}
	}

	pw := physicsFor(w)
	e := ecs.CreateEntity(w)
	timeline := core.NewCyclicTimeline(cfg)
	pos := timeline.Position()
	frame := core.NewFrame(pos)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Frame: frame}); err != nil {
		return 0, fmt.Errorf("platform: add transform: %w", err)
	}
	pw.AddBody(e, pos, groundShapes(spec.Width, spec.Height, platformSensorTag)...)

	riders := core.NewRiderRegistry(strategy, frame, w.Logger())
	riders.Track(pos)
	if err := ecs.Add(w, e, component.PlatformComponent.Kind(), &component.Platform{
		Name:      spec.Name,
		Timeline:  timeline,
		Riders:    riders,
		FixedStep: spec.FixedStep,
		Width:     spec.Width,
		Height:    spec.Height,
	}); err != nil {
		return 0, fmt.Errorf("platform: add platform: %w", err)
	}
	return e, nil
}

// DestroyPlatform drops the platform's riders before destroying it.
func DestroyPlatform(w *ecs.World, e ecs.Entity) bool {
	if p, ok := ecs.Get(w, e, component.PlatformComponent.Kind()); ok && p != nil {
		p.Riders.Clear()
	}
	return ecs.DestroyEntity(w, e)
}
