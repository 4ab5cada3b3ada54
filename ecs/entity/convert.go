package entity

import (
	"fmt"
	"strings"

	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/prefabs"
)

func vec(s prefabs.Vec3Spec) common.Vec3 {
	return common.V3(s.X, s.Y, s.Z)
}

// actorShape is a body whose Y origin is at the feet.
func actorShape(c prefabs.ColliderSpec) ecs.ShapeSpec {
	offsetY := c.OffsetY
	if offsetY == 0 {
		offsetY = c.Height / 2
	}
	return ecs.ShapeSpec{Role: ecs.RoleActor, Width: c.Width, Height: c.Height, OffsetX: c.OffsetX, OffsetY: offsetY}
}

// groundShapes is a solid slab whose top is at the body origin, plus an
// optional sensor just above it.
func groundShapes(width, height float64, sensorTag string) []ecs.ShapeSpec {
	shapes := []ecs.ShapeSpec{{Role: ecs.RoleSolid, Tag: "ground", Width: width, Height: height, OffsetY: -height / 2}}
	if sensorTag != "" {
		shapes = append(shapes, ecs.ShapeSpec{Role: ecs.RoleSensor, Tag: sensorTag, Width: width, Height: riderSensorHeight, OffsetY: riderSensorHeight / 2})
	}
	return shapes
}

const riderSensorHeight = 0.5

func healthConfig(s prefabs.HealthSpec) core.HealthConfig {
	return core.HealthConfig{Max: s.Max, InvulnerabilityWindow: s.Invulnerability}
}

func pursuitConfig(s prefabs.PursuitSpec) core.PursuitConfig {
	return core.PursuitConfig{
		DetectionRadius:  s.DetectionRadius,
		AttackRadius:     s.AttackRadius,
		WalkSpeed:        s.WalkSpeed,
		ChaseSpeed:       s.ChaseSpeed,
		AttackCooldown:   s.AttackCooldown,
		AttackDuration:   s.AttackDuration,
		HysteresisMargin: s.HysteresisMargin,
		PathSlack:        s.PathSlack,
		FallbackRadius:   s.FallbackRadius,
		TurnRate:         s.TurnRate,
	}
}

func checkpointConfig(s prefabs.CheckpointSpec) core.CheckpointConfig {
	cfg := core.DefaultCheckpointConfig()
	if s.KillY != 0 {
		cfg.KillY = s.KillY
	}
	if s.RespawnHeight != 0 {
		cfg.RespawnHeight = s.RespawnHeight
	}
	if s.Grace != 0 {
		cfg.Grace = s.Grace
	}
	if s.IslandCooldown != 0 {
		cfg.IslandCooldown = s.IslandCooldown
	}
	if s.MinNormalY != 0 {
		cfg.MinNormalY = s.MinNormalY
	}
	return cfg
}

func statBlock(stats map[string]float64) *core.StatBlock {
	base := make(map[core.StatID]float64, len(stats))
	for k, v := range stats {
		base[core.StatID(strings.ToLower(k))] = v
	}
	return core.NewStatBlock(base)
}

// PowerUpConfig converts a power-up spec.
func PowerUpConfig(s prefabs.PowerUpSpec) (core.PowerUpConfig, error) {
	kind, err := core.ParsePowerUpKind(s.Kind)
	if err != nil {
		return core.PowerUpConfig{}, fmt.Errorf("powerup: %w", err)
	}
	return core.PowerUpConfig{
		Kind:            kind,
		Amount:          s.Amount,
		Ticks:           s.Ticks,
		Interval:        s.Interval,
		Duration:        s.Duration,
		Multiplier:      s.Multiplier,
		Stat:            core.StatID(s.Stat),
		PickupRadius:    s.PickupRadius,
		RespawnDelay:    s.RespawnDelay,
		RequireInteract: s.RequireInteract,
	}, nil
}

// TimelineConfig converts a platform spec. A named direction wins over the
// vector only when the vector is absent.
func TimelineConfig(s prefabs.PlatformSpec) (core.TimelineConfig, error) {
	cfg := core.TimelineConfig{
		Origin:     vec(s.Position),
		Distance:   s.Distance,
		TravelTime: s.TravelTime,
		WaitAtA:    s.WaitAtA,
		WaitAtB:    s.WaitAtB,
	}
	start, err := core.ParseStartPoint(s.Start)
	if err != nil {
		return cfg, fmt.Errorf("platform %s: %w", s.Name, err)
	}
	cfg.StartAt = start
	switch {
	case s.Vector != nil:
		cfg.Direction = vec(*s.Vector)
	case s.Direction == "":
		cfg.Direction = common.Up
	default:
		dir, ok := core.DirectionPreset(s.Direction)
		if !ok {
			return cfg, fmt.Errorf("platform %s: unknown direction %q", s.Name, s.Direction)
		}
		cfg.Direction = dir
	}
	return cfg, nil
}
