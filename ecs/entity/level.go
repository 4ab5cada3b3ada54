package entity

import (
	"errors"
	"fmt"

	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/prefabs"
)

// Level is what LoadLevel built.
type Level struct {
	Name      string
	Player    ecs.Entity
	Enemies   []ecs.Entity
	Platforms []ecs.Entity
	Islands   []ecs.Entity
	PowerUps  []ecs.Entity
	Hazards   []ecs.Entity
	Staffs    []ecs.Entity
	Boxes     []ecs.Entity
	Grid      *core.NavGrid
}

// LoadLevel populates w from b. Pieces that fail to build are skipped and
// reported together in the returned error; the player is required.
func LoadLevel(w *ecs.World, b prefabs.Bundle) (*Level, error) {
	if w == nil {
		return nil, fmt.Errorf("level: nil world")
	}
	physicsFor(w)
	spec := b.Level
	lvl := &Level{Name: spec.Name, Grid: NavGridFor(spec)}
	var errs []error

	for _, is := range spec.Islands {
		e, err := NewIsland(w, is)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lvl.Islands = append(lvl.Islands, e)
	}

	strategy, err := core.ParseRiderStrategy(b.Game.RiderStrategy)
	if err != nil {
		w.Logger().Warn("level: rider strategy", "err", err)
	}
	for _, ps := range b.Platforms.Platforms {
		e, err := NewPlatform(w, ps, strategy)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lvl.Platforms = append(lvl.Platforms, e)
	}

	player, err := NewPlayer(w, b.Player, vec(spec.PlayerSpawn))
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", spec.Name, err)
	}
	lvl.Player = player
	playerTag := b.Player.Tag
	if playerTag == "" {
		playerTag = defaultPlayerTag
	}
	target, ok := TargetByTag(w, Scene{World: w}, playerTag)
	if !ok {
		return nil, fmt.Errorf("level %s: no entity tagged %q", spec.Name, playerTag)
	}

	for _, sp := range spec.Enemies {
		es, err := prefabs.EnemyFor(b.Enemy, sp)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e, err := NewEnemy(w, es, vec(sp.Position), lvl.Grid, target)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lvl.Enemies = append(lvl.Enemies, e)
	}

	for _, sp := range spec.PowerUps {
		pu, ok := b.PowerUps.PowerUps[sp.Type]
		if !ok {
			errs = append(errs, fmt.Errorf("level %s: powerup %s: unknown type %q", spec.Name, sp.Name, sp.Type))
			continue
		}
		e, err := NewPowerUp(w, sp.Name, pu, vec(sp.Position))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lvl.PowerUps = append(lvl.PowerUps, e)
	}

	for _, hs := range spec.Hazards {
		e, err := NewHazard(w, hs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lvl.Hazards = append(lvl.Hazards, e)
	}

	for _, ss := range spec.Staffs {
		e, err := NewStaffPickup(w, ss.Name, b.Staff, vec(ss.Position))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lvl.Staffs = append(lvl.Staffs, e)
	}

	for _, bs := range spec.Boxes {
		e, err := NewBox(w, bs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lvl.Boxes = append(lvl.Boxes, e)
	}

	w.Logger().Info("level: loaded", "level", spec.Name,
		"islands", len(lvl.Islands), "platforms", len(lvl.Platforms),
		"enemies", len(lvl.Enemies), "powerups", len(lvl.PowerUps), "hazards", len(lvl.Hazards),
		"staffs", len(lvl.Staffs), "boxes", len(lvl.Boxes))
	return lvl, errors.Join(errs...)
}

// NavGridFor builds the enemies' planning grid. Cells are walkable only over
// an island; spec.Blocked removes more.
func NavGridFor(spec prefabs.LevelSpec) *core.NavGrid {
	ns := spec.NavGrid
	grid := core.NewNavGrid(vec(ns.Origin), ns.CellSize, ns.Width, ns.Depth)
	if ns.MaxNodes > 0 {
		grid.MaxNodes = ns.MaxNodes
	}
	for x := 0; x < ns.Width; x++ {
		for z := 0; z < ns.Depth; z++ {
			c := core.GridCell{X: x, Z: z}
			center := grid.CellCenter(c)
			over := false
			for _, is := range spec.Islands {
				half := is.Width / 2
				if center.X >= is.Position.X-half && center.X <= is.Position.X+half {
					over = true
					break
				}
			}
			grid.SetBlocked(c, !over)
		}
	}
	for _, b := range ns.Blocked {
		grid.SetBlocked(core.GridCell{X: b[0], Z: b[1]}, true)
	}
	return grid
}
