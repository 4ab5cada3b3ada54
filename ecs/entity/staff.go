package entity

import (
	"fmt"
	"math"

	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/prefabs"
)

const (
	ProjectileSensorTag = "projectile"
	staffTag            = "Staff"
)

// WeaponFor converts a staff spec into an unequipped weapon.
func WeaponFor(spec prefabs.StaffSpec) component.Weapon {
	wp := component.Weapon{
		Name:        spec.Name,
		Cooldown:    spec.Cooldown,
		Windup:      spec.Windup,
		Lifetime:    spec.Projectile.Lifetime,
		Radius:      spec.Projectile.Radius,
		SpawnHeight: spec.Projectile.SpawnHeight,
		LastFire:    math.Inf(-1),
	}
	for _, a := range spec.Attacks {
		wp.Attacks = append(wp.Attacks, component.StaffAttack{Name: a.Name, Speed: a.Speed, Damage: a.Damage})
	}
	return wp
}

// NewStaffPickup places a staff on the ground at pos.
func NewStaffPickup(w *ecs.World, name string, spec prefabs.StaffSpec, pos common.Vec3) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("staff: nil world")
	}
	if err := spec.Validate(); err != nil {
		w.Logger().Warn("staff: spec", "err", err)
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Frame: core.NewFrame(pos)}); err != nil {
		return 0, fmt.Errorf("staff: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.TagComponent.Kind(), &component.Tag{Name: staffTag}); err != nil {
		return 0, fmt.Errorf("staff: add tag: %w", err)
	}
	pickup := &component.StaffPickup{Name: name, InteractRadius: spec.InteractRadius, Weapon: WeaponFor(spec)}
	if err := ecs.Add(w, e, component.StaffPickupComponent.Kind(), pickup); err != nil {
		return 0, fmt.Errorf("staff: add pickup: %w", err)
	}
	return e, nil
}

// EquipStaff hands wp to the player, replacing any staff it held.
func EquipStaff(w *ecs.World, player ecs.Entity, wp component.Weapon) error {
	if w == nil || !ecs.IsAlive(w, player) {
		return fmt.Errorf("staff: equip: %w", component.ErrEntityNotAlive)
	}
	if len(wp.Attacks) == 0 {
		return fmt.Errorf("staff %s: equip: no attacks", wp.Name)
	}
	wp.Selected = 0
	wp.Casting = false
	if err := ecs.Add(w, player, component.WeaponComponent.Kind(), &wp); err != nil {
		return fmt.Errorf("staff %s: equip: %w", wp.Name, err)
	}
	return nil
}

// NewProjectile launches a staff projectile from pos along dir. It is
// destroyed after lifetime seconds if it hits nothing.
func NewProjectile(w *ecs.World, source ecs.Entity, pos, dir common.Vec3, p component.Projectile, lifetime float64) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("projectile: nil world")
	}
	dir = dir.Horizontal()
	if dir.IsZero() {
		return 0, fmt.Errorf("projectile: no direction")
	}
	pw := physicsFor(w)
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Frame: core.NewFrame(pos)}); err != nil {
		return 0, fmt.Errorf("projectile: add transform: %w", err)
	}
	size := 2 * p.Radius
	pw.AddBody(e, pos, ecs.ShapeSpec{Role: ecs.RoleSensor, Tag: ProjectileSensorTag, Width: size, Height: size})

	p.Source = source.Handle()
	p.Direction = dir.Normalize()
	if err := ecs.Add(w, e, component.ProjectileComponent.Kind(), &p); err != nil {
		return 0, fmt.Errorf("projectile: add projectile: %w", err)
	}
	if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Expires: w.Clock().Now() + lifetime}); err != nil {
		return 0, fmt.Errorf("projectile: add ttl: %w", err)
	}
	return e, nil
}
