package entity

import (
	"testing"

	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
	"github.com/milk9111/reverie/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadBundle(t *testing.T) prefabs.Bundle {
	t.Helper()
	b, err := prefabs.LoadAll(nil)
	require.NoError(t, err)
	return b
}

func TestLoadLevelBuildsEverything(t *testing.T) {
	w := ecs.NewWorld()
	b := loadBundle(t)

	lvl, err := LoadLevel(w, b)
	require.NoError(t, err)
	require.NotNil(t, w.PhysicsWorld())

	assert.Len(t, lvl.Islands, len(b.Level.Islands))
	assert.Len(t, lvl.Platforms, len(b.Platforms.Platforms))
	assert.Len(t, lvl.Enemies, len(b.Level.Enemies))
	assert.Len(t, lvl.PowerUps, len(b.Level.PowerUps))
	assert.Len(t, lvl.Hazards, len(b.Level.Hazards))
	assert.Len(t, lvl.Staffs, len(b.Level.Staffs))
	assert.Len(t, lvl.Boxes, len(b.Level.Boxes))

	player, ok := FindByTag(w, "Player")
	require.True(t, ok)
	assert.Equal(t, lvl.Player, player)
	assert.True(t, ecs.Has(w, player, component.RespawnComponent.Kind()))

	cp, ok := ecs.Get(w, player, component.RespawnComponent.Kind())
	require.True(t, ok)
	saved, ok := cp.Tracker.Checkpoint()
	require.True(t, ok)
	assert.Equal(t, vec(b.Level.PlayerSpawn).Add(common.V3(0, 2, 0)), saved)

	checkpoints := 0
	ecs.ForEach(w, component.CheckpointComponent.Kind(), func(ecs.Entity, *component.Checkpoint) { checkpoints++ })
	assert.Equal(t, 3, checkpoints)
}

func TestLoadLevelAppliesSpawnOverrides(t *testing.T) {
	w := ecs.NewWorld()
	lvl, err := LoadLevel(w, loadBundle(t))
	require.NoError(t, err)
	require.Len(t, lvl.Enemies, 2)

	en, ok := ecs.Get(w, lvl.Enemies[1], component.EnemyComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "grunt-2", en.Name)
	assert.Equal(t, 4.0, en.Nav.Speed(), "chase speed override reaches the planner")

	h, ok := ecs.Get(w, lvl.Enemies[1], component.HealthComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 4.0, h.Pool.Max())
}

func TestLoadLevelReportsBadPieces(t *testing.T) {
	w := ecs.NewWorld()
	b := loadBundle(t)
	b.Level.PowerUps = append(b.Level.PowerUps, prefabs.PowerUpSpawnSpec{Name: "odd", Type: "kiwi"})

	lvl, err := LoadLevel(w, b)
	require.NotNil(t, lvl, "the rest of the level still loads")
	assert.ErrorContains(t, err, `unknown type "kiwi"`)
	assert.Len(t, lvl.PowerUps, 3)
}

func TestNavGridForFollowsIslands(t *testing.T) {
	spec := prefabs.LevelSpec{
		NavGrid: prefabs.NavGridSpec{CellSize: 1, Width: 10, Depth: 2, Blocked: [][2]int{{1, 1}}},
		Islands: []prefabs.IslandSpec{
			{Position: prefabs.Vec3Spec{X: 2}, Width: 4, Height: 1},
			{Position: prefabs.Vec3Spec{X: 8}, Width: 2, Height: 1},
		},
	}
	g := NavGridFor(spec)

	tests := []struct {
		cell    core.GridCell
		blocked bool
	}{
		{core.GridCell{X: 0, Z: 0}, false},
		{core.GridCell{X: 3, Z: 0}, false},
		{core.GridCell{X: 4, Z: 0}, true},
		{core.GridCell{X: 6, Z: 1}, true},
		{core.GridCell{X: 7, Z: 1}, false},
		{core.GridCell{X: 1, Z: 1}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.blocked, g.Blocked(tt.cell), "cell %+v", tt.cell)
	}
	assert.Nil(t, g.FindPath(core.GridCell{X: 0, Z: 0}, core.GridCell{X: 8, Z: 0}), "gap between islands")
}

func TestEntityTargetFollowsLiveEntity(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewPlayer(w, loadBundle(t).Player, common.V3(1, 2, 3))
	require.NoError(t, err)
	target := EntityTarget{World: w, Entity: e}

	pos, ok := target.Position()
	require.True(t, ok)
	assert.Equal(t, common.V3(1, 2, 3), pos)

	require.NoError(t, ecs.Add(w, e, component.DeadComponent.Kind(), &component.Dead{}))
	_, ok = target.Position()
	assert.False(t, ok)

	ecs.DestroyEntity(w, e)
	_, ok = target.Position()
	assert.False(t, ok)
}

func TestSceneQueries(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewPlayer(w, loadBundle(t).Player, common.V3(4, 0, 0))
	require.NoError(t, err)
	scene := Scene{World: w}

	h, ok := scene.FindEntityByTag("Player")
	require.True(t, ok)
	assert.Equal(t, e, ecs.EntityFromHandle(h))
	_, ok = scene.FindEntityByTag("Nobody")
	assert.False(t, ok)

	assert.Equal(t, []core.EntityHandle{e.Handle()}, scene.OverlapSphere(common.V3(4, 1, 0), 1))
	assert.Empty(t, scene.OverlapSphere(common.V3(-10, 1, 0), 1))

	target, ok := TargetByTag(w, scene, "Player")
	require.True(t, ok)
	pos, ok := target.Position()
	require.True(t, ok)
	assert.Equal(t, common.V3(4, 0, 0), pos)

	_, ok = TargetByTag(w, Scene{}, "Player")
	assert.False(t, ok)
}

func TestNewEnemyRecordsAttacks(t *testing.T) {
	w := ecs.NewWorld()
	b := loadBundle(t)
	grid := core.NewNavGrid(common.V3(-10, 0, -10), 1, 20, 20)
	target := core.NewFrame(common.V3(1, 0, 0))

	e, err := NewEnemy(w, b.Enemy, common.Vec3{}, grid, core.FrameTarget{Frame: target})
	require.NoError(t, err)
	en, ok := ecs.Get(w, e, component.EnemyComponent.Kind())
	require.True(t, ok)

	en.Agent.Update(0.1)
	assert.Equal(t, core.PursuitChasing, en.Agent.State())
	en.Agent.Update(0.1)
	assert.Equal(t, core.PursuitAttacking, en.Agent.State())
	assert.Zero(t, en.PendingAttacks)
	en.Agent.Update(0.1)
	assert.Equal(t, 1, en.PendingAttacks)

	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	h.Pool.Kill()
	assert.True(t, en.Agent.Disabled(), "death disables the agent")
}

func TestStaffBuilders(t *testing.T) {
	w := ecs.NewWorld()
	b := loadBundle(t)
	player, err := NewPlayer(w, b.Player, common.Vec3{})
	require.NoError(t, err)

	e, err := NewStaffPickup(w, "staff-1", b.Staff, common.V3(2, 0, 0))
	require.NoError(t, err)
	sp, ok := ecs.Get(w, e, component.StaffPickupComponent.Kind())
	require.True(t, ok)
	require.Len(t, sp.Weapon.Attacks, len(b.Staff.Attacks))
	assert.Equal(t, b.Staff.Cooldown, sp.Weapon.Cooldown)

	assert.False(t, ecs.Has(w, player, component.WeaponComponent.Kind()))
	require.NoError(t, EquipStaff(w, player, sp.Weapon))
	wp, ok := ecs.Get(w, player, component.WeaponComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, b.Staff.Name, wp.Name)
	assert.Error(t, EquipStaff(w, player, component.Weapon{Name: "empty"}), "a staff needs attacks")

	proj := component.Projectile{Attack: "a", Speed: 20, Damage: 1, Radius: 0.5}
	pe, err := NewProjectile(w, player, common.V3(0, 1, 0), common.V3(2, 5, 0), proj, 5)
	require.NoError(t, err)
	p, ok := ecs.Get(w, pe, component.ProjectileComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, common.V3(1, 0, 0), p.Direction, "flies level")
	assert.Equal(t, player.Handle(), p.Source)
	ttl, ok := ecs.Get(w, pe, component.TTLComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 5.0, ttl.Expires)
	_, ok = w.PhysicsWorld().Bounds(pe, ecs.RoleSensor)
	assert.True(t, ok)

	_, err = NewProjectile(w, player, common.Vec3{}, common.V3(0, 1, 0), proj, 5)
	assert.Error(t, err, "straight up has no heading")
}

func TestBoxAndChicken(t *testing.T) {
	w := ecs.NewWorld()
	spec := prefabs.BoxSpec{Name: "crate", Position: prefabs.Vec3Spec{X: 3}, Width: 1, Height: 1, InteractRadius: 3, Chicken: prefabs.CarrySpec{PickupRadius: 2, CarryHeight: 2}}
	box, err := NewBox(w, spec)
	require.NoError(t, err)
	bx, ok := ecs.Get(w, box, component.BoxComponent.Kind())
	require.True(t, ok)
	assert.False(t, bx.Opened)
	assert.Equal(t, 2.0, bx.CarryHeight)
	_, ok = w.PhysicsWorld().Bounds(box, ecs.RoleSensor)
	assert.True(t, ok)

	chicken, err := NewChicken(w, "pollo", common.V3(3, 0, 0), 2, 2)
	require.NoError(t, err)
	c, ok := ecs.Get(w, chicken, component.CarryableComponent.Kind())
	require.True(t, ok)
	assert.Zero(t, c.Carrier)
	found, ok := FindByTag(w, "Chicken")
	require.True(t, ok)
	assert.Equal(t, chicken, found)
}

func TestNewPlatformStrategy(t *testing.T) {
	w := ecs.NewWorld()
	spec := prefabs.PlatformSpec{Name: "p", Direction: "right", Distance: 4, TravelTime: 2, Width: 2, Height: 0.5}

	e, err := NewPlatform(w, spec, core.RiderParenting)
	require.NoError(t, err)
	p, ok := ecs.Get(w, e, component.PlatformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, core.RiderParenting, p.Riders.Strategy())
	assert.Equal(t, common.V3(4, 0, 0), p.Timeline.AnchorB())

	spec.Strategy = "delta"
	e, err = NewPlatform(w, spec, core.RiderParenting)
	require.NoError(t, err)
	p, _ = ecs.Get(w, e, component.PlatformComponent.Kind())
	assert.Equal(t, core.RiderDelta, p.Riders.Strategy())

	spec.Direction = "sideways"
	_, err = NewPlatform(w, spec, core.RiderDelta)
	assert.ErrorContains(t, err, "unknown direction")

	assert.True(t, DestroyPlatform(w, e))
	assert.False(t, w.PhysicsWorld().Has(e))
}
