package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSpecsLoadAndValidate(t *testing.T) {
	tests := []struct {
		name string
		load func() (interface{ Validate() error }, error)
	}{
		{"game", func() (interface{ Validate() error }, error) { return LoadSpec[GameSpec]("game.yaml") }},
		{"player", func() (interface{ Validate() error }, error) { return LoadSpec[PlayerSpec]("player.yaml") }},
		{"enemy", func() (interface{ Validate() error }, error) { return LoadSpec[EnemySpec]("enemy.yaml") }},
		{"platforms", func() (interface{ Validate() error }, error) { return LoadSpec[PlatformsSpec]("prefabs/platforms.yaml") }},
		{"level", func() (interface{ Validate() error }, error) { return LoadSpec[LevelSpec]("level.yaml") }},
		{"staff", func() (interface{ Validate() error }, error) { return LoadSpec[StaffSpec]("staff.yaml") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := tt.load()
			require.NoError(t, err)
			assert.NoError(t, spec.Validate())
		})
	}
}

func TestLoadSpecMissingFile(t *testing.T) {
	_, err := LoadSpec[GameSpec]("nope.yaml")
	assert.ErrorContains(t, err, "prefabs: load nope.yaml")
}

func TestPowerUpsSpec(t *testing.T) {
	spec, err := LoadSpec[PowerUpsSpec]("powerups.yaml")
	require.NoError(t, err)
	require.Contains(t, spec.PowerUps, "mora")

	mora := spec.PowerUps["mora"]
	assert.Equal(t, "heal_over_time", mora.Kind)
	assert.Equal(t, 2, mora.Ticks)
	assert.True(t, mora.RequireInteract)
	assert.Equal(t, 1.2, spec.PowerUps["mango"].Multiplier)
	assert.Equal(t, 45.0, spec.PowerUps["pera"].RespawnDelay)
}

func TestStaffSpec(t *testing.T) {
	spec, err := LoadSpec[StaffSpec]("staff.yaml")
	require.NoError(t, err)
	require.Len(t, spec.Attacks, 3)
	assert.Equal(t, 1.0, spec.Cooldown)
	assert.Equal(t, 5.0, spec.Projectile.Lifetime)
	for i := 1; i < len(spec.Attacks); i++ {
		assert.Greater(t, spec.Attacks[i].Damage, spec.Attacks[i-1].Damage, "later attacks hit harder")
	}
}

func TestStaffSpecValidate(t *testing.T) {
	good := StaffSpec{
		Name:       "staff",
		Cooldown:   1,
		Projectile: ProjectileSpec{Lifetime: 5, Radius: 0.5},
		Attacks:    []StaffAttackSpec{{Name: "a", Speed: 20, Damage: 1}},
	}
	tests := []struct {
		name    string
		mutate  func(*StaffSpec)
		wantErr bool
	}{
		{"ok", func(*StaffSpec) {}, false},
		{"no_attacks", func(s *StaffSpec) { s.Attacks = nil }, true},
		{"still_attack", func(s *StaffSpec) { s.Attacks[0].Speed = 0 }, true},
		{"negative_cooldown", func(s *StaffSpec) { s.Cooldown = -1 }, true},
		{"endless_projectile", func(s *StaffSpec) { s.Projectile.Lifetime = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := good
			spec.Attacks = append([]StaffAttackSpec(nil), good.Attacks...)
			tt.mutate(&spec)
			err := spec.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSpec)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEnemyForAppliesOverrides(t *testing.T) {
	base, err := LoadSpec[EnemySpec]("enemy.yaml")
	require.NoError(t, err)
	level, err := LoadSpec[LevelSpec]("level.yaml")
	require.NoError(t, err)
	require.Len(t, level.Enemies, 2)

	plain, err := EnemyFor(base, level.Enemies[0])
	require.NoError(t, err)
	assert.Equal(t, "grunt-1", plain.Name)
	assert.Equal(t, base.Pursuit, plain.Pursuit)

	tuned, err := EnemyFor(base, level.Enemies[1])
	require.NoError(t, err)
	assert.Equal(t, 4.0, tuned.Pursuit.ChaseSpeed)
	assert.Equal(t, base.Pursuit.DetectionRadius, tuned.Pursuit.DetectionRadius, "untouched fields keep their base value")
	assert.Equal(t, 4.0, tuned.Health.Max)
	assert.Equal(t, base.Health.Invulnerability, tuned.Health.Invulnerability)
	assert.Equal(t, 15.0, base.Pursuit.DetectionRadius, "base is not modified")
}

func TestDecodeComponentSpecRejectsBadTypes(t *testing.T) {
	base := PursuitSpec{ChaseSpeed: 3}
	got, err := DecodeComponentSpec(map[string]any{"chase_speed": "fast"}, base)
	assert.Error(t, err)
	assert.Equal(t, base, got)
}

func TestSimInputAt(t *testing.T) {
	sim := SimSpec{Script: []SimStepSpec{
		{At: 2, Attack: true},
		{At: 0, MoveX: 1},
		{At: 1, Jump: true},
	}}
	tests := []struct {
		at   float64
		want SimStepSpec
	}{
		{-1, SimStepSpec{}},
		{0, SimStepSpec{At: 0, MoveX: 1}},
		{1.5, SimStepSpec{At: 1, Jump: true}},
		{10, SimStepSpec{At: 2, Attack: true}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sim.InputAt(tt.at), "t=%v", tt.at)
	}
}

func TestCleanScriptPath(t *testing.T) {
	tests := map[string]string{
		"death_policy.tengo":                 "scripts/death_policy.tengo",
		"scripts/death_policy.tengo":         "scripts/death_policy.tengo",
		"prefabs/scripts/death_policy.tengo": "scripts/death_policy.tengo",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanScriptPath(in), in)
	}
	assert.Empty(t, cleanScriptPath(""))
}

func TestClassifyChanges(t *testing.T) {
	c, ok := classify("/x/prefabs/level.yaml")
	require.True(t, ok)
	assert.Equal(t, Change{Name: "level.yaml", Kind: ChangeSpec}, c)

	c, ok = classify("/x/prefabs/scripts/death_policy.tengo")
	require.True(t, ok)
	assert.Equal(t, Change{Name: "scripts/death_policy.tengo", Kind: ChangeScript}, c)

	_, ok = classify("/x/prefabs/level.yaml~")
	assert.False(t, ok)
}

func TestDeathPolicyScript(t *testing.T) {
	policy, err := LoadDeathPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDeathScript, policy.Name())

	tests := []struct {
		name       string
		player     bool
		deaths     int
		wantAction string
		wantDelay  float64
	}{
		{"enemy", false, 0, "destroy", 1},
		{"first_player_death", true, 1, "reset", 2},
		{"last_life", true, 3, "game_over", 3},
		{"enemy_after_player", false, 5, "destroy", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, delay, err := policy.Decide(tt.player, tt.deaths)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAction, action)
			assert.Equal(t, tt.wantDelay, delay)
		})
	}
}

func TestDeathPolicyErrors(t *testing.T) {
	_, err := NewDeathPolicy("broken", []byte("action := "))
	assert.Error(t, err)

	odd, err := NewDeathPolicy("odd", []byte(`action := "explode"`))
	require.NoError(t, err)
	_, _, err = odd.Decide(true, 1)
	assert.ErrorIs(t, err, ErrDeathPolicy)

	silent, err := NewDeathPolicy("silent", []byte(`x := 1`))
	require.NoError(t, err)
	_, _, err = silent.Decide(true, 1)
	assert.ErrorIs(t, err, ErrDeathPolicy)

	var none *DeathPolicy
	_, _, err = none.Decide(true, 1)
	assert.ErrorIs(t, err, ErrDeathPolicy)
}

func TestLoadAll(t *testing.T) {
	b, err := LoadAll(nil)
	require.NoError(t, err)
	assert.Equal(t, "drift", b.Level.Name)
	assert.Len(t, b.Platforms.Platforms, 2)
	assert.Equal(t, 6.0, b.Player.Health.Max)
	assert.Equal(t, "staff", b.Staff.Name)
	require.Len(t, b.Level.Staffs, 1)
	require.Len(t, b.Level.Boxes, 1)
	assert.Equal(t, 2.0, b.Level.Boxes[0].Chicken.CarryHeight)
	assert.Equal(t, DefaultDeathScript, b.Game.DeathScript)
}

func useDiskDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	prev := DiskDir
	DiskDir = dir
	t.Cleanup(func() { DiskDir = prev })
	return dir
}

func TestDiskCopiesOverrideEmbedded(t *testing.T) {
	dir := useDiskDir(t)

	_, ok := ModTime("game.yaml")
	assert.False(t, ok, "embedded only")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.yaml"), []byte("name: edited\n"), 0o644))
	spec, err := LoadSpec[GameSpec]("prefabs/game.yaml")
	require.NoError(t, err)
	assert.Equal(t, "edited", spec.Name)
	_, ok = ModTime("game.yaml")
	assert.True(t, ok)

	script := []byte("action := \"destroy\"\ndelay := 0.5\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "death_policy.tengo"), script, 0o644))
	policy, err := LoadDeathPolicy("")
	require.NoError(t, err)
	action, delay, err := policy.Decide(true, 1)
	require.NoError(t, err)
	assert.Equal(t, "destroy", action)
	assert.Equal(t, 0.5, delay)

	other, err := Load("player.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, other, "files without a disk copy still load")
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := useDiskDir(t)
	w, err := NewWatcher(nil, dir, filepath.Join(dir, "scripts"))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level.yaml"), []byte("name: x\n"), 0o644))

	select {
	case c := <-w.Events:
		assert.Equal(t, Change{Name: "level.yaml", Kind: ChangeSpec}, c)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	_, err = NewWatcher(nil, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
