package component

import (
	"testing"

	"github.com/milk9111/reverie/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type powerUpFixture struct {
	clock  *SimClock
	timers *TimerQueue
	health *HealthPool
	stats  *StatBlock
	token  *CancelToken
}

func newPowerUpFixture() *powerUpFixture {
	clock := NewSimClock()
	return &powerUpFixture{
		clock:  clock,
		timers: NewTimerQueue(clock),
		health: NewHealthPool(HealthConfig{Max: 6}, clock),
		stats:  NewStatBlock(map[StatID]float64{StatAttackDamage: 25}),
		token:  NewCancelToken(),
	}
}

func (f *powerUpFixture) target() PowerUpTarget {
	return PowerUpTarget{Health: f.health, Stats: f.stats, Token: f.token}
}

func (f *powerUpFixture) advance(dt float64) {
	f.clock.Advance(dt)
	f.timers.Update()
}

func TestPowerUpHealOverTime(t *testing.T) {
	f := newPowerUpFixture()
	require.True(t, f.health.ApplyDamage(4).Applied())
	p := NewPowerUp(MoraConfig(), common.Vec3{}, f.timers, nil)

	require.True(t, p.TryCollect(f.target(), common.V3(1, 0, 0), true))
	assert.Equal(t, 3.0, f.health.Current(), "first tick lands on pickup")
	assert.False(t, p.Available())

	f.advance(1.5)
	assert.Equal(t, 3.0, f.health.Current())
	f.advance(0.5)
	assert.Equal(t, 4.0, f.health.Current())
	f.advance(10)
	assert.Equal(t, 4.0, f.health.Current(), "only two ticks")
}

func TestPowerUpHealOverTimeStopsWhenOwnerDies(t *testing.T) {
	f := newPowerUpFixture()
	require.True(t, f.health.ApplyDamage(4).Applied())
	p := NewPowerUp(MoraConfig(), common.Vec3{}, f.timers, nil)
	require.True(t, p.TryCollect(f.target(), common.Vec3{}, true))

	f.health.Kill()
	f.advance(2)
	assert.Equal(t, 0.0, f.health.Current())
}

func TestPowerUpRequiresInteractAndRange(t *testing.T) {
	f := newPowerUpFixture()
	p := NewPowerUp(PeraConfig(), common.Vec3{}, f.timers, nil)

	assert.False(t, p.TryCollect(f.target(), common.Vec3{}, false), "interact not pressed")
	assert.False(t, p.TryCollect(f.target(), common.V3(0, 0, 2.1), true), "out of range")
	assert.True(t, p.Available())
	assert.True(t, p.TryCollect(f.target(), common.V3(0, 0, 2), true))
}

func TestPowerUpDamageBoostExpires(t *testing.T) {
	f := newPowerUpFixture()
	p := NewPowerUp(MangoConfig(), common.Vec3{}, f.timers, nil)
	require.True(t, p.TryCollect(f.target(), common.Vec3{}, true))
	assert.InDelta(t, 30, f.stats.Value(StatAttackDamage), 1e-9)

	f.advance(20)
	assert.Equal(t, 25.0, f.stats.Value(StatAttackDamage))
}

func TestPowerUpShieldBlocksDamage(t *testing.T) {
	f := newPowerUpFixture()
	p := NewPowerUp(PeraConfig(), common.Vec3{}, f.timers, nil)
	require.True(t, p.TryCollect(f.target(), common.Vec3{}, true))

	assert.Equal(t, DamageRejectedImmune, f.health.ApplyDamage(2))
	f.advance(15)
	assert.Equal(t, DamageApplied, f.health.ApplyDamage(2))
}

func TestPowerUpRespawns(t *testing.T) {
	f := newPowerUpFixture()
	p := NewPowerUp(PeraConfig(), common.Vec3{}, f.timers, nil)
	respawned := 0
	p.OnRespawn = func(*PowerUp) { respawned++ }

	require.True(t, p.TryCollect(f.target(), common.Vec3{}, true))
	assert.False(t, p.TryCollect(f.target(), common.Vec3{}, true), "already taken")

	f.advance(44)
	assert.False(t, p.Available())
	f.advance(1)
	assert.True(t, p.Available())
	assert.Equal(t, 1, respawned)
}

func TestPowerUpCancelDropsRespawn(t *testing.T) {
	f := newPowerUpFixture()
	p := NewPowerUp(PeraConfig(), common.Vec3{}, f.timers, nil)
	require.True(t, p.TryCollect(f.target(), common.Vec3{}, true))

	p.Cancel()
	f.advance(100)
	assert.False(t, p.Available())
}

func TestPowerUpRejectsUnusableTarget(t *testing.T) {
	f := newPowerUpFixture()
	boost := NewPowerUp(MangoConfig(), common.Vec3{}, f.timers, nil)
	assert.False(t, boost.TryCollect(PowerUpTarget{Health: f.health}, common.Vec3{}, true), "no stats to modify")

	f.health.Kill()
	shield := NewPowerUp(PeraConfig(), common.Vec3{}, f.timers, nil)
	assert.False(t, shield.TryCollect(f.target(), common.Vec3{}, true), "dead collector")
	assert.True(t, shield.Available())
}

func TestParsePowerUpKind(t *testing.T) {
	k, err := ParsePowerUpKind("shield")
	require.NoError(t, err)
	assert.Equal(t, PowerUpShield, k)

	_, err = ParsePowerUpKind("banana")
	assert.ErrorIs(t, err, ErrUnknownPowerUp)
	assert.NoError(t, MoraConfig().Validate())
	assert.Error(t, PowerUpConfig{Kind: PowerUpShield}.Validate())
}
