package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type disableRecorder struct {
	disabled int
}

func (d *disableRecorder) Disable() { d.disabled++ }

func TestHealthPoolInvulnerabilityWindow(t *testing.T) {
	clock := NewSimClock()
	h := NewHealthPool(HealthConfig{Max: 6, InvulnerabilityWindow: 1}, clock)

	assert.Equal(t, DamageApplied, h.ApplyDamage(5))
	clock.Advance(0.5)
	assert.Equal(t, DamageRejectedInvulnerable, h.ApplyDamage(5))
	assert.Equal(t, 1.0, h.Current())

	clock.Advance(0.5)
	assert.Equal(t, DamageApplied, h.ApplyDamage(5))
	assert.Equal(t, 0.0, h.Current())
	assert.False(t, h.IsAlive())
}

func TestHealthPoolDeathIsTerminal(t *testing.T) {
	clock := NewSimClock()
	h := NewHealthPool(HealthConfig{Max: 2}, clock)
	movement := &disableRecorder{}
	attack := &disableRecorder{}
	h.BindCapabilities(movement, attack, nil)
	deaths := 0
	h.OnDeath = func(*HealthPool) { deaths++ }

	require.True(t, h.ApplyDamage(3).Applied())
	assert.Equal(t, 0.0, h.Current(), "health clamps at zero")
	assert.Equal(t, 1, deaths)
	assert.Equal(t, 1, movement.disabled)
	assert.Equal(t, 1, attack.disabled)

	clock.Advance(10)
	assert.Equal(t, DamageRejectedDead, h.ApplyDamage(1))
	assert.False(t, h.Heal(5))
	h.Kill()
	assert.Equal(t, 0.0, h.Current())
	assert.Equal(t, 1, deaths, "death fires once")
}

func TestHealthPoolImmunityRestarts(t *testing.T) {
	clock := NewSimClock()
	h := NewHealthPool(HealthConfig{Max: 6}, clock)

	h.ActivateImmunity(15)
	clock.Advance(10)
	h.ActivateImmunity(15)
	assert.InDelta(t, 15, h.ImmunityRemaining(), 1e-9, "restart, not stack to 20")

	assert.Equal(t, DamageRejectedImmune, h.ApplyDamage(1))
	clock.Advance(15)
	assert.False(t, h.IsImmune())
	assert.Equal(t, DamageApplied, h.ApplyDamage(1))
}

func TestHealthPoolHeal(t *testing.T) {
	clock := NewSimClock()
	h := NewHealthPool(DefaultHealthConfig(), clock)
	healed := 0.0
	h.OnHeal = func(_ *HealthPool, amount float64) { healed += amount }

	assert.False(t, h.Heal(1), "already full")
	require.True(t, h.ApplyDamage(3).Applied())
	assert.True(t, h.Heal(10))
	assert.Equal(t, 6.0, h.Current())
	assert.Equal(t, 3.0, healed)
	assert.False(t, h.Heal(-1))
}

func TestHealthPoolRejectsInvalidDamage(t *testing.T) {
	h := NewHealthPool(DefaultHealthConfig(), NewSimClock())
	assert.Equal(t, DamageRejectedInvalid, h.ApplyDamage(0))
	assert.Equal(t, DamageRejectedInvalid, h.ApplyDamage(-2))

	var nilPool *HealthPool
	assert.Equal(t, DamageRejectedInvalid, nilPool.ApplyDamage(1))
	assert.False(t, nilPool.IsAlive())
}

func TestHealthPoolHearts(t *testing.T) {
	clock := NewSimClock()
	h := NewHealthPool(HealthConfig{Max: 6}, clock)

	cases := []struct {
		damage float64
		want   []HeartState
	}{
		{0, []HeartState{HeartFull, HeartFull, HeartFull}},
		{1, []HeartState{HeartFull, HeartFull, HeartHalf}},
		{2, []HeartState{HeartFull, HeartHalf, HeartEmpty}},
		{2, []HeartState{HeartHalf, HeartEmpty, HeartEmpty}},
	}
	for _, c := range cases {
		if c.damage > 0 {
			require.True(t, h.ApplyDamage(c.damage).Applied())
		}
		assert.Equal(t, c.want, h.Hearts(2))
	}
}
