package component

import (
	"testing"

	"github.com/milk9111/reverie/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRespawnAfterFall(t *testing.T) {
	clock := NewSimClock()
	c := NewCheckpointTracker(DefaultCheckpointConfig(), clock, nil)

	_, ok := c.Check(common.V3(0, -20, 0))
	assert.False(t, ok, "nothing saved yet")

	c.Save(common.V3(3, 1, 0))
	_, ok = c.Check(common.V3(3, -9, 0))
	assert.False(t, ok, "above the kill line")

	pos, ok := c.Check(common.V3(3, -11, 0))
	require.True(t, ok)
	assert.Equal(t, common.V3(3, 3, 0), pos)
}

func TestCheckpointGracePeriod(t *testing.T) {
	clock := NewSimClock()
	c := NewCheckpointTracker(DefaultCheckpointConfig(), clock, nil)
	c.Save(common.Vec3{})
	respawns := 0
	c.OnRespawn = func(common.Vec3) { respawns++ }

	_, ok := c.Check(common.V3(0, -11, 0))
	require.True(t, ok)

	clock.Advance(0.5)
	_, ok = c.Check(common.V3(0, -11, 0))
	assert.False(t, ok, "still inside grace")

	clock.Advance(0.6)
	_, ok = c.Check(common.V3(0, -11, 0))
	assert.True(t, ok)
	assert.Equal(t, 2, respawns)
}

func TestCheckpointIslandRegistration(t *testing.T) {
	clock := NewSimClock()
	c := NewCheckpointTracker(DefaultCheckpointConfig(), clock, nil)

	assert.False(t, c.RegisterIsland("isla_1", common.V3(1, 0, 0), 0.2), "side contact")
	assert.True(t, c.RegisterIsland("isla_1", common.V3(1, 0, 0), 1))

	clock.Advance(0.1)
	assert.False(t, c.RegisterIsland("isla_1", common.V3(2, 0, 0), 1), "cooldown")
	assert.True(t, c.RegisterIsland("isla_2", common.V3(9, 0, 0), 1), "cooldown is per island")

	pos, ok := c.Checkpoint()
	require.True(t, ok)
	assert.Equal(t, common.V3(9, 2, 0), pos)
}

func TestCheckpointForceRespawn(t *testing.T) {
	c := NewCheckpointTracker(DefaultCheckpointConfig(), NewSimClock(), nil)
	_, ok := c.ForceRespawn()
	assert.False(t, ok)

	c.Save(common.V3(0, 5, 0))
	pos, ok := c.ForceRespawn()
	require.True(t, ok)
	assert.Equal(t, common.V3(0, 7, 0), pos)
}
