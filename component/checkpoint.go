package component

import (
	"log/slog"
	"math"

	"github.com/milk9111/reverie/common"
)

// CheckpointConfig tunes fall detection and respawning.
type CheckpointConfig struct {
	// KillY is the height below which the player is respawned.
	KillY float64
	// RespawnHeight is added to every saved contact point.
	RespawnHeight float64
	// Grace suppresses fall checks for this long after a respawn.
	Grace float64
	// IslandCooldown limits how often one island may save.
	IslandCooldown float64
	// MinNormalY is how upright a contact must be to count as landing.
	MinNormalY float64
}

func DefaultCheckpointConfig() CheckpointConfig {
	return CheckpointConfig{
		KillY:          -10,
		RespawnHeight:  2,
		Grace:          1,
		IslandCooldown: 0.3,
		MinNormalY:     0.5,
	}
}

// CheckpointTracker remembers where the player last landed safely and puts
// them back there after a fall.
type CheckpointTracker struct {
	cfg         CheckpointConfig
	clock       Clock
	logger      *slog.Logger
	checkpoint  common.Vec3
	active      bool
	lastRespawn float64
	islandSaves map[string]float64

	OnRespawn func(pos common.Vec3)
}

func NewCheckpointTracker(cfg CheckpointConfig, clock Clock, logger *slog.Logger) *CheckpointTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckpointTracker{
		cfg:         cfg,
		clock:       clock,
		logger:      logger,
		lastRespawn: math.Inf(-1),
		islandSaves: make(map[string]float64),
	}
}

func (c *CheckpointTracker) Config() CheckpointConfig {
	if c == nil {
		return CheckpointConfig{}
	}
	return c.cfg
}

// Save stores pos, raised by RespawnHeight, as the respawn point.
func (c *CheckpointTracker) Save(pos common.Vec3) {
	if c == nil || !pos.IsFinite() {
		return
	}
	c.checkpoint = pos.Add(common.V3(0, c.cfg.RespawnHeight, 0))
	c.active = true
	c.logger.Debug("checkpoint: saved", "pos", c.checkpoint)
}

// RegisterIsland saves contact when the player lands on island from above.
// Each island saves at most once per IslandCooldown.
func (c *CheckpointTracker) RegisterIsland(island string, contact common.Vec3, normalY float64) bool {
	if c == nil || normalY <= c.cfg.MinNormalY {
		return false
	}
	now := c.now()
	if last, ok := c.islandSaves[island]; ok && now-last < c.cfg.IslandCooldown {
		return false
	}
	c.islandSaves[island] = now
	c.Save(contact)
	return true
}

// Check respawns the player when pos has fallen below KillY. It returns the
// respawn position and true when that happened.
func (c *CheckpointTracker) Check(pos common.Vec3) (common.Vec3, bool) {
	if c == nil || !c.active || pos.Y >= c.cfg.KillY {
		return common.Vec3{}, false
	}
	if c.now()-c.lastRespawn <= c.cfg.Grace {
		return common.Vec3{}, false
	}
	return c.respawn(), true
}

// ForceRespawn returns the saved checkpoint regardless of height.
func (c *CheckpointTracker) ForceRespawn() (common.Vec3, bool) {
	if c == nil || !c.active {
		return common.Vec3{}, false
	}
	return c.respawn(), true
}

func (c *CheckpointTracker) respawn() common.Vec3 {
	c.lastRespawn = c.now()
	c.logger.Info("checkpoint: respawn", "pos", c.checkpoint)
	if c.OnRespawn != nil {
		c.OnRespawn(c.checkpoint)
	}
	return c.checkpoint
}

// Checkpoint returns the current respawn point.
func (c *CheckpointTracker) Checkpoint() (common.Vec3, bool) {
	if c == nil || !c.active {
		return common.Vec3{}, false
	}
	return c.checkpoint, true
}

func (c *CheckpointTracker) now() float64 {
	if c.clock == nil {
		return 0
	}
	return c.clock.Now()
}
