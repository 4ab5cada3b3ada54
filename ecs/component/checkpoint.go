package component

import core "github.com/milk9111/reverie/component"

// Checkpoint marks an island that saves the player's respawn point when
// landed on.
type Checkpoint struct {
	Island string
}

var CheckpointComponent = NewComponent[Checkpoint]()

// Respawn carries the player's checkpoint tracker.
type Respawn struct {
	Tracker *core.CheckpointTracker
}

var RespawnComponent = NewComponent[Respawn]()
