package component

import (
	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
)

// Projectile flies in a straight line until it hits an enemy or the ground.
type Projectile struct {
	Source    core.EntityHandle
	Attack    string
	Direction common.Vec3
	Speed     float64
	Damage    float64
	Radius    float64
}

var ProjectileComponent = NewComponent[Projectile]()

// TTL destroys its entity once the world clock reaches Expires.
type TTL struct {
	Expires float64
}

var TTLComponent = NewComponent[TTL]()
