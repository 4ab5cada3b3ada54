package component

import (
	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
)

// Mover holds an entity's own motion: velocity intent, gravity and the
// integrator that applies it.
type Mover struct {
	Velocity   common.Vec3
	Gravity    float64
	Grounded   bool
	Integrator core.MovementIntegrator
}

var MoverComponent = NewComponent[Mover]()
