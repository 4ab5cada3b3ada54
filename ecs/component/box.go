package component

import core "github.com/milk9111/reverie/component"

// Box is a closed crate. Opening it spawns a carryable chicken.
type Box struct {
	Name           string
	InteractRadius float64
	PickupRadius   float64
	CarryHeight    float64
	Opened         bool
}

var BoxComponent = NewComponent[Box]()

// Carryable is something the player can pick up and hold overhead. Carrier
// is zero while it sits on the ground.
type Carryable struct {
	Name         string
	PickupRadius float64
	CarryHeight  float64
	Carrier      core.EntityHandle
}

var CarryableComponent = NewComponent[Carryable]()
