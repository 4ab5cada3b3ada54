package component

import core "github.com/milk9111/reverie/component"

// Platform is a moving surface driven by a cyclic timeline. FixedStep
// platforms advance in the fixed-rate pass.
type Platform struct {
	Name      string
	Timeline  *core.CyclicTimeline
	Riders    *core.RiderRegistry
	FixedStep bool
	Width     float64
	Height    float64
}

var PlatformComponent = NewComponent[Platform]()

// Rider marks entities that can be carried by platforms.
type Rider struct{}

var RiderComponent = NewComponent[Rider]()
