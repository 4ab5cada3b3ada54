package component

import "github.com/milk9111/reverie/common"

// Clock reports monotonic simulation time in seconds.
type Clock interface {
	Now() float64
}

// SimClock is a Clock advanced explicitly by the game loop.
type SimClock struct {
	now float64
}

func NewSimClock() *SimClock {
	return &SimClock{}
}

func (c *SimClock) Now() float64 {
	if c == nil {
		return 0
	}
	return c.now
}

// Advance moves time forward. Non-positive or non-finite steps are ignored
// so the clock never runs backwards.
func (c *SimClock) Advance(dt float64) {
	if c == nil || dt <= 0 || !common.IsFinite(dt) {
		return
	}
	c.now += dt
}
