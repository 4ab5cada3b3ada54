package system

import "github.com/milk9111/reverie/ecs"

type TimerSystem struct{}

func NewTimerSystem() *TimerSystem { return &TimerSystem{} }

// Update advances the world clock by the tick delta and fires due timers.
// It runs first so every later system sees the same time.
func (s *TimerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	w.Clock().Advance(w.Delta())
	w.Timers().Update()
}
