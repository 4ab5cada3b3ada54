package ecs

import (
	"log/slog"

	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs/component"
)

// System updates a world once per tick. The tick length is World.Delta.
type System interface {
	Update(w *World)
}

// World owns entities, their components and the shared resources systems
// need: the simulation clock, timers, events and the physics world.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue

	clock   *core.SimClock
	timers  *core.TimerQueue
	physics *PhysicsWorld
	logger  *slog.Logger
	delta   float64
}

// NewWorld creates an empty world with its own clock and timer queue.
func NewWorld() *World {
	clock := core.NewSimClock()
	return &World{
		stores: make(map[component.ComponentID]*SparseSet),
		clock:  clock,
		timers: core.NewTimerQueue(clock),
		logger: slog.Default(),
	}
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) Clock() *core.SimClock {
	if w == nil {
		return nil
	}
	return w.clock
}

func (w *World) Timers() *core.TimerQueue {
	if w == nil {
		return nil
	}
	return w.timers
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physics = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physics
}

func (w *World) SetLogger(l *slog.Logger) {
	if w == nil || l == nil {
		return
	}
	w.logger = l
}

func (w *World) Logger() *slog.Logger {
	if w == nil || w.logger == nil {
		return slog.Default()
	}
	return w.logger
}

// Delta is the length in seconds of the tick being run.
func (w *World) Delta() float64 {
	if w == nil {
		return 0
	}
	return w.delta
}

func (w *World) setDelta(dt float64) {
	w.delta = dt
}
