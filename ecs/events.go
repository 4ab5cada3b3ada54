package ecs

import "github.com/milk9111/reverie/common"

// EventType identifies what happened during a tick.
type EventType string

const (
	EventDamage      EventType = "damage"
	EventDeath       EventType = "death"
	EventPickup      EventType = "pickup"
	EventRespawn     EventType = "respawn"
	EventAttack      EventType = "attack"
	EventStateChange EventType = "state"
	EventLevelReset  EventType = "level_reset"
	EventGameOver    EventType = "game_over"
	EventInteract    EventType = "interact"
)

// Event is one gameplay notification. Source is who caused it when that is
// known; Detail carries a short label such as a pursuit state or power-up
// kind.
type Event struct {
	Type     EventType
	Entity   Entity
	Source   Entity
	Amount   float64
	Position common.Vec3
	Detail   string
	Time     float64
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Emit stamps evt with the world clock and queues it.
func (w *World) Emit(evt Event) {
	if w == nil {
		return
	}
	evt.Time = w.clock.Now()
	w.events.Push(evt)
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
