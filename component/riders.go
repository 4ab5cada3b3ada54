package component

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/milk9111/reverie/common"
)

// RiderStrategy selects how platform motion reaches riders.
type RiderStrategy int

const (
	// RiderDelta moves each rider by the platform displacement every tick.
	RiderDelta RiderStrategy = iota
	// RiderParenting attaches riders to the platform frame while aboard.
	RiderParenting
)

func (s RiderStrategy) String() string {
	if s == RiderParenting {
		return "parenting"
	}
	return "delta"
}

func ParseRiderStrategy(s string) (RiderStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "delta":
		return RiderDelta, nil
	case "parenting", "parent":
		return RiderParenting, nil
	}
	return RiderDelta, fmt.Errorf("riders: unknown strategy %q", s)
}

// RiderBinding is what the registry needs to carry one rider. Mover is
// optional; without it the delta is written straight into Frame.
type RiderBinding struct {
	Frame *Frame
	Mover MovementIntegrator
}

type riderEntry struct {
	binding    RiderBinding
	prevParent *Frame
	appliedAt  uint64
}

// RiderRegistry tracks the riders standing on one platform.
type RiderRegistry struct {
	strategy RiderStrategy
	platform *Frame
	logger   *slog.Logger

	riders map[EntityHandle]*riderEntry
	order  []EntityHandle

	lastPos common.Vec3
	tracked bool
	tick    uint64
	// stamps of riders that left during the current tick
	leftAt map[EntityHandle]uint64
}

func NewRiderRegistry(strategy RiderStrategy, platform *Frame, logger *slog.Logger) *RiderRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &RiderRegistry{
		strategy: strategy,
		platform: platform,
		logger:   logger,
		riders:   make(map[EntityHandle]*riderEntry),
		leftAt:   make(map[EntityHandle]uint64),
	}
}

func (r *RiderRegistry) Strategy() RiderStrategy {
	if r == nil {
		return RiderDelta
	}
	return r.strategy
}

// OnEnter registers a rider. It reports false when the rider is already
// aboard or the binding has no frame.
func (r *RiderRegistry) OnEnter(h EntityHandle, b RiderBinding) bool {
	if r == nil || b.Frame == nil {
		return false
	}
	if _, ok := r.riders[h]; ok {
		return false
	}
	e := &riderEntry{binding: b, appliedAt: r.leftAt[h]}
	delete(r.leftAt, h)
	if r.strategy == RiderParenting && r.platform != nil {
		e.prevParent = b.Frame.Parent()
		if err := b.Frame.SetParent(r.platform); err != nil {
			r.logger.Warn("riders: parent rider", "rider", uint64(h), "err", err)
			return false
		}
	}
	r.riders[h] = e
	r.order = append(r.order, h)
	r.logger.Debug("riders: enter", "rider", uint64(h), "strategy", r.strategy.String())
	return true
}

// OnExit removes a rider, restoring its original parent under the
// parenting strategy.
func (r *RiderRegistry) OnExit(h EntityHandle) bool {
	if r == nil {
		return false
	}
	e, ok := r.riders[h]
	if !ok {
		return false
	}
	r.detach(e)
	delete(r.riders, h)
	for i, id := range r.order {
		if id == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if e.appliedAt == r.tick && r.tick > 0 {
		r.leftAt[h] = e.appliedAt
	}
	r.logger.Debug("riders: exit", "rider", uint64(h))
	return true
}

func (r *RiderRegistry) detach(e *riderEntry) {
	if r.strategy != RiderParenting || e == nil {
		return
	}
	if err := e.binding.Frame.SetParent(e.prevParent); err != nil {
		_ = e.binding.Frame.SetParent(nil)
	}
}

// Track records the platform position after its update and returns how far
// it moved since the previous call. The first call returns zero.
func (r *RiderRegistry) Track(pos common.Vec3) common.Vec3 {
	if r == nil {
		return common.Vec3{}
	}
	if !r.tracked {
		r.tracked = true
		r.lastPos = pos
		return common.Vec3{}
	}
	delta := pos.Sub(r.lastPos)
	r.lastPos = pos
	return delta
}

// Propagate carries riders by one tick of platform motion. It must run after
// the platform moved and before riders run their own movement. Each rider
// receives the delta at most once per tick, even if it left and re-entered
// in between. Under the parenting strategy riders already moved with the
// platform frame, so only the tick counter advances.
func (r *RiderRegistry) Propagate(delta common.Vec3) {
	if r == nil {
		return
	}
	r.tick++
	for k := range r.leftAt {
		delete(r.leftAt, k)
	}
	if r.strategy == RiderParenting || delta.IsZero() || !delta.IsFinite() {
		return
	}
	for _, h := range r.order {
		e := r.riders[h]
		if e == nil || e.appliedAt == r.tick {
			continue
		}
		e.appliedAt = r.tick
		if e.binding.Mover != nil {
			e.binding.Mover.MoveBy(delta)
			continue
		}
		e.binding.Frame.Translate(delta)
	}
}

// Reapply delivers a delta for the current tick to riders that have not
// received one yet, such as a rider that boarded after Propagate ran.
func (r *RiderRegistry) Reapply(delta common.Vec3) {
	if r == nil || r.strategy == RiderParenting || r.tick == 0 {
		return
	}
	for _, h := range r.order {
		e := r.riders[h]
		if e == nil || e.appliedAt == r.tick {
			continue
		}
		e.appliedAt = r.tick
		if e.binding.Mover != nil {
			e.binding.Mover.MoveBy(delta)
			continue
		}
		e.binding.Frame.Translate(delta)
	}
}

// Clear drops every rider, as when the platform is destroyed.
func (r *RiderRegistry) Clear() {
	if r == nil {
		return
	}
	for _, h := range r.order {
		r.detach(r.riders[h])
	}
	r.riders = make(map[EntityHandle]*riderEntry)
	r.order = nil
	r.leftAt = make(map[EntityHandle]uint64)
}

func (r *RiderRegistry) Contains(h EntityHandle) bool {
	if r == nil {
		return false
	}
	_, ok := r.riders[h]
	return ok
}

func (r *RiderRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.riders)
}

// Riders returns riders in boarding order.
func (r *RiderRegistry) Riders() []EntityHandle {
	if r == nil {
		return nil
	}
	return append([]EntityHandle(nil), r.order...)
}
