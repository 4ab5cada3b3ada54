package system

import (
	"github.com/milk9111/reverie/common"
	"github.com/milk9111/reverie/ecs"
)

const (
	DefaultFixedStep = 1.0 / 50.0
	// maxFixedSteps bounds catch-up after a long frame.
	maxFixedSteps = 8
)

// Pipeline owns the per-tick system order. Each Step first runs as many
// fixed-rate steps as the accumulated time allows, then one variable-rate
// tick.
type Pipeline struct {
	world    *ecs.World
	fixed    *ecs.Scheduler
	variable *ecs.Scheduler
	death    *DeathSystem

	fixedStep   float64
	accumulator float64
}

func NewPipeline(w *ecs.World, fixedStep float64, policy DeathPolicy) *Pipeline {
	if fixedStep <= 0 || !common.IsFinite(fixedStep) {
		fixedStep = DefaultFixedStep
	}
	death := NewDeathSystem(policy)
	return &Pipeline{
		world: w,
		fixed: ecs.NewScheduler(
			NewPlatformSystem(true),
			NewRiderSystem(true),
		),
		variable: ecs.NewScheduler(
			NewTimerSystem(),
			NewTTLSystem(),
			NewPlatformSystem(false),
			NewRiderSystem(false),
			NewPlayerControlSystem(),
			NewNavigationSystem(),
			NewAISystem(),
			NewCombatSystem(),
			NewProjectileSystem(),
			NewHazardSystem(),
			NewPickupSystem(),
			NewInteractSystem(),
			NewCheckpointSystem(),
			death,
		),
		death:     death,
		fixedStep: fixedStep,
	}
}

func (p *Pipeline) World() *ecs.World {
	if p == nil {
		return nil
	}
	return p.world
}

func (p *Pipeline) FixedStep() float64 {
	if p == nil {
		return 0
	}
	return p.fixedStep
}

// SetDeathPolicy replaces the policy used for deaths from now on.
func (p *Pipeline) SetDeathPolicy(policy DeathPolicy) {
	if p == nil {
		return
	}
	p.death.SetPolicy(policy)
}

// Step advances the simulation by dt seconds and returns the events raised
// during it.
func (p *Pipeline) Step(dt float64) []ecs.Event {
	if p == nil || p.world == nil || dt < 0 || !common.IsFinite(dt) {
		return nil
	}
	p.accumulator += dt
	steps := 0
	for p.accumulator >= p.fixedStep && steps < maxFixedSteps {
		p.fixed.Update(p.world, p.fixedStep)
		p.accumulator -= p.fixedStep
		steps++
	}
	if steps == maxFixedSteps && p.accumulator >= p.fixedStep {
		p.world.Logger().Debug("pipeline: dropping fixed time", "behind", p.accumulator)
		p.accumulator = 0
	}
	p.variable.Update(p.world, dt)
	return p.world.Events().Drain()
}
