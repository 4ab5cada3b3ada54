package component

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/reverie/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlanner struct {
	status    PathStatus
	remaining float64
	stopping  float64
	velocity  common.Vec3
	speed     float64

	requests []common.Vec3
	halts    int

	invalid func(p common.Vec3) bool
	nearest func(p common.Vec3, r float64) (common.Vec3, bool)
}

func newFakePlanner() *fakePlanner {
	return &fakePlanner{remaining: 100, stopping: 3}
}

func (f *fakePlanner) RequestPathTo(p common.Vec3) bool {
	f.requests = append(f.requests, p)
	if f.invalid != nil && f.invalid(p) {
		f.status = PathInvalid
		return false
	}
	f.status = PathComplete
	return true
}

func (f *fakePlanner) HasValidPath() bool {
	return f.status == PathComplete || f.status == PathPartial
}

func (f *fakePlanner) Status() PathStatus { return f.status }
func (f *fakePlanner) RemainingDistance() float64 { return f.remaining }
func (f *fakePlanner) CancelPath() { f.status = PathNone }
func (f *fakePlanner) StoppingDistance() float64 { return f.stopping }
func (f *fakePlanner) SetSpeed(s float64) { f.speed = s }
func (f *fakePlanner) Velocity() common.Vec3 { return f.velocity }
func (f *fakePlanner) Halt() { f.halts++; f.status = PathNone; f.velocity = common.Vec3{} }

func (f *fakePlanner) NearestReachablePoint(p common.Vec3, r float64) (common.Vec3, bool) {
	if f.nearest == nil {
		return common.Vec3{}, false
	}
	return f.nearest(p, r)
}

type pursuitFixture struct {
	clock   *SimClock
	timers  *TimerQueue
	planner *fakePlanner
	anim    *AnimationParams
	self    *Frame
	target  *Frame
	agent   *PursuitAgent
	attacks int
}

func newPursuitFixture(t *testing.T, cfg PursuitConfig) *pursuitFixture {
	t.Helper()
	f := &pursuitFixture{
		clock:   NewSimClock(),
		planner: newFakePlanner(),
		anim:    NewAnimationParams(),
		self:    NewFrame(common.Vec3{}),
		target:  NewFrame(common.V3(0, 0, 20)),
	}
	f.timers = NewTimerQueue(f.clock)
	f.agent = NewPursuitAgent(cfg, PursuitDeps{
		Name:     "grizzard",
		Frame:    f.self,
		Planner:  f.planner,
		Animator: f.anim,
		Target:   FrameTarget{Frame: f.target},
		Clock:    f.clock,
		Timers:   f.timers,
	})
	f.agent.OnAttack = func(*PursuitAgent) { f.attacks++ }
	return f
}

func (f *pursuitFixture) tick(dt float64) {
	f.clock.Advance(dt)
	f.timers.Update()
	f.agent.Update(dt)
}

func (f *pursuitFixture) placeTarget(distance float64) {
	f.target.SetWorldPosition(common.V3(0, 0, distance))
}

func TestPursuitTransitions(t *testing.T) {
	f := newPursuitFixture(t, DefaultPursuitConfig())

	steps := []struct {
		name     string
		distance float64
		want     PursuitState
	}{
		{"far_stays_idle", 20, PursuitIdle},
		{"detected", 15, PursuitChasing},
		{"still_chasing", 8, PursuitChasing},
		{"in_attack_range", 2.5, PursuitAttacking},
		{"hover_at_attack_radius", 2.5, PursuitAttacking},
		{"inside_hysteresis_band", 4.5, PursuitAttacking},
		{"escaped", 4.6, PursuitChasing},
		{"lost", 15.1, PursuitIdle},
	}
	for _, s := range steps {
		f.placeTarget(s.distance)
		f.tick(0.1)
		assert.Equal(t, s.want, f.agent.State(), s.name)
	}
}

func TestPursuitPathAlmostCompleteEntersAttack(t *testing.T) {
	f := newPursuitFixture(t, DefaultPursuitConfig())
	f.placeTarget(5)
	f.tick(0.1)
	require.Equal(t, PursuitChasing, f.agent.State())

	f.planner.remaining = 3.5
	f.tick(0.1)
	assert.Equal(t, PursuitAttacking, f.agent.State(), "remaining within stopping distance plus slack")
}

func TestPursuitChasingReissuesRequestEveryTick(t *testing.T) {
	f := newPursuitFixture(t, DefaultPursuitConfig())
	f.placeTarget(10)
	f.tick(0.1)
	for i := 0; i < 3; i++ {
		f.target.Translate(common.V3(1, 0, 0))
		f.tick(0.1)
	}
	require.Len(t, f.planner.requests, 3)
	assert.Equal(t, common.V3(3, 0, 10), f.planner.requests[2])
	assert.Equal(t, 3.5, f.planner.speed)
}

func TestPursuitFallbackToNearestReachable(t *testing.T) {
	f := newPursuitFixture(t, DefaultPursuitConfig())
	unreachable := common.V3(0, 0, 10)
	f.planner.invalid = func(p common.Vec3) bool { return p == unreachable }
	f.planner.nearest = func(p common.Vec3, r float64) (common.Vec3, bool) {
		assert.Equal(t, 5.0, r)
		return common.V3(0, 0, 8), true
	}

	f.placeTarget(10)
	f.tick(0.1)
	f.tick(0.1)

	require.Len(t, f.planner.requests, 2)
	assert.Equal(t, common.V3(0, 0, 8), f.planner.requests[1])
	assert.Equal(t, PursuitChasing, f.agent.State())
}

func TestPursuitFallbackFailureStaysChasing(t *testing.T) {
	f := newPursuitFixture(t, DefaultPursuitConfig())
	f.planner.invalid = func(common.Vec3) bool { return true }

	f.placeTarget(10)
	f.tick(0.1)
	halts := f.planner.halts
	f.tick(0.1)
	f.tick(0.1)

	assert.Equal(t, PursuitChasing, f.agent.State())
	assert.Equal(t, halts+2, f.planner.halts, "no motion while unreachable")
}

func TestPursuitAttackCooldown(t *testing.T) {
	f := newPursuitFixture(t, DefaultPursuitConfig())
	f.placeTarget(10)
	f.tick(0.1)
	f.placeTarget(2)
	f.tick(0.1)
	require.Equal(t, PursuitAttacking, f.agent.State())
	assert.Equal(t, 0, f.attacks, "the entering tick only stops")

	f.tick(0.1)
	assert.Equal(t, 1, f.attacks)
	assert.True(t, f.agent.IsAttacking())
	assert.Equal(t, []string{AnimAttack}, f.anim.DrainTriggers())
	assert.True(t, f.anim.Bools[AnimIsAttacking])

	f.tick(1.5)
	assert.False(t, f.agent.IsAttacking(), "attack completes after its duration")
	assert.Equal(t, 1, f.attacks, "cooldown not yet elapsed")

	f.tick(0.6)
	assert.Equal(t, 2, f.attacks)
}

func TestPursuitAttackingHaltsEveryTick(t *testing.T) {
	f := newPursuitFixture(t, DefaultPursuitConfig())
	f.placeTarget(10)
	f.tick(0.1)
	f.placeTarget(1)
	f.tick(0.1)

	before := f.planner.halts
	for i := 0; i < 4; i++ {
		f.planner.velocity = common.V3(1, 0, 0)
		f.tick(0.1)
	}
	assert.Equal(t, before+4, f.planner.halts)
	assert.Equal(t, 0.0, f.anim.Floats[AnimSpeed])
}

func TestPursuitFacesTargetOnHorizontalPlane(t *testing.T) {
	f := newPursuitFixture(t, DefaultPursuitConfig())
	f.target.SetWorldPosition(common.V3(1, 30, 0))
	f.agent.state = PursuitAttacking
	for i := 0; i < 60; i++ {
		f.target.SetWorldPosition(common.V3(1, 0.5, 0))
		f.tick(0.05)
	}
	assert.InDelta(t, math.Pi/2, f.self.Yaw(), 1e-3)
}

func TestPursuitDisableCancelsPendingAttack(t *testing.T) {
	f := newPursuitFixture(t, DefaultPursuitConfig())
	f.placeTarget(2)
	f.agent.state = PursuitAttacking
	f.tick(0.1)
	require.True(t, f.agent.IsAttacking())
	require.Equal(t, 1, f.timers.Pending())

	f.agent.Disable()
	assert.False(t, f.agent.IsAttacking())
	f.clock.Advance(5)
	assert.Equal(t, 0, f.timers.Update(), "callback dropped by token")

	f.agent.Update(0.1)
	assert.Equal(t, 1, f.attacks, "disabled agent never attacks again")
}

func TestPursuitStopAndResume(t *testing.T) {
	f := newPursuitFixture(t, DefaultPursuitConfig())
	f.placeTarget(10)
	f.tick(0.1)
	require.Equal(t, PursuitChasing, f.agent.State())

	f.agent.Stop()
	f.tick(0.1)
	assert.Equal(t, PursuitIdle, f.agent.State())
	assert.True(t, f.agent.Stopped())

	f.agent.Resume()
	assert.Equal(t, PursuitChasing, f.agent.State())
}

func TestPursuitAnimatorSpeed(t *testing.T) {
	cases := []struct {
		speed float64
		want  float64
	}{
		{0, 0},
		{0.1, 0},
		{1, 0.5},
		{3.5, 1},
	}
	for _, c := range cases {
		f := newPursuitFixture(t, DefaultPursuitConfig())
		f.planner.velocity = common.V3(c.speed, 0, 0)
		f.agent.Update(0.1)
		assert.Equal(t, c.want, f.anim.Floats[AnimSpeed], "speed %v", c.speed)
	}
}

func TestPursuitConfigValidate(t *testing.T) {
	cfg := DefaultPursuitConfig()
	require.NoError(t, cfg.Validate(cfg.StoppingDistance()))

	cfg.AttackRadius = 3
	err := cfg.Validate(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAttackRadiusTooLarge))

	cfg = DefaultPursuitConfig()
	cfg.HysteresisMargin = 0
	assert.ErrorIs(t, cfg.Validate(10), ErrInvalidPursuit)
}

func TestPursuitBandCoversPathEntry(t *testing.T) {
	cfg := DefaultPursuitConfig()
	cfg.AttackRadius = 1
	assert.ErrorIs(t, cfg.Validate(4), ErrHysteresisTooNarrow)

	clock := NewSimClock()
	grid := NewNavGrid(common.Vec3{}, 1, 30, 1)
	self := NewFrame(common.V3(0.5, 0, 0.5))
	target := NewFrame(common.V3(4.7, 0, 0.5))
	nav := NewNavAgent(NavAgentConfig{Speed: 3, StoppingDistance: 4}, grid, self, nil)
	agent := NewPursuitAgent(cfg, PursuitDeps{Frame: self, Planner: nav, Target: FrameTarget{Frame: target}, Clock: clock})
	assert.InDelta(t, 3.5, agent.Config().HysteresisMargin, 1e-9)

	var states []PursuitState
	for i := 0; i < 8; i++ {
		clock.Advance(0.1)
		agent.Update(0.1)
		states = append(states, agent.State())
	}
	assert.Equal(t, PursuitChasing, states[0])
	for i, s := range states[1:] {
		assert.Equal(t, PursuitAttacking, s, "tick %d", i+2)
	}
}

func TestPursuitWithoutTargetIdles(t *testing.T) {
	clock := NewSimClock()
	agent := NewPursuitAgent(DefaultPursuitConfig(), PursuitDeps{Frame: NewFrame(common.Vec3{}), Clock: clock})
	agent.Update(0.1)
	assert.Equal(t, PursuitIdle, agent.State())

	var nilAgent *PursuitAgent
	nilAgent.Update(0.1)
	assert.True(t, nilAgent.Disabled())
}
