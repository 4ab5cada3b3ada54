package component

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/milk9111/reverie/common"
)

// PursuitState is the enemy behaviour state.
type PursuitState int

const (
	PursuitIdle PursuitState = iota
	PursuitChasing
	PursuitAttacking
)

func (s PursuitState) String() string {
	switch s {
	case PursuitIdle:
		return "idle"
	case PursuitChasing:
		return "chasing"
	case PursuitAttacking:
		return "attacking"
	}
	return "unknown"
}

// Animation parameter names driven by the agent.
const (
	AnimSpeed       = "Speed"
	AnimIsAttacking = "IsAttacking"
	AnimAttack      = "Attack"
)

var (
	ErrInvalidPursuit       = errors.New("pursuit: invalid config")
	ErrAttackRadiusTooLarge = errors.New("pursuit: attack radius must be below stopping distance")
	ErrHysteresisTooNarrow  = errors.New("pursuit: hysteresis band does not cover the path slack")
)

// PursuitConfig holds the tuning of one pursuing agent. Distances are in
// world units and times in seconds.
type PursuitConfig struct {
	DetectionRadius float64
	AttackRadius    float64
	WalkSpeed       float64
	ChaseSpeed      float64
	AttackCooldown  float64
	// AttackDuration is how long an attack animation keeps the agent busy.
	AttackDuration float64
	// HysteresisMargin is the extra distance beyond AttackRadius needed to
	// leave Attacking. It must be positive.
	HysteresisMargin float64
	// PathSlack widens the planner stopping distance when deciding that a
	// path is almost complete.
	PathSlack float64
	// FallbackRadius bounds the search for a reachable point near an
	// unreachable target.
	FallbackRadius float64
	// TurnRate scales the per-tick facing interpolation.
	TurnRate float64
}

func DefaultPursuitConfig() PursuitConfig {
	return PursuitConfig{
		DetectionRadius:  15,
		AttackRadius:     2.5,
		WalkSpeed:        2,
		ChaseSpeed:       3.5,
		AttackCooldown:   2,
		AttackDuration:   1.5,
		HysteresisMargin: 2,
		PathSlack:        0.5,
		FallbackRadius:   5,
		TurnRate:         10,
	}
}

// StoppingDistance is the planner stopping distance this config expects.
func (c PursuitConfig) StoppingDistance() float64 {
	return c.AttackRadius + 0.5
}

// Validate checks the config against the planner's stopping distance. The
// agent keeps running when it fails; callers log the error as a warning.
func (c PursuitConfig) Validate(stoppingDistance float64) error {
	var errs []error
	if c.DetectionRadius <= 0 {
		errs = append(errs, fmt.Errorf("%w: detection radius %v", ErrInvalidPursuit, c.DetectionRadius))
	}
	if c.AttackRadius < 0 {
		errs = append(errs, fmt.Errorf("%w: attack radius %v", ErrInvalidPursuit, c.AttackRadius))
	}
	if c.DetectionRadius <= c.AttackRadius {
		errs = append(errs, fmt.Errorf("%w: detection radius %v not above attack radius %v", ErrInvalidPursuit, c.DetectionRadius, c.AttackRadius))
	}
	if c.HysteresisMargin <= 0 {
		errs = append(errs, fmt.Errorf("%w: hysteresis margin %v must be positive", ErrInvalidPursuit, c.HysteresisMargin))
	}
	if c.AttackRadius >= stoppingDistance {
		errs = append(errs, fmt.Errorf("%w: attack %v, stopping %v", ErrAttackRadiusTooLarge, c.AttackRadius, stoppingDistance))
	}
	if c.HysteresisMargin > 0 && stoppingDistance+c.PathSlack > c.AttackRadius+c.HysteresisMargin {
		errs = append(errs, fmt.Errorf("%w: stopping %v + slack %v > attack %v + margin %v",
			ErrHysteresisTooNarrow, stoppingDistance, c.PathSlack, c.AttackRadius, c.HysteresisMargin))
	}
	return errors.Join(errs...)
}

// coverPathEntry widens the hysteresis margin to at least
// stopping + PathSlack - AttackRadius. Attacking can be entered once the
// remaining path is within stopping + PathSlack, and the exit check must not
// fire at that same distance.
func (c PursuitConfig) coverPathEntry(stoppingDistance float64) PursuitConfig {
	if need := stoppingDistance + c.PathSlack - c.AttackRadius; c.HysteresisMargin < need {
		c.HysteresisMargin = need
	}
	return c
}

func (c PursuitConfig) normalized() PursuitConfig {
	def := DefaultPursuitConfig()
	if c.HysteresisMargin <= 0 {
		c.HysteresisMargin = def.HysteresisMargin
	}
	if c.TurnRate <= 0 {
		c.TurnRate = def.TurnRate
	}
	if c.AttackRadius < 0 {
		c.AttackRadius = 0
	}
	if c.AttackDuration < 0 {
		c.AttackDuration = 0
	}
	if c.AttackCooldown < 0 {
		c.AttackCooldown = 0
	}
	if c.PathSlack < 0 {
		c.PathSlack = 0
	}
	return c
}

// PursuitDeps are the collaborators an agent needs. Frame is required; the
// rest degrade to no-ops when missing.
type PursuitDeps struct {
	Name     string
	Frame    *Frame
	Planner  PathPlanner
	Animator AnimationSink
	Target   Target
	Clock    Clock
	Timers   *TimerQueue
	Logger   *slog.Logger
}

// PursuitAgent runs the Idle / Chasing / Attacking state machine for one
// enemy.
type PursuitAgent struct {
	cfg PursuitConfig

	name     string
	frame    *Frame
	planner  PathPlanner
	animator AnimationSink
	target   Target
	clock    Clock
	timers   *TimerQueue
	logger   *slog.Logger

	state          PursuitState
	lastAttackTime float64
	isAttacking    bool
	stopped        bool
	disabled       bool
	unreachable    bool
	token          *CancelToken

	OnAttack      func(a *PursuitAgent)
	OnStateChange func(a *PursuitAgent, from, to PursuitState)
}

func NewPursuitAgent(cfg PursuitConfig, deps PursuitDeps) *PursuitAgent {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	animator := deps.Animator
	if animator == nil {
		animator = nopAnimator{}
	}
	a := &PursuitAgent{
		cfg:            cfg.normalized(),
		name:           deps.Name,
		frame:          deps.Frame,
		planner:        deps.Planner,
		animator:       animator,
		target:         deps.Target,
		clock:          deps.Clock,
		timers:         deps.Timers,
		logger:         logger,
		lastAttackTime: math.Inf(-1),
		token:          NewCancelToken(),
	}

	stopping := a.cfg.StoppingDistance()
	if a.planner != nil {
		stopping = a.planner.StoppingDistance()
		a.planner.SetSpeed(a.cfg.ChaseSpeed)
	} else {
		logger.Warn("pursuit: no path planner, chasing disabled", "agent", a.name)
	}
	if err := cfg.Validate(stopping); err != nil {
		logger.Warn("pursuit: config", "agent", a.name, "err", err)
	}
	a.cfg = a.cfg.coverPathEntry(stopping)
	if a.frame == nil {
		logger.Warn("pursuit: no frame, agent disabled", "agent", a.name)
		a.disabled = true
	}
	if a.target == nil {
		logger.Warn("pursuit: no target", "agent", a.name)
	}
	return a
}

// Update runs one tick. Exactly one transition is evaluated per call.
func (a *PursuitAgent) Update(dt float64) {
	if a == nil || a.disabled {
		return
	}
	a.expireAttack()
	if a.stopped {
		a.halt()
		a.syncAnimator()
		return
	}

	targetPos, ok := a.targetPosition()
	if !ok {
		if a.state != PursuitIdle {
			a.setState(PursuitIdle)
			a.halt()
		}
		a.syncAnimator()
		return
	}
	d := a.frame.WorldPosition().Dist(targetPos)

	switch a.state {
	case PursuitIdle:
		a.updateIdle(d)
	case PursuitChasing:
		a.updateChasing(d, targetPos)
	case PursuitAttacking:
		a.updateAttacking(dt, d, targetPos)
	}
	a.syncAnimator()
}

func (a *PursuitAgent) updateIdle(d float64) {
	if d <= a.cfg.DetectionRadius {
		a.logger.Debug("pursuit: target detected", "agent", a.name, "distance", d)
		a.setState(PursuitChasing)
	}
}

func (a *PursuitAgent) updateChasing(d float64, targetPos common.Vec3) {
	a.chase(targetPos)

	closeEnough := d <= a.cfg.AttackRadius
	almostThere := a.planner != nil && a.planner.HasValidPath() &&
		a.planner.RemainingDistance() <= a.planner.StoppingDistance()+a.cfg.PathSlack
	if closeEnough || almostThere {
		a.setState(PursuitAttacking)
		a.halt()
		return
	}
	if d > a.cfg.DetectionRadius {
		a.setState(PursuitIdle)
		a.halt()
	}
}

func (a *PursuitAgent) chase(targetPos common.Vec3) {
	if a.planner == nil {
		return
	}
	a.planner.SetSpeed(a.cfg.ChaseSpeed)
	a.planner.RequestPathTo(targetPos)
	if a.planner.Status() != PathInvalid {
		a.unreachable = false
		return
	}
	if p, ok := a.planner.NearestReachablePoint(targetPos, a.cfg.FallbackRadius); ok {
		a.planner.RequestPathTo(p)
		if a.planner.Status() != PathInvalid {
			a.unreachable = false
			return
		}
	}
	if !a.unreachable {
		a.logger.Warn("pursuit: target unreachable", "agent", a.name, "target", targetPos)
		a.unreachable = true
	}
	a.planner.Halt()
}

func (a *PursuitAgent) updateAttacking(dt, d float64, targetPos common.Vec3) {
	if d > a.cfg.AttackRadius+a.cfg.HysteresisMargin {
		a.logger.Debug("pursuit: target escaped", "agent", a.name, "distance", d)
		a.setState(PursuitChasing)
		return
	}
	a.halt()
	a.face(dt, targetPos)
	if !a.isAttacking && a.now()-a.lastAttackTime >= a.cfg.AttackCooldown {
		a.startAttack()
	}
}

func (a *PursuitAgent) face(dt float64, targetPos common.Vec3) {
	yaw, ok := common.YawTowards(a.frame.WorldPosition(), targetPos)
	if !ok || dt <= 0 {
		return
	}
	a.frame.SetYaw(common.LerpAngle(a.frame.Yaw(), yaw, dt*a.cfg.TurnRate))
}

func (a *PursuitAgent) startAttack() {
	a.isAttacking = true
	a.lastAttackTime = a.now()
	a.animator.SetTrigger(AnimAttack)
	a.logger.Debug("pursuit: attack", "agent", a.name, "at", a.lastAttackTime)
	if a.timers != nil {
		a.timers.Schedule(a.cfg.AttackDuration, a.token, func() {
			a.isAttacking = false
		})
	}
	if a.OnAttack != nil {
		a.OnAttack(a)
	}
}

// expireAttack clears the attack flag when no timer queue was provided.
func (a *PursuitAgent) expireAttack() {
	if a.timers != nil || !a.isAttacking {
		return
	}
	if a.now()-a.lastAttackTime >= a.cfg.AttackDuration {
		a.isAttacking = false
	}
}

func (a *PursuitAgent) halt() {
	if a.planner != nil {
		a.planner.Halt()
	}
}

func (a *PursuitAgent) syncAnimator() {
	speed := 0.0
	if a.planner != nil {
		speed = a.planner.Velocity().Len()
	}
	var value float64
	switch {
	case speed <= 0.1:
	case speed < 2.5:
		value = 0.5
	default:
		value = 1
	}
	a.animator.SetFloat(AnimSpeed, value)
	a.animator.SetBool(AnimIsAttacking, a.isAttacking)
}

func (a *PursuitAgent) setState(next PursuitState) {
	if a.state == next {
		return
	}
	prev := a.state
	a.state = next
	a.logger.Debug("pursuit: state", "agent", a.name, "from", prev.String(), "to", next.String())
	if a.OnStateChange != nil {
		a.OnStateChange(a, prev, next)
	}
}

func (a *PursuitAgent) targetPosition() (common.Vec3, bool) {
	if a.target == nil {
		return common.Vec3{}, false
	}
	return a.target.Position()
}

func (a *PursuitAgent) now() float64 {
	if a.clock == nil {
		return 0
	}
	return a.clock.Now()
}

// Stop freezes the agent in Idle until Resume.
func (a *PursuitAgent) Stop() {
	if a == nil || a.disabled {
		return
	}
	a.stopped = true
	a.setState(PursuitIdle)
	a.halt()
}

// Resume undoes Stop, chasing right away when the target is in range.
func (a *PursuitAgent) Resume() {
	if a == nil || a.disabled || !a.stopped {
		return
	}
	a.stopped = false
	if p, ok := a.targetPosition(); ok && a.frame.WorldPosition().Dist(p) <= a.cfg.DetectionRadius {
		a.setState(PursuitChasing)
	}
}

// SetTarget swaps the pursued target.
func (a *PursuitAgent) SetTarget(t Target) {
	if a == nil {
		return
	}
	a.target = t
}

// Disable stops the agent for good and drops its pending attack callback.
func (a *PursuitAgent) Disable() {
	if a == nil || a.disabled {
		return
	}
	a.disabled = true
	a.token.Cancel()
	a.isAttacking = false
	a.halt()
	a.animator.SetBool(AnimIsAttacking, false)
	a.animator.SetFloat(AnimSpeed, 0)
	a.logger.Debug("pursuit: disabled", "agent", a.name)
}

func (a *PursuitAgent) State() PursuitState {
	if a == nil {
		return PursuitIdle
	}
	return a.state
}

func (a *PursuitAgent) IsAttacking() bool {
	return a != nil && a.isAttacking
}

func (a *PursuitAgent) LastAttackTime() float64 {
	if a == nil {
		return math.Inf(-1)
	}
	return a.lastAttackTime
}

func (a *PursuitAgent) Stopped() bool {
	return a != nil && a.stopped
}

func (a *PursuitAgent) Disabled() bool {
	return a == nil || a.disabled
}

func (a *PursuitAgent) Config() PursuitConfig {
	if a == nil {
		return PursuitConfig{}
	}
	return a.cfg
}

func (a *PursuitAgent) Name() string {
	if a == nil {
		return ""
	}
	return a.name
}

func (a *PursuitAgent) Frame() *Frame {
	if a == nil {
		return nil
	}
	return a.frame
}
