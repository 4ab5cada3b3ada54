package component

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/milk9111/reverie/common"
)

// PowerUpKind selects what a pickup does to whoever collects it.
type PowerUpKind string

const (
	PowerUpHeal         PowerUpKind = "heal"
	PowerUpHealOverTime PowerUpKind = "heal_over_time"
	PowerUpDamageBoost  PowerUpKind = "damage_boost"
	PowerUpShield       PowerUpKind = "shield"
)

var ErrUnknownPowerUp = errors.New("component: unknown power-up kind")

func ParsePowerUpKind(s string) (PowerUpKind, error) {
	switch k := PowerUpKind(s); k {
	case PowerUpHeal, PowerUpHealOverTime, PowerUpDamageBoost, PowerUpShield:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPowerUp, s)
}

// PowerUpConfig describes one pickup. Fields that do not apply to Kind are
// ignored.
type PowerUpConfig struct {
	Kind PowerUpKind

	// Amount is healed per tick (heal, heal_over_time).
	Amount float64
	// Ticks and Interval shape heal_over_time. The first tick lands on pickup.
	Ticks    int
	Interval float64

	// Duration is how long a boost or shield lasts.
	Duration   float64
	Multiplier float64
	Stat       StatID

	PickupRadius    float64
	RespawnDelay    float64
	RequireInteract bool
}

// MoraConfig heals one point twice, two seconds apart.
func MoraConfig() PowerUpConfig {
	return PowerUpConfig{
		Kind:            PowerUpHealOverTime,
		Amount:          1,
		Ticks:           2,
		Interval:        2,
		PickupRadius:    2,
		RespawnDelay:    30,
		RequireInteract: true,
	}
}

// MangoConfig multiplies attack damage by 1.2 for twenty seconds.
func MangoConfig() PowerUpConfig {
	return PowerUpConfig{
		Kind:            PowerUpDamageBoost,
		Duration:        20,
		Multiplier:      1.2,
		Stat:            StatAttackDamage,
		PickupRadius:    2,
		RespawnDelay:    30,
		RequireInteract: true,
	}
}

// PeraConfig grants fifteen seconds of immunity.
func PeraConfig() PowerUpConfig {
	return PowerUpConfig{
		Kind:            PowerUpShield,
		Duration:        15,
		PickupRadius:    2,
		RespawnDelay:    45,
		RequireInteract: true,
	}
}

func (c PowerUpConfig) Validate() error {
	var errs []error
	if _, err := ParsePowerUpKind(string(c.Kind)); err != nil {
		errs = append(errs, err)
	}
	if c.PickupRadius <= 0 {
		errs = append(errs, fmt.Errorf("component: pickup radius %v must be positive", c.PickupRadius))
	}
	switch c.Kind {
	case PowerUpHeal, PowerUpHealOverTime:
		if c.Amount <= 0 {
			errs = append(errs, fmt.Errorf("component: heal amount %v must be positive", c.Amount))
		}
		if c.Kind == PowerUpHealOverTime && (c.Ticks <= 0 || c.Interval < 0) {
			errs = append(errs, fmt.Errorf("component: heal over time needs ticks > 0 and interval >= 0"))
		}
	case PowerUpDamageBoost:
		if c.Duration <= 0 || c.Multiplier <= 0 {
			errs = append(errs, fmt.Errorf("component: damage boost needs duration and multiplier > 0"))
		}
	case PowerUpShield:
		if c.Duration <= 0 {
			errs = append(errs, fmt.Errorf("component: shield duration %v must be positive", c.Duration))
		}
	}
	return errors.Join(errs...)
}

// PowerUpTarget is the part of a collector a pickup can touch. Token is
// cancelled when the collector goes away so pending ticks are dropped.
type PowerUpTarget struct {
	Health *HealthPool
	Stats  ModifiableStats
	Token  *CancelToken
}

// PowerUp is a pickup lying in the level. It disappears on collection and
// comes back after RespawnDelay.
type PowerUp struct {
	cfg       PowerUpConfig
	position  common.Vec3
	available bool

	timers  *TimerQueue
	token   *CancelToken
	respawn TimerHandle
	logger  *slog.Logger

	OnCollect func(p *PowerUp)
	OnRespawn func(p *PowerUp)
}

func NewPowerUp(cfg PowerUpConfig, position common.Vec3, timers *TimerQueue, logger *slog.Logger) *PowerUp {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn("powerup: invalid config", "kind", cfg.Kind, "err", err)
	}
	return &PowerUp{
		cfg:       cfg,
		position:  position,
		available: true,
		timers:    timers,
		token:     NewCancelToken(),
		logger:    logger,
	}
}

func (p *PowerUp) Config() PowerUpConfig {
	if p == nil {
		return PowerUpConfig{}
	}
	return p.cfg
}

func (p *PowerUp) Position() common.Vec3 {
	if p == nil {
		return common.Vec3{}
	}
	return p.position
}

func (p *PowerUp) Available() bool {
	return p != nil && p.available
}

// InRange reports whether pos is close enough to pick this up.
func (p *PowerUp) InRange(pos common.Vec3) bool {
	if p == nil {
		return false
	}
	return p.position.Dist(pos) <= p.cfg.PickupRadius
}

// TryCollect applies the effect when the collector at pos is in range and,
// if required, pressed interact. It returns false and changes nothing when
// the pickup cannot be taken.
func (p *PowerUp) TryCollect(target PowerUpTarget, pos common.Vec3, interact bool) bool {
	if !p.Available() {
		return false
	}
	if p.cfg.RequireInteract && !interact {
		return false
	}
	if !p.InRange(pos) {
		return false
	}
	if !p.apply(target) {
		return false
	}
	p.available = false
	p.logger.Debug("powerup: collected", "kind", p.cfg.Kind)
	if p.OnCollect != nil {
		p.OnCollect(p)
	}
	p.scheduleRespawn()
	return true
}

func (p *PowerUp) apply(target PowerUpTarget) bool {
	if target.Health != nil && !target.Health.IsAlive() {
		return false
	}
	switch p.cfg.Kind {
	case PowerUpHeal:
		if target.Health == nil {
			return false
		}
		target.Health.Heal(p.cfg.Amount)
	case PowerUpHealOverTime:
		if target.Health == nil {
			return false
		}
		p.healTick(target, p.cfg.Ticks)
	case PowerUpDamageBoost:
		if target.Stats == nil {
			return false
		}
		ApplyTimedModifier(target.Stats, p.timers, target.Token, p.cfg.Stat, ModMultiply, p.cfg.Multiplier, p.cfg.Duration)
	case PowerUpShield:
		if target.Health == nil {
			return false
		}
		target.Health.ActivateImmunity(p.cfg.Duration)
	default:
		return false
	}
	return true
}

// healTick heals once and schedules the next tick while any remain.
func (p *PowerUp) healTick(target PowerUpTarget, remaining int) {
	if remaining <= 0 || !target.Health.IsAlive() {
		return
	}
	target.Health.Heal(p.cfg.Amount)
	if remaining == 1 || p.timers == nil {
		return
	}
	p.timers.Schedule(p.cfg.Interval, target.Token, func() {
		p.healTick(target, remaining-1)
	})
}

func (p *PowerUp) scheduleRespawn() {
	if p.timers == nil || p.cfg.RespawnDelay <= 0 {
		return
	}
	p.respawn = p.timers.Schedule(p.cfg.RespawnDelay, p.token, func() {
		p.respawn = 0
		p.available = true
		p.logger.Debug("powerup: respawned", "kind", p.cfg.Kind)
		if p.OnRespawn != nil {
			p.OnRespawn(p)
		}
	})
}

// Cancel drops a pending respawn. Used when the level is torn down.
func (p *PowerUp) Cancel() {
	if p == nil {
		return
	}
	p.token.Cancel()
	if p.respawn != 0 && p.timers != nil {
		p.timers.Cancel(p.respawn)
	}
	p.respawn = 0
}
