package component

import (
	"math"

	"github.com/milk9111/reverie/common"
)

// DamageResult says whether ApplyDamage changed health and, if not, why.
type DamageResult int

const (
	DamageApplied DamageResult = iota
	DamageRejectedDead
	DamageRejectedInvulnerable
	DamageRejectedImmune
	DamageRejectedInvalid
)

func (r DamageResult) Applied() bool {
	return r == DamageApplied
}

func (r DamageResult) String() string {
	switch r {
	case DamageApplied:
		return "applied"
	case DamageRejectedDead:
		return "dead"
	case DamageRejectedInvulnerable:
		return "invulnerable"
	case DamageRejectedImmune:
		return "immune"
	case DamageRejectedInvalid:
		return "invalid"
	}
	return "unknown"
}

// HealthConfig configures a HealthPool. Max is in health points; the player
// uses two points per heart.
type HealthConfig struct {
	Max                   float64
	InvulnerabilityWindow float64
}

func DefaultHealthConfig() HealthConfig {
	return HealthConfig{Max: 6, InvulnerabilityWindow: 1}
}

// HealthPool is a reusable health model for anything that can take damage.
type HealthPool struct {
	max         float64
	current     float64
	window      float64
	lastDamage  float64
	immuneUntil float64
	dead        bool

	clock        Clock
	capabilities []Capability

	OnDamage func(h *HealthPool, amount float64)
	OnHeal   func(h *HealthPool, amount float64)
	OnDeath  func(h *HealthPool)
}

// NewHealthPool creates a full pool. A non-positive max falls back to 1.
func NewHealthPool(cfg HealthConfig, clock Clock) *HealthPool {
	if cfg.Max <= 0 || !common.IsFinite(cfg.Max) {
		cfg.Max = 1
	}
	if cfg.InvulnerabilityWindow < 0 || !common.IsFinite(cfg.InvulnerabilityWindow) {
		cfg.InvulnerabilityWindow = 0
	}
	return &HealthPool{
		max:         cfg.Max,
		current:     cfg.Max,
		window:      cfg.InvulnerabilityWindow,
		lastDamage:  math.Inf(-1),
		immuneUntil: math.Inf(-1),
		clock:       clock,
	}
}

// BindCapabilities registers what gets disabled when the pool dies.
func (h *HealthPool) BindCapabilities(caps ...Capability) {
	if h == nil {
		return
	}
	for _, c := range caps {
		if c != nil {
			h.capabilities = append(h.capabilities, c)
		}
	}
}

// ApplyDamage removes amount from the pool unless the owner is dead, inside
// the invulnerability window, or immune. Rejected damage changes nothing.
func (h *HealthPool) ApplyDamage(amount float64) DamageResult {
	if h == nil || amount <= 0 || !common.IsFinite(amount) {
		return DamageRejectedInvalid
	}
	if h.dead {
		return DamageRejectedDead
	}
	now := h.now()
	if h.immuneAt(now) {
		return DamageRejectedImmune
	}
	if now-h.lastDamage < h.window {
		return DamageRejectedInvulnerable
	}
	h.current = common.Clamp(h.current-amount, 0, h.max)
	h.lastDamage = now
	if h.OnDamage != nil {
		h.OnDamage(h, amount)
	}
	if h.current <= 0 {
		h.die()
	}
	return DamageApplied
}

// Heal restores health up to the maximum. Dead pools cannot heal.
func (h *HealthPool) Heal(amount float64) bool {
	if h == nil || h.dead || amount <= 0 || !common.IsFinite(amount) {
		return false
	}
	before := h.current
	h.current = common.Clamp(h.current+amount, 0, h.max)
	if h.current == before {
		return false
	}
	if h.OnHeal != nil {
		h.OnHeal(h, h.current-before)
	}
	return true
}

// Kill drains the pool regardless of invulnerability or immunity.
func (h *HealthPool) Kill() {
	if h == nil || h.dead {
		return
	}
	h.current = 0
	h.die()
}

func (h *HealthPool) die() {
	h.dead = true
	for _, c := range h.capabilities {
		c.Disable()
	}
	if h.OnDeath != nil {
		h.OnDeath(h)
	}
}

// ActivateImmunity blocks all damage for duration seconds. A second call
// restarts the window from now instead of extending it.
func (h *HealthPool) ActivateImmunity(duration float64) {
	if h == nil || h.dead || duration <= 0 || !common.IsFinite(duration) {
		return
	}
	h.immuneUntil = h.now() + duration
}

func (h *HealthPool) IsImmune() bool {
	if h == nil {
		return false
	}
	return h.immuneAt(h.now())
}

func (h *HealthPool) immuneAt(now float64) bool {
	return now < h.immuneUntil
}

// ImmunityRemaining returns the seconds left on temporary immunity.
func (h *HealthPool) ImmunityRemaining() float64 {
	if h == nil {
		return 0
	}
	return math.Max(0, h.immuneUntil-h.now())
}

// IsInvulnerable reports whether the post-hit window is still running.
func (h *HealthPool) IsInvulnerable() bool {
	if h == nil {
		return false
	}
	return h.now()-h.lastDamage < h.window
}

func (h *HealthPool) IsAlive() bool {
	return h != nil && !h.dead
}

func (h *HealthPool) Current() float64 {
	if h == nil {
		return 0
	}
	return h.current
}

func (h *HealthPool) Max() float64 {
	if h == nil {
		return 0
	}
	return h.max
}

func (h *HealthPool) now() float64 {
	if h.clock == nil {
		return 0
	}
	return h.clock.Now()
}

// HeartState is how one heart icon renders.
type HeartState int

const (
	HeartEmpty HeartState = iota
	HeartHalf
	HeartFull
)

func (s HeartState) String() string {
	switch s {
	case HeartFull:
		return "full"
	case HeartHalf:
		return "half"
	}
	return "empty"
}

// Hearts splits the pool into icons of perHeart points each.
func (h *HealthPool) Hearts(perHeart float64) []HeartState {
	if h == nil || perHeart <= 0 {
		return nil
	}
	n := int(math.Ceil(h.max / perHeart))
	out := make([]HeartState, n)
	for i := range out {
		rest := h.current - float64(i)*perHeart
		switch {
		case rest >= perHeart:
			out[i] = HeartFull
		case rest >= perHeart/2:
			out[i] = HeartHalf
		default:
			out[i] = HeartEmpty
		}
	}
	return out
}
