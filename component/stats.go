package component

import "sort"

// StatID names a modifiable numeric stat.
type StatID string

const (
	StatAttackDamage StatID = "attack_damage"
	StatMoveSpeed    StatID = "move_speed"
	StatJumpSpeed    StatID = "jump_speed"
)

// ModifierOp is how a modifier combines with the base value.
type ModifierOp int

const (
	ModAdd ModifierOp = iota
	ModMultiply
)

// ModifierHandle identifies one applied modifier.
type ModifierHandle uint64

// ModifiableStats is the typed surface buffs use to change another
// component's numbers.
type ModifiableStats interface {
	Value(id StatID) float64
	AddModifier(id StatID, op ModifierOp, amount float64) ModifierHandle
	RemoveModifier(h ModifierHandle) bool
}

type statModifier struct {
	handle ModifierHandle
	stat   StatID
	op     ModifierOp
	amount float64
}

// StatBlock holds base values plus stacked modifiers. Additive modifiers
// apply first, then every multiplier.
type StatBlock struct {
	base map[StatID]float64
	mods map[ModifierHandle]statModifier
	next ModifierHandle
}

func NewStatBlock(base map[StatID]float64) *StatBlock {
	s := &StatBlock{
		base: make(map[StatID]float64, len(base)),
		mods: make(map[ModifierHandle]statModifier),
	}
	for k, v := range base {
		s.base[k] = v
	}
	return s
}

func (s *StatBlock) Base(id StatID) float64 {
	if s == nil {
		return 0
	}
	return s.base[id]
}

func (s *StatBlock) SetBase(id StatID, v float64) {
	if s == nil {
		return
	}
	s.base[id] = v
}

func (s *StatBlock) Has(id StatID) bool {
	if s == nil {
		return false
	}
	_, ok := s.base[id]
	return ok
}

func (s *StatBlock) Value(id StatID) float64 {
	if s == nil {
		return 0
	}
	v := s.base[id]
	mult := 1.0
	for _, m := range s.ordered() {
		if m.stat != id {
			continue
		}
		switch m.op {
		case ModAdd:
			v += m.amount
		case ModMultiply:
			mult *= m.amount
		}
	}
	return v * mult
}

func (s *StatBlock) ordered() []statModifier {
	out := make([]statModifier, 0, len(s.mods))
	for _, m := range s.mods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].handle < out[j].handle })
	return out
}

func (s *StatBlock) AddModifier(id StatID, op ModifierOp, amount float64) ModifierHandle {
	if s == nil {
		return 0
	}
	s.next++
	s.mods[s.next] = statModifier{handle: s.next, stat: id, op: op, amount: amount}
	return s.next
}

func (s *StatBlock) RemoveModifier(h ModifierHandle) bool {
	if s == nil {
		return false
	}
	if _, ok := s.mods[h]; !ok {
		return false
	}
	delete(s.mods, h)
	return true
}

// Modifiers returns the number of active modifiers.
func (s *StatBlock) Modifiers() int {
	if s == nil {
		return 0
	}
	return len(s.mods)
}

// ApplyTimedModifier adds a modifier and removes it after duration seconds.
// Cancelling token keeps the modifier from being removed by the timer, which
// only matters once the owner is gone.
func ApplyTimedModifier(stats ModifiableStats, timers *TimerQueue, token *CancelToken, id StatID, op ModifierOp, amount, duration float64) ModifierHandle {
	if stats == nil {
		return 0
	}
	h := stats.AddModifier(id, op, amount)
	if timers != nil && duration > 0 {
		timers.Schedule(duration, token, func() { stats.RemoveModifier(h) })
	}
	return h
}
