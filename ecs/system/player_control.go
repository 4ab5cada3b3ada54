package system

import (
	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
	"github.com/milk9111/reverie/ecs"
	"github.com/milk9111/reverie/ecs/component"
)

const (
	defaultMoveSpeed = 5.0
	defaultJumpSpeed = 8.0
)

type PlayerControlSystem struct{}

func NewPlayerControlSystem() *PlayerControlSystem { return &PlayerControlSystem{} }

// Update turns the player's input into motion: horizontal movement from the
// move_speed stat, a jump from jump_speed when grounded, and gravity. Attack
// requests are queued for the CombatSystem and interact presses are edge
// detected for the InteractSystem.
func (s *PlayerControlSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	if dt <= 0 {
		return
	}
	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), component.MoverComponent.Kind(), func(e ecs.Entity, p *component.Player, t *component.Transform, m *component.Mover) {
		if p == nil || t == nil || t.Frame == nil || m == nil {
			return
		}
		p.InteractPressed = p.Input.Interact && !p.InteractHeld
		p.InteractHeld = p.Input.Interact
		if ecs.Has(w, e, component.DeadComponent.Kind()) {
			m.Velocity = common.Vec3{}
			return
		}
		mover := m.Integrator
		if mover == nil {
			mover = t.Frame
		}

		moveSpeed, jumpSpeed := defaultMoveSpeed, defaultJumpSpeed
		if st, ok := ecs.Get(w, e, component.StatsComponent.Kind()); ok && st != nil && st.Block != nil {
			if st.Block.Has(core.StatMoveSpeed) {
				moveSpeed = st.Block.Value(core.StatMoveSpeed)
			}
			if st.Block.Has(core.StatJumpSpeed) {
				jumpSpeed = st.Block.Value(core.StatJumpSpeed)
			}
		}

		dir := common.V3(p.Input.MoveX, 0, p.Input.MoveZ)
		if dir.LenSq() > 1 {
			dir = dir.Normalize()
		}
		if yaw, ok := common.YawTowards(common.Vec3{}, dir); ok {
			t.Frame.SetYaw(yaw)
		}

		grounded := mover.IsGrounded()
		if grounded && m.Velocity.Y < 0 {
			m.Velocity.Y = 0
		}
		if p.Input.Jump && grounded {
			m.Velocity.Y = jumpSpeed
		}
		m.Velocity.Y -= m.Gravity * dt
		m.Velocity.X = dir.X * moveSpeed
		m.Velocity.Z = dir.Z * moveSpeed

		mover.MoveBy(m.Velocity.Scale(dt))
		m.Grounded = mover.IsGrounded()
		if m.Grounded && m.Velocity.Y < 0 {
			m.Velocity.Y = 0
		}

		if p.Input.Attack {
			p.AttackQueued = true
		}
	})
}
