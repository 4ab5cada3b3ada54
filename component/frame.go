package component

import (
	"errors"

	"github.com/milk9111/reverie/common"
)

var ErrFrameCycle = errors.New("frame: parent would create a cycle")

// Frame is a translation-only transform node. Yaw is a local facing that
// children do not inherit.
type Frame struct {
	local  common.Vec3
	yaw    float64
	parent *Frame
}

func NewFrame(pos common.Vec3) *Frame {
	return &Frame{local: pos}
}

func (f *Frame) WorldPosition() common.Vec3 {
	if f == nil {
		return common.Vec3{}
	}
	if f.parent == nil {
		return f.local
	}
	return f.parent.WorldPosition().Add(f.local)
}

func (f *Frame) SetWorldPosition(p common.Vec3) {
	if f == nil {
		return
	}
	if f.parent == nil {
		f.local = p
		return
	}
	f.local = p.Sub(f.parent.WorldPosition())
}

func (f *Frame) LocalPosition() common.Vec3 {
	if f == nil {
		return common.Vec3{}
	}
	return f.local
}

func (f *Frame) SetLocalPosition(p common.Vec3) {
	if f == nil {
		return
	}
	f.local = p
}

// Translate moves the frame by delta in world space.
func (f *Frame) Translate(delta common.Vec3) {
	if f == nil {
		return
	}
	f.local = f.local.Add(delta)
}

func (f *Frame) Parent() *Frame {
	if f == nil {
		return nil
	}
	return f.parent
}

// SetParent reattaches the frame while keeping its world position.
func (f *Frame) SetParent(p *Frame) error {
	if f == nil {
		return nil
	}
	for n := p; n != nil; n = n.parent {
		if n == f {
			return ErrFrameCycle
		}
	}
	world := f.WorldPosition()
	f.parent = p
	f.SetWorldPosition(world)
	return nil
}

func (f *Frame) Yaw() float64 {
	if f == nil {
		return 0
	}
	return f.yaw
}

func (f *Frame) SetYaw(yaw float64) {
	if f == nil {
		return
	}
	f.yaw = common.WrapAngle(yaw)
}

// MoveBy lets a bare frame stand in for a movement integrator.
func (f *Frame) MoveBy(delta common.Vec3) {
	f.Translate(delta)
}

// IsGrounded is always false for a bare frame.
func (f *Frame) IsGrounded() bool {
	return false
}
