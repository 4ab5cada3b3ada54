package component

import "github.com/milk9111/reverie/common"

// PathStatus mirrors what a path planner knows about its current request.
type PathStatus int

const (
	PathNone PathStatus = iota
	PathPending
	PathComplete
	PathPartial
	PathInvalid
)

func (s PathStatus) String() string {
	switch s {
	case PathNone:
		return "none"
	case PathPending:
		return "pending"
	case PathComplete:
		return "complete"
	case PathPartial:
		return "partial"
	case PathInvalid:
		return "invalid"
	}
	return "unknown"
}

// PathPlanner is the navigation service that moves an agent toward a point.
type PathPlanner interface {
	RequestPathTo(point common.Vec3) bool
	HasValidPath() bool
	Status() PathStatus
	RemainingDistance() float64
	CancelPath()
	NearestReachablePoint(point common.Vec3, maxRadius float64) (common.Vec3, bool)
	StoppingDistance() float64
	SetSpeed(speed float64)
	Velocity() common.Vec3
	// Halt cancels the current path and zeroes velocity.
	Halt()
}

// MovementIntegrator applies displacement with the owner's own collision
// rules.
type MovementIntegrator interface {
	MoveBy(delta common.Vec3)
	IsGrounded() bool
}

// AnimationSink receives fire-and-forget animation parameters.
type AnimationSink interface {
	SetTrigger(name string)
	SetFloat(name string, value float64)
	SetBool(name string, value bool)
}

// EntityHandle is an opaque reference to a scene entity.
type EntityHandle uint64

// SceneQuery answers lookups against the live scene.
type SceneQuery interface {
	FindEntityByTag(tag string) (EntityHandle, bool)
	OverlapSphere(center common.Vec3, radius float64) []EntityHandle
}

// Target is something an agent can pursue. ok is false once it is gone.
type Target interface {
	Position() (common.Vec3, bool)
}

// FrameTarget tracks a frame for as long as Alive reports true.
type FrameTarget struct {
	Frame *Frame
	Alive func() bool
}

func (t FrameTarget) Position() (common.Vec3, bool) {
	if t.Frame == nil {
		return common.Vec3{}, false
	}
	if t.Alive != nil && !t.Alive() {
		return common.Vec3{}, false
	}
	return t.Frame.WorldPosition(), true
}

// Capability is something death switches off, such as movement or attacks.
type Capability interface {
	Disable()
}

type nopAnimator struct{}

func (nopAnimator) SetTrigger(string) {}
func (nopAnimator) SetFloat(string, float64) {}
func (nopAnimator) SetBool(string, bool) {}

// AnimationParams records the last value of every animation parameter. It
// is enough for headless runs and for the viewer's debug overlay.
type AnimationParams struct {
	Floats   map[string]float64
	Bools    map[string]bool
	Triggers []string
}

func NewAnimationParams() *AnimationParams {
	return &AnimationParams{Floats: map[string]float64{}, Bools: map[string]bool{}}
}

func (a *AnimationParams) SetTrigger(name string) {
	if a == nil {
		return
	}
	a.Triggers = append(a.Triggers, name)
}

func (a *AnimationParams) SetFloat(name string, value float64) {
	if a == nil {
		return
	}
	a.Floats[name] = value
}

func (a *AnimationParams) SetBool(name string, value bool) {
	if a == nil {
		return
	}
	a.Bools[name] = value
}

// DrainTriggers returns and clears the triggers fired since the last call.
func (a *AnimationParams) DrainTriggers() []string {
	if a == nil || len(a.Triggers) == 0 {
		return nil
	}
	out := a.Triggers
	a.Triggers = nil
	return out
}
