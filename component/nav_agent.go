package component

import (
	"github.com/milk9111/reverie/common"
)

// NavAgentConfig tunes a NavAgent.
type NavAgentConfig struct {
	Speed            float64
	StoppingDistance float64
}

func DefaultNavAgentConfig() NavAgentConfig {
	return NavAgentConfig{Speed: 2, StoppingDistance: 3}
}

// NavAgent is a PathPlanner that plans on a NavGrid and walks its owner
// along the result through a MovementIntegrator.
type NavAgent struct {
	grid  *NavGrid
	frame *Frame
	mover MovementIntegrator

	speed    float64
	stopping float64

	status    PathStatus
	waypoints []common.Vec3
	velocity  common.Vec3
}

// NewNavAgent binds an agent to grid. A nil mover moves frame directly.
func NewNavAgent(cfg NavAgentConfig, grid *NavGrid, frame *Frame, mover MovementIntegrator) *NavAgent {
	if mover == nil && frame != nil {
		mover = frame
	}
	return &NavAgent{
		grid:     grid,
		frame:    frame,
		mover:    mover,
		speed:    max(cfg.Speed, 0),
		stopping: max(cfg.StoppingDistance, 0),
	}
}

func (n *NavAgent) position() common.Vec3 {
	if n.frame == nil {
		return common.Vec3{}
	}
	return n.frame.WorldPosition()
}

// RequestPathTo plans from the owner's position to point. Goals outside the
// grid are clamped to its edge and reported as partial.
func (n *NavAgent) RequestPathTo(point common.Vec3) bool {
	if n == nil || n.grid == nil || n.frame == nil || !point.IsFinite() {
		return false
	}
	from := n.position()
	start, ok := n.grid.CellAt(from)
	if !ok {
		start = n.grid.ClampCell(from)
	}
	goal, inside := n.grid.CellAt(point)
	if !inside {
		goal = n.grid.ClampCell(point)
	}
	cells := n.grid.FindPath(start, goal)
	if cells == nil {
		n.status = PathInvalid
		n.waypoints = nil
		return false
	}

	n.waypoints = n.waypoints[:0]
	for _, c := range cells[1:] {
		wp := n.grid.CellCenter(c)
		wp.Y = from.Y
		n.waypoints = append(n.waypoints, wp)
	}
	end := point
	if !inside {
		end = n.grid.CellCenter(goal)
	}
	end.Y = from.Y
	if len(n.waypoints) == 0 {
		n.waypoints = append(n.waypoints, end)
	} else {
		n.waypoints[len(n.waypoints)-1] = end
	}

	n.status = PathComplete
	if !inside {
		n.status = PathPartial
	}
	return true
}

func (n *NavAgent) HasValidPath() bool {
	return n != nil && (n.status == PathComplete || n.status == PathPartial)
}

func (n *NavAgent) Status() PathStatus {
	if n == nil {
		return PathNone
	}
	return n.status
}

// RemainingDistance is the horizontal length of what is left of the path.
func (n *NavAgent) RemainingDistance() float64 {
	if !n.HasValidPath() || len(n.waypoints) == 0 {
		return 0
	}
	total := 0.0
	prev := n.position().Horizontal()
	for _, wp := range n.waypoints {
		h := wp.Horizontal()
		total += prev.Dist(h)
		prev = h
	}
	return total
}

func (n *NavAgent) CancelPath() {
	if n == nil {
		return
	}
	n.status = PathNone
	n.waypoints = n.waypoints[:0]
}

func (n *NavAgent) NearestReachablePoint(point common.Vec3, maxRadius float64) (common.Vec3, bool) {
	if n == nil {
		return common.Vec3{}, false
	}
	return n.grid.NearestWalkable(point, maxRadius)
}

func (n *NavAgent) StoppingDistance() float64 {
	if n == nil {
		return 0
	}
	return n.stopping
}

func (n *NavAgent) SetSpeed(speed float64) {
	if n == nil || speed < 0 || !common.IsFinite(speed) {
		return
	}
	n.speed = speed
}

func (n *NavAgent) Speed() float64 {
	if n == nil {
		return 0
	}
	return n.speed
}

func (n *NavAgent) Velocity() common.Vec3 {
	if n == nil {
		return common.Vec3{}
	}
	return n.velocity
}

func (n *NavAgent) Halt() {
	if n == nil {
		return
	}
	n.CancelPath()
	n.velocity = common.Vec3{}
}

// Waypoints returns the points still ahead of the agent.
func (n *NavAgent) Waypoints() []common.Vec3 {
	if n == nil {
		return nil
	}
	return n.waypoints
}

// Update walks the owner along the path for dt seconds. Movement stops once
// the remaining distance is within the stopping distance.
func (n *NavAgent) Update(dt float64) {
	if n == nil || dt <= 0 || n.mover == nil {
		return
	}
	if !n.HasValidPath() || len(n.waypoints) == 0 || n.RemainingDistance() <= n.stopping {
		n.velocity = common.Vec3{}
		return
	}
	budget := min(n.speed*dt, n.RemainingDistance()-n.stopping)
	pos := n.position()
	moved := common.Vec3{}
	for budget > common.Epsilon && len(n.waypoints) > 0 {
		to := n.waypoints[0].Sub(pos.Add(moved)).Horizontal()
		dist := to.Len()
		if dist <= budget {
			moved = moved.Add(to)
			budget -= dist
			n.waypoints = n.waypoints[1:]
			continue
		}
		moved = moved.Add(to.Normalize().Scale(budget))
		budget = 0
	}
	n.mover.MoveBy(moved)
	n.velocity = moved.Scale(1 / dt)
}
