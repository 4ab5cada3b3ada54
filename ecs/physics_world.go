package ecs

import (
	"log/slog"
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/reverie/common"
	core "github.com/milk9111/reverie/component"
)

const (
	collisionTypeActor cp.CollisionType = iota + 1
	collisionTypeSolid
	collisionTypeSensor
)

// ShapeRole says how a shape takes part in queries.
type ShapeRole int

const (
	// RoleActor shapes move through MoveBy and land on solids.
	RoleActor ShapeRole = iota
	// RoleSolid shapes are ground: islands and platform tops.
	RoleSolid
	// RoleSensor shapes only report overlaps.
	RoleSensor
)

const (
	groundProbe   = 0.05
	landTolerance = 0.25
)

// ShapeSpec is a box attached to an entity's body. Offsets move the box
// center away from the entity position on the side-view plane.
type ShapeSpec struct {
	Role    ShapeRole
	Tag     string
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
}

type shapeInfo struct {
	entity Entity
	role   ShapeRole
	tag    string
}

type physicsBody struct {
	body   *cp.Body
	shapes []*cp.Shape
	z      float64
}

// PhysicsWorld keeps a Chipmunk space of kinematic bodies laid out on the
// X/Y side-view plane. Depth (Z) is tracked per body and only used by
// OverlapSphere.
type PhysicsWorld struct {
	space  *cp.Space
	bodies map[Entity]*physicsBody
	logger *slog.Logger
}

func NewPhysicsWorld(logger *slog.Logger) *PhysicsWorld {
	if logger == nil {
		logger = slog.Default()
	}
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	return &PhysicsWorld{
		space:  space,
		bodies: make(map[Entity]*physicsBody),
		logger: logger,
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// AddBody creates a kinematic body for e at pos, replacing any earlier one.
func (pw *PhysicsWorld) AddBody(e Entity, pos common.Vec3, shapes ...ShapeSpec) {
	if pw == nil || !e.Valid() {
		return
	}
	pw.Remove(e)

	body := cp.NewKinematicBody()
	body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})
	body.UserData = e
	pw.space.AddBody(body)

	pb := &physicsBody{body: body, z: pos.Z}
	for _, spec := range shapes {
		if spec.Width <= 0 || spec.Height <= 0 {
			pw.logger.Warn("physics: skipping empty shape", "entity", e, "tag", spec.Tag)
			continue
		}
		bb := cp.NewBBForExtents(cp.Vector{X: spec.OffsetX, Y: spec.OffsetY}, spec.Width/2, spec.Height/2)
		shape := cp.NewBox2(body, bb, 0)
		shape.UserData = &shapeInfo{entity: e, role: spec.Role, tag: spec.Tag}
		switch spec.Role {
		case RoleSolid:
			shape.SetCollisionType(collisionTypeSolid)
		case RoleSensor:
			shape.SetCollisionType(collisionTypeSensor)
			shape.SetSensor(true)
		default:
			shape.SetCollisionType(collisionTypeActor)
		}
		pw.space.AddShape(shape)
		shape.CacheBB()
		pb.shapes = append(pb.shapes, shape)
	}
	pw.bodies[e] = pb
}

// Remove drops e's body. Unknown entities are ignored.
func (pw *PhysicsWorld) Remove(e Entity) {
	if pw == nil {
		return
	}
	pb, ok := pw.bodies[e]
	if !ok {
		return
	}
	for _, s := range pb.shapes {
		pw.space.RemoveShape(s)
	}
	pw.space.RemoveBody(pb.body)
	delete(pw.bodies, e)
}

func (pw *PhysicsWorld) Has(e Entity) bool {
	if pw == nil {
		return false
	}
	_, ok := pw.bodies[e]
	return ok
}

func (pw *PhysicsWorld) Position(e Entity) (common.Vec3, bool) {
	if pw == nil {
		return common.Vec3{}, false
	}
	pb, ok := pw.bodies[e]
	if !ok {
		return common.Vec3{}, false
	}
	p := pb.body.Position()
	return common.V3(p.X, p.Y, pb.z), true
}

// SetPosition teleports e's body and refreshes its shape bounds.
func (pw *PhysicsWorld) SetPosition(e Entity, pos common.Vec3) {
	if pw == nil {
		return
	}
	pb, ok := pw.bodies[e]
	if !ok {
		return
	}
	pb.body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})
	pb.z = pos.Z
	for _, s := range pb.shapes {
		s.CacheBB()
	}
}

func info(s *cp.Shape) (*shapeInfo, bool) {
	si, ok := s.UserData.(*shapeInfo)
	return si, ok && si != nil
}

// bounds returns the union of e's shapes matching role and tag. An empty
// tag matches every tag.
func (pw *PhysicsWorld) bounds(e Entity, role ShapeRole, tag string) (cp.BB, bool) {
	pb, ok := pw.bodies[e]
	if !ok {
		return cp.BB{}, false
	}
	var out cp.BB
	found := false
	for _, s := range pb.shapes {
		si, ok := info(s)
		if !ok || si.role != role || (tag != "" && si.tag != tag) {
			continue
		}
		bb := s.CacheBB()
		if !found {
			out = bb
			found = true
			continue
		}
		out = cp.BB{
			L: math.Min(out.L, bb.L),
			B: math.Min(out.B, bb.B),
			R: math.Max(out.R, bb.R),
			T: math.Max(out.T, bb.T),
		}
	}
	return out, found
}

// Bounds returns e's box for role on the side-view plane.
func (pw *PhysicsWorld) Bounds(e Entity, role ShapeRole) (cp.BB, bool) {
	if pw == nil {
		return cp.BB{}, false
	}
	return pw.bounds(e, role, "")
}

// query visits every shape of another entity whose bounds intersect bb.
func (pw *PhysicsWorld) query(bb cp.BB, skip Entity, fn func(s *cp.Shape, si *shapeInfo)) {
	pw.space.EachShape(func(s *cp.Shape) {
		si, ok := info(s)
		if !ok || si.entity == skip {
			return
		}
		if !s.CacheBB().Intersects(bb) {
			return
		}
		fn(s, si)
	})
}

// Overlapping lists the entities with a role shape overlapping the shape of
// e tagged selfTag, in id order.
func (pw *PhysicsWorld) Overlapping(e Entity, selfTag string, role ShapeRole) []Entity {
	if pw == nil {
		return nil
	}
	selfRole := RoleSensor
	if selfTag == "" {
		selfRole = RoleActor
	}
	bb, ok := pw.bounds(e, selfRole, selfTag)
	if !ok {
		return nil
	}
	seen := map[Entity]bool{}
	pw.query(bb, e, func(_ *cp.Shape, si *shapeInfo) {
		if si.role == role {
			seen[si.entity] = true
		}
	})
	return sortedEntities(seen)
}

// SensorsTouching lists entities whose sensor tagged tag overlaps e's actor
// shape.
func (pw *PhysicsWorld) SensorsTouching(e Entity, tag string) []Entity {
	if pw == nil {
		return nil
	}
	bb, ok := pw.bounds(e, RoleActor, "")
	if !ok {
		return nil
	}
	seen := map[Entity]bool{}
	pw.query(bb, e, func(_ *cp.Shape, si *shapeInfo) {
		if si.role == RoleSensor && (tag == "" || si.tag == tag) {
			seen[si.entity] = true
		}
	})
	return sortedEntities(seen)
}

// OverlapSphere lists entities with an actor shape within radius of center.
// The side-view box is treated as extending through the body's depth.
func (pw *PhysicsWorld) OverlapSphere(center common.Vec3, radius float64) []Entity {
	if pw == nil || radius < 0 {
		return nil
	}
	probe := cp.NewBBForCircle(cp.Vector{X: center.X, Y: center.Y}, radius)
	seen := map[Entity]bool{}
	pw.query(probe, 0, func(s *cp.Shape, si *shapeInfo) {
		if si.role != RoleActor {
			return
		}
		pb := pw.bodies[si.entity]
		bb := s.CacheBB()
		dx := math.Max(math.Max(bb.L-center.X, 0), center.X-bb.R)
		dy := math.Max(math.Max(bb.B-center.Y, 0), center.Y-bb.T)
		dz := 0.0
		if pb != nil {
			dz = pb.z - center.Z
		}
		if dx*dx+dy*dy+dz*dz <= radius*radius {
			seen[si.entity] = true
		}
	})
	return sortedEntities(seen)
}

// GroundContact reports the solid directly under e's feet, the contact point
// and the contact normal's Y component.
func (pw *PhysicsWorld) GroundContact(e Entity) (Entity, common.Vec3, float64, bool) {
	if pw == nil {
		return 0, common.Vec3{}, 0, false
	}
	feet, ok := pw.bounds(e, RoleActor, "")
	if !ok {
		return 0, common.Vec3{}, 0, false
	}
	probe := cp.BB{L: feet.L, B: feet.B - groundProbe, R: feet.R, T: feet.B + groundProbe}
	var (
		best    Entity
		bestTop = math.Inf(-1)
	)
	pw.query(probe, e, func(s *cp.Shape, si *shapeInfo) {
		if si.role != RoleSolid {
			return
		}
		top := s.CacheBB().T
		if top > feet.B+groundProbe {
			return
		}
		if top > bestTop || (top == bestTop && si.entity < best) {
			best, bestTop = si.entity, top
		}
	})
	if best == 0 {
		return 0, common.Vec3{}, 0, false
	}
	z := pw.bodies[e].z
	return best, common.V3((feet.L+feet.R)/2, bestTop, z), 1, true
}

func (pw *PhysicsWorld) IsGrounded(e Entity) bool {
	_, _, _, ok := pw.GroundContact(e)
	return ok
}

// MoveBy moves e by delta and lands it on any solid it fell onto from
// above. It returns the resolved position.
func (pw *PhysicsWorld) MoveBy(e Entity, from common.Vec3, delta common.Vec3) common.Vec3 {
	if pw == nil || !pw.Has(e) {
		return from.Add(delta)
	}
	before, _ := pw.bounds(e, RoleActor, "")
	to := from.Add(delta)
	pw.SetPosition(e, to)
	if delta.Y > 0 {
		return to
	}
	after, ok := pw.bounds(e, RoleActor, "")
	if !ok {
		return to
	}
	lift := 0.0
	pw.query(after, e, func(s *cp.Shape, si *shapeInfo) {
		if si.role != RoleSolid {
			return
		}
		top := s.CacheBB().T
		if before.B < top-landTolerance {
			return
		}
		lift = math.Max(lift, top-after.B)
	})
	if lift > 0 {
		to.Y += lift
		pw.SetPosition(e, to)
	}
	return to
}

func sortedEntities(set map[Entity]bool) []Entity {
	if len(set) == 0 {
		return nil
	}
	out := make([]Entity, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BodyMover is the MovementIntegrator for an entity with a physics body. It
// keeps the entity's frame and body in step.
type BodyMover struct {
	physics *PhysicsWorld
	entity  Entity
	frame   *core.Frame
}

func NewBodyMover(pw *PhysicsWorld, e Entity, frame *core.Frame) *BodyMover {
	return &BodyMover{physics: pw, entity: e, frame: frame}
}

func (m *BodyMover) MoveBy(delta common.Vec3) {
	if m == nil || m.frame == nil {
		return
	}
	from := m.frame.WorldPosition()
	m.frame.SetWorldPosition(m.physics.MoveBy(m.entity, from, delta))
}

func (m *BodyMover) IsGrounded() bool {
	if m == nil {
		return false
	}
	return m.physics.IsGrounded(m.entity)
}

// Sync copies the frame position to the body after an outside teleport.
func (m *BodyMover) Sync() {
	if m == nil || m.frame == nil {
		return
	}
	m.physics.SetPosition(m.entity, m.frame.WorldPosition())
}
