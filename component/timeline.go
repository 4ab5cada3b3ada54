package component

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/milk9111/reverie/common"
)

// StartPoint selects the anchor a timeline reports at phase zero of play.
type StartPoint int

const (
	StartAtA StartPoint = iota
	StartAtB
)

func ParseStartPoint(s string) (StartPoint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a", "position_a":
		return StartAtA, nil
	case "b", "position_b":
		return StartAtB, nil
	}
	return StartAtA, fmt.Errorf("timeline: unknown start point %q", s)
}

// TimelineSegment names the four parts of a cycle.
type TimelineSegment int

const (
	SegmentHoldA TimelineSegment = iota
	SegmentTravelAB
	SegmentHoldB
	SegmentTravelBA
)

func (s TimelineSegment) String() string {
	switch s {
	case SegmentHoldA:
		return "hold_a"
	case SegmentTravelAB:
		return "travel_ab"
	case SegmentHoldB:
		return "hold_b"
	case SegmentTravelBA:
		return "travel_ba"
	}
	return "unknown"
}

var directionPresets = map[string]common.Vec3{
	"up":            {Y: 1},
	"down":          {Y: -1},
	"right":         {X: 1},
	"left":          {X: -1},
	"forward":       {Z: 1},
	"backward":      {Z: -1},
	"up_right":      {X: 1, Y: 1},
	"up_left":       {X: -1, Y: 1},
	"down_right":    {X: 1, Y: -1},
	"down_left":     {X: -1, Y: -1},
	"forward_up":    {Y: 1, Z: 1},
	"forward_down":  {Y: -1, Z: 1},
	"backward_up":   {Y: 1, Z: -1},
	"backward_down": {Y: -1, Z: -1},
}

// DirectionPreset resolves a named travel direction. The result is not
// normalized.
func DirectionPreset(name string) (common.Vec3, bool) {
	v, ok := directionPresets[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

var ErrInvalidTimeline = errors.New("timeline: invalid config")

// TimelineConfig describes a platform path starting at Origin.
type TimelineConfig struct {
	Origin     common.Vec3
	Direction  common.Vec3
	Distance   float64
	TravelTime float64
	WaitAtA    float64
	WaitAtB    float64
	StartAt    StartPoint
}

func DefaultTimelineConfig() TimelineConfig {
	return TimelineConfig{
		Direction:  common.Up,
		Distance:   2,
		TravelTime: 3,
		WaitAtA:    2,
		WaitAtB:    2,
	}
}

// Validate reports values NewCyclicTimeline will have to correct. The
// timeline is still usable when Validate fails.
func (c TimelineConfig) Validate() error {
	var errs []error
	if c.TravelTime < common.Epsilon || !common.IsFinite(c.TravelTime) {
		errs = append(errs, fmt.Errorf("%w: travel time %v below %v", ErrInvalidTimeline, c.TravelTime, common.Epsilon))
	}
	if c.WaitAtA < 0 || c.WaitAtB < 0 {
		errs = append(errs, fmt.Errorf("%w: negative wait (a=%v b=%v)", ErrInvalidTimeline, c.WaitAtA, c.WaitAtB))
	}
	if c.Direction.LenSq() < 1e-6 {
		errs = append(errs, fmt.Errorf("%w: zero direction, using up", ErrInvalidTimeline))
	}
	if c.Distance < 0 {
		errs = append(errs, fmt.Errorf("%w: negative distance %v", ErrInvalidTimeline, c.Distance))
	}
	return errors.Join(errs...)
}

// CyclicTimeline maps accumulated time onto the cycle
// hold A, travel A->B, hold B, travel B->A.
type CyclicTimeline struct {
	anchorA    common.Vec3
	anchorB    common.Vec3
	travelTime float64
	waitAtA    float64
	waitAtB    float64
	cycle      float64
	phase      float64
	startAt    StartPoint
}

// NewCyclicTimeline captures Origin as anchor A and places anchor B at
// Origin + normalize(Direction) * |Distance|. A zero direction means up.
func NewCyclicTimeline(cfg TimelineConfig) *CyclicTimeline {
	dir := cfg.Direction
	if dir.LenSq() < 1e-6 {
		dir = common.Up
	}
	dir = dir.Normalize()
	b := cfg.Origin.Add(dir.Scale(math.Abs(cfg.Distance)))
	return NewCyclicTimelineBetween(cfg.Origin, b, cfg.TravelTime, cfg.WaitAtA, cfg.WaitAtB, cfg.StartAt)
}

// NewCyclicTimelineBetween builds a timeline from explicit anchors.
func NewCyclicTimelineBetween(a, b common.Vec3, travelTime, waitAtA, waitAtB float64, start StartPoint) *CyclicTimeline {
	if travelTime < common.Epsilon || !common.IsFinite(travelTime) {
		travelTime = common.Epsilon
	}
	if waitAtA < 0 || !common.IsFinite(waitAtA) {
		waitAtA = 0
	}
	if waitAtB < 0 || !common.IsFinite(waitAtB) {
		waitAtB = 0
	}
	tl := &CyclicTimeline{
		anchorA:    a,
		anchorB:    b,
		travelTime: travelTime,
		waitAtA:    waitAtA,
		waitAtB:    waitAtB,
		startAt:    start,
	}
	tl.cycle = waitAtA + travelTime + waitAtB + travelTime
	if tl.cycle < common.Epsilon {
		tl.cycle = common.Epsilon
	}
	tl.Reset()
	return tl
}

// Reset puts the timeline back at its configured start anchor.
func (tl *CyclicTimeline) Reset() {
	if tl == nil {
		return
	}
	tl.phase = tl.startPhase()
}

func (tl *CyclicTimeline) startPhase() float64 {
	if tl.startAt == StartAtB {
		return tl.wrap(tl.waitAtA + tl.travelTime)
	}
	return 0
}

// Advance moves the phase forward by dt and wraps it into [0, cycle).
func (tl *CyclicTimeline) Advance(dt float64) {
	if tl == nil || !common.IsFinite(dt) {
		return
	}
	tl.phase = tl.wrap(tl.phase + dt)
}

func (tl *CyclicTimeline) wrap(p float64) float64 {
	p -= tl.cycle * math.Floor(p/tl.cycle)
	if p < 0 || p >= tl.cycle {
		p = 0
	}
	return p
}

// SetPhase jumps to an absolute phase, wrapped into the cycle.
func (tl *CyclicTimeline) SetPhase(p float64) {
	if tl == nil || !common.IsFinite(p) {
		return
	}
	tl.phase = tl.wrap(p)
}

// Position reports where the timeline is at the current phase.
func (tl *CyclicTimeline) Position() common.Vec3 {
	if tl == nil {
		return common.Vec3{}
	}
	seg, t := tl.Segment()
	switch seg {
	case SegmentHoldA:
		return tl.anchorA
	case SegmentTravelAB:
		return common.LerpVec3Unclamped(tl.anchorA, tl.anchorB, t)
	case SegmentHoldB:
		return tl.anchorB
	default:
		return common.LerpVec3Unclamped(tl.anchorB, tl.anchorA, t)
	}
}

// Segment returns the active segment and, for travel segments, the
// interpolation factor within it.
func (tl *CyclicTimeline) Segment() (TimelineSegment, float64) {
	if tl == nil {
		return SegmentHoldA, 0
	}
	p := tl.phase
	if p < tl.waitAtA {
		return SegmentHoldA, 0
	}
	p -= tl.waitAtA
	if p < tl.travelTime {
		return SegmentTravelAB, p / tl.travelTime
	}
	p -= tl.travelTime
	if p < tl.waitAtB {
		return SegmentHoldB, 0
	}
	p -= tl.waitAtB
	return SegmentTravelBA, p / tl.travelTime
}

func (tl *CyclicTimeline) Phase() float64 {
	if tl == nil {
		return 0
	}
	return tl.phase
}

func (tl *CyclicTimeline) CycleLength() float64 {
	if tl == nil {
		return 0
	}
	return tl.cycle
}

func (tl *CyclicTimeline) AnchorA() common.Vec3 {
	if tl == nil {
		return common.Vec3{}
	}
	return tl.anchorA
}

func (tl *CyclicTimeline) AnchorB() common.Vec3 {
	if tl == nil {
		return common.Vec3{}
	}
	return tl.anchorB
}

func (tl *CyclicTimeline) TravelTime() float64 {
	if tl == nil {
		return 0
	}
	return tl.travelTime
}
