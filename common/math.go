package common

import "math"

const (
	BaseWidth  = 1280
	BaseHeight = 720
)

// Epsilon is the smallest duration accepted for timeline segments.
const Epsilon = 0.0001

// Vec3 is a position or displacement in world units. Y is up.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

var Up = Vec3{Y: 1}

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Normalize returns the unit vector of v, or the zero vector when v is
// too short to have a direction.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Horizontal drops the vertical component.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

func (v Vec3) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y) && IsFinite(v.Z)
}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LerpVec3Unclamped interpolates without clamping t, so values slightly
// outside [0,1] extrapolate along the segment.
func LerpVec3Unclamped(a, b Vec3, t float64) Vec3 {
	return Vec3{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t), Z: Lerp(a.Z, b.Z, t)}
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// YawTowards returns the heading (radians around Y, 0 facing +Z) that looks
// from "from" to "to" on the horizontal plane.
func YawTowards(from, to Vec3) (float64, bool) {
	d := to.Sub(from).Horizontal()
	if d.LenSq() < 1e-12 {
		return 0, false
	}
	return math.Atan2(d.X, d.Z), true
}

// Forward is the unit heading for yaw, the inverse of YawTowards.
func Forward(yaw float64) Vec3 {
	return Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
}

// WrapAngle maps an angle into (-pi, pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// LerpAngle interpolates along the shortest arc between two headings.
func LerpAngle(from, to, t float64) float64 {
	diff := WrapAngle(to - from)
	return WrapAngle(from + diff*Clamp(t, 0, 1))
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
