package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLerpVec3Unclamped(t *testing.T) {
	a := V3(0, 0, 0)
	b := V3(4, 2, 0)

	cases := []struct {
		name string
		t    float64
		want Vec3
	}{
		{"start", 0, a},
		{"mid", 0.5, V3(2, 1, 0)},
		{"end", 1, b},
		{"overshoot", 1.5, V3(6, 3, 0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := LerpVec3Unclamped(a, b, c.t)
			assert.True(t, got.ApproxEqual(c.want, 1e-9), "got %v want %v", got, c.want)
		})
	}
}

func TestYawTowards(t *testing.T) {
	yaw, ok := YawTowards(V3(0, 0, 0), V3(1, 5, 0))
	assert.True(t, ok)
	assert.InDelta(t, math.Pi/2, yaw, 1e-9)

	_, ok = YawTowards(V3(1, 0, 1), V3(1, 10, 1))
	assert.False(t, ok, "pure vertical offset has no heading")
}

func TestLerpAngleShortestArc(t *testing.T) {
	from := math.Pi - 0.1
	to := -math.Pi + 0.1
	got := LerpAngle(from, to, 0.5)
	assert.InDelta(t, math.Pi, math.Abs(got), 1e-9)
}

func TestNormalizeZero(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
	assert.InDelta(t, 1, V3(3, 4, 0).Normalize().Len(), 1e-12)
}

func TestForwardInvertsYawTowards(t *testing.T) {
	tests := []struct {
		name string
		dir  Vec3
	}{
		{"plus_z", V3(0, 0, 1)},
		{"plus_x", V3(1, 0, 0)},
		{"minus_x", V3(-1, 0, 0)},
		{"diagonal", V3(1, 0, -1).Normalize()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaw, ok := YawTowards(Vec3{}, tt.dir)
			assert.True(t, ok)
			assert.True(t, Forward(yaw).ApproxEqual(tt.dir, 1e-9), "got %v", Forward(yaw))
		})
	}
}
