package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstruct_Straight(t *testing.T) {
	center := mgl32.Vec3{10, 0, -5}
	steps := []Step{
		{LengthMeters: 10},
		{LengthMeters: 5, HeightDelta: 2},
	}

	g := Reconstruct(center, steps, nil)
	require.Len(t, g, 2)

	assert.InDelta(t, 10, g[0].Position[0], 1e-5)
	assert.InDelta(t, 5, g[0].Position[2], 1e-5)
	assert.InDelta(t, 2*4.8768, g[1].Position[1], 1e-4)
	assert.InDelta(t, 10, g[1].Position[2], 1e-5)
	assert.Zero(t, g[1].Heading)
}

func TestReconstruct_Empty(t *testing.T) {
	g := Reconstruct(mgl32.Vec3{}, nil, StraightModel{})
	assert.Empty(t, g)
	assert.Zero(t, ClosureGap(mgl32.Vec3{}, g))
}

func TestReconstruct_QuarterTurnsCloseTheLoop(t *testing.T) {
	model := HeadingFunc(func(curvature int16, _ float32) float32 {
		return float32(curvature) * math.Pi / 2
	})
	steps := []Step{
		{LengthMeters: 100},
		{LengthMeters: 100, Curvature: 1},
		{LengthMeters: 100, Curvature: 1},
		{LengthMeters: 100, Curvature: 1},
	}

	g := Reconstruct(mgl32.Vec3{}, steps, model)
	require.Len(t, g, 4)

	want := []mgl32.Vec3{{0, 0, 100}, {100, 0, 100}, {100, 0, 0}, {0, 0, 0}}
	for i, p := range g {
		for a := 0; a < 3; a++ {
			assert.InDelta(t, want[i][a], p.Position[a], 1e-3, "point %d axis %d", i, a)
		}
	}
	assert.InDelta(t, 3*math.Pi/2, g[3].Heading, 1e-5)
	assert.InDelta(t, 0, ClosureGap(mgl32.Vec3{}, g), 1e-3)
}

func TestReconstruct_OrderMatters(t *testing.T) {
	model := LinearModel{RadiansPerUnitMetre: 0.01}
	a := []Step{{LengthMeters: 10, Curvature: 5}, {LengthMeters: 20}}
	b := []Step{{LengthMeters: 20}, {LengthMeters: 10, Curvature: 5}}

	ga := Reconstruct(mgl32.Vec3{}, a, model)
	gb := Reconstruct(mgl32.Vec3{}, b, model)
	assert.NotEqual(t, ga[1].Position, gb[1].Position)
	assert.InDelta(t, ga[1].Heading, gb[1].Heading, 1e-6)
}

func TestReconstruct_VerticalScale(t *testing.T) {
	g := Reconstruct(mgl32.Vec3{}, []Step{{HeightDelta: -3}}, nil, WithVerticalScale(0.5))
	assert.InDelta(t, -1.5, g[0].Position[1], 1e-6)
}

func TestLinearModel(t *testing.T) {
	m := LinearModel{RadiansPerUnitMetre: 0.001}
	assert.InDelta(t, 0.2, m.TurnAngle(10, 20), 1e-6)
	assert.InDelta(t, -0.2, m.TurnAngle(-10, 20), 1e-6)
	assert.Zero(t, StraightModel{}.TurnAngle(100, 100))
}

func TestLength(t *testing.T) {
	assert.InDelta(t, 17.5, Length([]Step{{LengthMeters: 10}, {LengthMeters: 7.5}}), 1e-9)
	assert.Zero(t, Length(nil))
}

func TestBoundsAndClosureGap(t *testing.T) {
	g := TrackGeometry{
		{Position: mgl32.Vec3{1, 2, 3}},
		{Position: mgl32.Vec3{-4, 5, 0}},
		{Position: mgl32.Vec3{3, 0, 4}},
	}
	lo, hi := Bounds(g)
	assert.Equal(t, mgl32.Vec3{-4, 0, 0}, lo)
	assert.Equal(t, mgl32.Vec3{3, 5, 4}, hi)
	assert.InDelta(t, 5, ClosureGap(mgl32.Vec3{}, g), 1e-6)

	lo, hi = Bounds(nil)
	assert.Equal(t, mgl32.Vec3{}, lo)
	assert.Equal(t, mgl32.Vec3{}, hi)
}
