// Package geometry reconstructs a 3D centerline from relative track sections.
//
// Track files store no absolute positions. Each section contributes a turn
// and a forward step, so point N depends on every section before it and the
// reconstruction is a strictly sequential fold.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/gptrack/internal/units"
)

// Step is one section's input to the reconstruction.
type Step struct {
	LengthMeters float32
	Curvature    int16
	HeightDelta  int16
}

// Point is the reconstructed position and heading at the end of a section.
// Heading is in radians, 0 along +Z, increasing clockwise seen from above.
type Point struct {
	Position mgl32.Vec3 `json:"position"`
	Heading  float32    `json:"heading"`
}

// TrackGeometry holds one Point per section, in section order.
type TrackGeometry []Point

// HeadingModel maps a section's raw curvature and length to a turn angle in
// radians. The true scale relating curvature units to angle has not been
// confirmed, so callers choose the model.
type HeadingModel interface {
	TurnAngle(curvature int16, lengthMeters float32) float32
}

// HeadingFunc adapts a function to HeadingModel.
type HeadingFunc func(curvature int16, lengthMeters float32) float32

// TurnAngle calls f.
func (f HeadingFunc) TurnAngle(curvature int16, lengthMeters float32) float32 {
	return f(curvature, lengthMeters)
}

// StraightModel ignores curvature. It is used when no model is configured
// and produces an unrolled centerline.
type StraightModel struct{}

// TurnAngle always returns zero.
func (StraightModel) TurnAngle(int16, float32) float32 { return 0 }

// LinearModel turns by curvature x length x RadiansPerUnitMetre.
type LinearModel struct {
	RadiansPerUnitMetre float32
}

// TurnAngle returns the linear turn contribution of a section.
func (m LinearModel) TurnAngle(curvature int16, lengthMeters float32) float32 {
	return float32(curvature) * lengthMeters * m.RadiansPerUnitMetre
}

type options struct {
	verticalScale float32
}

// Option configures Reconstruct.
type Option func(*options)

// WithVerticalScale sets metres per raw height unit.
func WithVerticalScale(scale float32) Option {
	return func(o *options) { o.verticalScale = scale }
}

// Reconstruct integrates heading and displacement over steps, starting at
// center with heading 0. A nil model is treated as StraightModel.
func Reconstruct(center mgl32.Vec3, steps []Step, model HeadingModel, opts ...Option) TrackGeometry {
	o := options{verticalScale: units.MetersPerTrackUnit}
	for _, opt := range opts {
		opt(&o)
	}
	if model == nil {
		model = StraightModel{}
	}

	out := make(TrackGeometry, 0, len(steps))
	pos := center
	var heading float64
	for _, s := range steps {
		heading += float64(model.TurnAngle(s.Curvature, s.LengthMeters))
		d := float64(s.LengthMeters)
		pos = pos.Add(mgl32.Vec3{
			float32(math.Sin(heading) * d),
			float32(s.HeightDelta) * o.verticalScale,
			float32(math.Cos(heading) * d),
		})
		out = append(out, Point{Position: pos, Heading: float32(heading)})
	}
	return out
}

// Length returns the summed length of steps in metres.
func Length(steps []Step) float64 {
	lengths := make([]float64, len(steps))
	for i, s := range steps {
		lengths[i] = float64(s.LengthMeters)
	}
	return floats.Sum(lengths)
}

// Bounds returns the axis-aligned bounding box of the geometry. Both
// vectors are zero for empty geometry.
func Bounds(g TrackGeometry) (lo, hi mgl32.Vec3) {
	if len(g) == 0 {
		return lo, hi
	}
	var axes [3][]float64
	for i := range axes {
		axes[i] = make([]float64, len(g))
	}
	for i, p := range g {
		for a := 0; a < 3; a++ {
			axes[a][i] = float64(p.Position[a])
		}
	}
	for a := 0; a < 3; a++ {
		lo[a] = float32(floats.Min(axes[a]))
		hi[a] = float32(floats.Max(axes[a]))
	}
	return lo, hi
}

// ClosureGap returns the distance between the last reconstructed point and
// center. A closed circuit with a correct heading model has a small gap.
func ClosureGap(center mgl32.Vec3, g TrackGeometry) float32 {
	if len(g) == 0 {
		return 0
	}
	return g[len(g)-1].Position.Sub(center).Len()
}
