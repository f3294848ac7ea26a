package trackdat

import (
	"github.com/banshee-data/gptrack/internal/trackdat/geometry"
	"github.com/banshee-data/gptrack/internal/units"
)

// TrackSection is one fixed-geometry slice of the track centerline.
type TrackSection struct {
	LengthUnits     uint8  `json:"length_units"`
	Curvature       int16  `json:"curvature"`    // > 0 right, < 0 left, 0 straight
	HeightDelta     int16  `json:"height_delta"` // raw game units
	Flags           uint16 `json:"flags"`        // raw bitfield, layout unconfirmed
	RightVergeWidth uint8  `json:"right_verge_width"`
	LeftVergeWidth  uint8  `json:"left_verge_width"`

	// Commands that preceded this section in the stream.
	Commands []TrackSectionCommand `json:"commands,omitempty"`
}

// LengthMeters returns the section length; one unit is 16 feet.
func (s TrackSection) LengthMeters() float32 {
	return float32(s.LengthUnits) * units.MetersPerTrackUnit
}

// Step returns the section's contribution to the reconstructed centerline.
func (s TrackSection) Step() geometry.Step {
	return geometry.Step{
		LengthMeters: s.LengthMeters(),
		Curvature:    s.Curvature,
		HeightDelta:  s.HeightDelta,
	}
}

// TrackSectionCommand is a non-geometry directive embedded in the section
// stream. Arg0 is the byte argument stored ahead of the identifier; Args
// holds the command-specific i16 arguments.
type TrackSectionCommand struct {
	ID   uint8   `json:"id"`
	Arg0 uint8   `json:"arg0"`
	Args []int16 `json:"args,omitempty"`
}

// SegmentKind distinguishes the two racing line segment shapes.
type SegmentKind uint8

const (
	SegmentNormal SegmentKind = iota
	SegmentWideRadius
)

func (k SegmentKind) String() string {
	if k == SegmentWideRadius {
		return "wide"
	}
	return "normal"
}

// WideRadiusType is the type byte that selects the wide-radius layout.
const WideRadiusType = 0x40

// RacingLineSegment is one length/correction/radius entry of the racing
// line. Radius is set for SegmentNormal; HighRadius and LowRadius for
// SegmentWideRadius. Type keeps the raw type byte.
type RacingLineSegment struct {
	Kind       SegmentKind `json:"kind"`
	Length     uint8       `json:"length"`
	Type       uint8       `json:"type"`
	Correction int16       `json:"correction"`
	Radius     int16       `json:"radius,omitempty"`
	HighRadius int16       `json:"high_radius,omitempty"`
	LowRadius  int16       `json:"low_radius,omitempty"`
}

// RacingLine is the computer cars' preferred path. Segments[0] is the
// distinguished first segment and is always present in a decoded line.
type RacingLine struct {
	Displacement int16               `json:"displacement"`
	Segments     []RacingLineSegment `json:"segments"`
}

// Center anchors geometry reconstruction; read from the track header.
type Center struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	Z int32 `json:"z"`
}
