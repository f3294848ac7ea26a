// Package fixture builds synthetic track files for tests and demos, so no
// copyrighted game data has to be shipped with the repository.
package fixture

import (
	"fmt"
	"math"

	"github.com/banshee-data/gptrack/internal/fsutil"
	"github.com/banshee-data/gptrack/internal/trackdat"
)

const (
	DefaultSectionCount = 15
	SectionLengthUnits  = 50
	DefaultName         = "Synthetic Track"
)

// ObjectShapes is a small graphical element list: a triangle, a line and a
// bitmap reference.
var ObjectShapes = []byte{
	0x05, 0x01, 0x02, 0xFD, 0x00, // polygon, colour 5, sides 1 2 -3
	0xA0, 0x00, 0x07,             // line to vector 7
	0x80, 0x03, 0x00, 0x01,       // bitmap 1 at point 3
}

// Table is the command table synthetic tracks are encoded with. It is kept
// separate from the embedded table so fixtures stay valid when the embedded
// table changes.
func Table() *trackdat.CommandTable {
	return trackdat.NewCommandTable(map[uint8]int{0x80: 1, 0x86: 2})
}

// SyntheticTrack returns the contents of a small circuit: sectionCount
// sections of SectionLengthUnits each, curving gently right with a rolling
// elevation profile, plus a racing line and a short pit lane.
func SyntheticTrack(sectionCount int) trackdat.FileContents {
	if sectionCount < 1 {
		sectionCount = 1
	}
	sections := make([]trackdat.TrackSection, sectionCount)
	for i := range sections {
		phase := 2 * math.Pi * float64(i) / float64(sectionCount)
		sections[i] = trackdat.TrackSection{
			LengthUnits:     SectionLengthUnits,
			Curvature:       int16(64 + 48*math.Sin(phase)),
			HeightDelta:     int16(math.Round(2 * math.Cos(phase))),
			RightVergeWidth: 2,
			LeftVergeWidth:  2,
		}
	}
	sections[0].Commands = []trackdat.TrackSectionCommand{{ID: 0x80, Arg0: 1, Args: []int16{100}}}
	if sectionCount > 1 {
		sections[sectionCount/2].Commands = []trackdat.TrackSectionCommand{{ID: 0x86, Arg0: 0, Args: []int16{-20, 20}}}
	}

	segments := []trackdat.RacingLineSegment{{Length: SectionLengthUnits, Correction: 0, Radius: 1000}}
	for i := 1; i < sectionCount; i++ {
		seg := trackdat.RacingLineSegment{Length: SectionLengthUnits, Type: 1, Correction: int16(i % 5), Radius: 1000 - int16(i)}
		if i%4 == 0 {
			seg = trackdat.RacingLineSegment{
				Kind:       trackdat.SegmentWideRadius,
				Length:     SectionLengthUnits,
				Type:       trackdat.WideRadiusType,
				HighRadius: 2000,
				LowRadius:  -2000,
			}
		}
		segments = append(segments, seg)
	}

	return trackdat.FileContents{
		Center:     trackdat.Center{X: 0, Y: 0, Z: 0},
		Sections:   sections,
		PitLane:    []trackdat.TrackSection{{LengthUnits: 10, RightVergeWidth: 1, LeftVergeWidth: 1}},
		RacingLine: trackdat.RacingLine{Displacement: 0, Segments: segments},
		Table:      Table(),

		ObjectShapes: ObjectShapes,
	}
}

// Bytes encodes SyntheticTrack(sectionCount) with a byte-sum trailer.
func Bytes(sectionCount int) ([]byte, error) {
	return trackdat.EncodeFile(SyntheticTrack(sectionCount), trackdat.ByteSum{})
}

// WriteFile writes a synthetic track to path, creating parent directories.
func WriteFile(fsys fsutil.FileSystem, path string, sectionCount int) error {
	data, err := Bytes(sectionCount)
	if err != nil {
		return fmt.Errorf("failed to encode fixture: %w", err)
	}
	if err := fsutil.WriteOutput(fsys, path, data); err != nil {
		return fmt.Errorf("failed to write fixture to %s: %w", path, err)
	}
	return nil
}
