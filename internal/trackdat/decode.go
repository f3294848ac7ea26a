package trackdat

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/gptrack/internal/trackdat/geometry"
	"github.com/banshee-data/gptrack/internal/units"
)

// TrackDefinition is the decoded content of one track file. It is not
// modified after Decode returns and may be shared between goroutines.
type TrackDefinition struct {
	Name       string                 `json:"name,omitempty"`
	Center     Center                 `json:"center"`
	Sections   []TrackSection         `json:"sections"`
	PitLane    []TrackSection         `json:"pit_lane,omitempty"`
	RacingLine RacingLine             `json:"racing_line"`
	Geometry   geometry.TrackGeometry `json:"geometry"`
	Regions    []Region               `json:"regions"`
	Checksum   ChecksumReport         `json:"checksum"`
}

// TotalLengthMeters returns the summed length of the main track sections.
func (d *TrackDefinition) TotalLengthMeters() float64 {
	steps := make([]geometry.Step, len(d.Sections))
	for i, s := range d.Sections {
		steps[i] = s.Step()
	}
	return geometry.Length(steps)
}

// CenterVec returns the header center as a vector. The raw i32 values are
// taken as metres, unscaled, and geometry positions are built from it.
func (d *TrackDefinition) CenterVec() mgl32.Vec3 {
	return mgl32.Vec3{float32(d.Center.X), float32(d.Center.Y), float32(d.Center.Z)}
}

// Validate reports definitions that decoded cleanly but cannot describe a
// drivable circuit.
func (d *TrackDefinition) Validate() error {
	if len(d.Sections) == 0 {
		return errors.New("track has no sections")
	}
	if d.TotalLengthMeters() <= 0 {
		return errors.New("track has zero length")
	}
	return d.RacingLine.Validate()
}

type decodeOptions struct {
	table         *CommandTable
	headingModel  geometry.HeadingModel
	verticalScale float32
	checksum      ChecksumAlgorithm
	name          string
	sequential    bool
}

// Option configures Decode.
type Option func(*decodeOptions)

// WithCommandTable sets the command argument table used for section streams.
func WithCommandTable(t *CommandTable) Option {
	return func(o *decodeOptions) { o.table = t }
}

// WithHeadingModel sets the curvature model used to reconstruct geometry.
func WithHeadingModel(m geometry.HeadingModel) Option {
	return func(o *decodeOptions) { o.headingModel = m }
}

// WithVerticalScale sets metres per raw height unit.
func WithVerticalScale(scale float32) Option {
	return func(o *decodeOptions) { o.verticalScale = scale }
}

// WithChecksumAlgorithm enables trailer verification with a.
func WithChecksumAlgorithm(a ChecksumAlgorithm) Option {
	return func(o *decodeOptions) { o.checksum = a }
}

// WithName sets TrackDefinition.Name.
func WithName(name string) Option {
	return func(o *decodeOptions) { o.name = name }
}

// WithSequential decodes regions one after another on the calling goroutine.
func WithSequential() Option {
	return func(o *decodeOptions) { o.sequential = true }
}

// Decode parses a complete track file. Structural errors abort the decode
// and no partial definition is returned. A checksum mismatch is recorded in
// the definition's Checksum report only.
func Decode(buf []byte, opts ...Option) (*TrackDefinition, error) {
	o := decodeOptions{verticalScale: units.MetersPerTrackUnit}
	for _, opt := range opts {
		opt(&o)
	}
	if o.table == nil {
		o.table = DefaultCommandTable()
	}

	dir, err := ParseOffsets(buf)
	if err != nil {
		return nil, err
	}

	def := &TrackDefinition{Name: o.name, Regions: dir.Regions()}

	tasks := []func() error{
		func() (err error) {
			def.Center, err = readTrackHeader(buf, dir)
			return err
		},
		func() (err error) {
			def.Sections, err = readSectionRegion(buf, dir, RegionTrackSections, o.table)
			return err
		},
		func() (err error) {
			def.RacingLine, err = readRacingLineRegion(buf, dir)
			return err
		},
		func() (err error) {
			if !dir.Has(RegionPitLane) {
				return nil
			}
			def.PitLane, err = readSectionRegion(buf, dir, RegionPitLane, o.table)
			return err
		},
		func() error {
			def.Checksum = checkFile(buf, o.checksum)
			return nil
		},
	}

	if o.sequential {
		for _, task := range tasks {
			if err := task(); err != nil {
				return nil, err
			}
		}
	} else {
		var g errgroup.Group
		for _, task := range tasks {
			g.Go(task)
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	if o.headingModel == nil {
		opsf("no heading model configured; geometry ignores curvature")
	}
	steps := make([]geometry.Step, len(def.Sections))
	for i, s := range def.Sections {
		steps[i] = s.Step()
	}
	def.Geometry = geometry.Reconstruct(def.CenterVec(), steps, o.headingModel,
		geometry.WithVerticalScale(o.verticalScale))

	diagf("decoded %q: %d sections, %d pit lane sections, %d racing line segments, %.1f m",
		def.Name, len(def.Sections), len(def.PitLane), len(def.RacingLine.Segments), def.TotalLengthMeters())
	return def, nil
}

func readTrackHeader(buf []byte, dir *OffsetsDirectory) (Center, error) {
	c, err := dir.cursor(buf, RegionTrackHeader)
	if err != nil {
		return Center{}, err
	}
	var center Center
	if center.X, err = c.ReadI32(); err != nil {
		return Center{}, inRegion(RegionTrackHeader.String(), err)
	}
	if center.Y, err = c.ReadI32(); err != nil {
		return Center{}, inRegion(RegionTrackHeader.String(), err)
	}
	if center.Z, err = c.ReadI32(); err != nil {
		return Center{}, inRegion(RegionTrackHeader.String(), err)
	}
	return center, nil
}

func readSectionRegion(buf []byte, dir *OffsetsDirectory, id RegionID, table *CommandTable) ([]TrackSection, error) {
	c, err := dir.cursor(buf, id)
	if err != nil {
		return nil, err
	}
	sections, err := ReadTrackSections(c, table)
	if err != nil {
		return nil, inRegion(id.String(), err)
	}
	return sections, nil
}

func readRacingLineRegion(buf []byte, dir *OffsetsDirectory) (RacingLine, error) {
	c, err := dir.cursor(buf, RegionRacingLine)
	if err != nil {
		return RacingLine{}, err
	}
	line, err := ReadRacingLine(c)
	if err != nil {
		return RacingLine{}, inRegion(RegionRacingLine.String(), err)
	}
	return line, nil
}

// RawRegion returns the undecoded bytes of region id, running to the next
// region or the checksum trailer. The slice aliases buf.
func RawRegion(buf []byte, id RegionID) ([]byte, error) {
	dir, err := ParseOffsets(buf)
	if err != nil {
		return nil, err
	}
	if !dir.Has(id) {
		return nil, &DecodeError{Region: id.String(), Offset: DirectoryOffset, Err: ErrRegionMissing}
	}
	for _, r := range dir.Regions() {
		if r.ID == id {
			return buf[r.Offset : r.Offset+r.Length], nil
		}
	}
	return nil, &DecodeError{
		Region: id.String(),
		Offset: DirectoryOffset,
		Err:    fmt.Errorf("%w: region starts inside the checksum trailer", ErrOffsetOutOfRange),
	}
}
