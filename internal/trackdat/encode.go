package trackdat

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// writer appends little-endian values; the inverse of Cursor.
type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }
func (w *writer) i16(v int16)  { w.u16(uint16(v)) }
func (w *writer) u32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *writer) i32(v int32)  { w.u32(uint32(v)) }

// EncodeTrackSections serialises sections and their commands followed by the
// 0xFF 0xFF terminator. Every command must be listed in table with exactly
// as many arguments as the table declares.
func EncodeTrackSections(sections []TrackSection, table *CommandTable) ([]byte, error) {
	if table == nil {
		table = DefaultCommandTable()
	}
	w := &writer{}
	if err := appendTrackSections(w, sections, table); err != nil {
		return nil, err
	}
	return w.buf, nil
}

func appendTrackSections(w *writer, sections []TrackSection, table *CommandTable) error {
	for i, s := range sections {
		for j, cmd := range s.Commands {
			if cmd.ID == 0 {
				return fmt.Errorf("section %d command %d: id 0 is reserved for sections", i, j)
			}
			if cmd.ID == SectionTerminator && cmd.Arg0 == SectionTerminator {
				return fmt.Errorf("section %d command %d: encodes as the stream terminator", i, j)
			}
			n, ok := table.ArgCount(cmd.ID)
			if !ok {
				return fmt.Errorf("section %d command %d: %w: 0x%02X", i, j, ErrUnknownCommandID, cmd.ID)
			}
			if len(cmd.Args) != n {
				return fmt.Errorf("section %d command 0x%02X: has %d args, table declares %d", i, cmd.ID, len(cmd.Args), n)
			}
			w.u8(cmd.Arg0)
			w.u8(cmd.ID)
			for _, a := range cmd.Args {
				w.i16(a)
			}
		}
		w.u8(s.LengthUnits)
		w.u8(0)
		w.i16(s.Curvature)
		w.i16(s.HeightDelta)
		w.u16(s.Flags)
		w.u8(s.RightVergeWidth)
		w.u8(s.LeftVergeWidth)
	}
	w.u8(SectionTerminator)
	w.u8(SectionTerminator)
	return nil
}

// EncodeRacingLine serialises line followed by the zero i16 terminator.
func EncodeRacingLine(line RacingLine) ([]byte, error) {
	w := &writer{}
	if err := appendRacingLine(w, line); err != nil {
		return nil, err
	}
	return w.buf, nil
}

func appendRacingLine(w *writer, line RacingLine) error {
	if err := line.Validate(); err != nil {
		return err
	}
	first := line.Segments[0]
	w.u8(first.Length)
	w.u8(first.Type)
	w.i16(line.Displacement)
	w.i16(first.Correction)
	w.i16(first.Radius)

	for _, s := range line.Segments[1:] {
		w.u8(s.Length)
		w.u8(s.Type)
		w.i16(s.Correction)
		if s.Kind == SegmentWideRadius {
			w.i16(s.HighRadius)
			w.i16(s.LowRadius)
		} else {
			w.i16(s.Radius)
		}
	}
	w.i16(RacingLineTerminator)
	return nil
}

// FileContents is everything EncodeFile lays out. Regions the decoder does
// not interpret are carried as raw bytes; an empty raw region and an empty
// PitLane get a zero directory entry.
type FileContents struct {
	Center     Center
	Sections   []TrackSection
	PitLane    []TrackSection
	RacingLine RacingLine
	Table      *CommandTable

	Horizon      []byte
	ObjectShapes []byte
	CarSetup     []byte
	Cameras      []byte
	Settings     []byte
}

// EncodeFile produces a complete track file: zero padding, a directory of
// NumRegions offsets, the regions in directory order and the checksum
// trailer. A nil algorithm writes a zero trailer.
func EncodeFile(fc FileContents, algo ChecksumAlgorithm) ([]byte, error) {
	if len(fc.Sections) == 0 {
		return nil, errors.New("track has no sections")
	}
	table := fc.Table
	if table == nil {
		table = DefaultCommandTable()
	}

	w := &writer{buf: make([]byte, PaddingSize, PaddingSize+4096)}
	w.u16(uint16(NumRegions))
	dirStart := len(w.buf)
	for i := 0; i < NumRegions; i++ {
		w.u32(0)
	}

	var offsets [NumRegions]uint32
	mark := func(id RegionID) { offsets[id] = uint32(len(w.buf)) }
	raw := func(id RegionID, b []byte) {
		if len(b) == 0 {
			return
		}
		mark(id)
		w.buf = append(w.buf, b...)
	}

	raw(RegionHorizon, fc.Horizon)
	raw(RegionObjectShapes, fc.ObjectShapes)

	mark(RegionTrackHeader)
	w.i32(fc.Center.X)
	w.i32(fc.Center.Y)
	w.i32(fc.Center.Z)

	mark(RegionTrackSections)
	if err := appendTrackSections(w, fc.Sections, table); err != nil {
		return nil, fmt.Errorf("track sections: %w", err)
	}

	mark(RegionRacingLine)
	if err := appendRacingLine(w, fc.RacingLine); err != nil {
		return nil, fmt.Errorf("racing line: %w", err)
	}

	raw(RegionCarSetup, fc.CarSetup)

	if len(fc.PitLane) > 0 {
		mark(RegionPitLane)
		if err := appendTrackSections(w, fc.PitLane, table); err != nil {
			return nil, fmt.Errorf("pit lane: %w", err)
		}
	}

	raw(RegionCameras, fc.Cameras)
	raw(RegionSettings, fc.Settings)

	for i, off := range offsets {
		binary.LittleEndian.PutUint32(w.buf[dirStart+4*i:], off)
	}

	var sum uint32
	if algo != nil {
		sum = algo.Compute(w.buf)
	}
	w.u32(sum)
	return w.buf, nil
}
