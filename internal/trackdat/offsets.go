package trackdat

import (
	"fmt"
	"sort"
)

// File layout constants
const (
	PaddingSize     = 0x1000 // leading unused bytes
	DirectoryOffset = 0x1000 // offsets directory position
	TrailerSize     = 4      // trailing checksum
	TrackHeaderSize = 12     // center x, y, z
)

// RegionID indexes the offsets directory.
type RegionID int

const (
	RegionHorizon RegionID = iota
	RegionObjectShapes
	RegionTrackHeader
	RegionTrackSections
	RegionRacingLine
	RegionCarSetup
	RegionPitLane
	RegionCameras
	RegionSettings

	// NumRegions is the number of named regions.
	NumRegions = int(RegionSettings) + 1
)

var regionNames = [NumRegions]string{
	"horizon",
	"object shapes",
	"track header",
	"track sections",
	"racing line",
	"car setup",
	"pit lane",
	"camera commands",
	"settings",
}

func (r RegionID) String() string {
	if r < 0 || int(r) >= NumRegions {
		return fmt.Sprintf("region %d", int(r))
	}
	return regionNames[r]
}

// Region is the byte span of one directory entry. Length runs to the next
// region start or to the checksum trailer.
type Region struct {
	ID     RegionID `json:"id"`
	Name   string   `json:"name"`
	Offset int      `json:"offset"`
	Length int      `json:"length"`
}

// OffsetsDirectory holds the absolute region offsets read at DirectoryOffset.
type OffsetsDirectory struct {
	offsets    []uint32
	size       int
	payloadEnd int
}

// ParseOffsets reads the directory: a u16 count followed by count u32
// absolute offsets.
func ParseOffsets(buf []byte) (*OffsetsDirectory, error) {
	if len(buf) < DirectoryOffset {
		return nil, &DecodeError{
			Region: "offsets directory",
			Offset: len(buf),
			Err:    fmt.Errorf("%w: file is %d bytes, directory starts at 0x%04X", ErrUnexpectedEOF, len(buf), DirectoryOffset),
		}
	}
	end := payloadEnd(buf)
	if end < DirectoryOffset {
		end = len(buf)
	}
	c := newCursorAt(buf, DirectoryOffset, end)

	count, err := c.ReadU16()
	if err != nil {
		return nil, inRegion("offsets directory", err)
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		if offsets[i], err = c.ReadU32(); err != nil {
			return nil, inRegion("offsets directory", err)
		}
	}
	diagf("offsets directory: %d entries", count)

	return &OffsetsDirectory{offsets: offsets, size: len(buf), payloadEnd: payloadEnd(buf)}, nil
}

// payloadEnd is the end of decodable data, excluding the checksum trailer.
func payloadEnd(buf []byte) int {
	if len(buf) < TrailerSize {
		return len(buf)
	}
	return len(buf) - TrailerSize
}

// Count returns the number of directory entries.
func (d *OffsetsDirectory) Count() int { return len(d.offsets) }

// Has reports whether the directory lists region id with a non-zero offset.
func (d *OffsetsDirectory) Has(id RegionID) bool {
	return int(id) >= 0 && int(id) < len(d.offsets) && d.offsets[id] != 0
}

// Offset returns the absolute offset of region id.
func (d *OffsetsDirectory) Offset(id RegionID) (int, error) {
	if int(id) < 0 || int(id) >= len(d.offsets) {
		return 0, &DecodeError{Region: id.String(), Offset: DirectoryOffset, Err: ErrRegionMissing}
	}
	v := int(d.offsets[id])
	if v > d.size {
		return 0, &DecodeError{
			Region: id.String(),
			Offset: DirectoryOffset + 2 + 4*int(id),
			Err:    fmt.Errorf("%w: 0x%X beyond file size 0x%X", ErrOffsetOutOfRange, v, d.size),
		}
	}
	return v, nil
}

// Named accessors for each directory entry. Each returns the raw entry as
// Offset does, so an absent region reads as 0; check Has first.

// HorizonOffset returns the offset of the horizon region.
func (d *OffsetsDirectory) HorizonOffset() (int, error) { return d.Offset(RegionHorizon) }

// ObjectShapesOffset returns the offset of the object shapes region.
func (d *OffsetsDirectory) ObjectShapesOffset() (int, error) { return d.Offset(RegionObjectShapes) }

// TrackHeaderOffset returns the offset of the 12-byte track center header.
func (d *OffsetsDirectory) TrackHeaderOffset() (int, error) { return d.Offset(RegionTrackHeader) }

// TrackSectionsOffset returns the offset of the main lane section stream.
func (d *OffsetsDirectory) TrackSectionsOffset() (int, error) { return d.Offset(RegionTrackSections) }

// RacingLineOffset returns the offset of the racing line stream.
func (d *OffsetsDirectory) RacingLineOffset() (int, error) { return d.Offset(RegionRacingLine) }

// CarSetupOffset returns the offset of the car setup region.
func (d *OffsetsDirectory) CarSetupOffset() (int, error) { return d.Offset(RegionCarSetup) }

// PitLaneOffset returns the offset of the pit lane section stream.
func (d *OffsetsDirectory) PitLaneOffset() (int, error) { return d.Offset(RegionPitLane) }

// CamerasOffset returns the offset of the camera region.
func (d *OffsetsDirectory) CamerasOffset() (int, error) { return d.Offset(RegionCameras) }

// SettingsOffset returns the offset of the track settings region.
func (d *OffsetsDirectory) SettingsOffset() (int, error) { return d.Offset(RegionSettings) }

// cursor returns a cursor over region id running to the checksum trailer.
// A zero directory entry is reported as ErrRegionMissing rather than read
// from the padding.
func (d *OffsetsDirectory) cursor(buf []byte, id RegionID) (*Cursor, error) {
	if int(id) >= 0 && int(id) < len(d.offsets) && d.offsets[id] == 0 {
		return nil, &DecodeError{Region: id.String(), Offset: DirectoryOffset + 2 + 4*int(id), Err: ErrRegionMissing}
	}
	off, err := d.Offset(id)
	if err != nil {
		return nil, err
	}
	end := d.payloadEnd
	if off > end {
		end = off
	}
	return newCursorAt(buf, off, end), nil
}

// Regions returns the spans of all named regions with a valid, non-zero
// offset, ordered by offset.
func (d *OffsetsDirectory) Regions() []Region {
	var regions []Region
	for i := range d.offsets {
		if i >= NumRegions || !d.Has(RegionID(i)) {
			continue
		}
		off, err := d.Offset(RegionID(i))
		if err != nil || off > d.payloadEnd {
			continue
		}
		regions = append(regions, Region{ID: RegionID(i), Name: RegionID(i).String(), Offset: off})
	}
	sort.SliceStable(regions, func(a, b int) bool { return regions[a].Offset < regions[b].Offset })

	for i := range regions {
		end := d.payloadEnd
		for j := i + 1; j < len(regions); j++ {
			if regions[j].Offset > regions[i].Offset {
				end = regions[j].Offset
				break
			}
		}
		regions[i].Length = end - regions[i].Offset
	}
	return regions
}
