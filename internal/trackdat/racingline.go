package trackdat

import "fmt"

// Racing line record sizes
const (
	FirstSegmentSize      = 8
	NormalSegmentSize     = 6
	WideRadiusSegmentSize = 8
	RacingLineTerminator  = 0 // i16 value ending the stream
)

// DecodeRacingLine decodes a complete racing line stream held in data.
func DecodeRacingLine(data []byte) (RacingLine, error) {
	return ReadRacingLine(NewCursor(data))
}

// ReadRacingLine consumes the first segment, then segments until a zero
// i16 occupies the position where the next segment would start.
//
// The first segment is 8 bytes: length u8, type u8, displacement i16,
// correction i16, radius i16. The type byte mirrors the length/type pair
// that opens every later segment, which keeps the stream at 8 bytes plus
// 6 or 8 per further segment.
//
// The terminator and the next segment's length/type pair share the same two
// bytes and are told apart by value only, so the check is made exactly once
// per segment, immediately after it has been fully read.
func ReadRacingLine(c *Cursor) (RacingLine, error) {
	first, displacement, err := readFirstSegment(c)
	if err != nil {
		return RacingLine{}, err
	}
	line := RacingLine{Displacement: displacement, Segments: []RacingLineSegment{first}}

	for {
		done, err := c.ConsumeIfZeroI16()
		if err != nil {
			return RacingLine{}, err
		}
		if done {
			break
		}
		start := c.Offset()
		seg, err := readSegment(c)
		if err != nil {
			return RacingLine{}, err
		}
		tracef("racing line segment %d at 0x%04X: %s len=%d corr=%d",
			len(line.Segments), start, seg.Kind, seg.Length, seg.Correction)
		line.Segments = append(line.Segments, seg)
	}
	return line, nil
}

func readFirstSegment(c *Cursor) (RacingLineSegment, int16, error) {
	seg := RacingLineSegment{Kind: SegmentNormal}
	var (
		displacement int16
		err          error
	)
	if seg.Length, err = c.ReadU8(); err != nil {
		return seg, 0, err
	}
	if seg.Type, err = c.ReadU8(); err != nil {
		return seg, 0, err
	}
	if displacement, err = c.ReadI16(); err != nil {
		return seg, 0, err
	}
	if seg.Correction, err = c.ReadI16(); err != nil {
		return seg, 0, err
	}
	if seg.Radius, err = c.ReadI16(); err != nil {
		return seg, 0, err
	}
	return seg, displacement, nil
}

func readSegment(c *Cursor) (RacingLineSegment, error) {
	var (
		seg RacingLineSegment
		err error
	)
	if seg.Length, err = c.ReadU8(); err != nil {
		return seg, err
	}
	if seg.Type, err = c.ReadU8(); err != nil {
		return seg, err
	}
	if seg.Correction, err = c.ReadI16(); err != nil {
		return seg, err
	}

	if seg.Type == WideRadiusType {
		seg.Kind = SegmentWideRadius
		if seg.HighRadius, err = c.ReadI16(); err != nil {
			return seg, err
		}
		if seg.LowRadius, err = c.ReadI16(); err != nil {
			return seg, err
		}
		return seg, nil
	}

	seg.Kind = SegmentNormal
	if seg.Radius, err = c.ReadI16(); err != nil {
		return seg, err
	}
	return seg, nil
}

// EncodedSize returns the number of bytes the line occupies before its
// terminator: 8 for the first segment plus 6 or 8 per further segment.
func (l RacingLine) EncodedSize() int {
	if len(l.Segments) == 0 {
		return 0
	}
	n := FirstSegmentSize
	for _, s := range l.Segments[1:] {
		if s.Kind == SegmentWideRadius {
			n += WideRadiusSegmentSize
		} else {
			n += NormalSegmentSize
		}
	}
	return n
}

// Validate checks the invariants the stream format relies on.
func (l RacingLine) Validate() error {
	if len(l.Segments) == 0 {
		return fmt.Errorf("racing line has no segments")
	}
	for i, s := range l.Segments[1:] {
		if s.Length == 0 && s.Type == 0 {
			return fmt.Errorf("segment %d starts with a zero word and would read as the terminator", i+1)
		}
		if s.Kind == SegmentWideRadius && s.Type != WideRadiusType {
			return fmt.Errorf("segment %d is wide-radius but type byte is 0x%02X", i+1, s.Type)
		}
		if s.Kind == SegmentNormal && s.Type == WideRadiusType {
			return fmt.Errorf("segment %d is normal but type byte selects wide-radius", i+1)
		}
	}
	return nil
}
