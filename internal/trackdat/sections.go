package trackdat

import "fmt"

// Section stream record layout
const (
	SectionRecordSize = 10
	SectionTerminator = 0xFF // both bytes of the end-of-stream marker
)

type sectionState int

const (
	readingRecord sectionState = iota
	terminated
)

// DecodeTrackSections decodes a complete track section stream held in data.
func DecodeTrackSections(data []byte, table *CommandTable) ([]TrackSection, error) {
	return ReadTrackSections(NewCursor(data), table)
}

// ReadTrackSections consumes geometry records and commands from c up to and
// including the 0xFF 0xFF terminator. Commands are buffered and attached to
// the next geometry record; commands left over at the terminator are an error.
func ReadTrackSections(c *Cursor, table *CommandTable) ([]TrackSection, error) {
	if table == nil {
		table = DefaultCommandTable()
	}

	var (
		sections []TrackSection
		pending  []TrackSectionCommand
		state    = readingRecord
	)
	for state == readingRecord {
		start := c.Offset()
		byte1, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		byte2, err := c.ReadU8()
		if err != nil {
			return nil, err
		}

		switch {
		case byte1 == SectionTerminator && byte2 == SectionTerminator:
			if len(pending) > 0 {
				return nil, &DecodeError{
					Offset: start,
					Err:    fmt.Errorf("%w: %d command(s) before terminator", ErrDanglingCommand, len(pending)),
				}
			}
			state = terminated

		case byte2 > 0:
			cmd, err := readCommand(c, table, byte1, byte2, start)
			if err != nil {
				return nil, err
			}
			tracef("command 0x%02X at 0x%04X: arg0=%d args=%v", cmd.ID, start, cmd.Arg0, cmd.Args)
			pending = append(pending, cmd)

		default:
			s, err := readSectionBody(c, byte1)
			if err != nil {
				return nil, err
			}
			s.Commands = pending
			pending = nil
			tracef("section %d at 0x%04X: len=%d curv=%d height=%d flags=0x%04X",
				len(sections), start, s.LengthUnits, s.Curvature, s.HeightDelta, s.Flags)
			sections = append(sections, s)
		}
	}
	return sections, nil
}

func readCommand(c *Cursor, table *CommandTable, arg0, id uint8, start int) (TrackSectionCommand, error) {
	n, ok := table.ArgCount(id)
	if !ok {
		return TrackSectionCommand{}, &DecodeError{
			Offset: start,
			Err:    fmt.Errorf("%w: 0x%02X (table %s)", ErrUnknownCommandID, id, table.Source()),
		}
	}
	cmd := TrackSectionCommand{ID: id, Arg0: arg0}
	if n > 0 {
		cmd.Args = make([]int16, n)
	}
	for i := range cmd.Args {
		v, err := c.ReadI16()
		if err != nil {
			return TrackSectionCommand{}, err
		}
		cmd.Args[i] = v
	}
	return cmd, nil
}

// readSectionBody reads the eight bytes that follow the length/zero pair.
func readSectionBody(c *Cursor, length uint8) (TrackSection, error) {
	s := TrackSection{LengthUnits: length}
	var err error
	if s.Curvature, err = c.ReadI16(); err != nil {
		return s, err
	}
	if s.HeightDelta, err = c.ReadI16(); err != nil {
		return s, err
	}
	if s.Flags, err = c.ReadU16(); err != nil {
		return s, err
	}
	if s.RightVergeWidth, err = c.ReadU8(); err != nil {
		return s, err
	}
	if s.LeftVergeWidth, err = c.ReadU8(); err != nil {
		return s, err
	}
	return s, nil
}
