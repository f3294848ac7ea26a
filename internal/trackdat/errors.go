package trackdat

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEOF is returned when a stream ends in the middle of a record.
	ErrUnexpectedEOF = errors.New("unexpected end of data")
	// ErrOffsetOutOfRange is returned when a directory entry points outside the file.
	ErrOffsetOutOfRange = errors.New("offset out of range")
	// ErrRegionMissing is returned when the directory has fewer entries than the region index.
	ErrRegionMissing = errors.New("region not present in offsets directory")
	// ErrUnknownCommandID is returned for a command byte not listed in the command table.
	ErrUnknownCommandID = errors.New("unknown command id")
	// ErrDanglingCommand is returned when commands precede the terminator instead of a section.
	ErrDanglingCommand = errors.New("command not followed by a track section")
	// ErrInvalidRewind signals a decoder bug; Cursor panics with it.
	ErrInvalidRewind = errors.New("rewind before start of stream")
	// ErrChecksumMismatch is reported (not returned by Decode) when the trailer does not verify.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// DecodeError attaches the region and absolute file offset to a decode failure.
type DecodeError struct {
	Region string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Region == "" {
		return fmt.Sprintf("offset 0x%04X: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("%s at offset 0x%04X: %v", e.Region, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// inRegion tags err with a region name unless it already carries one.
func inRegion(region string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) && de.Region == "" {
		de.Region = region
		return de
	}
	return err
}
