package trackdat

import (
	"encoding/binary"
	"fmt"
)

// Cursor is a sequential little-endian reader over one sub-stream of a file.
// Positions are relative to the start of the sub-stream; Offset reports the
// absolute file offset for diagnostics.
type Cursor struct {
	data []byte
	pos  int
	base int
}

// NewCursor returns a cursor over data whose first byte is file offset 0.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// newCursorAt returns a cursor over buf[start:end] that reports absolute offsets.
func newCursorAt(buf []byte, start, end int) *Cursor {
	return &Cursor{data: buf[start:end], base: start}
}

// Pos returns the number of bytes consumed from the sub-stream.
func (c *Cursor) Pos() int { return c.pos }

// Offset returns the absolute file offset of the next byte.
func (c *Cursor) Offset() int { return c.base + c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

func (c *Cursor) take(n int) ([]byte, error) {
	if c.Remaining() < n {
		return nil, &DecodeError{
			Offset: c.Offset(),
			Err:    fmt.Errorf("%w: need %d bytes, have %d", ErrUnexpectedEOF, n, c.Remaining()),
		}
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadU8 reads one unsigned byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads one signed byte.
func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

// ReadU16 reads an unsigned 16-bit value.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadI16 reads a signed 16-bit value.
func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

// ReadU32 reads an unsigned 32-bit value.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI32 reads a signed 32-bit value.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// PeekI16 returns the next signed 16-bit value without consuming it.
func (c *Cursor) PeekI16() (int16, error) {
	v, err := c.ReadI16()
	if err != nil {
		return 0, err
	}
	c.pos -= 2
	return v, nil
}

// Rewind moves the position back by exactly n bytes. Rewinding past the
// start of the sub-stream is a decoder bug and panics with ErrInvalidRewind.
func (c *Cursor) Rewind(n int) {
	if n < 0 || n > c.pos {
		panic(&DecodeError{
			Offset: c.Offset(),
			Err:    fmt.Errorf("%w: %d bytes from position %d", ErrInvalidRewind, n, c.pos),
		})
	}
	c.pos -= n
}

// ConsumeIfZeroI16 reads the next signed 16-bit value and keeps it consumed
// only when it is zero. Any other value is un-read, so the caller sees the
// same two bytes again. No other read can happen between the two steps.
func (c *Cursor) ConsumeIfZeroI16() (bool, error) {
	v, err := c.ReadI16()
	if err != nil {
		return false, err
	}
	if v == 0 {
		return true, nil
	}
	c.Rewind(2)
	return false, nil
}
