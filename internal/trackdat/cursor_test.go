package trackdat

import (
	"errors"
	"testing"
)

func TestCursor_LittleEndianReads(t *testing.T) {
	c := NewCursor([]byte{
		0x7F,
		0xFE,
		0x34, 0x12,
		0xFF, 0xFF,
		0x78, 0x56, 0x34, 0x12,
		0xFE, 0xFF, 0xFF, 0xFF,
	})

	if v, err := c.ReadU8(); err != nil || v != 0x7F {
		t.Fatalf("ReadU8 = %d, %v", v, err)
	}
	if v, err := c.ReadI8(); err != nil || v != -2 {
		t.Fatalf("ReadI8 = %d, %v", v, err)
	}
	if v, err := c.ReadU16(); err != nil || v != 0x1234 {
		t.Fatalf("ReadU16 = 0x%X, %v", v, err)
	}
	if v, err := c.ReadI16(); err != nil || v != -1 {
		t.Fatalf("ReadI16 = %d, %v", v, err)
	}
	if v, err := c.ReadU32(); err != nil || v != 0x12345678 {
		t.Fatalf("ReadU32 = 0x%X, %v", v, err)
	}
	if v, err := c.ReadI32(); err != nil || v != -2 {
		t.Fatalf("ReadI32 = %d, %v", v, err)
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", c.Remaining())
	}
	if c.Pos() != 14 {
		t.Errorf("Pos = %d, want 14", c.Pos())
	}
}

func TestCursor_TruncatedRead(t *testing.T) {
	c := NewCursor([]byte{0x01})
	_, err := c.ReadU16()
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Offset != 0 {
		t.Fatalf("expected DecodeError at offset 0, got %v", err)
	}
	if c.Pos() != 0 {
		t.Errorf("failed read advanced position to %d", c.Pos())
	}
}

func TestCursor_PeekDoesNotAdvance(t *testing.T) {
	c := NewCursor([]byte{0x05, 0x00, 0x06, 0x00})
	v, err := c.PeekI16()
	if err != nil || v != 5 {
		t.Fatalf("PeekI16 = %d, %v", v, err)
	}
	if c.Pos() != 0 {
		t.Fatalf("PeekI16 moved position to %d", c.Pos())
	}
	v, _ = c.ReadI16()
	if v != 5 {
		t.Errorf("ReadI16 after peek = %d, want 5", v)
	}
}

func TestCursor_ConsumeIfZeroI16(t *testing.T) {
	c := NewCursor([]byte{0x03, 0x01, 0x00, 0x00})

	done, err := c.ConsumeIfZeroI16()
	if err != nil || done {
		t.Fatalf("non-zero word: done=%v err=%v", done, err)
	}
	if c.Pos() != 0 {
		t.Fatalf("non-zero word should be un-read, pos=%d", c.Pos())
	}

	_, _ = c.ReadU16()
	done, err = c.ConsumeIfZeroI16()
	if err != nil || !done {
		t.Fatalf("zero word: done=%v err=%v", done, err)
	}
	if c.Pos() != 4 {
		t.Errorf("zero word should be consumed, pos=%d", c.Pos())
	}

	if _, err := c.ConsumeIfZeroI16(); !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF at end, got %v", err)
	}
}

func TestCursor_RewindPastStartPanics(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02})
	_, _ = c.ReadU8()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvalidRewind) {
			t.Fatalf("expected ErrInvalidRewind panic, got %v", r)
		}
	}()
	c.Rewind(2)
}

func TestCursor_RewindWithinStream(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03})
	_, _ = c.ReadU16()
	c.Rewind(1)
	v, _ := c.ReadU8()
	if v != 0x02 {
		t.Errorf("after Rewind(1) read 0x%02X, want 0x02", v)
	}
}

func TestCursor_OffsetIsAbsolute(t *testing.T) {
	buf := make([]byte, 32)
	c := newCursorAt(buf, 16, 20)
	if c.Offset() != 16 {
		t.Fatalf("Offset = %d, want 16", c.Offset())
	}
	_, _ = c.ReadU32()
	_, err := c.ReadU8()
	var de *DecodeError
	if !errors.As(err, &de) || de.Offset != 20 {
		t.Fatalf("expected DecodeError at 20, got %v", err)
	}
}
