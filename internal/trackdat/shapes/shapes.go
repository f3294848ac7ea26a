// Package shapes decodes the graphical elements used by trackside object
// shapes: lines, bitmaps and polygons. The element kind is chosen by its
// first byte; anything that is not a known flag is a polygon colour.
package shapes

import (
	"errors"
	"fmt"

	"github.com/banshee-data/gptrack/internal/trackdat"
)

// Element flag bytes
const (
	LineFlag = 0xA0

	BitmapFlag80 = 0x80
	BitmapFlag88 = 0x88
	BitmapFlagD0 = 0xD0

	ExtendedBitmapFlag82 = 0x82
	ExtendedBitmapFlag86 = 0x86

	PolygonTerminator = 0x00
	MinPolygonSides   = 3
	MaxPolygonSides   = 12
)

// ErrInvalidPolygon is returned for polygons outside 3..12 sides.
var ErrInvalidPolygon = errors.New("invalid polygon")

// Kind identifies a graphical element type.
type Kind int

const (
	KindPolygon Kind = iota
	KindBitmap
	KindExtendedBitmap
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindBitmap:
		return "bitmap"
	case KindExtendedBitmap:
		return "extended-bitmap"
	case KindLine:
		return "line"
	default:
		return "polygon"
	}
}

// Identify returns the element kind selected by a leading flag byte.
func Identify(flag uint8) Kind {
	switch flag {
	case LineFlag:
		return KindLine
	case BitmapFlag80, BitmapFlag88, BitmapFlagD0:
		return KindBitmap
	case ExtendedBitmapFlag82, ExtendedBitmapFlag86:
		return KindExtendedBitmap
	default:
		return KindPolygon
	}
}

// Element is one decoded graphical element. Only the fields of its Kind
// are populated.
type Element struct {
	Kind Kind  `json:"kind"`
	Flag uint8 `json:"flag"`

	// Polygon
	Sides []int8 `json:"sides,omitempty"` // > 0 start point, < 0 end point

	// Bitmap and ExtendedBitmap
	PointRef    uint8    `json:"point_ref,omitempty"`
	Unknown     uint8    `json:"unknown,omitempty"`
	BitmapIndex uint8    `json:"bitmap_index,omitempty"`
	Extra       [2]uint8 `json:"extra,omitempty"`

	// Line
	VectorRef uint8 `json:"vector_ref,omitempty"`
}

// Colour returns the palette index of a polygon.
func (e Element) Colour() uint8 { return e.Flag }

// Size returns the encoded size of e in bytes.
func (e Element) Size() int {
	switch e.Kind {
	case KindLine:
		return 3
	case KindBitmap:
		return 4
	case KindExtendedBitmap:
		return 6
	default:
		return 1 + len(e.Sides) + 1
	}
}

// ParseElement reads one element from c.
func ParseElement(c *trackdat.Cursor) (Element, error) {
	start := c.Offset()
	flag, err := c.ReadU8()
	if err != nil {
		return Element{}, err
	}
	e := Element{Kind: Identify(flag), Flag: flag}

	switch e.Kind {
	case KindLine:
		if e.Unknown, err = c.ReadU8(); err != nil {
			return Element{}, err
		}
		if e.VectorRef, err = c.ReadU8(); err != nil {
			return Element{}, err
		}

	case KindBitmap, KindExtendedBitmap:
		if e.PointRef, err = c.ReadU8(); err != nil {
			return Element{}, err
		}
		if e.Unknown, err = c.ReadU8(); err != nil {
			return Element{}, err
		}
		if e.BitmapIndex, err = c.ReadU8(); err != nil {
			return Element{}, err
		}
		if e.Kind == KindExtendedBitmap {
			for i := range e.Extra {
				if e.Extra[i], err = c.ReadU8(); err != nil {
					return Element{}, err
				}
			}
		}

	default:
		for {
			side, err := c.ReadI8()
			if err != nil {
				return Element{}, err
			}
			if side == PolygonTerminator {
				break
			}
			if len(e.Sides) == MaxPolygonSides {
				return Element{}, fmt.Errorf("%w at offset 0x%04X: more than %d sides", ErrInvalidPolygon, start, MaxPolygonSides)
			}
			e.Sides = append(e.Sides, side)
		}
		if len(e.Sides) < MinPolygonSides {
			return Element{}, fmt.Errorf("%w at offset 0x%04X: %d sides", ErrInvalidPolygon, start, len(e.Sides))
		}
	}
	return e, nil
}

// ParseElements decodes elements until data is exhausted.
func ParseElements(data []byte) ([]Element, error) {
	c := trackdat.NewCursor(data)
	var out []Element
	for c.Remaining() > 0 {
		e, err := ParseElement(c)
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}
