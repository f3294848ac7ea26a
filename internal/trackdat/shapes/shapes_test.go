package shapes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gptrack/internal/trackdat"
)

func TestIdentify(t *testing.T) {
	tests := []struct {
		flag uint8
		want Kind
	}{
		{0xA0, KindLine},
		{0x80, KindBitmap},
		{0x88, KindBitmap},
		{0xD0, KindBitmap},
		{0x82, KindExtendedBitmap},
		{0x86, KindExtendedBitmap},
		{0xFF, KindPolygon},
		{0x01, KindPolygon},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Identify(tt.flag), "flag 0x%02X", tt.flag)
	}
}

func TestParseElements_Mixed(t *testing.T) {
	data := []byte{
		0xA0, 0x08, 0x03,                   // line
		0x80, 0x05, 0xFF, 0x02,             // bitmap
		0x86, 0x01, 0xFF, 0x07, 0x10, 0x20, // extended bitmap
		0x0C, 0x01, 0x02, 0xFD, 0x00,       // triangle, colour 12
	}
	elems, err := ParseElements(data)
	require.NoError(t, err)
	require.Len(t, elems, 4)

	assert.Equal(t, Element{Kind: KindLine, Flag: 0xA0, Unknown: 0x08, VectorRef: 3}, elems[0])
	assert.Equal(t, Element{Kind: KindBitmap, Flag: 0x80, PointRef: 5, Unknown: 0xFF, BitmapIndex: 2}, elems[1])
	assert.Equal(t, Element{Kind: KindExtendedBitmap, Flag: 0x86, PointRef: 1, Unknown: 0xFF, BitmapIndex: 7, Extra: [2]uint8{0x10, 0x20}}, elems[2])
	assert.Equal(t, KindPolygon, elems[3].Kind)
	assert.Equal(t, uint8(12), elems[3].Colour())
	assert.Equal(t, []int8{1, 2, -3}, elems[3].Sides)

	total := 0
	for _, e := range elems {
		total += e.Size()
	}
	assert.Equal(t, len(data), total)
}

func TestParseElement_PolygonLimits(t *testing.T) {
	_, err := ParseElements([]byte{0x05, 0x01, 0x02, 0x00})
	assert.True(t, errors.Is(err, ErrInvalidPolygon))

	long := []byte{0x05}
	for i := 1; i <= 13; i++ {
		long = append(long, byte(i))
	}
	long = append(long, 0x00)
	_, err = ParseElements(long)
	assert.True(t, errors.Is(err, ErrInvalidPolygon))

	twelve := []byte{0x05}
	for i := 1; i <= 12; i++ {
		twelve = append(twelve, byte(i))
	}
	twelve = append(twelve, 0x00)
	elems, err := ParseElements(twelve)
	require.NoError(t, err)
	assert.Len(t, elems[0].Sides, MaxPolygonSides)
}

func TestParseElement_Truncated(t *testing.T) {
	for _, data := range [][]byte{
		{0xA0, 0x08},
		{0x80, 0x01, 0x02},
		{0x82, 0x01, 0x02, 0x03, 0x04},
		{0x05, 0x01, 0x02, 0x03},
	} {
		_, err := ParseElement(trackdat.NewCursor(data))
		assert.True(t, errors.Is(err, trackdat.ErrUnexpectedEOF), "data % X: %v", data, err)
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "line", KindLine.String())
	assert.Equal(t, "polygon", KindPolygon.String())
	assert.Equal(t, "extended-bitmap", KindExtendedBitmap.String())
}
