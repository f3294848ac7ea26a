package trackplot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gptrack/internal/trackdat"
	"github.com/banshee-data/gptrack/internal/trackdat/fixture"
	"github.com/banshee-data/gptrack/internal/trackdat/geometry"
	"github.com/banshee-data/gptrack/internal/units"
)

func decodeFixture(t *testing.T, n int) *trackdat.TrackDefinition {
	t.Helper()
	buf, err := fixture.Bytes(n)
	require.NoError(t, err)
	def, err := trackdat.Decode(buf,
		trackdat.WithCommandTable(fixture.Table()),
		trackdat.WithHeadingModel(geometry.LinearModel{RadiansPerUnitMetre: 1e-5}),
		trackdat.WithName(fixture.DefaultName))
	require.NoError(t, err)
	return def
}

func TestElevationProfile(t *testing.T) {
	def := decodeFixture(t, 8)
	prof := ElevationProfile(def)

	require.Len(t, prof.Distance, 8)
	require.Len(t, prof.Elevation, 8)
	for i := 1; i < len(prof.Distance); i++ {
		assert.Greater(t, prof.Distance[i], prof.Distance[i-1])
	}
	assert.InDelta(t, def.TotalLengthMeters(), prof.Distance[len(prof.Distance)-1], 1e-3)
	assert.Equal(t, def.Sections[3].Curvature, prof.Curvature[3])
}

func TestElevationProfile_Empty(t *testing.T) {
	prof := ElevationProfile(&trackdat.TrackDefinition{})
	assert.Empty(t, prof.Distance)
	assert.Empty(t, prof.Elevation)
}

func TestWriteElevationHTML(t *testing.T) {
	def := decodeFixture(t, fixture.DefaultSectionCount)

	var buf bytes.Buffer
	require.NoError(t, WriteElevationHTML(def, units.KM, &buf))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, fixture.DefaultName+" elevation")
	assert.Contains(t, html, "Distance (km)")
}

func TestWriteElevationHTML_InvalidUnits(t *testing.T) {
	def := decodeFixture(t, 4)
	var buf bytes.Buffer
	err := WriteElevationHTML(def, "furlongs", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid units")
	assert.Zero(t, buf.Len())
}

func TestWriteLayoutPNG(t *testing.T) {
	def := decodeFixture(t, fixture.DefaultSectionCount)

	var buf bytes.Buffer
	require.NoError(t, WriteLayoutPNG(def, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")), "output is not a PNG")
}

func TestSaveLayout(t *testing.T) {
	def := decodeFixture(t, 6)
	path := filepath.Join(t.TempDir(), "layout.png")

	require.NoError(t, SaveLayout(def, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestNewLayoutPlot_NoGeometry(t *testing.T) {
	_, err := NewLayoutPlot(&trackdat.TrackDefinition{Name: "empty"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no geometry"))
}

func TestNewLayoutPlot_SquareAxes(t *testing.T) {
	p, err := NewLayoutPlot(decodeFixture(t, 10))
	require.NoError(t, err)
	assert.InDelta(t, p.X.Max-p.X.Min, p.Y.Max-p.Y.Min, 1e-9)
	assert.Equal(t, fixture.DefaultName, p.Title.Text)
}
