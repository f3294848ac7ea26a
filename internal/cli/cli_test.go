package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gptrack/internal/fsutil"
	"github.com/banshee-data/gptrack/internal/trackdat/fixture"
	"github.com/banshee-data/gptrack/internal/units"
	"github.com/banshee-data/gptrack/internal/version"
)

const trackPath = "tracks/synth.dat"

// newFS returns an in-memory filesystem holding a synthetic track at
// trackPath, and isolates the test from any real user config.
func newFS(t *testing.T) *fsutil.MemoryFileSystem {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, fixture.WriteFile(fsys, trackPath, fixture.DefaultSectionCount))
	return fsys
}

func run(t *testing.T, fsys fsutil.FileSystem, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(fsys, &out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	fsys := newFS(t)
	out, err := run(t, fsys, "inspect", trackPath)
	require.NoError(t, err)

	assert.Contains(t, out, "synth")
	assert.Contains(t, out, "track sections")
	assert.Contains(t, out, "object shapes")
	assert.Contains(t, out, "80 86")
	assert.Contains(t, out, "not verified")
}

func TestInspect_MissingFile(t *testing.T) {
	_, err := run(t, newFS(t), "inspect", "nope.dat")
	require.Error(t, err)
}

func TestSections(t *testing.T) {
	fsys := newFS(t)
	out, err := run(t, fsys, "sections", trackPath)
	require.NoError(t, err)
	assert.Contains(t, out, "0x80(1; 100)")
	assert.Contains(t, out, "0x86(0; -20,20)")

	out, err = run(t, fsys, "sections", "--pit", trackPath)
	require.NoError(t, err)
	assert.Contains(t, out, "48.8 m")
	assert.NotContains(t, out, "0x80(")
}

func TestRacingLine(t *testing.T) {
	out, err := run(t, newFS(t), "racing-line", trackPath)
	require.NoError(t, err)
	assert.Contains(t, out, "wide")
	assert.Contains(t, out, "2000 / -2000")
}

func TestVerify(t *testing.T) {
	fsys := newFS(t)

	out, err := run(t, fsys, "verify", "--checksum", "bytesum", "--strict", trackPath)
	require.NoError(t, err)
	assert.Contains(t, out, "OK bytesum ok")

	raw, err := fsys.ReadFile(trackPath)
	require.NoError(t, err)
	raw[0] ^= 0xFF // padding byte: decodes fine, checksum differs
	require.NoError(t, fsys.WriteFile("tracks/bad.dat", raw, 0o644))

	out, err = run(t, fsys, "verify", "--checksum", "bytesum", trackPath, "tracks/bad.dat")
	require.NoError(t, err, "mismatch is not fatal without --strict")
	assert.Contains(t, out, "MISMATCH")

	out, err = run(t, fsys, "verify", "--checksum", "bytesum", "--strict", trackPath, "tracks/bad.dat")
	require.ErrorIs(t, err, ErrVerificationFailed)
	assert.Contains(t, err.Error(), "1 of 2 files")
	assert.Contains(t, out, "tracks/bad.dat: FAIL")
}

func TestVerify_StrictNeedsAlgorithm(t *testing.T) {
	_, err := run(t, newFS(t), "verify", "--strict", trackPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--strict needs a checksum algorithm")
}

func TestGeometry(t *testing.T) {
	out, err := run(t, newFS(t), "geometry", "--heading-scale", "0.0001", trackPath)
	require.NoError(t, err)

	var dump geometryDump
	require.NoError(t, json.Unmarshal([]byte(out), &dump))
	assert.Equal(t, "synth", dump.Name)
	assert.Len(t, dump.Points, fixture.DefaultSectionCount)
	assert.InDelta(t, fixture.DefaultSectionCount*fixture.SectionLengthUnits*units.MetersPerTrackUnit, dump.LengthMeters, 1e-2)
	assert.Nil(t, dump.Definition)
}

func TestPlot(t *testing.T) {
	fsys := newFS(t)
	out, err := run(t, fsys, "plot", trackPath, "--out", "plots/layout.png", "--elevation", "plots/elevation.html", "--units", "km")
	require.NoError(t, err)
	assert.Contains(t, out, "layout: plots/layout.png")

	png, err := fsys.ReadFile("plots/layout.png")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	html, err := fsys.ReadFile("plots/elevation.html")
	require.NoError(t, err)
	assert.Contains(t, string(html), "Distance (km)")
}

func TestPlot_RejectsNonPNG(t *testing.T) {
	_, err := run(t, newFS(t), "plot", trackPath, "--out", "layout.svg")
	require.Error(t, err)
}

func TestShapes(t *testing.T) {
	fsys := newFS(t)
	out, err := run(t, fsys, "shapes", trackPath)
	require.NoError(t, err)
	assert.Contains(t, out, "vector 7")
	assert.Contains(t, out, "bitmap 1 at point 3")
	assert.Contains(t, out, "sides [1 2 -3]")

	_, err = run(t, fsys, "shapes", trackPath, "--offset", "99999999")
	require.Error(t, err)
}

func TestShapeBytes(t *testing.T) {
	raw, err := fixture.Bytes(4)
	require.NoError(t, err)

	data, err := shapeBytes(raw, false, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, fixture.ObjectShapes, data)

	data, err = shapeBytes(raw, false, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, fixture.ObjectShapes[:5], data)

	data, err = shapeBytes(raw, true, len(raw)-4, 0)
	require.NoError(t, err)
	assert.Len(t, data, 4)

	_, err = shapeBytes(raw, false, 0, 1000)
	require.Error(t, err)

	_, err = shapeBytes(raw, true, len(raw), 0)
	require.Error(t, err)
}

func TestFixture(t *testing.T) {
	fsys := newFS(t)
	out, err := run(t, fsys, "fixture", "--sections", "6", "--out", "gen/six.dat")
	require.NoError(t, err)
	assert.Contains(t, out, "6-section")

	want, err := fixture.Bytes(6)
	require.NoError(t, err)
	got, err := fsys.ReadFile("gen/six.dat")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = run(t, fsys, "fixture", "--sections", "0")
	require.Error(t, err)
}

func TestCatalog(t *testing.T) {
	fsys := newFS(t)
	catalog := filepath.Join(t.TempDir(), "catalog.db")

	out, err := run(t, fsys, "catalog", "add", "--catalog", catalog, trackPath)
	require.NoError(t, err)
	assert.Contains(t, out, "added")

	out, err = run(t, fsys, "catalog", "add", "--catalog", catalog, trackPath)
	require.NoError(t, err)
	assert.Contains(t, out, "already catalogued")

	out, err = run(t, fsys, "catalog", "list", "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "synth")

	out, err = run(t, fsys, "catalog", "migrate", "--status", "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 2 of 2")

	out, err = run(t, fsys, "catalog", "migrate", "--down", "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1 of 2 (pending)")

	_, err = run(t, fsys, "catalog", "remove", "--catalog", catalog, "no-such-id")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, newFS(t), "version", "--json")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Version, info.Version)
}

func TestUnitsFromEnv(t *testing.T) {
	fsys := newFS(t)
	t.Setenv("GPTRACK_UNITS", "ft")
	out, err := run(t, fsys, "sections", trackPath)
	require.NoError(t, err)
	assert.Contains(t, out, " ft")
}

func TestConfigFile(t *testing.T) {
	fsys := newFS(t)
	cfg := filepath.Join(t.TempDir(), "gptrack.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("units: mi\nlog-level: error\n"), 0o644))

	out, err := run(t, fsys, "--config", cfg, "sections", trackPath)
	require.NoError(t, err)
	assert.Contains(t, out, " mi")

	_, err = run(t, fsys, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "sections", trackPath)
	require.Error(t, err)
}

func TestInvalidSettings(t *testing.T) {
	fsys := newFS(t)
	_, err := run(t, fsys, "--units", "furlongs", "inspect", trackPath)
	require.Error(t, err)

	_, err = run(t, fsys, "--log-level", "shouty", "inspect", trackPath)
	require.Error(t, err)

	_, err = run(t, fsys, "--checksum", "md5", "inspect", trackPath)
	require.Error(t, err)
}

func TestTrackName(t *testing.T) {
	assert.Equal(t, "monaco", trackName("/data/tracks/monaco.dat"))
	assert.Equal(t, "F1CT01", trackName("F1CT01.DAT"))
	assert.True(t, strings.HasPrefix(trackName("a.b.c"), "a.b"))
}
