package db

import (
	"path/filepath"
	"testing"

	"github.com/banshee-data/gptrack/internal/trackdat"
	"github.com/banshee-data/gptrack/internal/trackdat/fixture"
)

// setupTestDB creates a migrated catalog in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func fixtureTrack(t *testing.T, sections int) (*trackdat.TrackDefinition, []byte) {
	t.Helper()
	raw, err := fixture.Bytes(sections)
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	def, err := trackdat.Decode(raw,
		trackdat.WithCommandTable(fixture.Table()),
		trackdat.WithChecksumAlgorithm(trackdat.ByteSum{}),
		trackdat.WithName(fixture.DefaultName))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return def, raw
}
