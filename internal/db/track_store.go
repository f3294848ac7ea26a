package db

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/gptrack/internal/monitoring"
	"github.com/banshee-data/gptrack/internal/timeutil"
	"github.com/banshee-data/gptrack/internal/trackdat"
)

var (
	// ErrTrackNotFound is returned when no catalog entry matches.
	ErrTrackNotFound = errors.New("track not found")
	// ErrTrackExists is returned when a file with the same content is already catalogued.
	ErrTrackExists = errors.New("track already in catalog")
)

// Lane names used in track_sections.
const (
	LaneMain = "main"
	LanePit  = "pit"
)

// TrackRecord is the catalog summary of one imported track file.
type TrackRecord struct {
	TrackID                string          `json:"track_id"`
	Name                   string          `json:"name"`
	SourcePath             string          `json:"source_path,omitempty"`
	ContentSHA256          string          `json:"content_sha256"`
	FileSize               int64           `json:"file_size"`
	Center                 trackdat.Center `json:"center"`
	SectionCount           int             `json:"section_count"`
	PitLaneSectionCount    int             `json:"pit_lane_section_count"`
	RacingLineDisplacement int16           `json:"racing_line_displacement"`
	LengthMeters           float64         `json:"length_m"`
	ChecksumStored         uint32          `json:"checksum_stored"`
	ChecksumAlgorithm      string          `json:"checksum_algorithm,omitempty"`
	ChecksumVerified       bool            `json:"checksum_verified"`
	ImportedAt             int64           `json:"imported_at"`
}

// ImportedTime returns ImportedAt as a time.Time.
func (r *TrackRecord) ImportedTime() time.Time { return time.Unix(0, r.ImportedAt) }

// ContentHash returns the hex SHA-256 used to deduplicate imports.
func ContentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// TrackStore provides persistence for decoded tracks.
type TrackStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewTrackStore creates a new TrackStore stamping imports with the system clock.
func NewTrackStore(db *DB) *TrackStore {
	return &TrackStore{db: db.DB, clock: timeutil.RealClock{}}
}

// SetClock replaces the clock used for ImportedAt.
func (s *TrackStore) SetClock(c timeutil.Clock) {
	s.clock = c
}

// Insert stores a decoded definition together with the hash of its raw
// bytes. A file already in the catalog returns its existing record and
// ErrTrackExists.
func (s *TrackStore) Insert(def *trackdat.TrackDefinition, raw []byte, sourcePath string) (*TrackRecord, error) {
	hash := ContentHash(raw)
	if existing, err := s.FindByHash(hash); err == nil {
		return existing, ErrTrackExists
	} else if !errors.Is(err, ErrTrackNotFound) {
		return nil, err
	}

	rec := &TrackRecord{
		TrackID:                uuid.New().String(),
		Name:                   def.Name,
		SourcePath:             sourcePath,
		ContentSHA256:          hash,
		FileSize:               int64(len(raw)),
		Center:                 def.Center,
		SectionCount:           len(def.Sections),
		PitLaneSectionCount:    len(def.PitLane),
		RacingLineDisplacement: def.RacingLine.Displacement,
		LengthMeters:           def.TotalLengthMeters(),
		ChecksumStored:         def.Checksum.Stored,
		ChecksumAlgorithm:      def.Checksum.Algorithm,
		ChecksumVerified:       def.Checksum.Verified(),
		ImportedAt:             s.clock.Now().UnixNano(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO tracks (
			track_id, name, source_path, content_sha256, file_size,
			center_x, center_y, center_z, section_count, pit_lane_section_count,
			racing_line_displacement, length_m, checksum_stored, checksum_algorithm,
			checksum_verified, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TrackID, rec.Name, rec.SourcePath, rec.ContentSHA256, rec.FileSize,
		rec.Center.X, rec.Center.Y, rec.Center.Z, rec.SectionCount, rec.PitLaneSectionCount,
		rec.RacingLineDisplacement, rec.LengthMeters, int64(rec.ChecksumStored), rec.ChecksumAlgorithm,
		rec.ChecksumVerified, rec.ImportedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert track: %w", err)
	}

	if err := insertSections(tx, rec.TrackID, LaneMain, def.Sections); err != nil {
		return nil, err
	}
	if err := insertSections(tx, rec.TrackID, LanePit, def.PitLane); err != nil {
		return nil, err
	}
	if err := insertRacingLine(tx, rec.TrackID, def.RacingLine); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	monitoring.Logf("catalogued %q as %s (%d sections)", rec.Name, rec.TrackID, rec.SectionCount)
	return rec, nil
}

func insertSections(tx *sql.Tx, trackID, lane string, sections []trackdat.TrackSection) error {
	stmt, err := tx.Prepare(`
		INSERT INTO track_sections (
			track_id, lane, seq, length_units, curvature, height_delta, flags,
			right_verge_width, left_verge_width, commands_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, sec := range sections {
		var commands interface{}
		if len(sec.Commands) > 0 {
			b, err := json.Marshal(sec.Commands)
			if err != nil {
				return err
			}
			commands = string(b)
		}
		if _, err := stmt.Exec(trackID, lane, i, sec.LengthUnits, sec.Curvature, sec.HeightDelta, sec.Flags,
			sec.RightVergeWidth, sec.LeftVergeWidth, commands); err != nil {
			return fmt.Errorf("failed to insert %s section %d: %w", lane, i, err)
		}
	}
	return nil
}

func insertRacingLine(tx *sql.Tx, trackID string, line trackdat.RacingLine) error {
	stmt, err := tx.Prepare(`
		INSERT INTO racing_line_segments (
			track_id, seq, kind, length, type, correction, radius, high_radius, low_radius
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, seg := range line.Segments {
		if _, err := stmt.Exec(trackID, i, seg.Kind.String(), seg.Length, seg.Type, seg.Correction,
			seg.Radius, seg.HighRadius, seg.LowRadius); err != nil {
			return fmt.Errorf("failed to insert racing line segment %d: %w", i, err)
		}
	}
	return nil
}

const trackColumns = `
	track_id, name, source_path, content_sha256, file_size,
	center_x, center_y, center_z, section_count, pit_lane_section_count,
	racing_line_displacement, length_m, checksum_stored, checksum_algorithm,
	checksum_verified, imported_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrack(row rowScanner) (*TrackRecord, error) {
	var (
		rec    TrackRecord
		stored int64
	)
	err := row.Scan(
		&rec.TrackID, &rec.Name, &rec.SourcePath, &rec.ContentSHA256, &rec.FileSize,
		&rec.Center.X, &rec.Center.Y, &rec.Center.Z, &rec.SectionCount, &rec.PitLaneSectionCount,
		&rec.RacingLineDisplacement, &rec.LengthMeters, &stored, &rec.ChecksumAlgorithm,
		&rec.ChecksumVerified, &rec.ImportedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrackNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.ChecksumStored = uint32(stored)
	return &rec, nil
}

// Get returns the record with the given id.
func (s *TrackStore) Get(trackID string) (*TrackRecord, error) {
	return scanTrack(s.db.QueryRow(`SELECT `+trackColumns+` FROM tracks WHERE track_id = ?`, trackID))
}

// FindByHash returns the record whose raw file hashed to hash.
func (s *TrackStore) FindByHash(hash string) (*TrackRecord, error) {
	return scanTrack(s.db.QueryRow(`SELECT `+trackColumns+` FROM tracks WHERE content_sha256 = ?`, hash))
}

// List returns all records ordered by name, then import time.
func (s *TrackStore) List() ([]*TrackRecord, error) {
	rows, err := s.db.Query(`SELECT ` + trackColumns + ` FROM tracks ORDER BY name, imported_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*TrackRecord
	for rows.Next() {
		rec, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Sections returns the stored sections of one lane in stream order.
func (s *TrackStore) Sections(trackID, lane string) ([]trackdat.TrackSection, error) {
	rows, err := s.db.Query(`
		SELECT length_units, curvature, height_delta, flags, right_verge_width, left_verge_width, commands_json
		FROM track_sections WHERE track_id = ? AND lane = ? ORDER BY seq`, trackID, lane)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trackdat.TrackSection
	for rows.Next() {
		var (
			sec      trackdat.TrackSection
			commands sql.NullString
		)
		if err := rows.Scan(&sec.LengthUnits, &sec.Curvature, &sec.HeightDelta, &sec.Flags,
			&sec.RightVergeWidth, &sec.LeftVergeWidth, &commands); err != nil {
			return nil, err
		}
		if commands.Valid {
			if err := json.Unmarshal([]byte(commands.String), &sec.Commands); err != nil {
				return nil, fmt.Errorf("corrupt commands for section: %w", err)
			}
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

// RacingLine returns the stored racing line of a track.
func (s *TrackStore) RacingLine(trackID string) (trackdat.RacingLine, error) {
	rec, err := s.Get(trackID)
	if err != nil {
		return trackdat.RacingLine{}, err
	}

	rows, err := s.db.Query(`
		SELECT kind, length, type, correction, radius, high_radius, low_radius
		FROM racing_line_segments WHERE track_id = ? ORDER BY seq`, trackID)
	if err != nil {
		return trackdat.RacingLine{}, err
	}
	defer rows.Close()

	line := trackdat.RacingLine{Displacement: rec.RacingLineDisplacement}
	for rows.Next() {
		var (
			seg  trackdat.RacingLineSegment
			kind string
		)
		if err := rows.Scan(&kind, &seg.Length, &seg.Type, &seg.Correction, &seg.Radius, &seg.HighRadius, &seg.LowRadius); err != nil {
			return trackdat.RacingLine{}, err
		}
		if kind == trackdat.SegmentWideRadius.String() {
			seg.Kind = trackdat.SegmentWideRadius
		}
		line.Segments = append(line.Segments, seg)
	}
	return line, rows.Err()
}

// Delete removes a track and, by cascade, its sections and racing line.
func (s *TrackStore) Delete(trackID string) error {
	res, err := s.db.Exec(`DELETE FROM tracks WHERE track_id = ?`, trackID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTrackNotFound
	}
	return nil
}
