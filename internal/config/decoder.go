package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/gptrack/internal/trackdat"
	"github.com/banshee-data/gptrack/internal/trackdat/geometry"
	"github.com/banshee-data/gptrack/internal/units"
)

// DefaultConfigPath is the path to the canonical decoder defaults file.
const DefaultConfigPath = "config/decoder.defaults.json"

// DecoderConfig holds the decoder settings that are not fixed by the file
// format. Nil fields fall back to the defaults returned by the Get* methods,
// so partial files are safe.
type DecoderConfig struct {
	// Path to a command table CSV; empty selects the embedded table.
	CommandTable *string `json:"command_table,omitempty"`

	// Radians of turn per curvature unit per metre. Zero disables turning.
	HeadingScale  *float64 `json:"heading_scale,omitempty"`
	VerticalScale *float64 `json:"vertical_scale,omitempty"` // metres per height unit

	ChecksumAlgorithm *string `json:"checksum_algorithm,omitempty"`
	RequireChecksum   *bool   `json:"require_checksum,omitempty"`

	Sequential  *bool   `json:"sequential,omitempty"`
	Units       *string `json:"units,omitempty"`
	CatalogPath *string `json:"catalog_path,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }

// EmptyDecoderConfig returns a DecoderConfig with all fields set to nil.
func EmptyDecoderConfig() *DecoderConfig {
	return &DecoderConfig{}
}

// DefaultDecoderConfig returns a config with every field set to its default.
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		CommandTable:      ptrString(""),
		HeadingScale:      ptrFloat64(0),
		VerticalScale:     ptrFloat64(units.MetersPerTrackUnit),
		ChecksumAlgorithm: ptrString("none"),
		RequireChecksum:   ptrBool(false),
		Sequential:        ptrBool(false),
		Units:             ptrString(units.M),
		CatalogPath:       ptrString("gptrack.db"),
	}
}

// LoadDecoderConfig loads a DecoderConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadDecoderConfig(path string) (*DecoderConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyDecoderConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory
// or a parent. Panics if the file cannot be loaded; intended for tests.
func MustLoadDefaultConfig() *DecoderConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/trackdat/fixture/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadDecoderConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *DecoderConfig) Validate() error {
	if c.VerticalScale != nil && *c.VerticalScale <= 0 {
		return fmt.Errorf("vertical_scale must be positive, got %f", *c.VerticalScale)
	}
	if c.ChecksumAlgorithm != nil {
		if _, err := trackdat.ChecksumAlgorithmByName(*c.ChecksumAlgorithm); err != nil {
			return err
		}
	}
	if c.RequireChecksum != nil && *c.RequireChecksum && c.GetChecksumAlgorithm() == "none" {
		return fmt.Errorf("require_checksum needs a checksum_algorithm")
	}
	if c.Units != nil && !units.IsValid(*c.Units) {
		return fmt.Errorf("invalid units %q, must be one of: %s", *c.Units, units.GetValidUnitsString())
	}
	if c.CommandTable != nil && *c.CommandTable != "" && filepath.Ext(*c.CommandTable) != ".csv" {
		return fmt.Errorf("command_table must be a .csv file, got %q", *c.CommandTable)
	}
	return nil
}

// GetCommandTable returns the command table path, empty for the embedded table.
func (c *DecoderConfig) GetCommandTable() string {
	if c.CommandTable == nil {
		return ""
	}
	return *c.CommandTable
}

// GetHeadingScale returns the heading_scale value or the default.
func (c *DecoderConfig) GetHeadingScale() float64 {
	if c.HeadingScale == nil {
		return 0
	}
	return *c.HeadingScale
}

// GetVerticalScale returns the vertical_scale value or the default.
func (c *DecoderConfig) GetVerticalScale() float64 {
	if c.VerticalScale == nil || *c.VerticalScale <= 0 {
		return units.MetersPerTrackUnit
	}
	return *c.VerticalScale
}

// GetChecksumAlgorithm returns the checksum algorithm name, "none" when unset.
func (c *DecoderConfig) GetChecksumAlgorithm() string {
	if c.ChecksumAlgorithm == nil || *c.ChecksumAlgorithm == "" {
		return "none"
	}
	return *c.ChecksumAlgorithm
}

// GetRequireChecksum returns the require_checksum value or the default.
func (c *DecoderConfig) GetRequireChecksum() bool {
	if c.RequireChecksum == nil {
		return false
	}
	return *c.RequireChecksum
}

// GetSequential returns the sequential value or the default.
func (c *DecoderConfig) GetSequential() bool {
	if c.Sequential == nil {
		return false
	}
	return *c.Sequential
}

// GetUnits returns the display units or the default.
func (c *DecoderConfig) GetUnits() string {
	if c.Units == nil || *c.Units == "" {
		return units.M
	}
	return *c.Units
}

// GetCatalogPath returns the sqlite catalog path or the default.
func (c *DecoderConfig) GetCatalogPath() string {
	if c.CatalogPath == nil || *c.CatalogPath == "" {
		return "gptrack.db"
	}
	return *c.CatalogPath
}

// LoadCommandTable returns the configured command table.
func (c *DecoderConfig) LoadCommandTable() (*trackdat.CommandTable, error) {
	if path := c.GetCommandTable(); path != "" {
		return trackdat.LoadCommandTable(path)
	}
	return trackdat.LoadEmbeddedCommandTable()
}

// HeadingModel returns the configured curvature model, or nil when no
// heading scale is set.
func (c *DecoderConfig) HeadingModel() geometry.HeadingModel {
	scale := c.GetHeadingScale()
	if scale == 0 {
		return nil
	}
	return geometry.LinearModel{RadiansPerUnitMetre: float32(scale)}
}

// DecodeOptions translates the config into trackdat.Decode options.
func (c *DecoderConfig) DecodeOptions() ([]trackdat.Option, error) {
	table, err := c.LoadCommandTable()
	if err != nil {
		return nil, err
	}
	algo, err := trackdat.ChecksumAlgorithmByName(c.GetChecksumAlgorithm())
	if err != nil {
		return nil, err
	}

	opts := []trackdat.Option{
		trackdat.WithCommandTable(table),
		trackdat.WithVerticalScale(float32(c.GetVerticalScale())),
		trackdat.WithChecksumAlgorithm(algo),
	}
	if model := c.HeadingModel(); model != nil {
		opts = append(opts, trackdat.WithHeadingModel(model))
	}
	if c.GetSequential() {
		opts = append(opts, trackdat.WithSequential())
	}
	return opts, nil
}
