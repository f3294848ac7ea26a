package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/gptrack/internal/trackdat"
	"github.com/banshee-data/gptrack/internal/trackdat/fixture"
	"github.com/banshee-data/gptrack/internal/trackdat/geometry"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultDecoderConfig(t *testing.T) {
	cfg := DefaultDecoderConfig()

	if cfg.VerticalScale == nil || *cfg.VerticalScale != 4.8768 {
		t.Errorf("Expected VerticalScale 4.8768, got %v", cfg.VerticalScale)
	}
	if cfg.GetChecksumAlgorithm() != "none" {
		t.Errorf("GetChecksumAlgorithm() = %q, want none", cfg.GetChecksumAlgorithm())
	}
	if cfg.GetUnits() != "m" {
		t.Errorf("GetUnits() = %q, want m", cfg.GetUnits())
	}
	if cfg.HeadingModel() != nil {
		t.Error("expected no heading model by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEmptyDecoderConfig_GettersUseDefaults(t *testing.T) {
	cfg := EmptyDecoderConfig()
	def := DefaultDecoderConfig()

	if cfg.GetVerticalScale() != def.GetVerticalScale() {
		t.Errorf("GetVerticalScale() = %f, want %f", cfg.GetVerticalScale(), def.GetVerticalScale())
	}
	if cfg.GetCatalogPath() != "gptrack.db" {
		t.Errorf("GetCatalogPath() = %q", cfg.GetCatalogPath())
	}
	if cfg.GetCommandTable() != "" || cfg.GetHeadingScale() != 0 || cfg.GetRequireChecksum() || cfg.GetSequential() {
		t.Error("unexpected non-zero default")
	}
}

func TestMustLoadDefaultConfig_MatchesDefaults(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	def := DefaultDecoderConfig()

	if cfg.GetVerticalScale() != def.GetVerticalScale() ||
		cfg.GetChecksumAlgorithm() != def.GetChecksumAlgorithm() ||
		cfg.GetUnits() != def.GetUnits() ||
		cfg.GetCatalogPath() != def.GetCatalogPath() ||
		cfg.GetHeadingScale() != def.GetHeadingScale() {
		t.Errorf("defaults file and DefaultDecoderConfig disagree: %+v", cfg)
	}
}

func TestLoadDecoderConfig(t *testing.T) {
	path := writeConfig(t, "decoder.json", `{
  "heading_scale": 0.002,
  "checksum_algorithm": "crc32",
  "require_checksum": true,
  "units": "ft"
}`)

	cfg, err := LoadDecoderConfig(path)
	if err != nil {
		t.Fatalf("LoadDecoderConfig: %v", err)
	}
	if cfg.GetHeadingScale() != 0.002 {
		t.Errorf("GetHeadingScale() = %f", cfg.GetHeadingScale())
	}
	if !cfg.GetRequireChecksum() {
		t.Error("expected require_checksum true")
	}
	if cfg.GetVerticalScale() != 4.8768 {
		t.Errorf("omitted vertical_scale should default, got %f", cfg.GetVerticalScale())
	}
	model, ok := cfg.HeadingModel().(geometry.LinearModel)
	if !ok || model.RadiansPerUnitMetre != float32(0.002) {
		t.Errorf("HeadingModel() = %#v", cfg.HeadingModel())
	}
}

func TestLoadDecoderConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"extension", "decoder.yaml", `{}`, ".json extension"},
		{"bad json", "decoder.json", `{`, "parse config JSON"},
		{"vertical scale", "decoder.json", `{"vertical_scale": -1}`, "vertical_scale"},
		{"algorithm", "decoder.json", `{"checksum_algorithm": "md5"}`, "unknown checksum algorithm"},
		{"require without algorithm", "decoder.json", `{"require_checksum": true}`, "require_checksum"},
		{"units", "decoder.json", `{"units": "yd"}`, "invalid units"},
		{"table extension", "decoder.json", `{"command_table": "cmds.txt"}`, "command_table"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDecoderConfig(writeConfig(t, tt.file, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := LoadDecoderConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodeOptions(t *testing.T) {
	tablePath := filepath.Join(t.TempDir(), "fixture.csv")
	f, err := os.Create(tablePath)
	if err != nil {
		t.Fatal(err)
	}
	if err := fixture.Table().WriteCSV(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg := DefaultDecoderConfig()
	cfg.CommandTable = ptrString(tablePath)
	cfg.ChecksumAlgorithm = ptrString("bytesum")
	cfg.HeadingScale = ptrFloat64(0.001)
	cfg.Sequential = ptrBool(true)

	opts, err := cfg.DecodeOptions()
	if err != nil {
		t.Fatalf("DecodeOptions: %v", err)
	}

	data, err := fixture.Bytes(8)
	if err != nil {
		t.Fatal(err)
	}
	def, err := trackdat.Decode(data, opts...)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !def.Checksum.Verified() {
		t.Errorf("expected verified checksum, got %+v", def.Checksum)
	}
	if def.Geometry[len(def.Geometry)-1].Heading == 0 {
		t.Error("expected heading model to turn the track")
	}
}

func TestDecodeOptions_BadTable(t *testing.T) {
	cfg := DefaultDecoderConfig()
	cfg.CommandTable = ptrString(filepath.Join(t.TempDir(), "missing.csv"))
	if _, err := cfg.DecodeOptions(); err == nil {
		t.Error("expected error for missing command table")
	}
}
