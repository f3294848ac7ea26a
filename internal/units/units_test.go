package units

import (
	"math"
	"testing"
)

func TestConvertLength(t *testing.T) {
	tests := []struct {
		name     string
		meters   float64
		units    string
		expected float64
	}{
		{"1000 m to km", 1000.0, KM, 1.0},
		{"1 m to ft", 1.0, FT, 3.28084},
		{"1609.344 m to mi", 1609.344, MI, 1.0},
		{"10 m to m", 10.0, M, 10.0},
		{"unknown units default to m", 10.0, "unknown", 10.0},
		{"0 m to ft", 0.0, FT, 0.0},
		{"monaco lap 3340 m to km", 3340.0, KM, 3.34},
		{"one track unit to ft", MetersPerTrackUnit, FT, 16.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertLength(tt.meters, tt.units)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("ConvertLength(%f, %s) = %f, want %f", tt.meters, tt.units, result, tt.expected)
			}
		})
	}
}

func TestTrackUnitsToMeters(t *testing.T) {
	if got := TrackUnitsToMeters(10); math.Abs(got-48.768) > 1e-9 {
		t.Errorf("TrackUnitsToMeters(10) = %f, want 48.768", got)
	}
	if got := TrackUnitsToMeters(1); math.Abs(got-FeetPerTrackUnit*MetersPerFoot) > 1e-9 {
		t.Errorf("one unit should be 16 feet, got %f m", got)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid m", M, true},
		{"valid ft", FT, true},
		{"valid km", KM, true},
		{"valid mi", MI, true},
		{"invalid unit", "invalid", false},
		{"empty string", "", false},
		{"case sensitive", "KM", false},
		{"case sensitive", "Ft", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValid(tt.unit)
			if result != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestGetValidUnitsString(t *testing.T) {
	if got := GetValidUnitsString(); got != "m, ft, km, mi" {
		t.Errorf("GetValidUnitsString() = %q", got)
	}
}
