// Package units provides shared constants and conversions for track length units
package units

// Unit constants
const (
	M  = "m"
	FT = "ft"
	KM = "km"
	MI = "mi"
)

// Track files measure section length in units of 16 feet.
const (
	FeetPerTrackUnit   = 16.0
	MetersPerTrackUnit = 4.8768
	MetersPerFoot      = 0.3048
	MetersPerMile      = 1609.344
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{M, FT, KM, MI}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m, ft, km, mi"
}

// TrackUnitsToMeters converts a raw section length to metres.
func TrackUnitsToMeters(trackUnits float64) float64 {
	return trackUnits * MetersPerTrackUnit
}

// ConvertLength converts a length in metres to the target units
// Decoded geometry is kept in metres
func ConvertLength(meters float64, targetUnits string) float64 {
	switch targetUnits {
	case FT:
		return meters / MetersPerFoot
	case KM:
		return meters / 1000.0
	case MI:
		return meters / MetersPerMile
	case M:
		return meters // no conversion needed
	default:
		return meters // default to metres if unknown unit
	}
}
