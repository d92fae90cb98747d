package units

import (
	"fmt"
	"math"
)

// Unit is the display unit preference. Stored values are always metric.
type Unit string

const (
	Metric   Unit = "metric"
	Imperial Unit = "imperial"
)

// ParseUnit validates a unit string.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case Metric, Imperial:
		return Unit(s), nil
	default:
		return "", fmt.Errorf("unknown unit %q: want %q or %q", s, Metric, Imperial)
	}
}

// Band is a descriptive temperature bucket.
type Band string

const (
	BandFreezing    Band = "Freezing"
	BandCold        Band = "Cold"
	BandCool        Band = "Cool"
	BandWarm        Band = "Warm"
	BandHot         Band = "Hot"
	BandExtremeHeat Band = "Extreme Heat"
)

// Convert maps a Celsius temperature to the given display unit.
func Convert(celsius float64, unit Unit) float64 {
	if unit == Imperial {
		return celsius*9/5 + 32
	}
	return celsius
}

// Symbol returns the degree suffix for unit.
func Symbol(unit Unit) string {
	if unit == Imperial {
		return "°F"
	}
	return "°C"
}

// Format renders a Celsius temperature rounded in the display unit, e.g. "32°F".
func Format(celsius float64, unit Unit) string {
	return fmt.Sprintf("%d%s", int(math.Round(Convert(celsius, unit))), Symbol(unit))
}

// Describe buckets the canonical Celsius value. The display unit never
// affects the bucket.
func Describe(celsius float64) Band {
	switch {
	case celsius <= 0:
		return BandFreezing
	case celsius <= 10:
		return BandCold
	case celsius <= 20:
		return BandCool
	case celsius <= 30:
		return BandWarm
	case celsius <= 40:
		return BandHot
	default:
		return BandExtremeHeat
	}
}

// ConvertSpeed maps a wind speed in m/s to the display unit (mph for imperial).
func ConvertSpeed(ms float64, unit Unit) float64 {
	if unit == Imperial {
		return ms * 2.236936
	}
	return ms
}

// SpeedLabel returns the wind speed suffix for unit.
func SpeedLabel(unit Unit) string {
	if unit == Imperial {
		return "mph"
	}
	return "m/s"
}
