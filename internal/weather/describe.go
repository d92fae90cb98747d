package weather

import (
	"fmt"
	"math"
)

// ConditionGroup maps a provider condition code to its group name.
func ConditionGroup(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "Thunderstorm"
	case code >= 300 && code < 400:
		return "Drizzle"
	case code >= 500 && code < 600:
		return "Rain"
	case code >= 600 && code < 700:
		return "Snow"
	case code >= 700 && code < 800:
		return "Atmosphere"
	case code == 800:
		return "Clear"
	case code > 800:
		return "Clouds"
	default:
		return "Unknown"
	}
}

var compass = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// WindDirection returns the 8-point compass heading for deg.
func WindDirection(deg float64) string {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return compass[int(math.Round(d/45))%8]
}

func HumidityLabel(pct float64) string {
	switch {
	case pct < 30:
		return "Dry"
	case pct < 50:
		return "Comfortable"
	case pct < 70:
		return "Moderate"
	case pct < 90:
		return "Humid"
	default:
		return "Very Humid"
	}
}

func PressureLabel(hpa float64) string {
	switch {
	case hpa < 1000:
		return "Low"
	case hpa < 1013:
		return "Normal"
	case hpa < 1025:
		return "High"
	default:
		return "Very High"
	}
}

// VisibilityLabel takes visibility in meters.
func VisibilityLabel(meters int) string {
	km := float64(meters) / 1000
	switch {
	case km < 1:
		return "Very Poor"
	case km < 5:
		return "Poor"
	case km < 10:
		return "Moderate"
	case km < 20:
		return "Good"
	default:
		return "Excellent"
	}
}

// IconURL returns the provider icon image for an icon token; size is "2x" or "4x".
func IconURL(icon, size string) string {
	if size != "4x" {
		size = "2x"
	}
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s@%s.png", icon, size)
}
