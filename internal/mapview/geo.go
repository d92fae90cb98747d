package mapview

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371

// DefaultProximityKm is the radius used when no distance is given.
const DefaultProximityKm = 500

// Distance returns the great-circle distance in kilometers.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// FilterByProximity keeps markers within maxKm of the point, in order.
func FilterByProximity(markers []Marker, lat, lon, maxKm float64) []Marker {
	out := make([]Marker, 0, len(markers))
	for _, m := range markers {
		if Distance(lat, lon, m.Latitude, m.Longitude) <= maxKm {
			out = append(out, m)
		}
	}
	return out
}

// FormatCoordinates renders a position like "51.5085°N, 0.1257°W".
func FormatCoordinates(lat, lon float64) string {
	latDir, lonDir := "N", "E"
	if lat < 0 {
		latDir = "S"
	}
	if lon < 0 {
		lonDir = "W"
	}
	return fmt.Sprintf("%.4f°%s, %.4f°%s", math.Abs(lat), latDir, math.Abs(lon), lonDir)
}
