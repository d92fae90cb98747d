package weather

import (
	"fmt"
	"time"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// City is a named, geo-located place tracked by the dashboard or shown on the map.
// ID is the dedup key.
type City struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Country  string  `json:"country" validate:"required,len=2,uppercase"`
	Lat      float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon      float64 `json:"lon" validate:"gte=-180,lte=180"`
	Favorite bool    `json:"favorite"`
}

// Coordinates returns the city's position.
func (c City) Coordinates() Coordinates {
	return Coordinates{Lat: c.Lat, Lon: c.Lon}
}

// PointID derives the identifier used for ad-hoc searched points.
func PointID(lat, lon float64) string {
	return fmt.Sprintf("%v-%v", lat, lon)
}

// Condition is a single provider condition descriptor.
type Condition struct {
	ID          int    `json:"id"`
	Group       string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Main holds the core measurements, always metric.
type Main struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
	Pressure  float64 `json:"pressure"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
}

// Wind speed is in m/s, direction in degrees.
type Wind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

// Snapshot is a point-in-time weather reading for a city. ID is the provider
// city id and is 0 for ad-hoc searched points.
type Snapshot struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Country    string      `json:"country"`
	ObservedAt time.Time   `json:"observedAt"`
	Main       Main        `json:"main"`
	Conditions []Condition `json:"weather"`
	Wind       Wind        `json:"wind"`
	Visibility int         `json:"visibility,omitempty"`
	Coord      Coordinates `json:"coord"`
}

// Primary returns the first condition descriptor, if any.
func (s Snapshot) Primary() (Condition, bool) {
	if len(s.Conditions) == 0 {
		return Condition{}, false
	}
	return s.Conditions[0], true
}

// Merge overlays the non-zero fields of patch onto s and returns the result.
func (s Snapshot) Merge(patch Snapshot) Snapshot {
	out := s
	if patch.ID != 0 {
		out.ID = patch.ID
	}
	if patch.Name != "" {
		out.Name = patch.Name
	}
	if patch.Country != "" {
		out.Country = patch.Country
	}
	if !patch.ObservedAt.IsZero() {
		out.ObservedAt = patch.ObservedAt
	}
	if patch.Main != (Main{}) {
		out.Main = patch.Main
	}
	if len(patch.Conditions) > 0 {
		out.Conditions = append([]Condition(nil), patch.Conditions...)
	}
	if patch.Wind != (Wind{}) {
		out.Wind = patch.Wind
	}
	if patch.Visibility != 0 {
		out.Visibility = patch.Visibility
	}
	if patch.Coord != (Coordinates{}) {
		out.Coord = patch.Coord
	}
	return out
}

// ForecastEntry is one 3-hour forecast step.
type ForecastEntry struct {
	Time       time.Time   `json:"time"`
	Main       Main        `json:"main"`
	Conditions []Condition `json:"weather"`
	Wind       Wind        `json:"wind"`
}

// Forecast entries are ordered by Time ascending.
type Forecast struct {
	City    string          `json:"city"`
	Country string          `json:"country"`
	Entries []ForecastEntry `json:"entries"`
}

// AirQuality is the current air pollution reading. AQI ranges 1 (good) to 5 (very poor).
type AirQuality struct {
	AQI        int                `json:"aqi"`
	Components map[string]float64 `json:"components"`
	ObservedAt time.Time          `json:"observedAt"`
}
