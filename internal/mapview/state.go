package mapview

import (
	"slices"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	// DefaultFlyZoom is the zoom used by FlyToCity when none is given.
	DefaultFlyZoom = 10
	// UserLocationZoom is applied after the user's position is resolved.
	UserLocationZoom = 8
)

type Viewport struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	Bearing   float64 `json:"bearing"`
	Pitch     float64 `json:"pitch"`
}

func DefaultViewport() Viewport {
	return Viewport{Latitude: 20, Longitude: 0, Zoom: 1.5}
}

// ViewportPatch is merged over the current viewport; nil fields are kept.
type ViewportPatch struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Zoom      *float64 `json:"zoom,omitempty"`
	Bearing   *float64 `json:"bearing,omitempty"`
	Pitch     *float64 `json:"pitch,omitempty"`
}

func (p ViewportPatch) apply(v Viewport) Viewport {
	if p.Latitude != nil {
		v.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		v.Longitude = *p.Longitude
	}
	if p.Zoom != nil {
		v.Zoom = *p.Zoom
	}
	if p.Bearing != nil {
		v.Bearing = *p.Bearing
	}
	if p.Pitch != nil {
		v.Pitch = *p.Pitch
	}
	return v
}

// Marker is a map pin for a curated city. Weather is nil until fetched.
type Marker struct {
	ID        string            `json:"id"`
	CityID    string            `json:"cityId"`
	Name      string            `json:"name"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Weather   *weather.Snapshot `json:"weather"`
	Active    bool              `json:"isActive"`
}

// MarkerFor builds the initial marker of a city.
func MarkerFor(c weather.City) Marker {
	return Marker{
		ID:        "marker-" + c.ID,
		CityID:    c.ID,
		Name:      c.Name,
		Latitude:  c.Lat,
		Longitude: c.Lon,
	}
}

// UserLocation is set once per successful geolocation and cleared by Reset.
type UserLocation struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	CountryCode *string  `json:"countryCode"`
	CountryName *string  `json:"countryName"`
}

type State struct {
	Viewport        Viewport     `json:"viewport"`
	Markers         []Marker     `json:"markers"`
	UserLocation    UserLocation `json:"userLocation"`
	SelectedCity    *string      `json:"selectedCity"`
	LocationAllowed bool         `json:"isLocationAllowed"`
	LocationLoading bool         `json:"isLocationLoading"`
	Pending         int          `json:"-"`
	Error           string       `json:"error,omitempty"`
}

func InitialState() State {
	return State{
		Viewport: DefaultViewport(),
		Markers:  []Marker{},
	}
}

func (s State) Loading() bool {
	return s.Pending > 0
}

// ActiveMarker returns the marker flagged active, if any.
func (s State) ActiveMarker() (Marker, bool) {
	i := slices.IndexFunc(s.Markers, func(m Marker) bool { return m.Active })
	if i < 0 {
		return Marker{}, false
	}
	return s.Markers[i], true
}

// WithWeather counts markers that carry a reading.
func (s State) WithWeather() int {
	n := 0
	for _, m := range s.Markers {
		if m.Weather != nil {
			n++
		}
	}
	return n
}

// Clone returns a copy that shares no mutable memory with s.
func (s State) Clone() State {
	out := s
	out.Markers = make([]Marker, len(s.Markers))
	for i, m := range s.Markers {
		if m.Weather != nil {
			w := *m.Weather
			w.Conditions = slices.Clone(w.Conditions)
			m.Weather = &w
		}
		out.Markers[i] = m
	}
	out.UserLocation = UserLocation{
		Latitude:    clonePtr(s.UserLocation.Latitude),
		Longitude:   clonePtr(s.UserLocation.Longitude),
		CountryCode: clonePtr(s.UserLocation.CountryCode),
		CountryName: clonePtr(s.UserLocation.CountryName),
	}
	out.SelectedCity = clonePtr(s.SelectedCity)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
