package dashboard

import (
	"maps"
	"slices"

	"github.com/i474232898/weather-dashboard/internal/units"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// MaxRecentSearches bounds the recent search log.
const MaxRecentSearches = 10

// State is the dashboard's single source of truth. Values handed out by the
// store are clones; the reducer never mutates slices or maps in place.
type State struct {
	Cities         []weather.City              `json:"cities"`
	Favorites      []string                    `json:"favoriteCities"`
	Unit           units.Unit                  `json:"unit"`
	RecentSearches []string                    `json:"recentSearches"`
	Weather        map[string]weather.Snapshot `json:"weatherData"`
	CityErrors     map[string]string           `json:"cityErrors"`
	Pending        int                         `json:"-"`
	Error          string                      `json:"error,omitempty"`
}

// Loading reports whether any fetch or search is outstanding.
func (s State) Loading() bool {
	return s.Pending > 0
}

// City returns the tracked city with id.
func (s State) City(id string) (weather.City, bool) {
	i := s.cityIndex(id)
	if i < 0 {
		return weather.City{}, false
	}
	return s.Cities[i], true
}

// IsFavorite reports membership in the favorite set.
func (s State) IsFavorite(id string) bool {
	return slices.Contains(s.Favorites, id)
}

func (s State) cityIndex(id string) int {
	return slices.IndexFunc(s.Cities, func(c weather.City) bool { return c.ID == id })
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s State) Clone() State {
	out := s
	out.Cities = slices.Clone(s.Cities)
	out.Favorites = slices.Clone(s.Favorites)
	out.RecentSearches = slices.Clone(s.RecentSearches)
	out.Weather = maps.Clone(s.Weather)
	out.CityErrors = maps.Clone(s.CityErrors)
	return out
}

// DefaultCities is the list a first-time user starts with.
func DefaultCities() []weather.City {
	return []weather.City{
		{ID: "2643743", Name: "London", Country: "GB", Lat: 51.5085, Lon: -0.1257},
		{ID: "5128581", Name: "New York", Country: "US", Lat: 40.7143, Lon: -74.006},
		{ID: "1850147", Name: "Tokyo", Country: "JP", Lat: 35.6895, Lon: 139.6917},
		{ID: "2988507", Name: "Paris", Country: "FR", Lat: 48.8534, Lon: 2.3488},
	}
}

// InitialState is the state before anything is loaded from storage.
func InitialState() State {
	return State{
		Cities:         DefaultCities(),
		Favorites:      []string{},
		Unit:           units.Metric,
		RecentSearches: []string{},
		Weather:        map[string]weather.Snapshot{},
		CityErrors:     map[string]string{},
	}
}

// CityPatch carries a partial update; nil fields are left untouched. The id
// and favorite flag cannot be patched.
type CityPatch struct {
	Name    *string  `json:"name,omitempty"`
	Country *string  `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

func (p CityPatch) apply(c weather.City) weather.City {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Country != nil {
		c.Country = *p.Country
	}
	if p.Lat != nil {
		c.Lat = *p.Lat
	}
	if p.Lon != nil {
		c.Lon = *p.Lon
	}
	return c
}
