package geocoding

import (
	"context"
	"errors"
)

// ErrNoResults is returned by adapters that cannot express an empty result
// list any other way.
var ErrNoResults = errors.New("geocoding returned no results")

// Place is one geocoder match. Country is an ISO 3166-1 alpha-2 code when the
// provider supplies one.
type Place struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Client resolves names to places and back. Results are ranked; callers
// typically use the first one only.
type Client interface {
	Forward(ctx context.Context, name, countryCode string) ([]Place, error)
	Reverse(ctx context.Context, lat, lon float64) ([]Place, error)
}
