package geocoding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dashboard/internal/metrics"
)

// CountryResolver maps a country's display name to its ISO alpha-2 code.
type CountryResolver func(name string) (string, bool)

// GoogleClient geocodes through the Google Maps API. The underlying library
// keeps its API key in a package variable, so one key per process.
type GoogleClient struct {
	resolve CountryResolver
	metrics metrics.Recorder

	geocode func(geocoder.Address) (geocoder.Location, error)
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

func NewGoogleClient(apiKey string, resolve CountryResolver, rec metrics.Recorder) *GoogleClient {
	geocoder.ApiKey = apiKey
	if rec == nil {
		rec = metrics.Noop{}
	}
	if resolve == nil {
		resolve = func(string) (string, bool) { return "", false }
	}
	return &GoogleClient{
		resolve: resolve,
		metrics: rec,
		geocode: geocoder.Geocoding,
		reverse: geocoder.GeocodingReverse,
	}
}

// Forward resolves the name to a single location and then reverse geocodes it
// so the match carries a canonical name and country.
func (c *GoogleClient) Forward(ctx context.Context, name, countryCode string) (places []Place, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveFetch("google-geo", "forward", err, time.Since(start)) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc, err := c.geocode(geocoder.Address{City: name, Country: countryCode})
	if err != nil {
		return nil, wrapGoogleError("forward", err)
	}

	place := Place{Name: name, Country: strings.ToUpper(countryCode), Lat: loc.Latitude, Lon: loc.Longitude}
	if addrs, rerr := c.reverse(loc); rerr == nil && len(addrs) > 0 {
		resolved := c.toPlace(addrs[0], loc)
		if resolved.Name != "" {
			place.Name = resolved.Name
		}
		if resolved.Country != "" {
			place.Country = resolved.Country
		}
		place.State = resolved.State
	}
	return []Place{place}, nil
}

func (c *GoogleClient) Reverse(ctx context.Context, lat, lon float64) (places []Place, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveFetch("google-geo", "reverse", err, time.Since(start)) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc := geocoder.Location{Latitude: lat, Longitude: lon}
	addrs, err := c.reverse(loc)
	if err != nil {
		return nil, wrapGoogleError("reverse", err)
	}

	places = make([]Place, 0, len(addrs))
	for _, a := range addrs {
		places = append(places, c.toPlace(a, loc))
	}
	return places, nil
}

// wrapGoogleError maps the library's zero-result failures, which it reports
// only as plain error strings, to ErrNoResults.
func wrapGoogleError(op string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no results") || strings.Contains(msg, "zero_results") {
		return fmt.Errorf("google geocoding %s: %w", op, ErrNoResults)
	}
	return fmt.Errorf("google geocoding %s: %w", op, err)
}

func (c *GoogleClient) toPlace(a geocoder.Address, loc geocoder.Location) Place {
	country := a.Country
	if code, ok := c.resolve(a.Country); ok {
		country = code
	}
	return Place{
		Name:    a.City,
		Country: country,
		State:   a.State,
		Lat:     loc.Latitude,
		Lon:     loc.Longitude,
	}
}
