package mapview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-dashboard/internal/curated"
	"github.com/i474232898/weather-dashboard/internal/geocoding"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/notify"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNoUserLocation is returned by NearbyMarkers before the user is located.
	ErrNoUserLocation = errors.New("user location is unknown")
	ErrNoMarker       = errors.New("no marker for city")
)

type Deps struct {
	Weather       weather.Client
	Geocoder      geocoding.Client
	Cities        curated.Table
	LocateTimeout time.Duration
	Logger        zerolog.Logger
	Metrics       metrics.Recorder
}

// Store owns the map viewport, its markers and the geolocation flow. It is
// rebuilt every session and never persisted.
type Store struct {
	weather       weather.Client
	geocoder      geocoding.Client
	cities        curated.Table
	locateTimeout time.Duration
	logger        zerolog.Logger
	metrics       metrics.Recorder

	mu    sync.Mutex
	state State
	hub   *notify.Hub[State]
}

func New(deps Deps) *Store {
	if deps.LocateTimeout <= 0 {
		deps.LocateTimeout = DefaultLocateTimeout
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Noop{}
	}
	return &Store{
		weather:       deps.Weather,
		geocoder:      deps.Geocoder,
		cities:        deps.Cities,
		locateTimeout: deps.LocateTimeout,
		logger:        deps.Logger.With().Str("component", "mapview").Logger(),
		metrics:       deps.Metrics,
		state:         InitialState(),
		hub:           notify.NewHub[State](),
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Subscribe() (uuid.UUID, <-chan State) {
	return s.hub.Subscribe()
}

func (s *Store) Unsubscribe(id uuid.UUID) {
	s.hub.Unsubscribe(id)
}

// Dispatch applies actions in order as a single change.
func (s *Store) Dispatch(actions ...Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		s.state = Reduce(s.state, a)
	}
	s.metrics.SetMarkers(len(s.state.Markers), s.state.WithWeather())
	st := s.state.Clone()
	if s.hub.Len() > 0 {
		s.hub.Publish(st)
	}
	return st
}

// Init shows the default city set. It runs regardless of geolocation.
func (s *Store) Init(ctx context.Context) int {
	return s.LoadDefaultCities(ctx)
}

// LoadDefaultCities replaces the markers with the default global cities and
// fetches their weather. It returns how many markers received a reading.
func (s *Store) LoadDefaultCities(ctx context.Context) int {
	return s.loadMarkers(ctx, "default", s.cities.DefaultCities())
}

// FetchCountryCitiesWeather shows the curated cities of countryCode, or the
// default set when the country is not curated.
func (s *Store) FetchCountryCitiesWeather(ctx context.Context, countryCode string) int {
	return s.loadMarkers(ctx, countryCode, s.cities.Lookup(countryCode))
}

func (s *Store) loadMarkers(ctx context.Context, label string, cities []weather.City) int {
	markers := make([]Marker, len(cities))
	for i, c := range cities {
		markers[i] = MarkerFor(c)
	}
	s.Dispatch(BeginLoading{}, SetMarkers{Markers: markers})
	defer s.Dispatch(EndLoading{})

	results := weather.CurrentEach(ctx, s.weather, weather.CoordinatesOf(cities))

	// Applied in input order: the last successful city ends up active.
	updates := make([]Action, 0, len(results))
	for i, r := range results {
		if !r.OK() {
			s.logger.Warn().Err(r.Err).Str("city", cities[i].ID).Str("name", cities[i].Name).Msg("marker weather fetch failed")
			continue
		}
		updates = append(updates, UpdateMarkerWeather{CityID: cities[i].ID, Weather: r.Value})
	}
	if len(updates) > 0 {
		s.Dispatch(updates...)
	}

	s.logger.Info().Str("set", label).Int("cities", len(cities)).Int("loaded", len(updates)).Msg("map cities loaded")
	return len(updates)
}

// RequestUserLocation locates the user, resolves their country and shows its
// curated cities centred on them. A denied permission falls back to the
// default cities; other geolocation failures only set the error.
func (s *Store) RequestUserLocation(ctx context.Context, l Locator) error {
	s.Dispatch(SetLocationLoading{Loading: true}, SetError{})
	defer s.Dispatch(SetLocationLoading{Loading: false})

	pos, err := locate(ctx, l, s.locateTimeout)
	if err != nil {
		s.logger.Warn().Err(err).Msg("geolocation failed")
		if errors.Is(err, ErrPermissionDenied) {
			s.Dispatch(SetLocationAllowed{Allowed: false}, SetError{Message: locationMessage(err)})
			s.LoadDefaultCities(ctx)
			return err
		}
		s.Dispatch(SetError{Message: locationMessage(err)})
		return err
	}

	places, err := s.geocoder.Reverse(ctx, pos.Latitude, pos.Longitude)
	if err == nil && len(places) == 0 {
		err = geocoding.ErrNoResults
	}
	if err != nil {
		s.logger.Error().Err(err).Float64("lat", pos.Latitude).Float64("lon", pos.Longitude).Msg("reverse geocoding failed")
		s.Dispatch(SetError{Message: "Could not determine country from location"})
		return fmt.Errorf("%w: %v", ErrCountryNotResolved, err)
	}

	place := places[0]
	name := place.Name
	if name == "" {
		name = place.Country
	}
	s.Dispatch(
		SetUserLocation{Location: UserLocation{
			Latitude:    &pos.Latitude,
			Longitude:   &pos.Longitude,
			CountryCode: &place.Country,
			CountryName: &name,
		}},
		SetLocationAllowed{Allowed: true},
	)

	s.FetchCountryCitiesWeather(ctx, place.Country)

	zoom := float64(UserLocationZoom)
	s.Dispatch(SetViewport{Patch: ViewportPatch{Latitude: &pos.Latitude, Longitude: &pos.Longitude, Zoom: &zoom}})

	s.logger.Info().Str("country", place.Country).Msg("location detected")
	return nil
}

// UpdateMarkerWeather sets the reading of one marker and makes it the only
// active one. It reports whether a marker for cityID exists.
func (s *Store) UpdateMarkerWeather(cityID string, w weather.Snapshot) bool {
	st := s.Dispatch(UpdateMarkerWeather{CityID: cityID, Weather: w})
	m, ok := st.ActiveMarker()
	return ok && m.CityID == cityID
}

// RefreshMarker fetches the current weather of a single marker.
func (s *Store) RefreshMarker(ctx context.Context, cityID string) (Marker, error) {
	var target *Marker
	for _, m := range s.State().Markers {
		if m.CityID == cityID {
			target = &m
			break
		}
	}
	if target == nil {
		return Marker{}, fmt.Errorf("%w: %s", ErrNoMarker, cityID)
	}

	w, err := s.weather.Current(ctx, weather.Coordinates{Lat: target.Latitude, Lon: target.Longitude})
	if err != nil {
		return Marker{}, fmt.Errorf("refresh marker %s: %w", cityID, err)
	}
	st := s.Dispatch(UpdateMarkerWeather{CityID: cityID, Weather: w})
	m, ok := st.ActiveMarker()
	if !ok || m.CityID != cityID {
		return Marker{}, fmt.Errorf("%w: %s was replaced during refresh", ErrNoMarker, cityID)
	}
	return m, nil
}

// SetSelectedCity selects a city; nil clears the selection.
func (s *Store) SetSelectedCity(cityID *string) {
	s.Dispatch(SetSelectedCity{CityID: cityID})
}

// FlyToCity centres the viewport; bearing and pitch are kept. A non-positive
// zoom means DefaultFlyZoom.
func (s *Store) FlyToCity(lat, lon, zoom float64) Viewport {
	if zoom <= 0 {
		zoom = DefaultFlyZoom
	}
	st := s.Dispatch(SetViewport{Patch: ViewportPatch{Latitude: &lat, Longitude: &lon, Zoom: &zoom}})
	return st.Viewport
}

func (s *Store) SetViewport(p ViewportPatch) Viewport {
	return s.Dispatch(SetViewport{Patch: p}).Viewport
}

func (s *Store) DismissError() {
	s.Dispatch(SetError{})
}

// Reset restores the initial state, clearing the user location.
func (s *Store) Reset() {
	s.Dispatch(Reset{})
}

// NearbyMarkers returns the markers within maxKm of the user.
func (s *Store) NearbyMarkers(maxKm float64) ([]Marker, error) {
	if maxKm <= 0 {
		maxKm = DefaultProximityKm
	}
	st := s.State()
	loc := st.UserLocation
	if loc.Latitude == nil || loc.Longitude == nil {
		return nil, ErrNoUserLocation
	}
	return FilterByProximity(st.Markers, *loc.Latitude, *loc.Longitude, maxKm), nil
}
