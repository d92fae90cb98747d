package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-dashboard/internal/geocoding"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/notify"
	"github.com/i474232898/weather-dashboard/internal/units"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	ErrEmptyQuery   = errors.New("search query is required")
	ErrCityNotFound = errors.New("no city found")
	ErrUnknownCity  = errors.New("city is not tracked")
)

// Deps are the collaborators of a Store. Metrics may be nil.
type Deps struct {
	Weather   weather.Client
	Geocoder  geocoding.Client
	Persister Persister
	Logger    zerolog.Logger
	Metrics   metrics.Recorder
}

// Store owns the dashboard state. All transitions go through Reduce under a
// single mutex; subscribers receive the latest state after every change.
type Store struct {
	weather   weather.Client
	geocoder  geocoding.Client
	persister Persister
	logger    zerolog.Logger
	metrics   metrics.Recorder

	mu        sync.Mutex
	state     State
	lastSaved []byte
	hub       *notify.Hub[State]

	bg sync.WaitGroup
}

// New builds a Store and rehydrates it from the persister. A failing or
// corrupt load is logged and the defaults are used.
func New(deps Deps) *Store {
	rec := deps.Metrics
	if rec == nil {
		rec = metrics.Noop{}
	}
	s := &Store{
		weather:   deps.Weather,
		geocoder:  deps.Geocoder,
		persister: deps.Persister,
		logger:    deps.Logger.With().Str("component", "dashboard").Logger(),
		metrics:   rec,
		state:     InitialState(),
		hub:       notify.NewHub[State](),
	}

	if s.persister != nil {
		snap, err := s.persister.Load()
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("failed to load persisted state; using defaults")
		case snap != nil:
			s.state = Reduce(s.state, LoadFromStorage{Snapshot: *snap})
		}
	}

	s.mu.Lock()
	s.persistLocked()
	s.mu.Unlock()
	s.metrics.SetTrackedCities(len(s.state.Cities))
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe returns a channel that always holds the most recent state after a
// change. Slow readers skip intermediate states.
func (s *Store) Subscribe() (uuid.UUID, <-chan State) {
	return s.hub.Subscribe()
}

// Unsubscribe closes and removes the subscription.
func (s *Store) Unsubscribe(id uuid.UUID) {
	s.hub.Unsubscribe(id)
}

// Wait blocks until background fetches started by AddCity finish.
func (s *Store) Wait() {
	s.bg.Wait()
}

// Dispatch applies actions in order as one change.
func (s *Store) Dispatch(actions ...Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(actions...)
}

func (s *Store) dispatchLocked(actions ...Action) State {
	for _, a := range actions {
		s.state = Reduce(s.state, a)
	}
	s.persistLocked()
	s.metrics.SetTrackedCities(len(s.state.Cities))
	s.notifyLocked()
	return s.state.Clone()
}

func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	snap := SnapshotOf(s.state)
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode state")
		return
	}
	if string(data) == string(s.lastSaved) {
		return
	}
	if err := s.persister.Save(snap); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist state")
		return
	}
	s.lastSaved = data
}

func (s *Store) notifyLocked() {
	if s.hub.Len() == 0 {
		return
	}
	s.hub.Publish(s.state.Clone())
}

// AddCity appends c unless a city with the same id is tracked, then fetches
// its weather in the background. It reports whether the city was added.
func (s *Store) AddCity(ctx context.Context, c weather.City) bool {
	if !s.addCity(c) {
		return false
	}

	ctx = context.WithoutCancel(ctx)
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		_ = s.FetchWeatherForCity(ctx, c)
	}()
	return true
}

func (s *Store) addCity(c weather.City) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.cityIndex(c.ID) >= 0 {
		return false
	}
	s.dispatchLocked(AddCity{City: c})
	s.logger.Info().Str("city", c.ID).Str("name", c.Name).Msg("city added")
	return true
}

// RemoveCity drops the city together with its favorite mark, weather and
// error. Unknown ids are ignored.
func (s *Store) RemoveCity(id string) {
	s.Dispatch(RemoveCity{ID: id})
}

// ToggleFavorite flips the favorite mark and returns the new value.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	st := s.Dispatch(ToggleFavorite{ID: id})
	if _, ok := st.City(id); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownCity, id)
	}
	return st.IsFavorite(id), nil
}

func (s *Store) SetUnit(u units.Unit) {
	s.Dispatch(SetUnit{Unit: u})
}

// UpdateCity applies a partial update to a tracked city.
func (s *Store) UpdateCity(id string, patch CityPatch) (weather.City, error) {
	st := s.Dispatch(UpdateCity{ID: id, Patch: patch})
	c, ok := st.City(id)
	if !ok {
		return weather.City{}, fmt.Errorf("%w: %s", ErrUnknownCity, id)
	}
	return c, nil
}

// ReorderCities moves the city at index from to index to.
func (s *Store) ReorderCities(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.state.Cities)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("reorder %d -> %d: index out of range [0,%d)", from, to, n)
	}
	s.dispatchLocked(ReorderCities{From: from, To: to})
	return nil
}

func (s *Store) ClearRecentSearches() {
	s.Dispatch(ClearRecentSearches{})
}

// DismissError clears the store-wide error message.
func (s *Store) DismissError() {
	s.Dispatch(SetError{})
}

// MergeWeather overlays a partial reading onto the city's current weather.
func (s *Store) MergeWeather(cityID string, patch weather.Snapshot) {
	s.Dispatch(MergeWeather{CityID: cityID, Data: patch})
}

// SearchCity resolves query to a city using the geocoder's best match and
// records it in the recent searches. The returned city is not added.
func (s *Store) SearchCity(ctx context.Context, query, countryCode string) (weather.City, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		s.Dispatch(SetError{Message: "Please enter a city name"})
		return weather.City{}, ErrEmptyQuery
	}

	s.Dispatch(BeginLoading{}, SetError{})
	defer s.Dispatch(EndLoading{})

	places, err := s.geocoder.Forward(ctx, q, countryCode)
	if errors.Is(err, geocoding.ErrNoResults) || (err == nil && len(places) == 0) {
		s.Dispatch(SetError{Message: fmt.Sprintf("No city found for %q", q)})
		return weather.City{}, fmt.Errorf("%w: %q", ErrCityNotFound, q)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("query", q).Msg("city search failed")
		s.Dispatch(SetError{Message: "Failed to search for city"})
		return weather.City{}, fmt.Errorf("search %q: %w", q, err)
	}

	p := places[0]
	city := weather.City{
		ID:      weather.PointID(p.Lat, p.Lon),
		Name:    p.Name,
		Country: p.Country,
		Lat:     p.Lat,
		Lon:     p.Lon,
	}
	s.Dispatch(AddRecentSearch{Query: fmt.Sprintf("%s, %s", p.Name, p.Country)})
	return city, nil
}

// AddCityFromSearch searches, adds the match and fetches its weather before
// returning. A failed fetch is recorded in the state but still returns the
// added city.
func (s *Store) AddCityFromSearch(ctx context.Context, query, countryCode string) (weather.City, error) {
	city, err := s.SearchCity(ctx, query, countryCode)
	if err != nil {
		return weather.City{}, err
	}
	s.addCity(city)
	_ = s.FetchWeatherForCity(ctx, city)
	return city, nil
}

// FetchWeatherForCity loads current weather for c. Results for cities removed
// while the request was in flight are discarded.
func (s *Store) FetchWeatherForCity(ctx context.Context, c weather.City) error {
	s.Dispatch(BeginLoading{}, SetError{})
	defer s.Dispatch(EndLoading{})

	data, err := s.weather.Current(ctx, c.Coordinates())
	if err != nil {
		msg := fmt.Sprintf("Failed to fetch weather for %s", c.Name)
		s.logger.Warn().Err(err).Str("city", c.ID).Msg("weather fetch failed")
		s.Dispatch(SetCityError{CityID: c.ID, Message: msg}, SetError{Message: msg})
		return fmt.Errorf("fetch weather for %s: %w", c.ID, err)
	}

	s.Dispatch(SetWeather{CityID: c.ID, Data: data})
	return nil
}

// FetchWeatherForAllCities refreshes every tracked city concurrently.
// Individual failures are logged and leave the previous reading in place.
// It returns the number of cities updated.
func (s *Store) FetchWeatherForAllCities(ctx context.Context) int {
	cities := s.State().Cities
	if len(cities) == 0 {
		return 0
	}

	s.Dispatch(BeginLoading{}, SetError{})
	defer s.Dispatch(EndLoading{})

	results := weather.CurrentEach(ctx, s.weather, weather.CoordinatesOf(cities))

	updates := make([]Action, 0, len(results))
	for i, r := range results {
		if !r.OK() {
			s.logger.Warn().Err(r.Err).Str("city", cities[i].ID).Str("name", cities[i].Name).Msg("bulk weather fetch failed")
			continue
		}
		updates = append(updates, SetWeather{CityID: cities[i].ID, Data: r.Value})
	}
	if len(updates) > 0 {
		s.Dispatch(updates...)
	}

	s.logger.Debug().Int("requested", len(cities)).Int("updated", len(updates)).Msg("weather refreshed")
	return len(updates)
}

// RefreshWeatherData re-fetches weather for every tracked city.
func (s *Store) RefreshWeatherData(ctx context.Context) int {
	return s.FetchWeatherForAllCities(ctx)
}

// FetchForecast returns the 5-day forecast of a tracked city.
func (s *Store) FetchForecast(ctx context.Context, id string) (weather.Forecast, error) {
	c, ok := s.State().City(id)
	if !ok {
		return weather.Forecast{}, fmt.Errorf("%w: %s", ErrUnknownCity, id)
	}
	f, err := s.weather.Forecast(ctx, c.Coordinates())
	if err != nil {
		s.logger.Warn().Err(err).Str("city", id).Msg("forecast fetch failed")
		return weather.Forecast{}, fmt.Errorf("forecast for %s: %w", id, err)
	}
	return f, nil
}

// FetchAirQuality returns the current air quality of a tracked city.
func (s *Store) FetchAirQuality(ctx context.Context, id string) (weather.AirQuality, error) {
	c, ok := s.State().City(id)
	if !ok {
		return weather.AirQuality{}, fmt.Errorf("%w: %s", ErrUnknownCity, id)
	}
	aq, err := s.weather.AirQuality(ctx, c.Coordinates())
	if err != nil {
		s.logger.Warn().Err(err).Str("city", id).Msg("air quality fetch failed")
		return weather.AirQuality{}, fmt.Errorf("air quality for %s: %w", id, err)
	}
	return aq, nil
}
