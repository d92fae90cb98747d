package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/geocoding"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/units"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var paris = geocoding.Place{Name: "Paris", Country: "FR", Lat: 48.8566, Lon: 2.3522}

func TestStore_AddCityFromSearch(t *testing.T) {
	w := &fakeWeather{}
	g := &fakeGeocoder{places: map[string][]geocoding.Place{"Paris": {paris}}}
	s := newTestStore(w, g, nil)
	before := len(s.State().Cities)

	city, err := s.AddCityFromSearch(context.Background(), "Paris", "")
	require.NoError(t, err)

	st := s.State()
	assert.Equal(t, "48.8566-2.3522", city.ID)
	assert.Len(t, st.Cities, before+1)
	assert.Equal(t, "Paris, FR", st.RecentSearches[0])
	assert.Equal(t, 1, w.callCount())
	assert.Contains(t, st.Weather, city.ID)
	assert.False(t, st.Loading())
	assert.Empty(t, st.Error)
}

func TestStore_SearchCityErrors(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		s := newTestStore(&fakeWeather{}, &fakeGeocoder{}, nil)

		_, err := s.SearchCity(context.Background(), "   ", "")
		assert.ErrorIs(t, err, ErrEmptyQuery)
		assert.NotEmpty(t, s.State().Error)
	})

	t.Run("no match", func(t *testing.T) {
		s := newTestStore(&fakeWeather{}, &fakeGeocoder{}, nil)

		_, err := s.SearchCity(context.Background(), "Atlantis", "")
		assert.ErrorIs(t, err, ErrCityNotFound)
		st := s.State()
		assert.Equal(t, `No city found for "Atlantis"`, st.Error)
		assert.Empty(t, st.RecentSearches)
		assert.False(t, st.Loading())
	})

	t.Run("wrapped no results error", func(t *testing.T) {
		g := &fakeGeocoder{err: fmt.Errorf("google geocoding forward: %w", geocoding.ErrNoResults)}
		s := newTestStore(&fakeWeather{}, g, nil)

		_, err := s.SearchCity(context.Background(), "Nowhereville", "")
		assert.ErrorIs(t, err, ErrCityNotFound)
		assert.Equal(t, `No city found for "Nowhereville"`, s.State().Error)
	})

	t.Run("geocoder failure", func(t *testing.T) {
		s := newTestStore(&fakeWeather{}, &fakeGeocoder{err: errors.New("timeout")}, nil)

		_, err := s.AddCityFromSearch(context.Background(), "Paris", "FR")
		assert.Error(t, err)
		st := s.State()
		assert.Equal(t, "Failed to search for city", st.Error)
		assert.Len(t, st.Cities, 4)
	})
}

func TestStore_AddCityFetchesInBackground(t *testing.T) {
	w := &fakeWeather{}
	s := newTestStore(w, &fakeGeocoder{}, nil)
	berlin := weather.City{ID: "2950159", Name: "Berlin", Country: "DE", Lat: 52.52, Lon: 13.40}

	assert.True(t, s.AddCity(context.Background(), berlin))
	assert.False(t, s.AddCity(context.Background(), berlin))
	s.Wait()

	st := s.State()
	assert.Len(t, st.Cities, 5)
	assert.Contains(t, st.Weather, "2950159")
	assert.Equal(t, 1, w.callCount())
}

func TestStore_FetchWeatherForCityFailure(t *testing.T) {
	w := &fakeWeather{fail: map[float64]bool{51.5085: true}}
	s := newTestStore(w, &fakeGeocoder{}, nil)
	london, _ := s.State().City("2643743")

	err := s.FetchWeatherForCity(context.Background(), london)
	assert.ErrorIs(t, err, errProviderDown)

	st := s.State()
	assert.Equal(t, "Failed to fetch weather for London", st.Error)
	assert.Equal(t, "Failed to fetch weather for London", st.CityErrors["2643743"])
	assert.False(t, st.Loading())
}

func TestStore_FetchWeatherForAllCities(t *testing.T) {
	w := &fakeWeather{fail: map[float64]bool{40.7143: true}}
	s := newTestStore(w, &fakeGeocoder{}, nil)

	n := s.FetchWeatherForAllCities(context.Background())

	st := s.State()
	assert.Equal(t, 3, n)
	assert.Len(t, st.Weather, 3)
	assert.NotContains(t, st.Weather, "5128581")
	for id, snap := range st.Weather {
		c, ok := st.City(id)
		require.True(t, ok)
		assert.Equal(t, c.Lat, snap.Coord.Lat, "weather must belong to its own city")
	}
	assert.Empty(t, st.Error, "bulk failures are not surfaced")
	assert.False(t, st.Loading())
}

func TestStore_RefreshKeepsPreviousReadingOnFailure(t *testing.T) {
	w := &fakeWeather{}
	s := newTestStore(w, &fakeGeocoder{}, nil)
	require.Equal(t, 4, s.RefreshWeatherData(context.Background()))

	w.mu.Lock()
	w.fail = map[float64]bool{35.6895: true}
	w.mu.Unlock()

	assert.Equal(t, 3, s.RefreshWeatherData(context.Background()))
	assert.Contains(t, s.State().Weather, "1850147")
}

func TestStore_ToggleFavoriteAndRemove(t *testing.T) {
	s := newTestStore(&fakeWeather{}, &fakeGeocoder{}, nil)

	fav, err := s.ToggleFavorite("1850147")
	require.NoError(t, err)
	assert.True(t, fav)

	_, err = s.ToggleFavorite("nope")
	assert.ErrorIs(t, err, ErrUnknownCity)

	s.RemoveCity("1850147")
	s.RemoveCity("1850147")
	st := s.State()
	assert.Len(t, st.Cities, 3)
	assert.Empty(t, st.Favorites)
}

func TestStore_ReorderCities(t *testing.T) {
	s := newTestStore(&fakeWeather{}, &fakeGeocoder{}, nil)

	require.NoError(t, s.ReorderCities(3, 0))
	assert.Equal(t, "2988507", s.State().Cities[0].ID)
	assert.Error(t, s.ReorderCities(0, 4))
}

func TestStore_UpdateCity(t *testing.T) {
	s := newTestStore(&fakeWeather{}, &fakeGeocoder{}, nil)
	name := "NYC"

	c, err := s.UpdateCity("5128581", CityPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "NYC", c.Name)

	_, err = s.UpdateCity("missing", CityPatch{Name: &name})
	assert.ErrorIs(t, err, ErrUnknownCity)
}

func TestStore_ForecastAndAirQuality(t *testing.T) {
	s := newTestStore(&fakeWeather{}, &fakeGeocoder{}, nil)

	f, err := s.FetchForecast(context.Background(), "2643743")
	require.NoError(t, err)
	assert.Len(t, f.Entries, 2)

	aq, err := s.FetchAirQuality(context.Background(), "2643743")
	require.NoError(t, err)
	assert.Equal(t, 2, aq.AQI)

	_, err = s.FetchForecast(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrUnknownCity)
}

func TestStore_PersistsAndRestores(t *testing.T) {
	kv := store.NewMemoryKV()
	s := newTestStore(&fakeWeather{}, &fakeGeocoder{}, kv)
	s.SetUnit(units.Imperial)
	_, err := s.ToggleFavorite("2988507")
	require.NoError(t, err)
	s.RemoveCity("5128581")

	restored := newTestStore(&fakeWeather{}, &fakeGeocoder{}, kv).State()
	assert.Equal(t, units.Imperial, restored.Unit)
	assert.Equal(t, []string{"2643743", "1850147", "2988507"}, cityIDs(restored.Cities))
	assert.Equal(t, []string{"2988507"}, restored.Favorites)
	assert.True(t, restored.Cities[2].Favorite)
	assert.Empty(t, restored.Weather, "weather is not persisted")
}

func TestStore_CorruptStorageFallsBackToDefaults(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(DefaultStateKey, []byte("][")))

	st := newTestStore(&fakeWeather{}, &fakeGeocoder{}, kv).State()
	assert.Equal(t, cityIDs(DefaultCities()), cityIDs(st.Cities))
	assert.Equal(t, units.Metric, st.Unit)
}

func TestStore_SaveFailureDoesNotBreakUpdates(t *testing.T) {
	s := newTestStore(&fakeWeather{}, &fakeGeocoder{}, failingKV{})

	s.SetUnit(units.Imperial)
	assert.Equal(t, units.Imperial, s.State().Unit)
}

func TestStore_Subscribe(t *testing.T) {
	s := newTestStore(&fakeWeather{}, &fakeGeocoder{}, nil)
	id, ch := s.Subscribe()

	s.SetUnit(units.Imperial)
	s.ClearRecentSearches()

	select {
	case st := <-ch:
		assert.Equal(t, units.Imperial, st.Unit)
	case <-time.After(time.Second):
		t.Fatal("no state delivered")
	}

	s.Unsubscribe(id)
	_, open := <-ch
	assert.False(t, open)
}

func TestStore_DismissError(t *testing.T) {
	s := newTestStore(&fakeWeather{}, &fakeGeocoder{}, nil)
	_, _ = s.SearchCity(context.Background(), "Atlantis", "")
	require.NotEmpty(t, s.State().Error)

	s.DismissError()
	assert.Empty(t, s.State().Error)
}
