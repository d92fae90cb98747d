package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-dashboard/internal/geocoding"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var errProviderDown = errors.New("provider down")

type fakeWeather struct {
	mu    sync.Mutex
	fail  map[float64]bool
	calls []weather.Coordinates
}

func (f *fakeWeather) Current(_ context.Context, at weather.Coordinates) (weather.Snapshot, error) {
	f.mu.Lock()
	f.calls = append(f.calls, at)
	fail := f.fail[at.Lat]
	f.mu.Unlock()
	if fail {
		return weather.Snapshot{}, errProviderDown
	}
	return weather.Snapshot{
		Coord:      at,
		Main:       weather.Main{Temp: at.Lat / 4},
		Conditions: []weather.Condition{{ID: 800, Group: "Clear", Description: "clear sky", Icon: "01d"}},
	}, nil
}

func (f *fakeWeather) CurrentByName(context.Context, string) (weather.Snapshot, error) {
	return weather.Snapshot{}, errors.New("not implemented")
}

func (f *fakeWeather) Forecast(_ context.Context, at weather.Coordinates) (weather.Forecast, error) {
	if f.fail[at.Lat] {
		return weather.Forecast{}, errProviderDown
	}
	return weather.Forecast{Entries: []weather.ForecastEntry{{}, {}}}, nil
}

func (f *fakeWeather) AirQuality(_ context.Context, at weather.Coordinates) (weather.AirQuality, error) {
	if f.fail[at.Lat] {
		return weather.AirQuality{}, errProviderDown
	}
	return weather.AirQuality{AQI: 2}, nil
}

func (f *fakeWeather) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeGeocoder struct {
	places map[string][]geocoding.Place
	err    error
}

func (f *fakeGeocoder) Forward(_ context.Context, name, _ string) ([]geocoding.Place, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.places[name], nil
}

func (f *fakeGeocoder) Reverse(context.Context, float64, float64) ([]geocoding.Place, error) {
	return nil, geocoding.ErrNoResults
}

type failingKV struct{}

func (failingKV) Get(string) ([]byte, error) { return nil, store.ErrNotFound }
func (failingKV) Set(string, []byte) error   { return errors.New("disk full") }

func newTestStore(w *fakeWeather, g *fakeGeocoder, kv store.KV) *Store {
	if kv == nil {
		kv = store.NewMemoryKV()
	}
	return New(Deps{
		Weather:   w,
		Geocoder:  g,
		Persister: NewKVPersister(kv, ""),
		Logger:    zerolog.Nop(),
	})
}
