package mapview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-dashboard/internal/curated"
	"github.com/i474232898/weather-dashboard/internal/geocoding"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type fakeWeather struct {
	mu    sync.Mutex
	fail  map[float64]bool
	delay map[float64]time.Duration
	// onCurrent runs before a reading is returned.
	onCurrent func(weather.Coordinates)
}

func (f *fakeWeather) Current(_ context.Context, at weather.Coordinates) (weather.Snapshot, error) {
	f.mu.Lock()
	fail, delay, hook := f.fail[at.Lat], f.delay[at.Lat], f.onCurrent
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	if hook != nil {
		hook(at)
	}
	if fail {
		return weather.Snapshot{}, errors.New("provider down")
	}
	return weather.Snapshot{Coord: at, Main: weather.Main{Temp: 20}}, nil
}

func (f *fakeWeather) CurrentByName(context.Context, string) (weather.Snapshot, error) {
	return weather.Snapshot{}, errors.New("not implemented")
}

func (f *fakeWeather) Forecast(context.Context, weather.Coordinates) (weather.Forecast, error) {
	return weather.Forecast{}, errors.New("not implemented")
}

func (f *fakeWeather) AirQuality(context.Context, weather.Coordinates) (weather.AirQuality, error) {
	return weather.AirQuality{}, errors.New("not implemented")
}

type fakeGeocoder struct {
	reverse      []geocoding.Place
	err          error
	reverseCalls atomic.Int32
}

func (f *fakeGeocoder) Forward(context.Context, string, string) ([]geocoding.Place, error) {
	return nil, geocoding.ErrNoResults
}

func (f *fakeGeocoder) Reverse(context.Context, float64, float64) ([]geocoding.Place, error) {
	f.reverseCalls.Add(1)
	return f.reverse, f.err
}

func newTestStore(w *fakeWeather, g *fakeGeocoder) *Store {
	return New(Deps{
		Weather:       w,
		Geocoder:      g,
		Cities:        curated.Builtin(),
		LocateTimeout: 50 * time.Millisecond,
		Logger:        zerolog.Nop(),
	})
}
