package main

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/curated"
	"github.com/i474232898/weather-dashboard/internal/geocoding"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

// clients holds the outbound adapters shared by every command.
type clients struct {
	weather  weather.Client
	geocoder geocoding.Client
	cities   curated.Table
}

func newClients(cfg *config.AppConfig, rec metrics.Recorder, logger zerolog.Logger) (*clients, error) {
	cities, err := curated.Load(cfg.CuratedCitiesFile)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var wc weather.Client
	if cfg.OpenWeatherAPIKey != "" {
		wc = providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey, rec)
	} else {
		logger.Warn().Msg("OPENWEATHER_API_KEY not set; using Open-Meteo for weather")
		wc = providers.NewOpenMeteoClient(httpClient, rec)
	}

	var gc geocoding.Client
	switch cfg.GeocoderProvider {
	case "google":
		gc = geocoding.NewGoogleClient(cfg.GoogleAPIKey, cities.CodeForName, rec)
	default:
		gc = geocoding.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey, rec)
	}
	gc = geocoding.NewCachedClient(gc, cfg.GeocodeCacheMB, cfg.GeocodeCacheTTL, logger.With().Str("component", "geocache").Logger())

	return &clients{weather: wc, geocoder: gc, cities: cities}, nil
}
