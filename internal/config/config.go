package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	GoogleAPIKey      string
	GeocoderProvider  string `validate:"oneof=openweather google"`

	Port        string        `validate:"required,numeric"`
	HTTPTimeout time.Duration `validate:"gt=0"`

	// RefreshInterval controls how often tracked cities are refreshed; 0 disables it.
	RefreshInterval time.Duration `validate:"gte=0"`

	StateDir          string `validate:"required"`
	StateKey          string `validate:"required"`
	CuratedCitiesFile string

	GeolocationTimeout time.Duration `validate:"gt=0"`

	GeocodeCacheMB  int           `validate:"gte=0"`
	GeocodeCacheTTL time.Duration `validate:"gte=0"`

	MetricsEnabled bool

	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogFormat string `validate:"oneof=json console"`
}

var defaults = map[string]any{
	"GEOCODER_PROVIDER":   "openweather",
	"PORT":                "8080",
	"HTTP_TIMEOUT":        "10s",
	"REFRESH_INTERVAL":    "15m",
	"STATE_DIR":           "./data",
	"STATE_KEY":           "weather-app-state",
	"GEOLOCATION_TIMEOUT": "10s",
	"GEOCODE_CACHE_MB":    8,
	"GEOCODE_CACHE_TTL":   "1h",
	"METRICS_ENABLED":     true,
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "json",
}

// Load reads configuration from .env, the environment and an optional
// config.yaml, in increasing order of precedence for the environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*AppConfig, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &AppConfig{
		OpenWeatherAPIKey: v.GetString("OPENWEATHER_API_KEY"),
		GoogleAPIKey:      v.GetString("GOOGLE_GEOCODER_API_KEY"),
		GeocoderProvider:  strings.ToLower(v.GetString("GEOCODER_PROVIDER")),
		Port:              v.GetString("PORT"),
		StateDir:          v.GetString("STATE_DIR"),
		StateKey:          v.GetString("STATE_KEY"),
		CuratedCitiesFile: v.GetString("CURATED_CITIES_FILE"),
		GeocodeCacheMB:    v.GetInt("GEOCODE_CACHE_MB"),
		MetricsEnabled:    v.GetBool("METRICS_ENABLED"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:         strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", &cfg.HTTPTimeout},
		{"REFRESH_INTERVAL", &cfg.RefreshInterval},
		{"GEOLOCATION_TIMEOUT", &cfg.GeolocationTimeout},
		{"GEOCODE_CACHE_TTL", &cfg.GeocodeCacheTTL},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return ":" + c.Port
}

// NewLogger builds the root logger writing to stdout.
func (c *AppConfig) NewLogger() zerolog.Logger {
	return c.newLogger(os.Stdout)
}

func (c *AppConfig) newLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
