package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	openMeteoForecastURL   = "https://api.open-meteo.com/v1/forecast"
	openMeteoAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"
	openMeteoTimeLayout    = "2006-01-02T15:04"
)

// OpenMeteoClient implements weather.Client for Open-Meteo. It needs no API
// key and serves as the keyless fallback; lookups by name are unsupported.
type OpenMeteoClient struct {
	name          string
	forecastURL   string
	airQualityURL string
	httpCfg       HTTPClientConfig
	circuit       *gobreaker.CircuitBreaker
}

func NewOpenMeteoClient(client *http.Client, rec metrics.Recorder) *OpenMeteoClient {
	return &OpenMeteoClient{
		name:          "openmeteo",
		forecastURL:   openMeteoForecastURL,
		airQualityURL: openMeteoAirQualityURL,
		httpCfg:       HTTPClientConfig{Client: client, Metrics: rec},
		circuit:       newBreaker("openmeteo"),
	}
}

// WithBaseURLs points the client at other hosts, e.g. a test server.
func (p *OpenMeteoClient) WithBaseURLs(forecast, airQuality string) *OpenMeteoClient {
	p.forecastURL = forecast
	p.airQualityURL = airQuality
	return p
}

func (p *OpenMeteoClient) Name() string {
	return p.name
}

func coordValues(at weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("latitude", formatCoord(at.Lat))
	values.Set("longitude", formatCoord(at.Lon))
	values.Set("timezone", "GMT")
	return values
}

func (p *OpenMeteoClient) Current(ctx context.Context, at weather.Coordinates) (weather.Snapshot, error) {
	values := coordValues(at)
	values.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,surface_pressure,weather_code,wind_speed_10m,wind_direction_10m,is_day")
	values.Set("daily", "temperature_2m_max,temperature_2m_min")
	values.Set("forecast_days", "1")
	values.Set("wind_speed_unit", "ms")

	var payload struct {
		Current struct {
			Time          string  `json:"time"`
			Temperature   float64 `json:"temperature_2m"`
			Apparent      float64 `json:"apparent_temperature"`
			Humidity      float64 `json:"relative_humidity_2m"`
			Pressure      float64 `json:"surface_pressure"`
			WeatherCode   int     `json:"weather_code"`
			WindSpeed     float64 `json:"wind_speed_10m"`
			WindDirection float64 `json:"wind_direction_10m"`
			IsDay         int     `json:"is_day"`
		} `json:"current"`
		Daily struct {
			Max []float64 `json:"temperature_2m_max"`
			Min []float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.name, "current", p.forecastURL, values, &payload); err != nil {
		return weather.Snapshot{}, err
	}

	ts, err := time.Parse(openMeteoTimeLayout, payload.Current.Time)
	if err != nil {
		ts = time.Now().UTC()
	}

	cur := payload.Current
	snap := weather.Snapshot{
		ObservedAt: ts.UTC(),
		Main: weather.Main{
			Temp:      cur.Temperature,
			FeelsLike: cur.Apparent,
			Humidity:  cur.Humidity,
			Pressure:  cur.Pressure,
			TempMin:   cur.Temperature,
			TempMax:   cur.Temperature,
		},
		Conditions: []weather.Condition{mapOpenMeteoCondition(cur.WeatherCode, cur.IsDay == 1)},
		Wind:       weather.Wind{Speed: cur.WindSpeed, Deg: cur.WindDirection},
		Coord:      at,
	}
	if len(payload.Daily.Max) > 0 && len(payload.Daily.Min) > 0 {
		snap.Main.TempMax = payload.Daily.Max[0]
		snap.Main.TempMin = payload.Daily.Min[0]
	}
	return snap, nil
}

func (p *OpenMeteoClient) CurrentByName(context.Context, string) (weather.Snapshot, error) {
	return weather.Snapshot{}, fmt.Errorf("openmeteo current by name: %w", ErrUnsupported)
}

func (p *OpenMeteoClient) Forecast(ctx context.Context, at weather.Coordinates) (weather.Forecast, error) {
	values := coordValues(at)
	values.Set("hourly", "temperature_2m,apparent_temperature,relative_humidity_2m,surface_pressure,weather_code,wind_speed_10m,wind_direction_10m,is_day")
	values.Set("forecast_days", "5")
	values.Set("wind_speed_unit", "ms")

	var payload struct {
		Hourly struct {
			Time          []string  `json:"time"`
			Temperature   []float64 `json:"temperature_2m"`
			Apparent      []float64 `json:"apparent_temperature"`
			Humidity      []float64 `json:"relative_humidity_2m"`
			Pressure      []float64 `json:"surface_pressure"`
			WeatherCode   []int     `json:"weather_code"`
			WindSpeed     []float64 `json:"wind_speed_10m"`
			WindDirection []float64 `json:"wind_direction_10m"`
			IsDay         []int     `json:"is_day"`
		} `json:"hourly"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.name, "forecast", p.forecastURL, values, &payload); err != nil {
		return weather.Forecast{}, err
	}

	h := payload.Hourly
	n := minLen(len(h.Time), len(h.Temperature), len(h.Apparent), len(h.Humidity),
		len(h.Pressure), len(h.WeatherCode), len(h.WindSpeed), len(h.WindDirection), len(h.IsDay))

	fc := weather.Forecast{}
	// Sample every third hour to match the 3-hour step of the other provider.
	for i := 0; i < n; i += 3 {
		ts, err := time.Parse(openMeteoTimeLayout, h.Time[i])
		if err != nil {
			continue
		}
		fc.Entries = append(fc.Entries, weather.ForecastEntry{
			Time: ts.UTC(),
			Main: weather.Main{
				Temp:      h.Temperature[i],
				FeelsLike: h.Apparent[i],
				Humidity:  h.Humidity[i],
				Pressure:  h.Pressure[i],
				TempMin:   h.Temperature[i],
				TempMax:   h.Temperature[i],
			},
			Conditions: []weather.Condition{mapOpenMeteoCondition(h.WeatherCode[i], h.IsDay[i] == 1)},
			Wind:       weather.Wind{Speed: h.WindSpeed[i], Deg: h.WindDirection[i]},
		})
	}
	return fc, nil
}

func (p *OpenMeteoClient) AirQuality(ctx context.Context, at weather.Coordinates) (weather.AirQuality, error) {
	values := coordValues(at)
	values.Set("current", "european_aqi,pm10,pm2_5,carbon_monoxide,nitrogen_dioxide,sulphur_dioxide,ozone")

	var payload struct {
		Current struct {
			Time string  `json:"time"`
			AQI  float64 `json:"european_aqi"`
			PM10 float64 `json:"pm10"`
			PM25 float64 `json:"pm2_5"`
			CO   float64 `json:"carbon_monoxide"`
			NO2  float64 `json:"nitrogen_dioxide"`
			SO2  float64 `json:"sulphur_dioxide"`
			O3   float64 `json:"ozone"`
		} `json:"current"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.name, "air_quality", p.airQualityURL, values, &payload); err != nil {
		return weather.AirQuality{}, err
	}

	cur := payload.Current
	ts, err := time.Parse(openMeteoTimeLayout, cur.Time)
	if err != nil {
		ts = time.Now().UTC()
	}
	return weather.AirQuality{
		AQI: europeanAQIToIndex(cur.AQI),
		Components: map[string]float64{
			"pm10":  cur.PM10,
			"pm2_5": cur.PM25,
			"co":    cur.CO,
			"no2":   cur.NO2,
			"so2":   cur.SO2,
			"o3":    cur.O3,
		},
		ObservedAt: ts.UTC(),
	}, nil
}

// europeanAQIToIndex folds the 0-100+ European AQI into the 1-5 scale.
func europeanAQIToIndex(v float64) int {
	switch {
	case v <= 20:
		return 1
	case v <= 40:
		return 2
	case v <= 60:
		return 3
	case v <= 80:
		return 4
	default:
		return 5
	}
}

// mapOpenMeteoCondition translates a WMO weather code into the provider-neutral
// descriptor shape used by the dashboard (OpenWeather-style ids and icons).
func mapOpenMeteoCondition(code int, isDay bool) weather.Condition {
	suffix := "n"
	if isDay {
		suffix = "d"
	}

	var c weather.Condition
	switch {
	case code == 0:
		c = weather.Condition{ID: 800, Description: "clear sky", Icon: "01"}
	case code == 1 || code == 2:
		c = weather.Condition{ID: 802, Description: "partly cloudy", Icon: "02"}
	case code == 3:
		c = weather.Condition{ID: 804, Description: "overcast clouds", Icon: "04"}
	case code == 45 || code == 48:
		c = weather.Condition{ID: 741, Description: "fog", Icon: "50"}
	case code >= 51 && code <= 57:
		c = weather.Condition{ID: 300, Description: "drizzle", Icon: "09"}
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		c = weather.Condition{ID: 500, Description: "rain", Icon: "10"}
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		c = weather.Condition{ID: 600, Description: "snow", Icon: "13"}
	case code >= 95:
		c = weather.Condition{ID: 200, Description: "thunderstorm", Icon: "11"}
	default:
		c = weather.Condition{ID: 0, Description: "unknown", Icon: "03"}
	}
	c.Group = weather.ConditionGroup(c.ID)
	c.Icon += suffix
	return c
}

func minLen(ns ...int) int {
	m := ns[0]
	for _, n := range ns[1:] {
		if n < m {
			m = n
		}
	}
	return m
}
