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

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherClient implements weather.Client for OpenWeatherMap.
type OpenWeatherClient struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(client *http.Client, apiKey string, rec metrics.Recorder) *OpenWeatherClient {
	return &OpenWeatherClient{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: openWeatherBaseURL,
		httpCfg: HTTPClientConfig{Client: client, Metrics: rec},
		circuit: newBreaker("openweather"),
	}
}

// WithBaseURL points the client at another host, e.g. a test server.
func (p *OpenWeatherClient) WithBaseURL(u string) *OpenWeatherClient {
	p.baseURL = u
	return p
}

func (p *OpenWeatherClient) Name() string {
	return p.name
}

type owCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
	Pressure  float64 `json:"pressure"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
}

type owWind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

type owCurrent struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Dt    int64  `json:"dt"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main       owMain        `json:"main"`
	Weather    []owCondition `json:"weather"`
	Wind       owWind        `json:"wind"`
	Visibility int           `json:"visibility"`
}

func (p *OpenWeatherClient) values() (url.Values, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather: %w", ErrMissingAPIKey)
	}
	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	return values, nil
}

func (p *OpenWeatherClient) Current(ctx context.Context, at weather.Coordinates) (weather.Snapshot, error) {
	values, err := p.values()
	if err != nil {
		return weather.Snapshot{}, err
	}
	values.Set("lat", formatCoord(at.Lat))
	values.Set("lon", formatCoord(at.Lon))

	return p.current(ctx, values)
}

func (p *OpenWeatherClient) CurrentByName(ctx context.Context, query string) (weather.Snapshot, error) {
	values, err := p.values()
	if err != nil {
		return weather.Snapshot{}, err
	}
	values.Set("q", query)

	return p.current(ctx, values)
}

func (p *OpenWeatherClient) current(ctx context.Context, values url.Values) (weather.Snapshot, error) {
	var payload owCurrent
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.name, "current", p.baseURL+"/weather", values, &payload); err != nil {
		return weather.Snapshot{}, err
	}

	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}

	return weather.Snapshot{
		ID:         payload.ID,
		Name:       payload.Name,
		Country:    payload.Sys.Country,
		ObservedAt: ts,
		Main:       weather.Main(payload.Main),
		Conditions: mapOpenWeatherConditions(payload.Weather),
		Wind:       weather.Wind(payload.Wind),
		Visibility: payload.Visibility,
		Coord:      weather.Coordinates{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon},
	}, nil
}

func (p *OpenWeatherClient) Forecast(ctx context.Context, at weather.Coordinates) (weather.Forecast, error) {
	values, err := p.values()
	if err != nil {
		return weather.Forecast{}, err
	}
	values.Set("lat", formatCoord(at.Lat))
	values.Set("lon", formatCoord(at.Lon))
	values.Set("cnt", "40") // 8 steps per day for 5 days

	var payload struct {
		City struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"city"`
		List []struct {
			Dt      int64         `json:"dt"`
			Main    owMain        `json:"main"`
			Weather []owCondition `json:"weather"`
			Wind    owWind        `json:"wind"`
		} `json:"list"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.name, "forecast", p.baseURL+"/forecast", values, &payload); err != nil {
		return weather.Forecast{}, err
	}

	fc := weather.Forecast{
		City:    payload.City.Name,
		Country: payload.City.Country,
		Entries: make([]weather.ForecastEntry, 0, len(payload.List)),
	}
	for _, item := range payload.List {
		fc.Entries = append(fc.Entries, weather.ForecastEntry{
			Time:       time.Unix(item.Dt, 0).UTC(),
			Main:       weather.Main(item.Main),
			Conditions: mapOpenWeatherConditions(item.Weather),
			Wind:       weather.Wind(item.Wind),
		})
	}
	return fc, nil
}

func (p *OpenWeatherClient) AirQuality(ctx context.Context, at weather.Coordinates) (weather.AirQuality, error) {
	values, err := p.values()
	if err != nil {
		return weather.AirQuality{}, err
	}
	values.Del("units")
	values.Set("lat", formatCoord(at.Lat))
	values.Set("lon", formatCoord(at.Lon))

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components map[string]float64 `json:"components"`
		} `json:"list"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.name, "air_quality", p.baseURL+"/air_pollution", values, &payload); err != nil {
		return weather.AirQuality{}, err
	}
	if len(payload.List) == 0 {
		return weather.AirQuality{}, fmt.Errorf("openweather air_quality: empty response")
	}

	item := payload.List[0]
	return weather.AirQuality{
		AQI:        item.Main.AQI,
		Components: item.Components,
		ObservedAt: time.Unix(item.Dt, 0).UTC(),
	}, nil
}

func mapOpenWeatherConditions(items []owCondition) []weather.Condition {
	out := make([]weather.Condition, 0, len(items))
	for _, it := range items {
		group := it.Main
		if group == "" {
			group = weather.ConditionGroup(it.ID)
		}
		out = append(out, weather.Condition{
			ID:          it.ID,
			Group:       group,
			Description: it.Description,
			Icon:        it.Icon,
		})
	}
	return out
}
