package geocoding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/metrics"
)

const openWeatherGeoURL = "https://api.openweathermap.org/geo/1.0"

var errMissingAPIKey = errors.New("openweather geocoding: api key is not configured")

// OpenWeatherClient talks to the OpenWeatherMap geocoding API.
type OpenWeatherClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	circuit    *gobreaker.CircuitBreaker
	metrics    metrics.Recorder
}

func NewOpenWeatherClient(httpClient *http.Client, apiKey string, rec metrics.Recorder) *OpenWeatherClient {
	if rec == nil {
		rec = metrics.Noop{}
	}
	return &OpenWeatherClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    openWeatherGeoURL,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openweather-geo",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
		metrics: rec,
	}
}

// WithBaseURL points the client at another host, e.g. a test server.
func (c *OpenWeatherClient) WithBaseURL(u string) *OpenWeatherClient {
	c.baseURL = u
	return c
}

type owPlace struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (c *OpenWeatherClient) Forward(ctx context.Context, name, countryCode string) ([]Place, error) {
	q := name
	if countryCode != "" {
		q = fmt.Sprintf("%s,%s", name, countryCode)
	}
	values := url.Values{}
	values.Set("q", q)
	values.Set("limit", "5")

	return c.lookup(ctx, "forward", "/direct", values)
}

func (c *OpenWeatherClient) Reverse(ctx context.Context, lat, lon float64) ([]Place, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("limit", "1")

	return c.lookup(ctx, "reverse", "/reverse", values)
}

func (c *OpenWeatherClient) lookup(ctx context.Context, op, path string, values url.Values) (places []Place, err error) {
	if c.apiKey == "" {
		return nil, errMissingAPIKey
	}
	start := time.Now()
	defer func() { c.metrics.ObserveFetch("openweather-geo", op, err, time.Since(start)) }()

	values.Set("appid", c.apiKey)
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	raw, err := c.circuit.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch returned status %d", resp.StatusCode)
		}

		var apiResp []owPlace
		if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return apiResp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("openweather geocoding %s: %w", op, err)
	}

	apiResp := raw.([]owPlace)
	places = make([]Place, 0, len(apiResp))
	for _, p := range apiResp {
		places = append(places, Place{
			Name:    p.Name,
			Country: strings.ToUpper(p.Country),
			State:   p.State,
			Lat:     p.Lat,
			Lon:     p.Lon,
		})
	}
	return places, nil
}
