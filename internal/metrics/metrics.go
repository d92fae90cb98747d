package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives instrumentation events from clients and stores.
type Recorder interface {
	ObserveFetch(client, op string, err error, d time.Duration)
	SetTrackedCities(n int)
	SetMarkers(total, withWeather int)
}

// Prometheus is a Recorder backed by its own registry so that several
// instances can coexist (tests, multiple apps in one process).
type Prometheus struct {
	registry      *prometheus.Registry
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	trackedCities prometheus.Gauge
	markers       *prometheus.GaugeVec
}

func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		fetchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_dashboard_fetch_total",
			Help: "Outbound provider calls by client, operation and outcome",
		}, []string{"client", "op", "outcome"}),
		fetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weather_dashboard_fetch_duration_seconds",
			Help:    "Outbound provider call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"client", "op"}),
		trackedCities: f.NewGauge(prometheus.GaugeOpts{
			Name: "weather_dashboard_tracked_cities",
			Help: "Cities currently tracked on the dashboard",
		}),
		markers: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weather_dashboard_map_markers",
			Help: "Map markers, total and with weather attached",
		}, []string{"state"}),
	}
}

func (p *Prometheus) ObserveFetch(client, op string, err error, d time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	p.fetchTotal.WithLabelValues(client, op, outcome).Inc()
	p.fetchDuration.WithLabelValues(client, op).Observe(d.Seconds())
}

func (p *Prometheus) SetTrackedCities(n int) {
	p.trackedCities.Set(float64(n))
}

func (p *Prometheus) SetMarkers(total, withWeather int) {
	p.markers.WithLabelValues("total").Set(float64(total))
	p.markers.WithLabelValues("with_weather").Set(float64(withWeather))
}

// Registry exposes the underlying registry, mostly for tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Noop discards everything.
type Noop struct{}

func (Noop) ObserveFetch(string, string, error, time.Duration) {}
func (Noop) SetTrackedCities(int)                              {}
func (Noop) SetMarkers(int, int)                               {}
