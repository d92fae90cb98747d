package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/mapview"
)

// Options carries what the routes serve. Metrics may be nil.
type Options struct {
	Dashboard *dashboard.Store
	Map       *mapview.Store
	Metrics   http.Handler
	// OpTimeout bounds the upstream calls made by one request.
	OpTimeout time.Duration
	// Streams ends every open event stream when it is done. Nil keeps
	// streams open until the client leaves.
	Streams context.Context
}

type handlers struct {
	dash      *dashboard.Store
	maps      *mapview.Store
	opTimeout time.Duration
	done      <-chan struct{}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, opts Options) {
	h := &handlers{dash: opts.Dashboard, maps: opts.Map, opTimeout: opts.OpTimeout}
	if opts.Streams != nil {
		h.done = opts.Streams.Done()
	}
	if h.opTimeout <= 0 {
		h.opTimeout = 30 * time.Second
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics))
	}

	v1 := app.Group("/api/v1")

	v1.Get("/dashboard", h.getDashboard)
	v1.Get("/dashboard/events", streamState[dashboard.State](h.dash, h.done, func(st dashboard.State) any {
		return newDashboardView(st)
	}))
	v1.Post("/dashboard/cities", h.addCity)
	v1.Post("/dashboard/cities/reorder", h.reorderCities)
	v1.Delete("/dashboard/cities/:id", h.removeCity)
	v1.Patch("/dashboard/cities/:id", h.updateCity)
	v1.Post("/dashboard/cities/:id/favorite", h.toggleFavorite)
	v1.Get("/dashboard/cities/:id/forecast", h.forecast)
	v1.Get("/dashboard/cities/:id/air-quality", h.airQuality)
	v1.Put("/dashboard/unit", h.setUnit)
	v1.Post("/dashboard/refresh", h.refresh)
	v1.Delete("/dashboard/recent-searches", h.clearRecentSearches)
	v1.Delete("/dashboard/error", h.dismissDashboardError)
	v1.Get("/search", h.search)

	v1.Get("/map", h.getMap)
	v1.Get("/map/events", streamState[mapview.State](h.maps, h.done, func(st mapview.State) any {
		return newMapView(st)
	}))
	v1.Post("/map/init", h.initMap)
	v1.Post("/map/location", h.requestLocation)
	v1.Post("/map/countries/:code", h.loadCountry)
	v1.Post("/map/markers/:cityId/refresh", h.refreshMarker)
	v1.Put("/map/selected", h.selectCity)
	v1.Post("/map/fly", h.flyTo)
	v1.Get("/map/nearby", h.nearby)
	v1.Delete("/map/error", h.dismissMapError)
	v1.Delete("/map", h.resetMap)
}

// opContext bounds the upstream calls of one request.
func (h *handlers) opContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.opTimeout)
}
