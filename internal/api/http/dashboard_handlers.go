package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/units"
)

type searchRequest struct {
	Query   string `json:"query" query:"q" validate:"required,min=2,max=50,cityquery"`
	Country string `json:"country" query:"country" validate:"omitempty,countrycode"`
}

type unitRequest struct {
	Unit string `json:"unit" validate:"required,oneof=metric imperial"`
}

type reorderRequest struct {
	From *int `json:"from" validate:"required,gte=0"`
	To   *int `json:"to" validate:"required,gte=0"`
}

type cityPatchRequest struct {
	Name    *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Country *string  `json:"country" validate:"omitempty,countrycode"`
	Lat     *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon     *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
}

// searchError maps store search failures to HTTP errors.
func searchError(err error) error {
	switch {
	case errors.Is(err, dashboard.ErrEmptyQuery):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, dashboard.ErrCityNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadGateway, "failed to search for city")
	}
}

func unknownCity(err error) error {
	if errors.Is(err, dashboard.ErrUnknownCity) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}

func (h *handlers) getDashboard(c *fiber.Ctx) error {
	return c.JSON(newDashboardView(h.dash.State()))
}

func (h *handlers) search(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}
	if err := checkStruct(req); err != nil {
		return err
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	city, err := h.dash.SearchCity(ctx, req.Query, req.Country)
	if err != nil {
		return searchError(err)
	}
	return c.JSON(city)
}

func (h *handlers) addCity(c *fiber.Ctx) error {
	var req searchRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	city, err := h.dash.AddCityFromSearch(ctx, req.Query, req.Country)
	if err != nil {
		return searchError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"city":      city,
		"dashboard": newDashboardView(h.dash.State()),
	})
}

func (h *handlers) removeCity(c *fiber.Ctx) error {
	h.dash.RemoveCity(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) updateCity(c *fiber.Ctx) error {
	var req cityPatchRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	city, err := h.dash.UpdateCity(c.Params("id"), dashboard.CityPatch{
		Name:    req.Name,
		Country: req.Country,
		Lat:     req.Lat,
		Lon:     req.Lon,
	})
	if err != nil {
		return unknownCity(err)
	}
	return c.JSON(city)
}

func (h *handlers) toggleFavorite(c *fiber.Ctx) error {
	id := c.Params("id")
	fav, err := h.dash.ToggleFavorite(id)
	if err != nil {
		return unknownCity(err)
	}
	return c.JSON(fiber.Map{"id": id, "favorite": fav})
}

func (h *handlers) reorderCities(c *fiber.Ctx) error {
	var req reorderRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := h.dash.ReorderCities(*req.From, *req.To); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(newDashboardView(h.dash.State()))
}

func (h *handlers) setUnit(c *fiber.Ctx) error {
	var req unitRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	u, err := units.ParseUnit(req.Unit)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	h.dash.SetUnit(u)
	return c.JSON(newDashboardView(h.dash.State()))
}

func (h *handlers) refresh(c *fiber.Ctx) error {
	ctx, cancel := h.opContext(c)
	defer cancel()

	n := h.dash.RefreshWeatherData(ctx)
	return c.JSON(fiber.Map{
		"updated":   n,
		"dashboard": newDashboardView(h.dash.State()),
	})
}

func (h *handlers) forecast(c *fiber.Ctx) error {
	ctx, cancel := h.opContext(c)
	defer cancel()

	f, err := h.dash.FetchForecast(ctx, c.Params("id"))
	if err != nil {
		return unknownCity(err)
	}
	return c.JSON(f)
}

func (h *handlers) airQuality(c *fiber.Ctx) error {
	ctx, cancel := h.opContext(c)
	defer cancel()

	aq, err := h.dash.FetchAirQuality(ctx, c.Params("id"))
	if err != nil {
		return unknownCity(err)
	}
	return c.JSON(aq)
}

func (h *handlers) clearRecentSearches(c *fiber.Ctx) error {
	h.dash.ClearRecentSearches()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) dismissDashboardError(c *fiber.Ctx) error {
	h.dash.DismissError()
	return c.SendStatus(fiber.StatusNoContent)
}
