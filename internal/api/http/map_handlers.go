package httpapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/mapview"
)

// locationRequest carries the outcome of the browser's geolocation call:
// either a position or a GeolocationPositionError code.
type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	ErrorCode int      `json:"errorCode" validate:"gte=0,lte=3"`
}

func (r locationRequest) locator() (mapview.Locator, error) {
	if r.ErrorCode != 0 {
		return mapview.StaticLocator{Err: mapview.ErrorFromCode(r.ErrorCode)}, nil
	}
	if r.Latitude == nil || r.Longitude == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "latitude and longitude are required")
	}
	pos := mapview.Position{Latitude: *r.Latitude, Longitude: *r.Longitude}
	if err := checkStruct(pos); err != nil {
		return nil, err
	}
	return mapview.StaticLocator{Position: pos}, nil
}

type selectRequest struct {
	CityID *string `json:"cityId"`
}

type flyRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Zoom      float64  `json:"zoom" validate:"gte=0,lte=22"`
}

type countryParam struct {
	Code string `validate:"required,countrycode"`
}

func (h *handlers) getMap(c *fiber.Ctx) error {
	return c.JSON(newMapView(h.maps.State()))
}

func (h *handlers) initMap(c *fiber.Ctx) error {
	ctx, cancel := h.opContext(c)
	defer cancel()

	n := h.maps.Init(ctx)
	return c.JSON(fiber.Map{"loaded": n, "map": newMapView(h.maps.State())})
}

func (h *handlers) requestLocation(c *fiber.Ctx) error {
	var req locationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	loc, err := req.locator()
	if err != nil {
		return err
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	err = h.maps.RequestUserLocation(ctx, loc)
	switch {
	case err == nil, errors.Is(err, mapview.ErrPermissionDenied):
		// a denied permission still leaves the default cities on the map
		return c.JSON(newMapView(h.maps.State()))
	case errors.Is(err, mapview.ErrCountryNotResolved):
		return fiber.NewError(fiber.StatusBadGateway, h.maps.State().Error)
	default:
		return fiber.NewError(fiber.StatusUnprocessableEntity, h.maps.State().Error)
	}
}

func (h *handlers) loadCountry(c *fiber.Ctx) error {
	p := countryParam{Code: strings.ToUpper(c.Params("code"))}
	if err := checkStruct(p); err != nil {
		return err
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	n := h.maps.FetchCountryCitiesWeather(ctx, p.Code)
	return c.JSON(fiber.Map{"loaded": n, "map": newMapView(h.maps.State())})
}

func (h *handlers) refreshMarker(c *fiber.Ctx) error {
	ctx, cancel := h.opContext(c)
	defer cancel()

	m, err := h.maps.RefreshMarker(ctx, c.Params("cityId"))
	if errors.Is(err, mapview.ErrNoMarker) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(m)
}

func (h *handlers) selectCity(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	h.maps.SetSelectedCity(req.CityID)
	return c.JSON(newMapView(h.maps.State()))
}

func (h *handlers) flyTo(c *fiber.Ctx) error {
	var req flyRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	return c.JSON(h.maps.FlyToCity(*req.Latitude, *req.Longitude, req.Zoom))
}

func (h *handlers) nearby(c *fiber.Ctx) error {
	km := c.QueryFloat("km", mapview.DefaultProximityKm)
	if km <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "km must be positive")
	}
	markers, err := h.maps.NearbyMarkers(km)
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return c.JSON(markers)
}

func (h *handlers) dismissMapError(c *fiber.Ctx) error {
	h.maps.DismissError()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) resetMap(c *fiber.Ctx) error {
	h.maps.Reset()
	return c.SendStatus(fiber.StatusNoContent)
}
