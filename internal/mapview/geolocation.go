package mapview

import (
	"context"
	"errors"
	"time"
)

// DefaultLocateTimeout bounds a single geolocation attempt.
const DefaultLocateTimeout = 10 * time.Second

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("location information unavailable")
	ErrTimeout             = errors.New("location request timed out")
	ErrCountryNotResolved  = errors.New("could not determine country from location")
)

// Position is a device location in decimal degrees.
type Position struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Locator performs a one-shot position lookup.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Position, error)

func (f LocatorFunc) Locate(ctx context.Context) (Position, error) {
	return f(ctx)
}

// StaticLocator replays a result already obtained by the client, either a
// position or the error it reported.
type StaticLocator struct {
	Position Position
	Err      error
}

func (l StaticLocator) Locate(context.Context) (Position, error) {
	if l.Err != nil {
		return Position{}, l.Err
	}
	return l.Position, nil
}

// Browser geolocation error codes.
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// ErrorFromCode maps a browser geolocation error code to a sentinel error.
// Unknown codes yield a generic failure.
func ErrorFromCode(code int) error {
	switch code {
	case CodePermissionDenied:
		return ErrPermissionDenied
	case CodePositionUnavailable:
		return ErrPositionUnavailable
	case CodeTimeout:
		return ErrTimeout
	default:
		return errors.New("unable to retrieve location")
	}
}

// locationMessage is the user-facing text for a failed geolocation attempt.
func locationMessage(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Location permission denied. Using default cities."
	case errors.Is(err, ErrPositionUnavailable):
		return "Location information unavailable."
	case errors.Is(err, ErrTimeout):
		return "Location request timed out."
	default:
		return "Unable to retrieve your location"
	}
}

// locate runs l with a deadline. A locator that ignores its context is
// abandoned when the deadline passes.
func locate(ctx context.Context, l Locator, timeout time.Duration) (Position, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		pos Position
		err error
	}
	done := make(chan result, 1)
	go func() {
		pos, err := l.Locate(ctx)
		done <- result{pos: pos, err: err}
	}()

	select {
	case r := <-done:
		if errors.Is(r.err, context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		return r.pos, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		return Position{}, ctx.Err()
	}
}
