package mapview

import (
	"slices"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Action is a map state transition. Only the types below implement it.
type Action interface {
	isAction()
}

type (
	SetViewport         struct{ Patch ViewportPatch }
	SetMarkers          struct{ Markers []Marker }
	UpdateMarkerWeather struct {
		CityID  string
		Weather weather.Snapshot
	}
	SetUserLocation    struct{ Location UserLocation }
	SetSelectedCity    struct{ CityID *string }
	SetLocationAllowed struct{ Allowed bool }
	SetLocationLoading struct{ Loading bool }
	BeginLoading       struct{}
	EndLoading         struct{}
	SetError           struct{ Message string }
	Reset              struct{}
)

func (SetViewport) isAction()         {}
func (SetMarkers) isAction()          {}
func (UpdateMarkerWeather) isAction() {}
func (SetUserLocation) isAction()     {}
func (SetSelectedCity) isAction()     {}
func (SetLocationAllowed) isAction()  {}
func (SetLocationLoading) isAction()  {}
func (BeginLoading) isAction()        {}
func (EndLoading) isAction()          {}
func (SetError) isAction()            {}
func (Reset) isAction()               {}

// Reduce returns the state after a. s is left untouched.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetViewport:
		s.Viewport = a.Patch.apply(s.Viewport)
		return s

	case SetMarkers:
		s.Markers = slices.Clone(a.Markers)
		if s.Markers == nil {
			s.Markers = []Marker{}
		}
		return s

	case UpdateMarkerWeather:
		// The whole list is rewritten so exactly one marker stays active.
		if !slices.ContainsFunc(s.Markers, func(m Marker) bool { return m.CityID == a.CityID }) {
			return s
		}
		markers := make([]Marker, len(s.Markers))
		for i, m := range s.Markers {
			if m.CityID == a.CityID {
				w := a.Weather
				m.Weather = &w
				m.Active = true
			} else {
				m.Active = false
			}
			markers[i] = m
		}
		s.Markers = markers
		return s

	case SetUserLocation:
		s.UserLocation = a.Location
		return s

	case SetSelectedCity:
		s.SelectedCity = clonePtr(a.CityID)
		return s

	case SetLocationAllowed:
		s.LocationAllowed = a.Allowed
		return s

	case SetLocationLoading:
		s.LocationLoading = a.Loading
		return s

	case BeginLoading:
		s.Pending++
		return s

	case EndLoading:
		if s.Pending > 0 {
			s.Pending--
		}
		return s

	case SetError:
		s.Error = a.Message
		return s

	case Reset:
		return InitialState()

	default:
		return s
	}
}
