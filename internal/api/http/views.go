package httpapi

import (
	"fmt"
	"math"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/mapview"
	"github.com/i474232898/weather-dashboard/internal/units"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// display holds the readings formatted in the user's unit.
type display struct {
	Temperature string     `json:"temperature"`
	FeelsLike   string     `json:"feelsLike"`
	High        string     `json:"high"`
	Low         string     `json:"low"`
	Band        units.Band `json:"band"`
	Condition   string     `json:"condition,omitempty"`
	IconURL     string     `json:"iconUrl,omitempty"`
	Wind        string     `json:"wind"`
	Humidity    string     `json:"humidity"`
	Pressure    string     `json:"pressure"`
	Visibility  string     `json:"visibility,omitempty"`
}

func newDisplay(s weather.Snapshot, u units.Unit) display {
	d := display{
		Temperature: units.Format(s.Main.Temp, u),
		FeelsLike:   units.Format(s.Main.FeelsLike, u),
		High:        units.Format(s.Main.TempMax, u),
		Low:         units.Format(s.Main.TempMin, u),
		Band:        units.Describe(s.Main.Temp),
		Wind: fmt.Sprintf("%.1f %s %s",
			units.ConvertSpeed(s.Wind.Speed, u), units.SpeedLabel(u), weather.WindDirection(s.Wind.Deg)),
		Humidity: fmt.Sprintf("%d%% (%s)", int(math.Round(s.Main.Humidity)), weather.HumidityLabel(s.Main.Humidity)),
		Pressure: fmt.Sprintf("%d hPa (%s)", int(math.Round(s.Main.Pressure)), weather.PressureLabel(s.Main.Pressure)),
	}
	if c, ok := s.Primary(); ok {
		d.Condition = c.Description
		d.IconURL = weather.IconURL(c.Icon, "2x")
	}
	if s.Visibility > 0 {
		d.Visibility = weather.VisibilityLabel(s.Visibility)
	}
	return d
}

type weatherView struct {
	weather.Snapshot
	Display display `json:"display"`
}

type cityView struct {
	weather.City
	Position string       `json:"position"`
	Weather  *weatherView `json:"weather"`
	Error    string       `json:"error,omitempty"`
}

type dashboardView struct {
	Cities         []cityView `json:"cities"`
	Favorites      []string   `json:"favoriteCities"`
	Unit           units.Unit `json:"unit"`
	RecentSearches []string   `json:"recentSearches"`
	Loading        bool       `json:"loading"`
	Error          string     `json:"error,omitempty"`
}

func newDashboardView(st dashboard.State) dashboardView {
	cities := make([]cityView, len(st.Cities))
	for i, c := range st.Cities {
		cv := cityView{
			City:     c,
			Position: mapview.FormatCoordinates(c.Lat, c.Lon),
			Error:    st.CityErrors[c.ID],
		}
		if w, ok := st.Weather[c.ID]; ok {
			cv.Weather = &weatherView{Snapshot: w, Display: newDisplay(w, st.Unit)}
		}
		cities[i] = cv
	}
	return dashboardView{
		Cities:         cities,
		Favorites:      st.Favorites,
		Unit:           st.Unit,
		RecentSearches: st.RecentSearches,
		Loading:        st.Loading(),
		Error:          st.Error,
	}
}

type mapView struct {
	mapview.State
	Loading bool `json:"isLoading"`
}

func newMapView(st mapview.State) mapView {
	return mapView{State: st, Loading: st.Loading()}
}
