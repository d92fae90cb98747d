package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/units"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func cityIDs(cities []weather.City) []string {
	ids := make([]string, len(cities))
	for i, c := range cities {
		ids[i] = c.ID
	}
	return ids
}

func TestReduce_AddCity(t *testing.T) {
	s := InitialState()
	berlin := weather.City{ID: "2950159", Name: "Berlin", Country: "DE", Lat: 52.52, Lon: 13.40, Favorite: true}

	next := Reduce(s, AddCity{City: berlin})
	require.Len(t, next.Cities, 5)
	assert.Equal(t, "2950159", next.Cities[4].ID)
	assert.False(t, next.Cities[4].Favorite)
	assert.Len(t, s.Cities, 4, "input state must not change")

	again := Reduce(next, AddCity{City: berlin})
	assert.Equal(t, cityIDs(next.Cities), cityIDs(again.Cities))
}

func TestReduce_RemoveCityPurgesRelatedData(t *testing.T) {
	s := InitialState()
	s = Reduce(s, ToggleFavorite{ID: "2643743"})
	s = Reduce(s, SetWeather{CityID: "2643743", Data: weather.Snapshot{Name: "London"}})
	s = Reduce(s, SetCityError{CityID: "1850147", Message: "boom"})

	s = Reduce(s, RemoveCity{ID: "2643743"})
	s = Reduce(s, RemoveCity{ID: "1850147"})

	assert.Equal(t, []string{"5128581", "2988507"}, cityIDs(s.Cities))
	assert.Empty(t, s.Favorites)
	assert.NotContains(t, s.Weather, "2643743")
	assert.NotContains(t, s.CityErrors, "1850147")

	same := Reduce(s, RemoveCity{ID: "missing"})
	assert.Equal(t, s, same)
}

func TestReduce_ToggleFavoriteKeepsFlagAndSetInSync(t *testing.T) {
	s := InitialState()

	s = Reduce(s, ToggleFavorite{ID: "5128581"})
	assert.True(t, s.Cities[1].Favorite)
	assert.Equal(t, []string{"5128581"}, s.Favorites)

	s = Reduce(s, ToggleFavorite{ID: "5128581"})
	assert.False(t, s.Cities[1].Favorite)
	assert.Empty(t, s.Favorites)

	s = Reduce(s, ToggleFavorite{ID: "unknown"})
	assert.Empty(t, s.Favorites)
}

func TestReduce_AddRecentSearch(t *testing.T) {
	s := InitialState()
	for _, q := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"} {
		s = Reduce(s, AddRecentSearch{Query: q})
	}
	require.Len(t, s.RecentSearches, MaxRecentSearches)
	assert.Equal(t, "K", s.RecentSearches[0])
	assert.Equal(t, "B", s.RecentSearches[9])

	s = Reduce(s, AddRecentSearch{Query: "E"})
	assert.Equal(t, "E", s.RecentSearches[0])
	assert.Len(t, s.RecentSearches, MaxRecentSearches)
	assert.Equal(t, 1, countOf(s.RecentSearches, "E"))

	s = Reduce(s, ClearRecentSearches{})
	assert.Empty(t, s.RecentSearches)
}

func countOf(list []string, v string) int {
	n := 0
	for _, x := range list {
		if x == v {
			n++
		}
	}
	return n
}

func TestReduce_ReorderCities(t *testing.T) {
	s := InitialState()

	moved := Reduce(s, ReorderCities{From: 0, To: 2})
	assert.Equal(t, []string{"5128581", "1850147", "2643743", "2988507"}, cityIDs(moved.Cities))

	out := Reduce(s, ReorderCities{From: 0, To: 9})
	assert.Equal(t, cityIDs(s.Cities), cityIDs(out.Cities))
}

func TestReduce_UpdateCity(t *testing.T) {
	name := "Greater London"
	s := Reduce(InitialState(), UpdateCity{ID: "2643743", Patch: CityPatch{Name: &name}})

	c, ok := s.City("2643743")
	require.True(t, ok)
	assert.Equal(t, "Greater London", c.Name)
	assert.Equal(t, "GB", c.Country)
}

func TestReduce_LoadingCounter(t *testing.T) {
	s := InitialState()
	s = Reduce(s, BeginLoading{})
	s = Reduce(s, BeginLoading{})
	s = Reduce(s, EndLoading{})
	assert.True(t, s.Loading())

	s = Reduce(s, EndLoading{})
	s = Reduce(s, EndLoading{})
	assert.False(t, s.Loading())
	assert.Zero(t, s.Pending)
}

func TestReduce_WeatherOnlyForTrackedCities(t *testing.T) {
	s := InitialState()
	s = Reduce(s, SetCityError{CityID: "2643743", Message: "boom"})
	s = Reduce(s, SetWeather{CityID: "2643743", Data: weather.Snapshot{Main: weather.Main{Temp: 12}}})
	s = Reduce(s, SetWeather{CityID: "ghost", Data: weather.Snapshot{}})

	assert.Contains(t, s.Weather, "2643743")
	assert.NotContains(t, s.Weather, "ghost")
	assert.NotContains(t, s.CityErrors, "2643743", "a successful fetch clears the city error")
}

func TestReduce_MergeWeather(t *testing.T) {
	s := Reduce(InitialState(), SetWeather{CityID: "2643743", Data: weather.Snapshot{
		Name: "London",
		Main: weather.Main{Temp: 12, Humidity: 80},
		Wind: weather.Wind{Speed: 3},
	}})

	s = Reduce(s, MergeWeather{CityID: "2643743", Data: weather.Snapshot{Wind: weather.Wind{Speed: 7, Deg: 180}}})

	w := s.Weather["2643743"]
	assert.Equal(t, "London", w.Name)
	assert.Equal(t, 12.0, w.Main.Temp)
	assert.Equal(t, 7.0, w.Wind.Speed)
}

func TestReduce_SetCitiesDeduplicates(t *testing.T) {
	s := Reduce(InitialState(), ToggleFavorite{ID: "2988507"})
	s = Reduce(s, SetCities{Cities: []weather.City{
		{ID: "a", Name: "First"},
		{ID: "a", Name: "Second"},
		{ID: "b", Name: "Other"},
	}})

	assert.Equal(t, []string{"a", "b"}, cityIDs(s.Cities))
	assert.Equal(t, "First", s.Cities[0].Name)
	assert.Empty(t, s.Favorites)
}

func TestReduce_SetUnit(t *testing.T) {
	s := Reduce(InitialState(), SetUnit{Unit: units.Imperial})
	assert.Equal(t, units.Imperial, s.Unit)
}
