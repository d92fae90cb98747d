package dashboard

import (
	"maps"
	"slices"

	"github.com/i474232898/weather-dashboard/internal/units"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Action is a state transition request. The set is closed: only types in
// this file implement it.
type Action interface {
	isAction()
}

type (
	SetCities           struct{ Cities []weather.City }
	AddCity             struct{ City weather.City }
	RemoveCity          struct{ ID string }
	ToggleFavorite      struct{ ID string }
	SetUnit             struct{ Unit units.Unit }
	AddRecentSearch     struct{ Query string }
	ClearRecentSearches struct{}
	ReorderCities       struct{ From, To int }
	BeginLoading        struct{}
	EndLoading          struct{}
	SetError            struct{ Message string }
	SetCityError        struct{ CityID, Message string }
	LoadFromStorage     struct{ Snapshot Snapshot }
)

// UpdateCity applies Patch to the tracked city with ID.
type UpdateCity struct {
	ID    string
	Patch CityPatch
}

// SetWeather replaces the city's reading and clears its error.
type SetWeather struct {
	CityID string
	Data   weather.Snapshot
}

// MergeWeather overlays Data onto the city's current reading.
type MergeWeather struct {
	CityID string
	Data   weather.Snapshot
}

func (SetCities) isAction()           {}
func (AddCity) isAction()             {}
func (RemoveCity) isAction()          {}
func (UpdateCity) isAction()          {}
func (ToggleFavorite) isAction()      {}
func (SetUnit) isAction()             {}
func (AddRecentSearch) isAction()     {}
func (ClearRecentSearches) isAction() {}
func (ReorderCities) isAction()       {}
func (BeginLoading) isAction()        {}
func (EndLoading) isAction()          {}
func (SetError) isAction()            {}
func (SetCityError) isAction()        {}
func (SetWeather) isAction()          {}
func (MergeWeather) isAction()        {}
func (LoadFromStorage) isAction()     {}

// Reduce applies a to s and returns the new state. It is pure: s is never
// modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetCities:
		return withCities(s, a.Cities)

	case AddCity:
		if s.cityIndex(a.City.ID) >= 0 {
			return s
		}
		c := a.City
		c.Favorite = false
		s.Cities = append(slices.Clone(s.Cities), c)
		return s

	case RemoveCity:
		if s.cityIndex(a.ID) < 0 {
			return s
		}
		s.Cities = slices.DeleteFunc(slices.Clone(s.Cities), func(c weather.City) bool { return c.ID == a.ID })
		s.Favorites = without(s.Favorites, a.ID)
		s.Weather = withoutKey(s.Weather, a.ID)
		s.CityErrors = withoutKey(s.CityErrors, a.ID)
		return s

	case UpdateCity:
		i := s.cityIndex(a.ID)
		if i < 0 {
			return s
		}
		s.Cities = slices.Clone(s.Cities)
		s.Cities[i] = a.Patch.apply(s.Cities[i])
		return s

	case ToggleFavorite:
		i := s.cityIndex(a.ID)
		if i < 0 {
			return s
		}
		fav := s.IsFavorite(a.ID)
		if fav {
			s.Favorites = without(s.Favorites, a.ID)
		} else {
			s.Favorites = append(slices.Clone(s.Favorites), a.ID)
		}
		s.Cities = slices.Clone(s.Cities)
		s.Cities[i].Favorite = !fav
		return s

	case SetUnit:
		s.Unit = a.Unit
		return s

	case AddRecentSearch:
		rest := without(s.RecentSearches, a.Query)
		if len(rest) > MaxRecentSearches-1 {
			rest = rest[:MaxRecentSearches-1]
		}
		s.RecentSearches = append([]string{a.Query}, rest...)
		return s

	case ClearRecentSearches:
		s.RecentSearches = []string{}
		return s

	case ReorderCities:
		n := len(s.Cities)
		if a.From < 0 || a.From >= n || a.To < 0 || a.To >= n || a.From == a.To {
			return s
		}
		cities := slices.Clone(s.Cities)
		moved := cities[a.From]
		cities = slices.Delete(cities, a.From, a.From+1)
		s.Cities = slices.Insert(cities, a.To, moved)
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

	case SetCityError:
		if s.cityIndex(a.CityID) < 0 {
			return s
		}
		s.CityErrors = maps.Clone(s.CityErrors)
		if s.CityErrors == nil {
			s.CityErrors = map[string]string{}
		}
		s.CityErrors[a.CityID] = a.Message
		return s

	case SetWeather:
		if s.cityIndex(a.CityID) < 0 {
			return s
		}
		s.Weather = withEntry(s.Weather, a.CityID, a.Data)
		s.CityErrors = withoutKey(s.CityErrors, a.CityID)
		return s

	case MergeWeather:
		if s.cityIndex(a.CityID) < 0 {
			return s
		}
		merged := a.Data
		if prev, ok := s.Weather[a.CityID]; ok {
			merged = prev.Merge(a.Data)
		}
		s.Weather = withEntry(s.Weather, a.CityID, merged)
		return s

	case LoadFromStorage:
		return rehydrate(s, a.Snapshot)

	default:
		return s
	}
}

// withCities replaces the list, deduplicating by id (first wins) and keeping
// favorites, weather and per-city errors consistent with it.
func withCities(s State, cities []weather.City) State {
	seen := make(map[string]bool, len(cities))
	out := make([]weather.City, 0, len(cities))
	for _, c := range cities {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		c.Favorite = slices.Contains(s.Favorites, c.ID)
		out = append(out, c)
	}

	s.Cities = out
	s.Favorites = slices.DeleteFunc(slices.Clone(s.Favorites), func(id string) bool { return !seen[id] })
	s.Weather = maps.Clone(s.Weather)
	maps.DeleteFunc(s.Weather, func(id string, _ weather.Snapshot) bool { return !seen[id] })
	s.CityErrors = maps.Clone(s.CityErrors)
	maps.DeleteFunc(s.CityErrors, func(id string, _ string) bool { return !seen[id] })
	return s
}

func without(list []string, v string) []string {
	return slices.DeleteFunc(slices.Clone(list), func(x string) bool { return x == v })
}

func withoutKey[V any](m map[string]V, key string) map[string]V {
	if _, ok := m[key]; !ok {
		return m
	}
	out := maps.Clone(m)
	delete(out, key)
	return out
}

func withEntry[V any](m map[string]V, key string, v V) map[string]V {
	out := maps.Clone(m)
	if out == nil {
		out = make(map[string]V, 1)
	}
	out[key] = v
	return out
}
