package dashboard

import (
	"errors"
	"fmt"
	"slices"

	json "github.com/goccy/go-json"

	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/units"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultStateKey is the storage key of the persisted dashboard blob.
const DefaultStateKey = "weather-app-state"

var ErrCorruptSnapshot = errors.New("persisted dashboard state is corrupt")

// Snapshot is the persisted subset of State. A nil field was absent from
// storage and falls back to its default on load.
type Snapshot struct {
	Cities         *[]weather.City `json:"cities"`
	FavoriteCities *[]string       `json:"favoriteCities"`
	Unit           *units.Unit     `json:"unit"`
	RecentSearches *[]string       `json:"recentSearches"`
}

// SnapshotOf extracts the persisted fields of s.
func SnapshotOf(s State) Snapshot {
	cities := slices.Clone(s.Cities)
	favorites := slices.Clone(s.Favorites)
	recent := slices.Clone(s.RecentSearches)
	unit := s.Unit
	return Snapshot{
		Cities:         &cities,
		FavoriteCities: &favorites,
		Unit:           &unit,
		RecentSearches: &recent,
	}
}

// Persister loads and saves the dashboard snapshot. Load returns nil, nil when
// nothing has been saved yet.
type Persister interface {
	Load() (*Snapshot, error)
	Save(Snapshot) error
}

// KVPersister keeps the snapshot as a single JSON blob in a key-value store.
type KVPersister struct {
	kv  store.KV
	key string
}

func NewKVPersister(kv store.KV, key string) *KVPersister {
	if key == "" {
		key = DefaultStateKey
	}
	return &KVPersister{kv: kv, key: key}
}

func (p *KVPersister) Load() (*Snapshot, error) {
	data, err := p.kv.Get(p.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.key, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return &snap, nil
}

func (p *KVPersister) Save(snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := p.kv.Set(p.key, data); err != nil {
		return fmt.Errorf("write %s: %w", p.key, err)
	}
	return nil
}

// rehydrate merges a persisted snapshot into s. Duplicate cities keep their
// first occurrence, the favorite flag is recomputed from the favorite set and
// favorites that no longer name a tracked city are dropped.
func rehydrate(s State, snap Snapshot) State {
	initial := InitialState()

	cities := initial.Cities
	if snap.Cities != nil {
		cities = *snap.Cities
	}
	favorites := initial.Favorites
	if snap.FavoriteCities != nil {
		favorites = *snap.FavoriteCities
	}
	unit := initial.Unit
	if snap.Unit != nil {
		if u, err := units.ParseUnit(string(*snap.Unit)); err == nil {
			unit = u
		}
	}
	recent := initial.RecentSearches
	if snap.RecentSearches != nil {
		recent = dedupStrings(*snap.RecentSearches)
		if len(recent) > MaxRecentSearches {
			recent = recent[:MaxRecentSearches]
		}
	}

	s.Favorites = dedupStrings(favorites)
	s = withCities(s, cities)
	s.Unit = unit
	s.RecentSearches = recent
	return s
}

func dedupStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
