package curated

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestBuiltin_IsValid(t *testing.T) {
	require.NoError(t, Builtin().Validate())
}

func TestLookup(t *testing.T) {
	tbl := Builtin()

	gb := tbl.Lookup("gb")
	require.Len(t, gb, 5)
	assert.Equal(t, "London", gb[0].Name)

	fallback := tbl.Lookup("ZZ")
	require.Len(t, fallback, 5)
	assert.Equal(t, []string{"New York", "London", "Tokyo", "Shanghai", "Buenos Aires"}, names(fallback))

	assert.True(t, tbl.Has(" pk "))
	assert.False(t, tbl.Has("JP"))
}

func TestLookup_ReturnsCopy(t *testing.T) {
	tbl := Builtin()
	got := tbl.Lookup("US")
	got[0].Name = "Gotham"

	assert.Equal(t, "New York", tbl.Lookup("US")[0].Name)
	assert.Equal(t, "New York", tbl.DefaultCities()[0].Name)
}

func TestCodeForName(t *testing.T) {
	code, ok := Builtin().CodeForName("united kingdom")
	assert.True(t, ok)
	assert.Equal(t, "GB", code)

	_, ok = Builtin().CodeForName("Atlantis")
	assert.False(t, ok)
}

func TestLoad_EmptyPathUsesBuiltin(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)
	assert.Len(t, tbl.Countries, 6)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"countries": {
			"NZ": {"name": "New Zealand", "cities": [
				{"id": "2179537", "name": "Wellington", "country": "NZ", "lat": -41.2866, "lon": 174.7756}
			]}
		},
		"default": [
			{"id": "1", "name": "A", "country": "US", "lat": 1, "lon": 1},
			{"id": "2", "name": "B", "country": "US", "lat": 2, "lon": 2},
			{"id": "3", "name": "C", "country": "US", "lat": 3, "lon": 3},
			{"id": "4", "name": "D", "country": "US", "lat": 4, "lon": 4},
			{"id": "5", "name": "E", "country": "US", "lat": 5, "lon": 5}
		]
	}`), 0o644))

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Wellington", tbl.Lookup("NZ")[0].Name)
	assert.Equal(t, "A", tbl.Lookup("GB")[0].Name)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := map[string]string{
		"short default":      `{"countries": {}, "default": []}`,
		"bad latitude":       `{"countries": {"NZ": {"name": "NZ", "cities": [{"id": "1", "name": "X", "country": "NZ", "lat": 123, "lon": 0}]}}, "default": []}`,
		"mismatched country": `{"countries": {"NZ": {"name": "NZ", "cities": [{"id": "1", "name": "X", "country": "AU", "lat": 1, "lon": 0}]}}, "default": [{"id":"1","name":"A","country":"US"},{"id":"2","name":"B","country":"US"},{"id":"3","name":"C","country":"US"},{"id":"4","name":"D","country":"US"},{"id":"5","name":"E","country":"US"}]}`,
		"not json":           `{`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cities.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func names(cities []weather.City) []string {
	out := make([]string, 0, len(cities))
	for _, c := range cities {
		out = append(out, c.Name)
	}
	return out
}
