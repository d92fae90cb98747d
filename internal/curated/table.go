package curated

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Country is one curated country entry.
type Country struct {
	Name   string         `json:"name" validate:"required"`
	Cities []weather.City `json:"cities" validate:"min=1,max=10,dive"`
}

// Table maps ISO alpha-2 country codes to the cities shown on the map, plus
// the fallback list used when a country is not curated or location access is
// unavailable.
type Table struct {
	Countries map[string]Country `json:"countries" validate:"dive,keys,len=2,uppercase,endkeys"`
	Default   []weather.City     `json:"default" validate:"len=5,dive"`
}

var validate = validator.New()

// Lookup returns the cities for code, or the default list. The result is a
// copy and may be modified by the caller.
func (t Table) Lookup(code string) []weather.City {
	if c, ok := t.Countries[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return append([]weather.City(nil), c.Cities...)
	}
	return t.DefaultCities()
}

// DefaultCities returns a copy of the fallback list.
func (t Table) DefaultCities() []weather.City {
	return append([]weather.City(nil), t.Default...)
}

// Has reports whether code is curated.
func (t Table) Has(code string) bool {
	_, ok := t.Countries[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// CodeForName resolves a country display name (case-insensitive) to its code.
func (t Table) CodeForName(name string) (string, bool) {
	for code, c := range t.Countries {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return code, true
		}
	}
	return "", false
}

// Validate checks structural constraints of the table.
func (t Table) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid curated city table: %w", err)
	}
	for code, c := range t.Countries {
		for _, city := range c.Cities {
			if city.Country != code {
				return fmt.Errorf("invalid curated city table: city %s (%s) listed under %s", city.ID, city.Name, code)
			}
		}
	}
	return nil
}

// LoadFile reads a JSON table from path and validates it.
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read curated city table: %w", err)
	}

	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("decode curated city table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Load returns the table at path, or the built-in table when path is empty.
func Load(path string) (Table, error) {
	if path == "" {
		return Builtin(), nil
	}
	return LoadFile(path)
}
