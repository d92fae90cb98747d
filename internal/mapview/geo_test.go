package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 343.8, Distance(51.5085, -0.1257, 48.8534, 2.3488), 1.0)
	assert.Zero(t, Distance(10, 10, 10, 10))
}

func TestFilterByProximity(t *testing.T) {
	markers := []Marker{
		{CityID: "paris", Latitude: 48.8534, Longitude: 2.3488},
		{CityID: "tokyo", Latitude: 35.6895, Longitude: 139.6917},
		{CityID: "manchester", Latitude: 53.4809, Longitude: -2.2374},
	}

	near := FilterByProximity(markers, 51.5085, -0.1257, DefaultProximityKm)
	assert.Equal(t, []string{"paris", "manchester"}, markerCityIDs(near))
}

func TestFormatCoordinates(t *testing.T) {
	assert.Equal(t, "51.5085°N, 0.1257°W", FormatCoordinates(51.5085, -0.1257))
	assert.Equal(t, "34.6132°S, 58.3772°W", FormatCoordinates(-34.6132, -58.3772))
}

func TestErrorFromCode(t *testing.T) {
	assert.ErrorIs(t, ErrorFromCode(CodePermissionDenied), ErrPermissionDenied)
	assert.ErrorIs(t, ErrorFromCode(CodePositionUnavailable), ErrPositionUnavailable)
	assert.ErrorIs(t, ErrorFromCode(CodeTimeout), ErrTimeout)
	assert.Equal(t, "Unable to retrieve your location", locationMessage(ErrorFromCode(99)))
}
