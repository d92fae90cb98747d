package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionGroup(t *testing.T) {
	tests := map[int]string{
		211: "Thunderstorm",
		301: "Drizzle",
		502: "Rain",
		601: "Snow",
		741: "Atmosphere",
		800: "Clear",
		804: "Clouds",
		100: "Unknown",
	}
	for code, want := range tests {
		assert.Equal(t, want, ConditionGroup(code), "code=%d", code)
	}
}

func TestWindDirection(t *testing.T) {
	assert.Equal(t, "N", WindDirection(0))
	assert.Equal(t, "N", WindDirection(350))
	assert.Equal(t, "NE", WindDirection(40))
	assert.Equal(t, "S", WindDirection(180))
	assert.Equal(t, "W", WindDirection(-90))
	assert.Equal(t, "N", WindDirection(720))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Dry", HumidityLabel(10))
	assert.Equal(t, "Humid", HumidityLabel(85))
	assert.Equal(t, "Normal", PressureLabel(1005))
	assert.Equal(t, "Very High", PressureLabel(1030))
	assert.Equal(t, "Excellent", VisibilityLabel(25000))
	assert.Equal(t, "Very Poor", VisibilityLabel(500))
}

func TestIconURL(t *testing.T) {
	assert.Equal(t, "https://openweathermap.org/img/wn/01d@2x.png", IconURL("01d", ""))
	assert.Equal(t, "https://openweathermap.org/img/wn/10n@4x.png", IconURL("10n", "4x"))
}
