package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	fail  map[float64]bool
	delay map[float64]time.Duration
}

func (s *stubClient) Current(ctx context.Context, at Coordinates) (Snapshot, error) {
	if d := s.delay[at.Lat]; d > 0 {
		time.Sleep(d)
	}
	if s.fail[at.Lat] {
		return Snapshot{}, errors.New("provider down")
	}
	return Snapshot{Coord: at, Main: Main{Temp: at.Lat}}, nil
}

func (s *stubClient) CurrentByName(context.Context, string) (Snapshot, error) {
	return Snapshot{}, errors.New("not implemented")
}

func (s *stubClient) Forecast(context.Context, Coordinates) (Forecast, error) {
	return Forecast{}, errors.New("not implemented")
}

func (s *stubClient) AirQuality(context.Context, Coordinates) (AirQuality, error) {
	return AirQuality{}, errors.New("not implemented")
}

func TestSettleAll_PreservesIndex(t *testing.T) {
	// Earlier indices finish last so completion order is the reverse of input order.
	results := SettleAll(context.Background(), 4, func(_ context.Context, i int) (int, error) {
		time.Sleep(time.Duration(4-i) * 5 * time.Millisecond)
		if i == 1 {
			return 0, errors.New("boom")
		}
		return i * 10, nil
	})

	require.Len(t, results, 4)
	assert.Equal(t, 0, results[0].Value)
	assert.False(t, results[1].OK())
	assert.Equal(t, 20, results[2].Value)
	assert.Equal(t, 30, results[3].Value)
	assert.Equal(t, []int{0, 20, 30}, Compact(results))
}

func TestCurrentBulk_DropsFailuresKeepingOrder(t *testing.T) {
	client := &stubClient{
		fail:  map[float64]bool{3: true},
		delay: map[float64]time.Duration{1: 20 * time.Millisecond},
	}
	coords := []Coordinates{{Lat: 1}, {Lat: 2}, {Lat: 3}, {Lat: 4}, {Lat: 5}}

	got := CurrentBulk(context.Background(), client, coords)

	require.Len(t, got, 4)
	var lats []float64
	for _, s := range got {
		lats = append(lats, s.Coord.Lat)
	}
	assert.Equal(t, []float64{1, 2, 4, 5}, lats)
}

func TestCurrentBulk_Empty(t *testing.T) {
	assert.Empty(t, CurrentBulk(context.Background(), &stubClient{}, nil))
}

func TestCurrentEach_AttributesByIndex(t *testing.T) {
	client := &stubClient{
		fail:  map[float64]bool{2: true},
		delay: map[float64]time.Duration{1: 20 * time.Millisecond},
	}
	cities := []City{{ID: "a", Lat: 1}, {ID: "b", Lat: 2}, {ID: "c", Lat: 3}}

	results := CurrentEach(context.Background(), client, CoordinatesOf(cities))

	require.Len(t, results, 3)
	assert.True(t, results[0].OK())
	assert.Equal(t, 1.0, results[0].Value.Coord.Lat)
	assert.False(t, results[1].OK())
	assert.Equal(t, 3.0, results[2].Value.Coord.Lat)
}

func TestSnapshotMerge(t *testing.T) {
	base := Snapshot{
		ID:         2643743,
		Name:       "London",
		Country:    "GB",
		Main:       Main{Temp: 10, Humidity: 80},
		Conditions: []Condition{{ID: 500, Group: "Rain"}},
		Wind:       Wind{Speed: 3, Deg: 90},
	}

	merged := base.Merge(Snapshot{Main: Main{Temp: 12, Humidity: 70}})

	assert.Equal(t, "London", merged.Name)
	assert.Equal(t, 12.0, merged.Main.Temp)
	assert.Equal(t, base.Conditions, merged.Conditions)
	assert.Equal(t, base.Wind, merged.Wind)
	assert.Equal(t, 10.0, base.Main.Temp)
}
