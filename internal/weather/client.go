package weather

import "context"

// Client abstracts a current-weather source. All values are metric.
type Client interface {
	Current(ctx context.Context, at Coordinates) (Snapshot, error)
	CurrentByName(ctx context.Context, query string) (Snapshot, error)
	Forecast(ctx context.Context, at Coordinates) (Forecast, error)
	AirQuality(ctx context.Context, at Coordinates) (AirQuality, error)
}
