package weather

import (
	"context"
	"sync"
)

// Settled is the outcome of one task in a SettleAll join.
type Settled[T any] struct {
	Value T
	Err   error
}

// OK reports whether the task succeeded.
func (s Settled[T]) OK() bool { return s.Err == nil }

// SettleAll runs fn for every index in [0, n) concurrently and waits for all of
// them. Element i of the result is always the outcome of fn(ctx, i).
func SettleAll[T any](ctx context.Context, n int, fn func(ctx context.Context, i int) (T, error)) []Settled[T] {
	results := make([]Settled[T], n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := fn(ctx, i)
			results[i] = Settled[T]{Value: v, Err: err}
		}(i)
	}
	wg.Wait()

	return results
}

// Compact drops failed outcomes, keeping the relative order of the rest.
func Compact[T any](results []Settled[T]) []T {
	out := make([]T, 0, len(results))
	for _, r := range results {
		if r.OK() {
			out = append(out, r.Value)
		}
	}
	return out
}

// CurrentEach fetches current weather for every coordinate pair. Element i of
// the result is the outcome for coords[i].
func CurrentEach(ctx context.Context, c Client, coords []Coordinates) []Settled[Snapshot] {
	return SettleAll(ctx, len(coords), func(ctx context.Context, i int) (Snapshot, error) {
		return c.Current(ctx, coords[i])
	})
}

// CurrentBulk fetches current weather for every coordinate pair. Failed
// entries are dropped; the rest keep input order.
func CurrentBulk(ctx context.Context, c Client, coords []Coordinates) []Snapshot {
	return Compact(CurrentEach(ctx, c, coords))
}

// CoordinatesOf returns the position of every city, in order.
func CoordinatesOf(cities []City) []Coordinates {
	out := make([]Coordinates, len(cities))
	for i, c := range cities {
		out[i] = c.Coordinates()
	}
	return out
}
