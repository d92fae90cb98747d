package geocoding

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// CachedClient memoizes successful lookups of another Client. Errors are
// never cached.
type CachedClient struct {
	next   Client
	cache  *freecache.Cache
	ttl    int
	logger zerolog.Logger
}

// NewCachedClient wraps next with a cache of sizeMB megabytes. A non-positive
// size disables caching and returns next unchanged.
func NewCachedClient(next Client, sizeMB int, ttl time.Duration, logger zerolog.Logger) Client {
	if sizeMB <= 0 {
		logger.Info().Msg("geocoding cache disabled")
		return next
	}
	seconds := int(ttl.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	logger.Info().Int("size_mb", sizeMB).Int("ttl_s", seconds).Msg("geocoding cache initialized")
	return &CachedClient{
		next:   next,
		cache:  freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:    seconds,
		logger: logger,
	}
}

func forwardKey(name, countryCode string) string {
	return "fwd:" + strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToUpper(strings.TrimSpace(countryCode))
}

// reverseKey rounds to ~100m so jittery device positions share an entry.
func reverseKey(lat, lon float64) string {
	return fmt.Sprintf("rev:%.3f,%.3f", math.Round(lat*1000)/1000, math.Round(lon*1000)/1000)
}

func (c *CachedClient) Forward(ctx context.Context, name, countryCode string) ([]Place, error) {
	return c.cached(forwardKey(name, countryCode), func() ([]Place, error) {
		return c.next.Forward(ctx, name, countryCode)
	})
}

func (c *CachedClient) Reverse(ctx context.Context, lat, lon float64) ([]Place, error) {
	return c.cached(reverseKey(lat, lon), func() ([]Place, error) {
		return c.next.Reverse(ctx, lat, lon)
	})
}

func (c *CachedClient) cached(key string, load func() ([]Place, error)) ([]Place, error) {
	if raw, err := c.cache.Get([]byte(key)); err == nil {
		var places []Place
		if err := json.Unmarshal(raw, &places); err == nil {
			return places, nil
		}
		c.logger.Warn().Str("key", key).Msg("dropping undecodable geocoding cache entry")
		c.cache.Del([]byte(key))
	}

	places, err := load()
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(places); err == nil {
		if err := c.cache.Set([]byte(key), raw, c.ttl); err != nil {
			c.logger.Debug().Err(err).Str("key", key).Msg("geocoding cache set failed")
		}
	}
	return places, nil
}
