package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comfortbites/backend/internal/service"
)

const (
	optionsKey = "recipes:filter_options"
	optionsTTL = 24 * time.Hour
)

// OptionsCache caches the filter option lists in Redis. The recipe corpus
// only changes on reseed, so a day-long TTL is plenty.
type OptionsCache struct {
	client *redis.Client
}

// NewOptionsCache creates a Redis-backed filter options cache
func NewOptionsCache(client *redis.Client) *OptionsCache {
	return &OptionsCache{client: client}
}

// Get returns the cached options, if present. Cache trouble reads as a
// miss, never as a failure.
func (c *OptionsCache) Get(ctx context.Context) (*service.FilterOptions, bool) {
	data, err := c.client.Get(ctx, optionsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("filter options cache read failed: %v", err)
		}
		return nil, false
	}

	var opts service.FilterOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		log.Printf("filter options cache entry corrupt, ignoring: %v", err)
		return nil, false
	}
	return &opts, true
}

// Set stores the options with a fixed TTL, best effort
func (c *OptionsCache) Set(ctx context.Context, opts *service.FilterOptions) {
	data, err := json.Marshal(opts)
	if err != nil {
		log.Printf("filter options cache encode failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, optionsKey, data, optionsTTL).Err(); err != nil {
		log.Printf("filter options cache write failed: %v", err)
	}
}
