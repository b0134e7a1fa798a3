package introspection

import (
	"context"
	"sync"
	"time"

	"github.com/gqlgate/gqlgate/internal/eventbus"
	"github.com/gqlgate/gqlgate/internal/events"
)

// Cache memoizes fetch results by base URL. It is explicit state owned by a
// compiler invocation rather than a process global, so concurrent compiles
// stay independent. Safe for concurrent use.
type Cache struct {
	fetcher Fetcher

	mu      sync.Mutex
	results map[string]*Result
}

// NewCache returns a cache backed by fetcher, optionally seeded with
// already-known results. The seed map is copied.
func NewCache(fetcher Fetcher, seed map[string]*Result) *Cache {
	results := make(map[string]*Result, len(seed))
	for url, r := range seed {
		results[url] = r
	}
	return &Cache{fetcher: fetcher, results: results}
}

// Resolve returns the introspection result for baseURL, fetching it on
// first use. Concurrent callers for the same URL wait on the single fetch.
func (c *Cache) Resolve(ctx context.Context, baseURL string) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.results[baseURL]; ok {
		return r, nil
	}

	eventbus.Publish(ctx, events.IntrospectionFetchStart{BaseURL: baseURL})
	start := time.Now()
	r, err := c.fetcher.Fetch(ctx, baseURL)
	eventbus.Publish(ctx, events.IntrospectionFetchFinish{
		BaseURL:  baseURL,
		Err:      err,
		Duration: time.Since(start),
	})
	if err != nil {
		return nil, err
	}
	c.results[baseURL] = r
	return r, nil
}

// Snapshot copies the cached results, e.g. to seed a later compile.
func (c *Cache) Snapshot() map[string]*Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]*Result, len(c.results))
	for url, r := range c.results {
		out[url] = r
	}
	return out
}
