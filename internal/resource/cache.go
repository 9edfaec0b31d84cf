package resource

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is a snapshot of one cached query result.
type Entry struct {
	Value      any
	Stale      bool
	FetchedAt  time.Time
	Generation uint64
}

// QueryCache maps canonical query keys to their last result. It is built
// once at start-up and handed to every module.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]*Entry
	gens    map[string]uint64
	flights map[string]*flight
	group   singleflight.Group
	now     func() time.Time
	logger  *slog.Logger
}

func NewQueryCache(logger *slog.Logger) *QueryCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryCache{
		entries: make(map[string]*Entry),
		gens:    make(map[string]uint64),
		flights: make(map[string]*flight),
		now:     time.Now,
		logger:  logger,
	}
}

// Get returns the cached value only while it is fresh.
func (c *QueryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.Stale {
		return nil, false
	}
	return e.Value, true
}

// Lookup returns the entry whatever its staleness.
func (c *QueryCache) Lookup(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

func (c *QueryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gens[key]
	c.entries[key] = &Entry{Value: value, FetchedAt: c.now(), Generation: gen}
	c.gens[key] = gen
}

// flight is one in-progress load shared by every caller of a key. Its
// context ends only once all of those callers have gone.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Fetch returns a fresh cached value or loads it. Concurrent callers of one
// key share a single load. A caller whose context ends returns at once; the
// load keeps running for the others. A load abandoned by every caller is
// never stored; a load that raced an Invalidate is stored stale.
func (c *QueryCache) Fetch(ctx context.Context, key string, load func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	f := c.join(ctx, key)
	ch := c.group.DoChan(key, func() (any, error) {
		c.mu.Lock()
		gen := c.gens[key]
		c.gens[key] = gen
		c.mu.Unlock()

		v, err := load(f.ctx)

		c.mu.Lock()
		abandoned := f.ctx.Err() != nil
		if c.flights[key] == f {
			delete(c.flights, key)
		}
		c.mu.Unlock()
		f.cancel()

		if err != nil {
			return nil, err
		}
		if abandoned {
			c.logger.Debug("discarding abandoned fetch", "key", key)
			return v, nil
		}
		c.store(key, v, gen)
		return v, nil
	})

	select {
	case <-ctx.Done():
		c.leave(f, true)
		return nil, ctx.Err()
	case res := <-ch:
		c.leave(f, false)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

func (c *QueryCache) join(ctx context.Context, key string) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.flights[key]
	if !ok {
		lctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: lctx, cancel: cancel}
		c.flights[key] = f
	}
	f.waiters++
	return f
}

// leave drops one waiter. The last caller to give up cancels the load.
func (c *QueryCache) leave(f *flight, gaveUp bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f.waiters--
	if gaveUp && f.waiters == 0 {
		f.cancel()
	}
}

func (c *QueryCache) store(key string, value any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.gens[key]
	c.entries[key] = &Entry{
		Value:      value,
		Stale:      current != gen,
		FetchedAt:  c.now(),
		Generation: current,
	}
}

// Invalidate marks stale every key equal to prefix or starting with
// prefix+"?" and returns how many stored entries it touched.
func (c *QueryCache) Invalidate(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.gens {
		if !MatchesPrefix(key, prefix) {
			continue
		}
		c.gens[key]++
		if e, ok := c.entries[key]; ok {
			e.Stale = true
			e.Generation = c.gens[key]
			n++
		}
	}
	if n > 0 {
		c.logger.Debug("cache invalidated", "prefix", prefix, "entries", n)
	}
	return n
}

func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// FetchAs is Fetch with the value typed. A nil cache loads directly.
func FetchAs[T any](ctx context.Context, c *QueryCache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if c == nil {
		return load(ctx)
	}
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %s holds %T", key, v)
	}
	return out, nil
}
