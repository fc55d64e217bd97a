package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/linkstash/linkstash/internal/logger"
)

// ErrEvicted is returned to readers that were suspended on a fetch whose
// entry was evicted before it settled.
var ErrEvicted = errors.New("cache: entry evicted")

// State is the lifecycle state of a cache entry. An entry that was never
// requested has no state: it is simply absent from the cache.
type State int

const (
	// StateLoading means a fetch is in flight for the entry.
	StateLoading State = iota + 1
	// StateReady means the entry holds validated data.
	StateReady
	// StateError means the last fetch failed; the error is retained and
	// returned to every reader until a refetch succeeds or the entry is
	// invalidated.
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unrequested"
	}
}

// FetchFunc loads the value for a cache entry. The context is owned by the
// cache, not by any single reader: it is cancelled only when the entry is
// evicted while the fetch is in flight.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	state         State
	data          any
	err           error
	stale         bool
	lastFetchedAt time.Time

	// inv counts invalidations. A fetch captures it on start; if it moved
	// by settle time the entry stays stale so the next read refetches.
	inv uint64

	// done is non-nil while a fetch is in flight and closed when it settles.
	// Concurrent readers of the same key wait on it instead of firing a
	// duplicate request.
	done   chan struct{}
	cancel context.CancelFunc
}

// Cache is the process-wide read-side cache. It is an explicit dependency:
// construct one per application (or per test) and pass it around; there is
// no package-level instance.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	log     logger.Logger
}

func New(log logger.Logger) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{
		entries: make(map[Key]*entry),
		log:     log,
	}
}

// Get returns the cached value for key, fetching it if the entry is absent,
// stale, or errored-then-invalidated. The call suspends (blocks on the
// in-flight fetch) until the entry settles or ctx is cancelled. Cancelling
// ctx abandons the wait only; the fetch keeps running for other readers.
//
// A retained error is returned as-is to every reader until a refetch
// succeeds or the entry is invalidated. A stale entry is refetched and the
// fresh result returned, never the stale data; after a mutation settles the
// next read is therefore guaranteed to observe the server state.
//
// If the entry is evicted while the call is waiting, Get returns ErrEvicted.
func (c *Cache) Get(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	for {
		e, ok := c.entries[key]
		if !ok {
			e = &entry{}
			c.entries[key] = e
		}

		switch {
		case e.state == StateReady && !e.stale:
			data := e.data
			c.mu.Unlock()
			return data, nil
		case e.state == StateError && !e.stale:
			err := e.err
			c.mu.Unlock()
			return nil, err
		}

		done := e.done
		if e.state != StateLoading {
			done = c.startFetchLocked(key, e, fetch)
		}
		c.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		c.mu.Lock()
		if cur, ok := c.entries[key]; !ok || cur != e {
			c.mu.Unlock()
			return nil, ErrEvicted
		}
	}
}

// Refetch marks the entry stale and fetches it again, returning the fresh
// value. Used by polling queries that must hit the network every interval
// regardless of freshness.
func (c *Cache) Refetch(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	c.Invalidate(key)
	return c.Get(ctx, key, fetch)
}

// startFetchLocked transitions the entry to loading and launches the fetch.
// Caller holds c.mu.
func (c *Cache) startFetchLocked(key Key, e *entry, fetch FetchFunc) chan struct{} {
	fctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.state = StateLoading
	e.done = done
	e.cancel = cancel
	startInv := e.inv

	c.log.Debug("cache fetch start", logger.String("key", string(key)))

	go func() {
		defer close(done)
		data, err := fetch(fctx)
		cancel()

		c.mu.Lock()
		defer c.mu.Unlock()
		if cur, ok := c.entries[key]; !ok || cur != e {
			// Evicted while in flight: discard the result.
			c.log.Debug("cache fetch discarded", logger.String("key", string(key)))
			return
		}
		e.done = nil
		e.cancel = nil
		e.lastFetchedAt = time.Now()
		// An invalidation that raced the fetch keeps the entry stale so the
		// next reader refetches.
		e.stale = e.inv != startInv
		if err != nil {
			e.state = StateError
			e.err = err
			e.data = nil
			c.log.Debug("cache fetch failed",
				logger.String("key", string(key)),
				logger.Error(err))
			return
		}
		e.state = StateReady
		e.data = data
		e.err = nil
		c.log.Debug("cache fetch settled", logger.String("key", string(key)))
	}()

	return done
}

// Invalidate marks the given entries stale. Absent keys are ignored: an
// entry nobody ever requested has nothing to refetch.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			c.invalidateLocked(key, e)
		}
	}
}

// InvalidatePrefix marks every entry in the subtree rooted at prefix stale.
func (c *Cache) InvalidatePrefix(prefixes ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		for _, prefix := range prefixes {
			if key.Under(prefix) {
				c.invalidateLocked(key, e)
				break
			}
		}
	}
}

func (c *Cache) invalidateLocked(key Key, e *entry) {
	e.stale = true
	e.inv++
	c.log.Debug("cache invalidate", logger.String("key", string(key)))
}

// Evict removes an entry entirely, cancelling its in-flight fetch if any.
// Cancellation is best-effort: the HTTP call may still complete server-side,
// but its result is discarded.
func (c *Cache) Evict(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			c.evictLocked(key, e)
		}
	}
}

// EvictPrefix removes the whole subtree rooted at prefix. Used when the
// parent resource is gone, e.g. a deleted bookmark's tags and suggestion.
func (c *Cache) EvictPrefix(prefixes ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		for _, prefix := range prefixes {
			if key.Under(prefix) {
				c.evictLocked(key, e)
				break
			}
		}
	}
}

func (c *Cache) evictLocked(key Key, e *entry) {
	if e.cancel != nil {
		e.cancel()
	}
	delete(c.entries, key)
	c.log.Debug("cache evict", logger.String("key", string(key)))
}

// EntryInfo is a point-in-time snapshot of an entry's bookkeeping state.
type EntryInfo struct {
	State         State
	Stale         bool
	LastFetchedAt time.Time
}

// Info returns the entry's snapshot, or ok=false when the key was never
// requested (or has been evicted).
func (c *Cache) Info(key Key) (EntryInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return EntryInfo{}, false
	}
	return EntryInfo{
		State:         e.state,
		Stale:         e.stale,
		LastFetchedAt: e.lastFetchedAt,
	}, true
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetAs is the typed form of Cache.Get. All readers of a key must agree on
// its value type; a mismatch is a programming error and is reported as one.
func GetAs[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	data, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	v, ok := data.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache entry %q holds %T, want %T", key, data, zero)
	}
	return v, nil
}
