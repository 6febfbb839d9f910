package engine

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrCacheClosed is returned when a handle is requested after shutdown.
var ErrCacheClosed = errors.New("engine handle cache closed")

// HandleCache is the process-wide registry of engine handles, keyed by the
// sorted language set and compute mode. The first caller for a key performs
// the expensive initialization; concurrent callers for the same key await the
// same in-flight initialization. Failed or cancelled initializations are
// never cached, so later calls can retry.
type HandleCache struct {
	provider Provider

	mu      sync.Mutex
	handles map[string]Engine
	flight  singleflight.Group
	closed  bool
}

// NewHandleCache creates an empty cache backed by the given provider.
func NewHandleCache(provider Provider) *HandleCache {
	return &HandleCache{
		provider: provider,
		handles:  make(map[string]Engine),
	}
}

// CacheKey builds the canonical cache key for a language set and GPU flag.
func CacheKey(languages []string, useGPU bool) string {
	sorted := append([]string(nil), languages...)
	sort.Strings(sorted)
	key := strings.Join(sorted, "+")
	if useGPU {
		return key + "|gpu"
	}
	return key + "|cpu"
}

// Get returns the cached handle for the language set, initializing it at most
// once per key across concurrent callers.
func (c *HandleCache) Get(ctx context.Context, languages []string, useGPU bool) (Engine, error) {
	key := CacheKey(languages, useGPU)

	c.mu.Lock()
	if h, ok := c.handles[key]; ok {
		c.mu.Unlock()
		return h, nil
	}
	c.mu.Unlock()

	v, err, shared := c.flight.Do(key, func() (interface{}, error) {
		// Another flight may have populated the entry between the check
		// above and this closure running.
		c.mu.Lock()
		if h, ok := c.handles[key]; ok {
			c.mu.Unlock()
			return h, nil
		}
		c.mu.Unlock()

		slog.Debug("Initializing engine handle", "key", key)
		h, err := c.provider.NewEngine(ctx, languages, useGPU)
		if err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			_ = h.Close()
			return nil, ctx.Err()
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = h.Close()
			return nil, ErrCacheClosed
		}
		c.handles[key] = h
		c.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("Engine handle initialization shared", "key", key)
	}
	return v.(Engine), nil
}

// Len returns the number of cached handles.
func (c *HandleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles)
}

// Close releases every cached handle and rejects future initializations.
func (c *HandleCache) Close() error {
	c.mu.Lock()
	handles := c.handles
	c.handles = make(map[string]Engine)
	c.closed = true
	c.mu.Unlock()

	var firstErr error
	for key, h := range handles {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		slog.Debug("Released engine handle", "key", key)
	}
	return firstErr
}
