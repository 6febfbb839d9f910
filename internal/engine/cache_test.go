package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	closed atomic.Bool
}

func (e *stubEngine) Recognize(_ context.Context, _ string) ([]RawDetection, error) {
	return nil, nil
}

func (e *stubEngine) Close() error {
	e.closed.Store(true)
	return nil
}

type stubProvider struct {
	inits     atomic.Int64
	initDelay time.Duration
	failUntil int64 // fail the first N initializations
}

func (p *stubProvider) NewEngine(ctx context.Context, languages []string, useGPU bool) (Engine, error) {
	n := p.inits.Add(1)
	if p.initDelay > 0 {
		select {
		case <-time.After(p.initDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if n <= p.failUntil {
		return nil, errors.New("engine init failed")
	}
	return &stubEngine{}, nil
}

func TestHandleCacheReusesHandle(t *testing.T) {
	p := &stubProvider{}
	c := NewHandleCache(p)
	defer func() { _ = c.Close() }()

	h1, err := c.Get(context.Background(), []string{"ja", "en"}, false)
	require.NoError(t, err)
	h2, err := c.Get(context.Background(), []string{"en", "ja"}, false)
	require.NoError(t, err)

	assert.Same(t, h1, h2)
	assert.Equal(t, int64(1), p.inits.Load())
	assert.Equal(t, 1, c.Len())
}

func TestHandleCacheSingleFlight(t *testing.T) {
	p := &stubProvider{initDelay: 50 * time.Millisecond}
	c := NewHandleCache(p)
	defer func() { _ = c.Close() }()

	const callers = 16
	var wg sync.WaitGroup
	handles := make([]Engine, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := c.Get(context.Background(), []string{"en", "hi"}, false)
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), p.inits.Load(), "concurrent callers must share one initialization")
	for i := 1; i < callers; i++ {
		assert.Same(t, handles[0], handles[i])
	}
}

func TestHandleCacheDistinctKeys(t *testing.T) {
	p := &stubProvider{}
	c := NewHandleCache(p)
	defer func() { _ = c.Close() }()

	_, err := c.Get(context.Background(), []string{"en"}, false)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), []string{"en"}, true)
	require.NoError(t, err)

	assert.Equal(t, int64(2), p.inits.Load())
	assert.Equal(t, 2, c.Len())
}

func TestHandleCacheFailureEvictsAndRetries(t *testing.T) {
	p := &stubProvider{failUntil: 1}
	c := NewHandleCache(p)
	defer func() { _ = c.Close() }()

	_, err := c.Get(context.Background(), []string{"th", "en"}, false)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len(), "failed initialization must not be cached")

	h, err := c.Get(context.Background(), []string{"th", "en"}, false)
	require.NoError(t, err)
	assert.NotNil(t, h)
	assert.Equal(t, int64(2), p.inits.Load())
}

func TestHandleCacheCancelledInitNotCached(t *testing.T) {
	p := &stubProvider{initDelay: 200 * time.Millisecond}
	c := NewHandleCache(p)
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Get(ctx, []string{"ko", "en"}, false)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	h, err := c.Get(context.Background(), []string{"ko", "en"}, false)
	require.NoError(t, err)
	assert.NotNil(t, h)
}

func TestHandleCacheClose(t *testing.T) {
	p := &stubProvider{}
	c := NewHandleCache(p)

	h, err := c.Get(context.Background(), []string{"en"}, false)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.True(t, h.(*stubEngine).closed.Load())
	assert.Equal(t, 0, c.Len())

	_, err = c.Get(context.Background(), []string{"en"}, false)
	assert.ErrorIs(t, err, ErrCacheClosed)
}
