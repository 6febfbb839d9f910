package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/FarhanLodi/EasyOcrSharp/internal/engine"
)

// FakeEngine replays scripted detections and records usage. Safe for
// concurrent use.
type FakeEngine struct {
	Languages  []string
	UseGPU     bool
	Detections []engine.RawDetection
	Err        error

	recognized atomic.Int64
	closed     atomic.Bool
}

// Recognize returns the scripted detections or error.
func (e *FakeEngine) Recognize(ctx context.Context, _ string) ([]engine.RawDetection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.recognized.Add(1)
	if e.Err != nil {
		return nil, e.Err
	}
	out := make([]engine.RawDetection, len(e.Detections))
	copy(out, e.Detections)
	return out, nil
}

// Close marks the engine closed.
func (e *FakeEngine) Close() error {
	e.closed.Store(true)
	return nil
}

// RecognizeCalls reports how many times Recognize ran.
func (e *FakeEngine) RecognizeCalls() int { return int(e.recognized.Load()) }

// Closed reports whether Close was called.
func (e *FakeEngine) Closed() bool { return e.closed.Load() }

// FakeProvider builds FakeEngines keyed by the cache key of the requested
// language set. Unknown keys get an engine with no detections, so tests only
// script the groups they care about.
type FakeProvider struct {
	mu sync.Mutex

	// DetectionsByKey scripts per-group detections, keyed by engine.CacheKey.
	DetectionsByKey map[string][]engine.RawDetection
	// RecognizeErrByKey scripts per-group recognition failures.
	RecognizeErrByKey map[string]error
	// InitErrByKey scripts per-group initialization failures.
	InitErrByKey map[string]error

	engines []*FakeEngine
	inits   atomic.Int64
}

// NewEngine creates a fake engine for the requested group.
func (p *FakeProvider) NewEngine(ctx context.Context, languages []string, useGPU bool) (engine.Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.inits.Add(1)

	key := engine.CacheKey(languages, useGPU)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.InitErrByKey[key]; ok {
		return nil, err
	}
	e := &FakeEngine{
		Languages:  append([]string(nil), languages...),
		UseGPU:     useGPU,
		Detections: p.DetectionsByKey[key],
		Err:        p.RecognizeErrByKey[key],
	}
	p.engines = append(p.engines, e)
	return e, nil
}

// Inits reports how many engines were initialized.
func (p *FakeProvider) Inits() int { return int(p.inits.Load()) }

// Engines returns the engines created so far.
func (p *FakeProvider) Engines() []*FakeEngine {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*FakeEngine(nil), p.engines...)
}
