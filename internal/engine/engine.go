package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/FarhanLodi/EasyOcrSharp/internal/geometry"
)

// RawDetection is one detection tuple as delivered by a recognition engine,
// structured at the boundary immediately on receipt. Confidence keeps the
// engine's native numeric representation until coerced.
type RawDetection struct {
	Polygon    []geometry.Point
	Text       string
	Confidence interface{}
}

// Engine is an opaque handle for a recognition engine configured for one
// language set and compute mode. Handles are expensive to construct and are
// shared through the HandleCache.
type Engine interface {
	// Recognize runs recognition on the image at the given path.
	Recognize(ctx context.Context, imagePath string) ([]RawDetection, error)
	// Close releases the handle's resources.
	Close() error
}

// Provider constructs engine handles. Implementations may perform expensive
// initialization; callers go through the HandleCache.
type Provider interface {
	NewEngine(ctx context.Context, languages []string, useGPU bool) (Engine, error)
}

// CoerceConfidence converts an engine-reported confidence to float64 using an
// ordered chain of attempts: native floats, integer widths, then string
// parsing. Non-primary paths are logged so silent data loss is visible.
func CoerceConfidence(v interface{}) (float64, error) {
	switch c := v.(type) {
	case float64:
		return c, nil
	case float32:
		return float64(c), nil
	case int:
		return float64(c), nil
	case int32:
		return float64(c), nil
	case int64:
		return float64(c), nil
	case uint:
		return float64(c), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0, fmt.Errorf("confidence not coercible from string %q: %w", c, err)
		}
		slog.Debug("Confidence coerced from string", "value", c)
		return f, nil
	case nil:
		return 0, fmt.Errorf("confidence is nil")
	default:
		return 0, fmt.Errorf("unsupported confidence type %T", v)
	}
}
