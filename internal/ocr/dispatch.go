package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/FarhanLodi/EasyOcrSharp/internal/engine"
	"github.com/FarhanLodi/EasyOcrSharp/internal/geometry"
	"github.com/FarhanLodi/EasyOcrSharp/internal/language"
	"github.com/FarhanLodi/EasyOcrSharp/internal/textutil"
)

// groupOutcome is the terminal state of one language group's dispatch.
type groupOutcome struct {
	group language.Group
	lines []Line
	err   error
}

// dispatch fans out one recognition call per language group and waits for all
// of them. Outcomes are indexed by group position, so callers see a
// deterministic order regardless of goroutine scheduling. A failed group
// carries its error in the outcome; it never aborts its siblings.
func (s *Service) dispatch(
	ctx context.Context,
	imagePath string,
	groups []language.Group,
	useGPU bool,
	progress ProgressCallback,
) []groupOutcome {
	outcomes := make([]groupOutcome, len(groups))

	var wg sync.WaitGroup
	var progressMu sync.Mutex
	for i, g := range groups {
		wg.Add(1)
		go func(i int, g language.Group) {
			defer wg.Done()
			lines, err := s.runGroup(ctx, imagePath, g, useGPU)
			outcomes[i] = groupOutcome{group: g, lines: lines, err: err}
			if progress != nil {
				progressMu.Lock()
				progress.OnGroupDone(g.Languages, len(lines), err)
				progressMu.Unlock()
			}
		}(i, g)
	}
	wg.Wait()

	return outcomes
}

// runGroup acquires the engine handle for one group and converts its raw
// detections into lines.
func (s *Service) runGroup(
	ctx context.Context,
	imagePath string,
	group language.Group,
	useGPU bool,
) ([]Line, error) {
	eng, err := s.handles.Get(ctx, group.Languages, useGPU)
	if err != nil {
		return nil, fmt.Errorf("acquire engine for %v: %w", group.Languages, err)
	}

	raw, err := eng.Recognize(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("recognize with %v: %w", group.Languages, err)
	}

	lines := make([]Line, 0, len(raw))
	for _, det := range raw {
		line, ok := convertDetection(det)
		if !ok {
			continue
		}
		lines = append(lines, line)
	}
	slog.Debug("Language group recognized",
		"languages", group.Languages, "detections", len(raw), "lines", len(lines))
	return lines, nil
}

// convertDetection normalizes one raw detection into a Line. Detections with
// an unparseable confidence are skipped rather than failing the group.
func convertDetection(det engine.RawDetection) (Line, bool) {
	confidence, err := engine.CoerceConfidence(det.Confidence)
	if err != nil {
		slog.Warn("Skipping detection with unusable confidence",
			"text", det.Text, "error", err)
		return Line{}, false
	}
	return Line{
		Text:       textutil.Clean(det.Text),
		Confidence: confidence,
		Polygon:    det.Polygon,
		Box:        geometry.FromPoints(det.Polygon),
	}, true
}
