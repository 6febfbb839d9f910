package ocr

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/FarhanLodi/EasyOcrSharp/internal/geometry"
	"github.com/FarhanLodi/EasyOcrSharp/internal/textutil"
)

const (
	// Duplicate thresholds for the geometric fallback path.
	dedupIoUThreshold        = 0.7
	dedupSimilarityThreshold = 0.8

	// Vertical band size used to approximate reading rows.
	rowBandHeight = 10.0
)

// MergeLines deduplicates detections collected across language groups and
// sorts the survivors into reading order. Deduplication is two-tier: an exact
// match on the quantized box key, then an IoU + text-similarity scan for keys
// not seen before. The two tiers can disagree near quantization boundaries;
// that imprecision is part of the merge semantics and both tiers are kept
// separate on purpose. On a duplicate the higher-confidence line wins, with
// first-seen winning exact confidence ties.
func MergeLines(lines []Line) []Line {
	accepted := make([]Line, 0, len(lines))
	byKey := make(map[string]int, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line.Text) == "" {
			continue
		}

		key := boxKey(line.Box)
		if idx, ok := byKey[key]; ok {
			if line.Confidence > accepted[idx].Confidence {
				accepted[idx] = line
			}
			continue
		}

		duplicate := false
		for idx := range accepted {
			if geometry.IoU(line.Box, accepted[idx].Box) > dedupIoUThreshold &&
				textutil.Similarity(line.Text, accepted[idx].Text) > dedupSimilarityThreshold {
				if line.Confidence > accepted[idx].Confidence {
					accepted[idx] = line
					byKey[key] = idx
				}
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		byKey[key] = len(accepted)
		accepted = append(accepted, line)
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		bi := rowBand(accepted[i].Box.MinY)
		bj := rowBand(accepted[j].Box.MinY)
		if bi == bj {
			return accepted[i].Box.MinX < accepted[j].Box.MinX
		}
		return bi < bj
	})
	return accepted
}

// boxKey quantizes box coordinates to one decimal place so detections of the
// same region from different groups collide.
func boxKey(b geometry.BoundingBox) string {
	return fmt.Sprintf("%.1f|%.1f|%.1f|%.1f", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// rowBand snaps a vertical position into a reading-row band. Half-band values
// round to even.
func rowBand(minY float64) float64 {
	return math.RoundToEven(minY/rowBandHeight) * rowBandHeight
}

// JoinText concatenates line text with newlines, skipping empties.
func JoinText(lines []Line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		t := strings.TrimSpace(l.Text)
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}
