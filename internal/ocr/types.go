package ocr

import (
	"github.com/FarhanLodi/EasyOcrSharp/internal/geometry"
)

// Line is one recognized text span, immutable once converted from a raw
// engine detection.
type Line struct {
	Text       string               `json:"text"`
	Confidence float64              `json:"confidence"`
	Polygon    []geometry.Point     `json:"polygon"`
	Box        geometry.BoundingBox `json:"box"`
}

// Result is the terminal output of one extraction call.
type Result struct {
	// FullText is the merged lines' text, newline-joined in final order.
	FullText string `json:"full_text"`
	// Lines are the deduplicated, reading-order sorted detections.
	Lines []Line `json:"lines"`
	// Languages is the union of languages from the groups that succeeded.
	Languages []string `json:"languages"`
	// DroppedLanguages lists requested codes that were unsupported or
	// removed by dependency fixup.
	DroppedLanguages []string `json:"dropped_languages,omitempty"`
	// DurationSeconds is the wall-clock time of the whole call.
	DurationSeconds float64 `json:"duration_seconds"`
	// UsedGPU reports the compute mode resolved for this call.
	UsedGPU bool `json:"used_gpu"`
}

// EmptyResult is the canonical zero-work result.
func EmptyResult() *Result {
	return &Result{Lines: []Line{}, Languages: []string{}}
}
