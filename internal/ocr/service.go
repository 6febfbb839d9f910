package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/FarhanLodi/EasyOcrSharp/internal/engine"
	"github.com/FarhanLodi/EasyOcrSharp/internal/language"
	"github.com/FarhanLodi/EasyOcrSharp/internal/models"
)

// Named precondition failures. These fail the whole call before any engine
// work starts.
var (
	ErrEmptyImagePath = errors.New("image path is empty")
	ErrImageNotFound  = errors.New("image file not found")
	ErrNoLanguages    = errors.New("no valid languages requested")
)

// GPU compute modes.
const (
	GPUAuto = "auto"
	GPUOn   = "on"
	GPUOff  = "off"
)

// Config holds service-level settings.
type Config struct {
	// TessdataDir overrides language model discovery when non-empty.
	TessdataDir string
	// GPUMode selects the compute mode: auto (probe), on, or off.
	GPUMode string
}

// DefaultConfig returns service defaults.
func DefaultConfig() Config {
	return Config{GPUMode: GPUAuto}
}

// ProgressCallback receives group lifecycle notifications during extraction.
type ProgressCallback interface {
	OnStart(totalGroups int)
	OnGroupDone(languages []string, lines int, err error)
	OnComplete()
}

// Service orchestrates multilingual extraction: it plans language groups,
// dispatches one engine call per group, and fuses the detections. The engine
// handle cache and GPU probe it owns are process-wide and live until Close.
type Service struct {
	cfg     Config
	handles *engine.HandleCache
	gpu     *engine.GPUProbe
}

// NewService creates a service backed by the given engine provider.
func NewService(cfg Config, provider engine.Provider) *Service {
	if cfg.GPUMode == "" {
		cfg.GPUMode = GPUAuto
	}
	return &Service{
		cfg:     cfg,
		handles: engine.NewHandleCache(provider),
		gpu:     &engine.GPUProbe{},
	}
}

// ExtractText runs the full pipeline for one image.
func (s *Service) ExtractText(ctx context.Context, imagePath string, languages []string) (*Result, error) {
	return s.ExtractTextWithProgress(ctx, imagePath, languages, nil)
}

// ExtractTextWithProgress is ExtractText with per-group progress reporting.
func (s *Service) ExtractTextWithProgress(
	ctx context.Context,
	imagePath string,
	languages []string,
	progress ProgressCallback,
) (*Result, error) {
	start := time.Now()

	if strings.TrimSpace(imagePath) == "" {
		return nil, ErrEmptyImagePath
	}
	if _, err := os.Stat(imagePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, imagePath)
	}
	requested := language.Normalize(languages)
	if len(requested) == 0 {
		return nil, ErrNoLanguages
	}

	// Unknown codes are reported and dropped rather than failing the call;
	// an entirely-invalid list is a precondition failure.
	var dropped []string
	valid := make([]string, 0, len(requested))
	for _, code := range requested {
		if _, err := models.TraineddataName(code); err != nil {
			dropped = append(dropped, code)
			continue
		}
		valid = append(valid, code)
	}
	if len(dropped) > 0 {
		slog.Warn("Unsupported languages dropped", "dropped", dropped)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoLanguages, requested)
	}

	useGPU := s.resolveGPU()
	groups, groupDropped := s.planGroups(valid)
	dropped = append(dropped, groupDropped...)
	if err := models.EnsureAvailable(language.Union(groups), s.cfg.TessdataDir); err != nil {
		return nil, err
	}
	slog.Debug("Planned language groups",
		"requested", requested, "groups", len(groups), "use_gpu", useGPU)

	if progress != nil {
		progress.OnStart(len(groups))
		defer progress.OnComplete()
	}

	outcomes := s.dispatch(ctx, imagePath, groups, useGPU, progress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []Line
	var usedLanguages []string
	for _, o := range outcomes {
		if o.err != nil {
			slog.Warn("Language group failed, excluding from merge",
				"languages", o.group.Languages, "error", o.err)
			continue
		}
		all = append(all, o.lines...)
		usedLanguages = append(usedLanguages, o.group.Languages...)
	}

	merged := MergeLines(all)
	result := &Result{
		FullText:         JoinText(merged),
		Lines:            merged,
		Languages:        language.Normalize(usedLanguages),
		DroppedLanguages: dropped,
		DurationSeconds:  time.Since(start).Seconds(),
		UsedGPU:          useGPU,
	}
	slog.Debug("Extraction completed",
		"lines", len(result.Lines), "duration_s", result.DurationSeconds)
	return result, nil
}

// planGroups plans over the requested set and fixes dependencies per group,
// so the isolation rule constrains only its own group rather than the whole
// request.
func (s *Service) planGroups(requested []string) ([]language.Group, []string) {
	planned := language.PlanGroups(requested)
	groups := make([]language.Group, 0, len(planned))
	var dropped []string
	for _, g := range planned {
		fixed, groupDropped := language.FixDependencies(g.Languages)
		dropped = append(dropped, groupDropped...)
		groups = append(groups, language.Group{Languages: fixed})
	}
	return groups, dropped
}

// resolveGPU maps the configured mode to a compute flag, probing at most once
// per process in auto mode.
func (s *Service) resolveGPU() bool {
	switch s.cfg.GPUMode {
	case GPUOn:
		return true
	case GPUOff:
		return false
	default:
		return s.gpu.Available()
	}
}

// HandleCount exposes the number of live engine handles, for diagnostics.
func (s *Service) HandleCount() int { return s.handles.Len() }

// Close releases all cached engine handles.
func (s *Service) Close() error { return s.handles.Close() }
