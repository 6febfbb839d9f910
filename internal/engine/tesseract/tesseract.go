package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	// Register extra decoders so engine input is not limited to png/jpeg.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/FarhanLodi/EasyOcrSharp/internal/engine"
	"github.com/FarhanLodi/EasyOcrSharp/internal/geometry"
	"github.com/FarhanLodi/EasyOcrSharp/internal/models"
)

// Provider creates Tesseract-backed engine handles via gosseract. Tesseract
// runs on CPU; the GPU flag is accepted for interface compatibility and
// recorded on the handle but does not change execution.
type Provider struct {
	// TessdataDir overrides traineddata discovery when non-empty.
	TessdataDir string
}

// NewEngine initializes a gosseract client for the exact language set.
func (p *Provider) NewEngine(ctx context.Context, languages []string, useGPU bool) (engine.Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names, err := models.TraineddataNames(languages)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	if p.TessdataDir != "" {
		if err := client.SetTessdataPrefix(models.GetTessdataDir(p.TessdataDir)); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(names...); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("set languages %v: %w", names, err)
	}

	return &handle{client: client, languages: languages, useGPU: useGPU}, nil
}

// handle wraps one gosseract client configured for a fixed language set.
// gosseract clients are not safe for concurrent use, so calls serialize on mu.
type handle struct {
	mu        sync.Mutex
	client    *gosseract.Client
	languages []string
	useGPU    bool
}

// Recognize runs Tesseract line recognition on the image at the given path.
func (h *handle) Recognize(ctx context.Context, imagePath string) ([]engine.RawDetection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := prepareImage(imagePath)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := h.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}

	detections := make([]engine.RawDetection, 0, len(boxes))
	for _, b := range boxes {
		minX := float64(b.Box.Min.X)
		minY := float64(b.Box.Min.Y)
		maxX := float64(b.Box.Max.X)
		maxY := float64(b.Box.Max.Y)
		detections = append(detections, engine.RawDetection{
			Polygon: []geometry.Point{
				{X: minX, Y: minY},
				{X: maxX, Y: minY},
				{X: maxX, Y: maxY},
				{X: minX, Y: maxY},
			},
			Text:       b.Word,
			Confidence: b.Confidence / 100.0,
		})
	}
	return detections, nil
}

// Close releases the underlying client.
func (h *handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.client.Close()
}

// prepareImage decodes the input, converts to grayscale, and re-encodes as
// PNG. Grayscale input measurably reduces Tesseract noise on color scans.
func prepareImage(imagePath string) ([]byte, error) {
	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", imagePath, err)
	}
	gray := imaging.Grayscale(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
