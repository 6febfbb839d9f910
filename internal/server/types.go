package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FarhanLodi/EasyOcrSharp/internal/ocr"
)

// extractor defines the methods the server needs from the OCR service.
type extractor interface {
	ExtractText(ctx context.Context, imagePath string, languages []string) (*ocr.Result, error)
	ExtractTextWithProgress(ctx context.Context, imagePath string, languages []string, progress ocr.ProgressCallback) (*ocr.Result, error)
	Close() error
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	service          extractor
	defaultLanguages []string
	corsOrigin       string
	maxUploadMB      int64
	timeoutSec       int
}

// Config holds server configuration.
type Config struct {
	Host             string
	Port             int
	CORSOrigin       string
	MaxUploadMB      int64
	TimeoutSec       int
	DefaultLanguages []string
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type LanguagesResponse struct {
	Languages []string `json:"languages"`
	Count     int      `json:"count"`
}

type OCRResponse struct {
	Success bool        `json:"success"`
	Result  *ocr.Result `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewServer creates a new OCR server over an existing service.
func NewServer(config Config, service extractor) *Server {
	languages := config.DefaultLanguages
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	return &Server{
		service:          service,
		defaultLanguages: languages,
		corsOrigin:       config.CORSOrigin,
		maxUploadMB:      config.MaxUploadMB,
		timeoutSec:       config.TimeoutSec,
	}
}

// Close releases server resources.
func (s *Server) Close() error {
	if s.service != nil {
		return s.service.Close()
	}
	return nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/languages", s.corsMiddleware(s.languagesHandler))
	mux.HandleFunc("/ocr", s.corsMiddleware(s.ocrImageHandler))
	mux.HandleFunc("/ocr/stream", s.ocrWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
