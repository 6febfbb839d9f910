package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FarhanLodi/EasyOcrSharp/internal/models"
	"github.com/FarhanLodi/EasyOcrSharp/internal/ocr"
	"github.com/FarhanLodi/EasyOcrSharp/internal/version"
)

const formatText = "text"

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode health response", "error", err)
	}
}

// languagesHandler returns the supported language codes.
func (s *Server) languagesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	codes := models.SupportedLanguages()
	response := LanguagesResponse{
		Languages: codes,
		Count:     len(codes),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode languages response", "error", err)
	}
}

// ocrImageHandler processes image OCR requests.
func (s *Server) ocrImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "too large") {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	imagePath, cleanup, err := s.saveUpload(file, header.Filename)
	if err != nil {
		s.writeErrorResponse(w, "Failed to store uploaded image", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	languages := s.requestLanguages(r)

	ctx := r.Context()
	if s.timeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.timeoutSec)*time.Second)
		defer cancel()
	}

	start := time.Now()
	result, err := s.service.ExtractText(ctx, imagePath, languages)
	if err != nil {
		ocrRequestsTotal.WithLabelValues("image", "error").Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, ocr.ErrNoLanguages) {
			status = http.StatusBadRequest
		}
		s.writeErrorResponse(w, fmt.Sprintf("OCR processing failed: %v", err), status)
		return
	}

	ocrRequestsTotal.WithLabelValues("image", "success").Inc()
	ocrProcessingDuration.WithLabelValues("image").Observe(time.Since(start).Seconds())
	ocrTextLength.WithLabelValues("image").Observe(float64(len(result.FullText)))
	ocrLinesDetected.WithLabelValues("image").Observe(float64(len(result.Lines)))

	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}
	if format == formatText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(result.FullText))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(OCRResponse{Success: true, Result: result}); err != nil {
		slog.Error("Failed to encode OCR response", "error", err)
	}
}

// requestLanguages reads the languages form value, falling back to the
// server's defaults. Codes are comma-separated.
func (s *Server) requestLanguages(r *http.Request) []string {
	raw := r.FormValue("languages")
	if raw == "" {
		raw = r.URL.Query().Get("languages")
	}
	if raw == "" {
		return s.defaultLanguages
	}
	parts := strings.Split(raw, ",")
	languages := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			languages = append(languages, p)
		}
	}
	if len(languages) == 0 {
		return s.defaultLanguages
	}
	return languages
}

// saveUpload writes the uploaded file to a temp path the engine can read.
func (s *Server) saveUpload(file io.Reader, filename string) (string, func(), error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".png"
	}
	tmp, err := os.CreateTemp("", "easyocr-upload-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	path := tmp.Name()
	return path, func() { _ = os.Remove(path) }, nil
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := OCRResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}
