package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		return true
	},
}

// WebSocketOCRRequest represents an OCR request via WebSocket. Image bytes
// arrive base64-encoded in the JSON payload.
type WebSocketOCRRequest struct {
	Image     []byte   `json:"image"`
	Filename  string   `json:"filename,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

// WebSocketOCRResponse represents a streamed OCR response message.
type WebSocketOCRResponse struct {
	Type      string      `json:"type"`
	Status    string      `json:"status"` // "processing", "group_done", "completed", "error"
	Progress  float64     `json:"progress,omitempty"`
	Languages []string    `json:"languages,omitempty"`
	Lines     int         `json:"lines,omitempty"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorType string      `json:"error_type,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// WebSocketConnWriter is the subset of the websocket connection the response
// helpers need.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// ocrWebSocketHandler handles WebSocket connections for streamed OCR.
func (s *Server) ocrWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)
	s.handleWebSocketConnection(r.Context(), conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(ctx context.Context, conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Keep the connection alive between requests.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(ctx, conn, data)
		}
	}
}

// handleWebSocketMessage processes one OCR request message.
func (s *Server) handleWebSocketMessage(ctx context.Context, conn *websocket.Conn, data []byte) {
	var req WebSocketOCRRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}
	if len(req.Image) == 0 {
		s.sendWebSocketError(conn, "invalid_request", "No image data provided")
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	imagePath, cleanup, err := s.saveUploadBytes(req.Image, req.Filename)
	if err != nil {
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Failed to store image: %v", err))
		return
	}
	defer cleanup()

	languages := req.Languages
	if len(languages) == 0 {
		languages = s.defaultLanguages
	}

	if s.timeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.timeoutSec)*time.Second)
		defer cancel()
	}

	s.sendWebSocketResponse(conn, WebSocketOCRResponse{
		Type:      "ocr_response",
		Status:    "processing",
		Progress:  0.0,
		RequestID: requestID,
	})

	progress := &websocketProgress{server: s, conn: conn, requestID: requestID}

	start := time.Now()
	result, err := s.service.ExtractTextWithProgress(ctx, imagePath, languages, progress)
	duration := time.Since(start)

	if err != nil {
		ocrRequestsTotal.WithLabelValues("websocket_image", "error").Inc()
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("OCR processing failed: %v", err))
		return
	}

	ocrRequestsTotal.WithLabelValues("websocket_image", "success").Inc()
	ocrProcessingDuration.WithLabelValues("websocket_image").Observe(duration.Seconds())
	ocrTextLength.WithLabelValues("websocket_image").Observe(float64(len(result.FullText)))
	ocrLinesDetected.WithLabelValues("websocket_image").Observe(float64(len(result.Lines)))

	s.sendWebSocketResponse(conn, WebSocketOCRResponse{
		Type:      "ocr_response",
		Status:    "completed",
		Progress:  1.0,
		Result:    result,
		RequestID: requestID,
	})
}

// websocketProgress streams per-group progress back to the client.
type websocketProgress struct {
	server    *Server
	conn      *websocket.Conn
	requestID string

	mu    sync.Mutex
	total int
	done  int
}

func (p *websocketProgress) OnStart(totalGroups int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = totalGroups
}

func (p *websocketProgress) OnGroupDone(languages []string, lines int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	progress := 0.0
	if p.total > 0 {
		progress = float64(p.done) / float64(p.total)
	}
	msg := WebSocketOCRResponse{
		Type:      "ocr_response",
		Status:    "group_done",
		Progress:  progress,
		Languages: languages,
		Lines:     lines,
		RequestID: p.requestID,
	}
	if err != nil {
		msg.Error = err.Error()
	}
	p.server.sendWebSocketResponse(p.conn, msg)
}

func (p *websocketProgress) OnComplete() {}

// saveUploadBytes writes raw image bytes to a temp path.
func (s *Server) saveUploadBytes(data []byte, filename string) (string, func(), error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".png"
	}
	tmp, err := os.CreateTemp("", "easyocr-ws-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
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

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn WebSocketConnWriter, response WebSocketOCRResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, errorType, message string) {
	s.sendWebSocketResponse(conn, WebSocketOCRResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
	})
}
