package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FarhanLodi/EasyOcrSharp/internal/engine"
	"github.com/FarhanLodi/EasyOcrSharp/internal/geometry"
	"github.com/FarhanLodi/EasyOcrSharp/internal/testutil"
)

func dialWebSocket(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ocr/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readResponses(t *testing.T, conn *websocket.Conn) []WebSocketOCRResponse {
	t.Helper()

	var responses []WebSocketOCRResponse
	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var resp WebSocketOCRResponse
		require.NoError(t, json.Unmarshal(data, &resp))
		responses = append(responses, resp)
		if resp.Status == "completed" || resp.Status == "error" {
			return responses
		}
	}
}

func TestWebSocketOCRStream(t *testing.T) {
	provider := &testutil.FakeProvider{
		DetectionsByKey: map[string][]engine.RawDetection{
			engine.CacheKey([]string{"ja", "en"}, false): {
				{
					Polygon: []geometry.Point{
						{X: 10, Y: 10}, {X: 100, Y: 10},
						{X: 100, Y: 30}, {X: 10, Y: 30},
					},
					Text:       "こんにちは",
					Confidence: 0.9,
				},
			},
		},
	}
	srv := newTestServer(t, provider, "ja", "ko", "en")
	conn := dialWebSocket(t, srv)

	imageData, err := os.ReadFile(testutil.WriteTestImage(t, "hello"))
	require.NoError(t, err)

	req := WebSocketOCRRequest{Image: imageData, Filename: "page.png", Languages: []string{"ja", "ko"}}
	require.NoError(t, conn.WriteJSON(req))

	responses := readResponses(t, conn)
	require.GreaterOrEqual(t, len(responses), 3, "expect processing, group updates, and completion")

	assert.Equal(t, "processing", responses[0].Status)

	var groupDone int
	for _, resp := range responses[1 : len(responses)-1] {
		if resp.Status == "group_done" {
			groupDone++
		}
	}
	assert.Equal(t, 2, groupDone, "one update per language group")

	final := responses[len(responses)-1]
	assert.Equal(t, "completed", final.Status)
	assert.Equal(t, 1.0, final.Progress)
	assert.NotNil(t, final.Result)
}

func TestWebSocketRejectsEmptyImage(t *testing.T) {
	srv := newTestServer(t, &testutil.FakeProvider{}, "en")
	conn := dialWebSocket(t, srv)

	require.NoError(t, conn.WriteJSON(WebSocketOCRRequest{}))

	responses := readResponses(t, conn)
	final := responses[len(responses)-1]
	assert.Equal(t, "error", final.Status)
	assert.Equal(t, "invalid_request", final.ErrorType)
}
