package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/constellar/pkg/cache"
	"github.com/matzehuels/constellar/pkg/observability"
	"github.com/matzehuels/constellar/pkg/tools"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.New(io.Discard)
	return New(tools.NewRunner(c, nil, logger), logger, opts)
}

func do(s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Options{})
	w := do(s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "constellar", resp.Service)
	assert.NotEmpty(t, resp.Build.Version)
}

func TestListTools(t *testing.T) {
	s := newTestServer(t, Options{})
	w := do(s, http.MethodGet, "/tools", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tools []struct {
			Name       string `json:"name"`
			Parameters []struct {
				Name     string `json:"name"`
				Required bool   `json:"required"`
			} `json:"parameters"`
		} `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Tools, 9)
	assert.Equal(t, "create_advanced_flowchart", resp.Tools[0].Name)
	assert.Equal(t, "create_text_standalone", resp.Tools[8].Name)
	assert.Equal(t, "nodes", resp.Tools[0].Parameters[0].Name)
	assert.True(t, resp.Tools[0].Parameters[0].Required)
}

func TestCallTool(t *testing.T) {
	s := newTestServer(t, Options{})

	t.Run("returns elements", func(t *testing.T) {
		w := do(s, http.MethodPost, "/tools/create_rectangle", `{"x": 10, "y": 20, "label": "API"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

		var resp struct {
			Elements []map[string]any `json:"elements"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Elements, 2)
		assert.Equal(t, "rectangle", resp.Elements[0]["type"])
		assert.Equal(t, 200.0, resp.Elements[0]["width"])
		assert.Equal(t, "text", resp.Elements[1]["type"])
		assert.Equal(t, resp.Elements[0]["id"], resp.Elements[1]["containerId"])
	})

	t.Run("empty body lacks required arguments", func(t *testing.T) {
		w := do(s, http.MethodPost, "/tools/create_flowchart", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", decodeError(t, w).Code)
	})

	t.Run("seeded calls are cached", func(t *testing.T) {
		body := `{"title": "Deploy", "steps": ["Build", "Ship"], "seed": 3}`
		first := do(s, http.MethodPost, "/tools/create_flowchart", body)
		require.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

		second := do(s, http.MethodPost, "/tools/create_flowchart", body)
		require.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
		assert.JSONEq(t, first.Body.String(), second.Body.String())
	})
}

func TestCallToolErrors(t *testing.T) {
	s := newTestServer(t, Options{MaxBodyBytes: 64})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown tool", "/tools/create_hexagon", `{}`, http.StatusNotFound, "UNKNOWN_TOOL"},
		{"invalid json", "/tools/create_rectangle", `{"x": `, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing argument", "/tools/create_rectangle", `{"x": 1}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"invalid style", "/tools/create_rectangle", `{"x": 1, "y": 1, "strokeStyle": "wavy"}`, http.StatusBadRequest, "INVALID_STYLE"},
		{"duplicate node", "/tools/create_advanced_flowchart", `{"nodes": [{"id": "a"}, {"id": "a"}]}`, http.StatusBadRequest, "DUPLICATE_NODE"},
		{"body too large", "/tools/create_rectangle", `{"x": 1, "y": 1, "label": "` + strings.Repeat("x", 100) + `"}`, http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			body := decodeError(t, w)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestRouting(t *testing.T) {
	s := newTestServer(t, Options{})

	w := do(s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Code)

	w = do(s, http.MethodGet, "/tools/create_rectangle", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORS(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		s := newTestServer(t, Options{CORSOrigin: "*"})
		req := httptest.NewRequest(http.MethodOptions, "/tools/create_rectangle", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		s.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("fixed origin", func(t *testing.T) {
		s := newTestServer(t, Options{CORSOrigin: "https://excalidraw.com"})
		w := do(s, http.MethodGet, "/health", "")
		assert.Equal(t, "https://excalidraw.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("disabled", func(t *testing.T) {
		s := newTestServer(t, Options{})
		w := do(s, http.MethodGet, "/health", "")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

type recordingHTTPHooks struct {
	mu       sync.Mutex
	statuses []int
	errors   int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestRequestLogging(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	logger := log.New(&buf)
	s := New(tools.NewRunner(nil, nil, log.New(io.Discard)), logger, Options{})

	do(s, http.MethodGet, "/health", "")
	do(s, http.MethodPost, "/tools/nope", "{}")

	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, hooks.statuses)
	assert.Equal(t, 1, hooks.errors)
	assert.Contains(t, buf.String(), "path=/health")
	assert.Contains(t, buf.String(), "status=404")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "1 MiB", humanBytes(1<<20))
	assert.Equal(t, "2 KiB", humanBytes(2048))
	assert.Equal(t, "64 bytes", humanBytes(64))
}

func TestListenAndServe(t *testing.T) {
	s := newTestServer(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
