package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/constellar/pkg/buildinfo"
	"github.com/matzehuels/constellar/pkg/errors"
	"github.com/matzehuels/constellar/pkg/observability"
	"github.com/matzehuels/constellar/pkg/tools"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string         `json:"status"`
	Service string         `json:"service"`
	Uptime  string         `json:"uptime"`
	Build   buildinfo.Info `json:"build"`
}

// ToolsResponse is the body of GET /tools.
type ToolsResponse struct {
	Tools []tools.Tool `json:"tools"`
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "constellar",
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Build:   buildinfo.Get(),
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ToolsResponse{Tools: tools.List()})
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
				Error: "request body exceeds " + humanBytes(tooLarge.Limit),
				Code:  string(errors.ErrCodeInvalidInput),
			})
			return
		}
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}

	res, hit, err := s.runner.RunWithCacheInfo(r.Context(), name, json.RawMessage(body))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("tool failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsInvalidInput(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeUnknownTool), errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return strconv.FormatInt(n>>20, 10) + " MiB"
	case n >= 1<<10 && n%(1<<10) == 0:
		return strconv.FormatInt(n>>10, 10) + " KiB"
	default:
		return strconv.FormatInt(n, 10) + " bytes"
	}
}
