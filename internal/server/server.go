// Package server implements constellar's HTTP API.
//
// Routes:
//
//	GET  /health        liveness and build information
//	GET  /tools         tool catalogue with parameters and defaults
//	POST /tools/{name}  run a tool; the body is its JSON argument object
//
// Successful tool calls return {"elements": [...]}. Failures return
// {"error": message, "code": code} with 400 for invalid input, 404 for
// unknown tools, 413 for oversized bodies and 500 otherwise.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/constellar/pkg/tools"
)

// DefaultMaxBodyBytes caps request bodies at 1 MiB.
const DefaultMaxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty disables CORS.
	CORSOrigin string
	// MaxBodyBytes limits tool argument size; 0 selects DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Server serves the tool API over HTTP.
type Server struct {
	runner  *tools.Runner
	logger  *log.Logger
	opts    Options
	router  chi.Router
	started time.Time
}

// New creates a Server that executes tools with runner. A nil logger
// selects log.Default().
func New(runner *tools.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		opts:    opts,
		started: time.Now(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors(s.opts.CORSOrigin))

	r.Get("/health", s.handleHealth)
	r.Route("/tools", func(r chi.Router) {
		r.Get("/", s.handleListTools)
		r.Post("/{name}", s.handleCallTool)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "no route for " + r.URL.Path, Code: "NOT_FOUND"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: r.Method + " not allowed on " + r.URL.Path, Code: "METHOD_NOT_ALLOWED"})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "cors", s.opts.CORSOrigin)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
