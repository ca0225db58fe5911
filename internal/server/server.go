// Package server implements the hotspotmap HTTP preview server.
//
// The server renders uploaded floor-plans and temperature files on demand:
//
//	POST /render?format=svg&rows=64&cols=64&zoom=75000
//	  multipart fields: flp (required), temperature (optional)
//	GET  /healthz
//
// Each request is an independent render through a shared pipeline.Runner;
// converted artifacts are cached in the runner's cache (Redis when
// configured). Every request carries an X-Request-ID.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/hotspotmap/pkg/buildinfo"
	"github.com/matzehuels/hotspotmap/pkg/errors"
	"github.com/matzehuels/hotspotmap/pkg/observability"
	"github.com/matzehuels/hotspotmap/pkg/pipeline"
)

// Defaults for Config.
const (
	DefaultAddr       = "127.0.0.1:8080"
	DefaultMaxUpload  = 32 << 20
	DefaultTimeout    = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
	requestIDHeader   = "X-Request-ID"
	requestIDLogField = "request_id"
)

// Config configures the preview server.
type Config struct {
	Addr      string
	MaxUpload int64         // maximum multipart body size in bytes
	Timeout   time.Duration // per-request render timeout
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxUpload <= 0 {
		c.MaxUpload = DefaultMaxUpload
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Server serves renders over HTTP.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server rendering through runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down preview server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey struct{}

// requestID assigns every request an ID, reusing a valid incoming one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the request ID stored in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// observe reports requests to the HTTP hooks and the log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := RequestID(r.Context())
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), id, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), id, r.Method, r.URL.Path, status, elapsed)
		s.logger.Info("request",
			requestIDLogField, id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed)
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// errorBody is the JSON body of a failed request.
type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	id := RequestID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", requestIDLogField, id, "error", err)
	} else {
		s.logger.Debug("rejected request", requestIDLogField, id, "error", err)
	}
	writeJSON(w, status, errorBody{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: id,
	})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFloorplan, errors.ErrCodeInvalidTemperature,
		errors.ErrCodeInvalidLayerConfig, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidMode,
		errors.ErrCodeInvalidConfig, errors.ErrCodeTemperatureMismatch:
		return http.StatusBadRequest
	case errors.ErrCodeExternalTool:
		return http.StatusBadGateway
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query %s: %q is not an integer", name, v)
	}
	return n, nil
}

func queryFloat(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query %s: %q is not a number", name, v)
	}
	return f, nil
}
