package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/qfilter/internal/filters"
	"github.com/ppiankov/qfilter/internal/metrics"
	"github.com/ppiankov/qfilter/internal/model"
	"github.com/ppiankov/qfilter/internal/worker"
)

// maxRequestBodySize limits POST body sizes
const maxRequestBodySize = 1 << 20 // 1 MB

// RequestIDHeader carries the per-request ID on responses
const RequestIDHeader = "X-Request-Id"

// maxRequestIDLen bounds client-supplied request IDs; longer ones are replaced
const maxRequestIDLen = 64

// Server exposes the filter editor over HTTP
type Server struct {
	cfg     model.ServerConfig
	editor  *filters.Editor
	limiter *worker.Limiter
	metrics *metrics.Metrics // nil disables /metrics
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a server. metrics may be nil.
func New(cfg model.ServerConfig, editor *filters.Editor, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		editor:  editor,
		limiter: worker.NewLimiter(cfg.RequestsPerSec, cfg.Burst, cfg.ClientIdle),
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Handler returns the routed handler with request middleware applied.
// Routes:
//
//	POST /api/resolve
//	POST /api/type
//	POST /api/toggle
//	POST /api/sidebar
//	GET  /healthz
//	GET  /metrics
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/resolve", s.instrument("resolve", s.handleResolve))
	mux.Handle("/api/type", s.instrument("type", s.handleType))
	mux.Handle("/api/toggle", s.instrument("toggle", s.handleToggle))
	mux.Handle("/api/sidebar", s.instrument("sidebar", s.handleSidebar))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "clients": s.limiter.Clients()})
	})
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	return mux
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps an API handler with request IDs, rate limiting, logging
// and metrics
func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		reqID := requestID(r)
		w.Header().Set(RequestIDHeader, reqID)

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		client := worker.ClientKey(r.RemoteAddr)

		if !s.limiter.Allow(client) {
			if s.metrics != nil {
				s.metrics.RateLimited()
			}
			writeError(rec, http.StatusTooManyRequests, "rate limit exceeded")
		} else {
			h(rec, r)
		}

		elapsed := s.now().Sub(start)
		if s.metrics != nil {
			s.metrics.ObserveRequest(endpoint, rec.code, elapsed)
		}
		s.logger.Debug("request handled",
			zap.String("request_id", reqID),
			zap.String("endpoint", endpoint),
			zap.String("client", client),
			zap.Int("status", rec.code),
			zap.Duration("elapsed", elapsed))
	})
}

// requestID returns the caller's request ID when it is a UUID, and a new one
// otherwise
func requestID(r *http.Request) string {
	id := r.Header.Get(RequestIDHeader)
	if id == "" || len(id) > maxRequestIDLen {
		return uuid.New().String()
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.New().String()
	}
	return parsed.String()
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
