// Package api serves the cipher operations, the detector and the crackers
// over HTTP with JSON bodies.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RowanDark/monocrack/internal/crack"
	"github.com/RowanDark/monocrack/internal/logging"
	"github.com/RowanDark/monocrack/internal/observability/metrics"
	"github.com/RowanDark/monocrack/internal/runner"
)

// maxBodyBytes bounds request bodies; ciphertexts are small.
const maxBodyBytes = 1 << 20

// Config configures the REST API server.
type Config struct {
	Addr string
	// Defaults fills the search settings a crack request leaves unset.
	Defaults crack.Request
	// CrackTimeout bounds a single crack. Zero means no limit beyond the
	// client's own.
	CrackTimeout time.Duration
	Logger       *logging.EventLogger
}

// Server exposes the REST endpoints.
type Server struct {
	cfg        Config
	httpServer *http.Server
	logger     *logging.EventLogger
	runner     *runner.Runner
}

// NewServer constructs a REST API server using the provided configuration.
func NewServer(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("api address must be provided")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard("api")
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		runner: &runner.Runner{Defaults: cfg.Defaults, Timeout: cfg.CrackTimeout, Logger: logger},
	}, nil
}

// Handler returns the routes of the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.route(mux, "/api/v1/languages", s.handleLanguages)
	s.route(mux, "/api/v1/operations", s.handleOperations)
	s.route(mux, "/api/v1/cipher/execute", s.handleCipherExecute)
	s.route(mux, "/api/v1/cipher/pipeline", s.handleCipherPipeline)
	s.route(mux, "/api/v1/cipher/detect", s.handleCipherDetect)
	s.route(mux, "/api/v1/crack", s.handleCrack)
	return mux
}

// route registers h under pattern and records request metrics for it.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r.Body = http.MaxBytesReader(rec, r.Body, maxBodyBytes)
		metrics.RecordRequest("http", pattern)
		h(rec, r)
		code := strconv.Itoa(rec.status)
		if rec.status >= 400 {
			metrics.RecordError("http", pattern, code)
		}
		metrics.ObserveRequestLatency("http", pattern, code, time.Since(start))
	}))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Run starts the HTTP server and blocks until the provided context is cancelled or a fatal error occurs.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve serves the API on lis until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.Serve(lis)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		_ = s.httpServer.Shutdown(shutdownCtx)
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = s.logger.Emit(logging.Event{EventType: logging.EventServiceLifecycle, Error: "encode response: " + err.Error()})
	}
}

// writeContextError answers a request whose context ended. It reports
// whether ctx had ended.
func writeContextError(w http.ResponseWriter, ctx context.Context) bool {
	switch ctx.Err() {
	case nil:
		return false
	case context.Canceled:
		http.Error(w, "request canceled", http.StatusRequestTimeout)
	default:
		http.Error(w, "request timeout", http.StatusGatewayTimeout)
	}
	return true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}
