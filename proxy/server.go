package proxy

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kagehq/failover/internal"
	"github.com/kagehq/failover/metrics"
	"github.com/kagehq/failover/state"
	"github.com/kagehq/failover/upstream"
)

// MARK: NewServer

// Creates a new proxy server bound to the given state cell and upstream
// client. primaryURL/backupURL must already be absolute (scheme+host).
func NewServer(logger *internal.Logger, cell *state.Cell, client *upstream.Client, primaryURL, backupURL *url.URL, maxBodyBytes int64, m *metrics.Metrics) *Server {
	s := &Server{
		logger:       logger,
		cell:         cell,
		client:       client,
		primaryURL:   primaryURL,
		backupURL:    backupURL,
		maxBodyBytes: maxBodyBytes,
		metrics:      m,
	}
	s.reverseProxy = s.newReverseProxy()
	return s
}

// MARK: OnFatal

// OnFatal registers a callback invoked once if the accept loop dies
// after a successful bind. Must be called before Start.
func (s *Server) OnFatal(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFatal = fn
}

// MARK: Start

// Starts the HTTP proxy server with routing and middleware. The
// listener is bound synchronously so a bind failure (e.g. port already
// in use) is returned to the caller instead of only being logged from
// a goroutine.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("proxy server already running")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRequest)
	if s.metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}

	s.httpServer = &http.Server{
		Addr:           addr,
		Handler:        s.withMinimalMiddleware(mux),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 20 << 20,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding proxy server: %w", err)
	}

	onFatal := s.onFatal

	go func() {
		s.logger.Info("Starting proxy server", "addr", addr)
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Proxy server failed", "error", err)
			if onFatal != nil {
				onFatal(err)
			}
		}
	}()

	s.running = true
	return nil
}

// MARK: Stop

// Gracefully shuts down the proxy server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.logger.Info("Stopping proxy server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutting down proxy server: %w", err)
		}
	}

	s.running = false
	return nil
}

// MARK: IsReady

func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// MARK: handleRequest

// Routes admin requests locally and forwards everything else to
// whichever upstream the state cell currently selects.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	if s.handleAdmin(w, r) {
		return
	}

	target := s.primaryURL
	if s.cell.OnBackup() {
		target = s.backupURL
	}

	if cl := r.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil && n > s.maxBodyBytes {
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		}
	}

	s.reverseProxy.ServeHTTP(w, withTarget(r, target))
}

// MARK: withMinimalMiddleware

func (s *Server) withMinimalMiddleware(handler http.Handler) http.Handler {
	return s.loggingMiddleware(s.recoveryMiddleware(handler))
}

// MARK: loggingMiddleware

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)

		s.logger.Info("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration", time.Since(start).String(),
			"remote", clientIP(r))
	})
}

// MARK: recoveryMiddleware

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("Panic", "error", err, "path", r.URL.Path, "remote", clientIP(r))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// MARK: WriteHeader

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// MARK: Write

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}
