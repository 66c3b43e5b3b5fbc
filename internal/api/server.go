// Package api exposes the study-artifact pipeline over a JSON HTTP
// API: summary, notes, and quiz generation, PDF export, and
// notes-grounded chat. Each request is independent; the only shared
// state is the artifact cache behind the generation service.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/notestream/notestream/internal/chat"
	"github.com/notestream/notestream/internal/generate"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response.
	// Generation requests block on a slow upstream model, so this is
	// generous.
	WriteTimeout = 180 * time.Second

	// IdleTimeout is the keep-alive idle limit.
	IdleTimeout = 120 * time.Second
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      *slog.Logger
	Generator   *generate.Service // Required
	Chat        *chat.Service     // Required
	CORSOrigins []string          // Allowed origins for CORS
	TrustProxy  bool              // Trust X-Real-IP/X-Forwarded-For headers
	RateRPS     float64           // Rate limiter refill per IP (0 = default 5)
	RateBurst   int               // Rate limiter burst per IP (0 = default 10)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Generator == nil {
		return nil, errors.New("generation service is required")
	}
	if cfg.Chat == nil {
		return nil, errors.New("chat service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gh := &generateHandler{service: cfg.Generator, logger: logger}
	ph := &pdfHandler{service: cfg.Generator, logger: logger}
	ch := &chatHandler{service: cfg.Chat, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/summary", gh.summary)
	mux.HandleFunc("POST /api/v1/notes", gh.notes)
	mux.HandleFunc("POST /api/v1/quiz", gh.quiz)
	mux.HandleFunc("POST /api/v1/notes/pdf", ph.notesPDF)
	mux.HandleFunc("POST /api/v1/quiz/pdf", ph.quizPDF)
	mux.HandleFunc("POST /api/v1/chat", ch.ask)

	rps := cfg.RateRPS
	if rps <= 0 {
		rps = 5.0
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 10
	}
	rl := newIPLimiter(rps, burst)

	// Middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in
	// log attributes. CORS must be before RateLimit so preflight
	// OPTIONS gets proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)
		handler.ServeHTTP(w, r)
	})

	// Health probes bypass the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run starts the HTTP server and blocks until the context is
// cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
