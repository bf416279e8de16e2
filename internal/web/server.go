// Package web serves synthesized audio artifacts over HTTP.
//
// The surface is deliberately small: GET /audio/{name} streams one
// artifact, GET /health answers liveness probes. Every failure on the
// audio route is a plain 404 so the response never reveals whether a
// name was rejected for safety or simply absent.
package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/voxd/voxd/internal/artifact"
)

// ServerConfig contains configuration for the artifact server.
type ServerConfig struct {
	Logger     *slog.Logger
	Store      *artifact.Store // Required
	TrustProxy bool            // Trust X-Real-IP/X-Forwarded-For (behind reverse proxy)
	RateRPS    float64         // Token refill rate per IP (0 = default 10/sec)
	RateBurst  int             // Rate limiter burst size per IP (0 = default 30)
}

// Server is the artifact-serving HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates the artifact server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("artifact store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ah := &audioHandler{store: cfg.Store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /audio/{name}", ah.serve)

	rps := cfg.RateRPS
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 30
	}
	rl := newRateLimiter(rps, burst)

	// Middleware stack (outermost first): Recovery → Logging → RateLimit → Routes
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Health probes bypass the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// audioHandler streams stored artifacts.
type audioHandler struct {
	store  *artifact.Store
	logger *slog.Logger
}

// serve handles GET /audio/{name}. Unsafe names, absent files, and
// read errors all collapse into the same 404.
func (h *audioHandler) serve(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	f, err := h.store.Open(name)
	if err != nil {
		h.logger.Debug("audio request refused", "name", name, "error", err)
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, "", info.ModTime(), f)
}

// health is a simple health check endpoint for container probes.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
