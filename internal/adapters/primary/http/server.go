package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
	"github.com/fredcamaral/deckforge/internal/domain/services"
)

// DeckPipeline is the part of the deck service the HTTP layer drives
type DeckPipeline interface {
	Generate(ctx context.Context, req services.GenerateRequest) (*services.GenerateResult, error)
	Preview(ctx context.Context, req entities.OutlineRequest) (entities.Outline, entities.OutlineSource, error)
}

// Server exposes the deck pipeline over HTTP
type Server struct {
	server   *http.Server
	pipeline DeckPipeline
	config   *entities.ServerConfig
	logger   ports.Logger
	limiter  *rateLimiter
	mu       sync.RWMutex
	running  bool
}

// NewServer creates a new HTTP server.
// config must not be nil - use config.DefaultConfig().Server if needed
func NewServer(pipeline DeckPipeline, config *entities.ServerConfig, logger ports.Logger) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid ServerConfig")
	}
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &Server{
		pipeline: pipeline,
		config:   config,
		logger:   logger,
		limiter:  newRateLimiter(requestsPerMinute, time.Minute),
	}
}

// Start starts the HTTP server in the background
func (s *Server) Start(_ context.Context, port int, host string) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           s.Handler(),
		ReadTimeout:       s.config.GetReadTimeout(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.config.GetWriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		s.logger.Info("HTTP server starting on %s:%d", host, port)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.GetShutdownTimeout())
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.running = false
	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Handler returns the routed handler with middleware and CORS applied
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.GetCORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return c.Handler(s.setupRoutes())
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/index.html", s.handleIndex).Methods(http.MethodGet)

	router.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	router.HandleFunc("/outline", s.handleOutline).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "Not Found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// Apply middleware in order: security -> rate limiting -> logging -> recovery
	var handler http.Handler = router
	handler = securityHeadersMiddleware(handler, s.config.IsDevelopment())
	handler = rateLimitMiddleware(handler, s.limiter)
	handler = createLoggingMiddleware(handler, s.logger)
	handler = createRecoveryMiddleware(handler, s.logger)

	return handler
}
