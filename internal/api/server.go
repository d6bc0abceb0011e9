package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/aethermind/aethermind/internal/api/handlers"
	"github.com/aethermind/aethermind/internal/api/websocket"
	"github.com/aethermind/aethermind/internal/deckbuilder"
	"github.com/aethermind/aethermind/internal/metrics"
)

// DefaultRequestTimeout bounds a request when the config does not set one.
// Builds run for up to two minutes, so the bound sits above that.
const DefaultRequestTimeout = 150 * time.Second

var defaultOrigins = []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"}

// Server represents the REST API server.
type Server struct {
	router         *chi.Mux
	httpServer     *http.Server
	port           int
	requestTimeout time.Duration
	origins        []string
	logger         *zap.Logger

	// WebSocket hub for real-time events
	wsHub *websocket.Hub

	metrics *metrics.BuildMetrics

	decks handlers.DeckService
	cards handlers.CardSearcher
}

// Config holds configuration for the API server.
type Config struct {
	Port           int
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// NewServer creates a new API server over the deck service and card database.
func NewServer(cfg *Config, decks handlers.DeckService, cardDB handlers.CardSearcher, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	s := &Server{
		router:         chi.NewRouter(),
		port:           cfg.Port,
		requestTimeout: timeout,
		origins:        origins,
		logger:         logger.Named("api"),
		wsHub:          websocket.NewHub(cfg.AllowedOrigins, logger),
		metrics:        metrics.NewBuildMetrics(),
		decks:          decks,
		cards:          cardDB,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.requestTimeout))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Content-Type enforcement for POST/PUT/PATCH only (not GET/DELETE/OPTIONS)
	s.router.Use(s.jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the WebSocket hub and binds the listener, then serves in a goroutine.
// A bind failure is returned directly.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	go s.wsHub.Run()

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.requestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", zap.Int("port", s.port))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", zap.Error(err))
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the API server and the WebSocket hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}

// WebSocketHub returns the WebSocket hub for external integration.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

// DeckObserver returns a publisher that forwards deck events to WebSocket clients.
func (s *Server) DeckObserver() *websocket.DeckObserver {
	return websocket.NewDeckObserver(s.wsHub, s.logger)
}

// Metrics returns the build statistics served at /api/v1/metrics.
func (s *Server) Metrics() *metrics.BuildMetrics {
	return s.metrics
}

// Publisher feeds deck events to WebSocket clients and to the build metrics.
// Pass it to deckbuilder.Service.SetPublisher.
func (s *Server) Publisher() deckbuilder.Publisher {
	return deckbuilder.Publishers{s.DeckObserver(), s.metrics}
}
