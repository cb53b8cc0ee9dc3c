// Package web serves the companion API a host-side bridge uses to drive
// import sessions: it pushes host snapshots and events in and pulls markers,
// edits and notifications out.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/slhn-import/internal/prefs"
	"github.com/slhn-import/internal/reproject"
	"github.com/slhn-import/internal/session"
	"github.com/slhn-import/internal/web/handlers"
	"github.com/slhn-import/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *Config
	logger     *zap.Logger
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
	store      *handlers.Store
	prefs      *prefs.Prefs
}

// NewServer creates a new web server instance
func NewServer(config *Config, source session.AddressSource, proj reproject.Transformer, p *prefs.Prefs, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	server := &Server{
		config: config,
		logger: logger,
		store:  handlers.NewStore(source, proj, p, config.Session, logger),
		prefs:  p,
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Store returns the session store
func (s *Server) Store() *handlers.Store {
	return s.store
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	sessionHandler := &handlers.SessionHandler{Store: s.store, Logger: s.logger}
	prefsHandler := &handlers.PrefsHandler{Prefs: s.prefs}
	healthHandler := &handlers.HealthHandler{Store: s.store}

	api := s.router.PathPrefix("/api").Subrouter()

	// Session lifecycle
	api.HandleFunc("/sessions", sessionHandler.CreateSession).Methods("POST")
	api.HandleFunc("/sessions/{id}", sessionHandler.DeleteSession).Methods("DELETE")

	// Host model and events pushed by the bridge
	api.HandleFunc("/sessions/{id}/host", sessionHandler.PutHost).Methods("PUT")
	api.HandleFunc("/sessions/{id}/events", sessionHandler.PostEvent).Methods("POST")

	// Tool actions
	api.HandleFunc("/sessions/{id}/load", sessionHandler.Load).Methods("POST")
	api.HandleFunc("/sessions/{id}/clear", sessionHandler.Clear).Methods("POST")
	api.HandleFunc("/sessions/{id}/filters", sessionHandler.PutFilters).Methods("PUT")
	api.HandleFunc("/sessions/{id}/click", sessionHandler.Click).Methods("POST")
	api.HandleFunc("/sessions/{id}/suggestion/apply", sessionHandler.ApplySuggestion).Methods("POST")

	// Read side
	api.HandleFunc("/sessions/{id}/state", sessionHandler.GetState).Methods("GET")
	api.HandleFunc("/sessions/{id}/markers", sessionHandler.GetMarkers).Methods("GET")
	api.HandleFunc("/sessions/{id}/streets", sessionHandler.GetStreets).Methods("GET")
	api.HandleFunc("/sessions/{id}/edits", sessionHandler.DrainEdits).Methods("GET")
	api.HandleFunc("/sessions/{id}/notifications", sessionHandler.DrainNotifications).Methods("GET")

	// Preferences
	api.HandleFunc("/prefs", prefsHandler.GetPrefs).Methods("GET")
	api.HandleFunc("/prefs", prefsHandler.PutPrefs).Methods("PUT")

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.HandleFunc("/healthz", healthHandler.Health).Methods("GET")

	s.router.Use(middleware.RequestLogging(s.logger))
	api.Use(middleware.Authentication(s.config.Auth.APIKey))

	// CORS wraps the router so preflight requests never reach route matching
	s.handler = middleware.CORS()(s.router)
}

// Start runs the server until SIGINT/SIGTERM or ctx is done, then shuts
// down gracefully
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", "http://"+s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
