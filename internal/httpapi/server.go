package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/baliomega/nextflix/internal/config"
	"github.com/baliomega/nextflix/internal/engine"
	"github.com/baliomega/nextflix/internal/logging"
	"github.com/baliomega/nextflix/internal/search"
	"github.com/baliomega/nextflix/internal/services"
)

const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API for one engine.
type Server struct {
	bind      string
	logger    *slog.Logger
	engine    *engine.Engine
	debouncer *search.Debouncer
	router    *mux.Router
	server    *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New builds the router and http.Server. Searches are debounced per session
// unless search.debounce_ms is zero.
func New(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) *Server {
	s := &Server{
		bind:   strings.TrimSpace(cfg.Server.Bind),
		logger: logging.NewComponentLogger(logger, "api-server"),
		engine: eng,
	}
	if cfg.Search.DebounceMillis > 0 {
		s.debouncer = search.NewDebouncer(time.Duration(cfg.Search.DebounceMillis)*time.Millisecond, eng.Metrics())
	}

	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware, s.observeMiddleware)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", eng.Metrics().Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware(cfg.Server.APIToken))
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	api.HandleFunc("/collection", s.handleListCollection).Methods(http.MethodGet)
	api.HandleFunc("/collection", s.handleAddEntry).Methods(http.MethodPost)
	api.HandleFunc("/collection/{id}", s.handleGetEntry).Methods(http.MethodGet)
	api.HandleFunc("/collection/{id}", s.handleRateEntry).Methods(http.MethodPatch)
	api.HandleFunc("/collection/{id}", s.handleDeleteEntry).Methods(http.MethodDelete)
	api.HandleFunc("/export/{format}", s.handleExport).Methods(http.MethodGet)
	api.HandleFunc("/import", s.handleImport).Methods(http.MethodPost)
	api.HandleFunc("/settings/content-filter", s.handleGetContentFilter).Methods(http.MethodGet)
	api.HandleFunc("/settings/content-filter", s.handlePutContentFilter).Methods(http.MethodPut)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found", "")
	})
	s.router = r

	s.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured bind address and serves until ctx ends.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "api-server", "listen", s.bind, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api server shutdown incomplete", logging.Error(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message, hint string) {
	s.writeJSON(w, status, errorResponse{Error: message, Hint: hint})
}

// writeFailure maps an engine error onto a status code and logs server-side
// failures.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := services.HTTPStatus(err)
	hint := services.Hint(err)
	if status >= http.StatusInternalServerError {
		attrs := []logging.Attr{logging.Error(err)}
		if hint != "" {
			attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
		}
		logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), fmt.Sprintf("%s failed", operation), "api_failure", attrs...)
	}
	s.writeError(w, status, err.Error(), hint)
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return services.Wrap(services.ErrValidation, "api-server", "decode body", "invalid JSON body", err)
	}
	return nil
}
