// Package server exposes the HTTP API: feed CRUD, on-demand captures,
// source validation and stored-frame access.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/feedalor/pkg/capture"
	"github.com/umputun/feedalor/pkg/domain"
	"github.com/umputun/feedalor/pkg/imagestore"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/dispatcher.go -pkg mocks -skip-ensure -fmt goimports . Dispatcher
//go:generate moq -out mocks/registry.go -pkg mocks -skip-ensure -fmt goimports . Registry
//go:generate moq -out mocks/images.go -pkg mocks -skip-ensure -fmt goimports . Images

// Server represents HTTP server instance
type Server struct {
	config     ConfigProvider
	store      Store
	dispatcher Dispatcher
	registry   Registry
	images     Images
	version    string
	debug      bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Store is the feed persistence the API needs
type Store interface {
	CreateFeed(ctx context.Context, feed *domain.Feed) error
	GetFeed(ctx context.Context, id string) (*domain.Feed, error)
	GetFeeds(ctx context.Context) ([]*domain.Feed, error)
	UpdateFeed(ctx context.Context, feed *domain.Feed) error
	DeleteFeed(ctx context.Context, id string) error
}

// Dispatcher triggers on-demand captures
type Dispatcher interface {
	CaptureNow(ctx context.Context, feedID string) error
}

// Registry exposes the registered decoders
type Registry interface {
	Resolve(name string) (capture.Decoder, error)
	Names() []string
}

// Images is the stored-frame access the API needs
type Images interface {
	Latest(feedID string) (string, error)
	History(feedID string) ([]imagestore.Frame, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// New initializes a new server instance
func New(cfg ConfigProvider, store Store, dispatcher Dispatcher, registry Registry, images Images, version string, debug bool) *Server {
	s := &Server{
		config:     cfg,
		store:      store,
		dispatcher: dispatcher,
		registry:   registry,
		images:     images,
		version:    version,
		debug:      debug,
		router:     routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("feedalor", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /decoders", s.decodersHandler)

		r.HandleFunc("GET /feeds", s.listFeedsHandler)
		r.HandleFunc("POST /feeds", s.createFeedHandler)
		r.HandleFunc("GET /feeds/{id}", s.getFeedHandler)
		r.HandleFunc("PUT /feeds/{id}", s.updateFeedHandler)
		r.HandleFunc("DELETE /feeds/{id}", s.deleteFeedHandler)
		r.HandleFunc("POST /feeds/{id}/capture", s.captureNowHandler)
		r.HandleFunc("GET /feeds/{id}/describe", s.describeFeedHandler)
	})

	s.router.HandleFunc("GET /images/{id}", s.latestImageHandler)
	s.router.HandleFunc("GET /images/{id}/history", s.imageHistoryHandler)
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// decodersHandler lists the registered decoder names
func (s *Server) decodersHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, map[string][]string{"decoders": s.registry.Names()})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
