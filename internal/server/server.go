// Package server serves the dn-house site: the home page, the letter form,
// the guestbook, the photo menu and the upload form.
//
// Every request builds its own page model from [pages]; the server keeps no
// per-visitor state. Backend access goes through the interfaces below so the
// handlers are tested against in-memory fakes.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/denoseu/dn-house/pkg/pages"
	"github.com/denoseu/dn-house/pkg/pipeline"
)

// DefaultRequestTimeout bounds every request, including backend calls.
const DefaultRequestTimeout = 60 * time.Second

// Guestbook reads and writes guestbook entries.
type Guestbook interface {
	pages.EntryCreator
	pages.EntryLister
}

// Config holds server configuration.
type Config struct {
	Addr           string
	AllowedOrigins []string
	RequestTimeout time.Duration

	// Menu is the base pipeline configuration of the menu page; the seed
	// can be overridden per request.
	Menu pipeline.Options
}

// Server is the site server.
type Server struct {
	cfg        Config
	guestbook  Guestbook
	photos     pages.PhotoUploader
	runner     *pipeline.Runner
	logger     *log.Logger
	tmpl       *renderer
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies. A nil logger discards output.
func New(cfg Config, guestbook Guestbook, photos pages.PhotoUploader, runner *pipeline.Runner, logger *log.Logger) (*Server, error) {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, "", logger)
	}

	tmpl, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		guestbook: guestbook,
		photos:    photos,
		runner:    runner,
		logger:    logger,
		tmpl:      tmpl,
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", s.handleHome)
	r.Get("/letter", s.handleLetterForm)
	r.Post("/letter", s.handleLetterSend)
	r.Get("/guestbook", s.handleGuestbook)
	r.Get("/menu", s.handleMenu)
	r.Get("/menu/layout.json", s.handleMenuLayout)
	r.Get("/upload", s.handleUploadForm)
	r.Post("/upload", s.handleUploadSubmit)
	r.NotFound(s.handleNotFound)

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address and blocks until the server stops.
// It returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	s.logger.Info("dn-house listening", "addr", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
