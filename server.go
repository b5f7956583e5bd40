package transitlos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/transit-los/config"
	"github.com/theoremus-urban-solutions/transit-los/loader"
	"github.com/theoremus-urban-solutions/transit-los/los"
	"github.com/theoremus-urban-solutions/transit-los/maplayer"
	"github.com/theoremus-urban-solutions/transit-los/metrics"
	"github.com/theoremus-urban-solutions/transit-los/session"
)

// Server is the HTTP API over a session store
type Server struct {
	cfg      config.AppConfig
	logger   *zap.Logger
	table    *los.Table
	window   los.Window
	store    *SessionStore
	feeds    *FeedCache
	fetcher  *loader.Fetcher
	server   *http.Server
	shutdown time.Duration
}

// NewServer validates cfg into domain values and creates a server.
func NewServer(cfg config.AppConfig, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	window, err := cfg.DefaultWindow()
	if err != nil {
		return nil, err
	}
	fetcher := loader.NewFetcher(cfg.LoaderTimeout())
	return &Server{
		cfg:      cfg,
		logger:   logger,
		table:    table,
		window:   window,
		store:    NewSessionStore(),
		feeds:    NewFeedCache(fetcher, cfg.Weekday(), logger),
		fetcher:  fetcher,
		shutdown: 10 * time.Second,
	}, nil
}

// Store returns the session store.
func (s *Server) Store() *SessionStore { return s.store }

// NewSession creates a session with the configured table, window,
// grouping and style. Sessions draw on an in-memory surface read back by
// the layers endpoint.
func (s *Server) NewSession() *session.Session {
	return session.New(session.Options{
		Table:    s.table,
		Window:   s.window,
		Strategy: s.cfg.KeyStrategy(),
		Style:    s.cfg.LineStyle(),
		Surface:  maplayer.NewMemorySurface(),
		Logger:   s.logger,
	})
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	origins := s.cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/legend", s.handleDefaultLegend)
		r.Get("/feeds", s.handleFeeds)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.withSession(s.handleGetSession))
			r.Delete("/", s.handleDeleteSession)
			r.Get("/routes", s.withSession(s.handleRoutes))
			r.Get("/legend", s.withSession(s.handleLegend))
			r.Get("/window", s.withSession(s.handleGetWindow))
			r.Put("/window", s.withSession(s.handleSetWindow))
			r.Post("/routes/{route}/{action}", s.withSession(s.handleRouteAction))
			r.Post("/trips/{trip}/{action}", s.withSession(s.handleTripAction))
			r.Get("/trips/{trip}/departures", s.withSession(s.handleDepartures))
			r.Post("/show-all", s.withSession(s.handleShowAll))
			r.Post("/hide-all", s.withSession(s.handleHideAll))
			r.Get("/layers", s.withSession(s.handleLayers))
			r.Get("/bounds", s.withSession(s.handleBounds))
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// Start listens on the configured port in the background.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("Server error", zap.Error(err))
		}
	}()
	s.logger.Info("Server listening", zap.String("addr", addr))
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// HandleGracefulShutdown blocks until SIGINT or SIGTERM, then shuts the
// server down.
func (s *Server) HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	s.logger.Info("Shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		s.logger.Error("Server shutdown error", zap.Error(err))
		return
	}
	s.logger.Info("Server shut down successfully")
}
