package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	adminapp "github.com/akuan1997/concertweb/api/internal/admin/application"
	"github.com/akuan1997/concertweb/api/internal/config"
	mongodoc "github.com/akuan1997/concertweb/api/internal/infrastructure/mongo"
	adminhttp "github.com/akuan1997/concertweb/api/internal/interfaces/http/admin"
	commonhttp "github.com/akuan1997/concertweb/api/internal/interfaces/http/common"
	publichttp "github.com/akuan1997/concertweb/api/internal/interfaces/http/public"
	"github.com/akuan1997/concertweb/api/internal/metrics"
	publicapp "github.com/akuan1997/concertweb/api/internal/public/application"
)

const shutdownTimeout = 10 * time.Second

// Server manages the HTTP lifecycle and is the composition root wiring the
// repositories, application services and handlers together.
type Server struct {
	logger            *slog.Logger
	client            *mongo.Client
	database          *mongo.Database
	concertCollection string
	location          *time.Location
	addr              string
	allowedOrigins    []string
	requestTimeout    time.Duration
	defaultLimit      int
	maxLimit          int
	dateSearchMode    publicapp.DateSearchMode
	auth              jwtVerifier
	adminEnabled      bool
	metrics           *metrics.Recorder
	concertQueries    publicapp.ConcertQueryService
	indexService      adminapp.IndexService
}

// New builds a Server from cfg. The Mongo client must already be connected.
func New(cfg config.Config, client *mongo.Client, logger *slog.Logger) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{
		logger:            logger,
		client:            client,
		database:          client.Database(cfg.MongoDatabase),
		concertCollection: cfg.ConcertCollection,
		location:          loc,
		addr:              cfg.HTTPAddr,
		allowedOrigins:    append([]string(nil), cfg.AllowedOrigins...),
		requestTimeout:    cfg.RequestTimeout,
		defaultLimit:      cfg.DefaultPageLimit,
		maxLimit:          cfg.MaxPageLimit,
		dateSearchMode:    publicapp.DateSearchMode(cfg.DateSearchMode),
		auth: jwtVerifier{
			secret:   []byte(cfg.AdminJWTSecret),
			issuer:   cfg.AdminJWTIssuer,
			audience: cfg.AdminJWTAudience,
		},
		adminEnabled: cfg.AdminEnabled(),
		metrics:      metrics.NewRecorder(),
	}

	concertRepo := mongodoc.NewConcertRepository(srv.database, cfg.ConcertCollection)
	indexRepo := mongodoc.NewIndexRepository(srv.database, cfg.ConcertCollection)
	srv.concertQueries = publicapp.NewConcertQueryService(concertRepo,
		publicapp.WithLocation(loc),
		publicapp.WithDateSearchMode(srv.dateSearchMode),
		publicapp.WithIndexCoverage(indexRepo, publicapp.DefaultCoverageTTL),
		publicapp.WithObserver(srv.metrics),
	)
	srv.indexService = adminapp.NewIndexService(indexRepo, loc)

	return srv, nil
}

// Handler assembles the router with its middleware chain.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(commonhttp.RequestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(s.metrics.Middleware)
	router.Use(newCORS(s.allowedOrigins).Handler)

	router.Get("/healthz", s.healthHandler())
	router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:       s.logger,
		Concerts:     s.concertQueries,
		DefaultLimit: s.defaultLimit,
		MaxLimit:     s.maxLimit,
		Timeout:      s.requestTimeout,
	})
	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:       s.logger,
		IndexService: s.indexService,
	})

	router.Route("/api", func(r chi.Router) {
		publicHandler.Register(r)
		if s.adminEnabled {
			r.Route("/admin", func(ar chi.Router) {
				ar.Use(s.authMiddleware)
				adminHandler.Register(ar)
			})
		}
	})
	return router
}

// Run serves HTTP until ctx is cancelled or the listener fails, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.prepareStore(ctx)

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", "addr", s.addr, "date_search_mode", s.dateSearchMode, "admin", s.adminEnabled)
		errChan <- httpServer.ListenAndServe()
	}()

	return s.waitForShutdown(ctx, httpServer, errChan)
}

// prepareStore creates the collection indexes and warns when indexed date search
// has to fall back to scanning because some concerts lack performance times.
func (s *Server) prepareStore(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mongodoc.EnsureIndexes(ctx, s.database, s.concertCollection); err != nil {
		s.logger.Warn("ensure concert indexes failed", "error", err)
	}
	if s.dateSearchMode != publicapp.DateSearchIndexed {
		return
	}
	status, err := s.indexService.Status(ctx)
	if err != nil {
		s.logger.Warn("performance index status unavailable", "error", err)
		return
	}
	if status.Missing > 0 {
		s.logger.Warn("concerts without performance index; date search scans until the rebuild runs",
			"missing", status.Missing,
			"total", status.Total,
		)
	}
}

// newCORS returns the CORS policy for the configured origins; "*" allows any origin.
func newCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	})
}

// healthHandler reports whether MongoDB answers a ping.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.logger.WarnContext(r.Context(), "health check: mongo ping failed",
				"request_id", middleware.GetReqID(r.Context()),
				"error", err,
			)
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
			})
			return
		}
		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().In(s.location).Format(time.RFC3339),
		})
	}
}

// waitForShutdown blocks until the listener fails or ctx ends, then drains
// in-flight requests and disconnects from MongoDB.
func (s *Server) waitForShutdown(ctx context.Context, httpServer *http.Server, errChan <-chan error) error {
	var serveErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
			s.logger.Error("http server stopped unexpectedly", "error", err)
		}
	case <-ctx.Done():
		s.logger.Info("shutdown requested", "reason", context.Cause(ctx))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown failed", "error", err)
		}
	}

	s.shutdown()
	return serveErr
}

// shutdown disconnects the Mongo client with a bounded timeout.
func (s *Server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Error("mongo disconnect failed", "error", err)
	}
}
