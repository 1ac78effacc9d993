package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/quizserver/internal/auth"
	"github.com/2beens/quizserver/internal/config"
	"github.com/2beens/quizserver/internal/db"
	"github.com/2beens/quizserver/internal/login"
	"github.com/2beens/quizserver/internal/middleware"
	"github.com/2beens/quizserver/internal/pages"
	"github.com/2beens/quizserver/internal/quiz"
	"github.com/2beens/quizserver/internal/telemetry/metrics"
	"github.com/2beens/quizserver/internal/telemetry/tracing"
	"github.com/2beens/quizserver/pkg"
)

const serviceName = "quiz-backend"

// protected API paths, on top of the gated pages
var protectedPathsPrefixes = []string{"/api/editor/"}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	versionInfo string
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	contentStore *quiz.Store
	verifier     *auth.CredentialsVerifier
	sessionGuard *auth.SessionGuard

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	Secrets                 *config.Secrets
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets
	if cfg == nil || secrets == nil {
		return nil, errors.New("config and secrets must be set")
	}
	if secrets.AdminUsername == "" || secrets.AdminPassword == "" || secrets.AuthToken == "" {
		return nil, fmt.Errorf("%w: admin username, admin password and auth token are required", config.ErrMissingSecret)
	}

	var (
		dbPool          *pgxpool.Pool
		extraCollectors []prometheus.Collector
		contentSource   quiz.Source
		err             error
	)
	switch cfg.ContentSource {
	case config.ContentSourcePostgres:
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     secrets.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
		contentSource = quiz.NewPsqlSource(dbPool)
	default:
		if exists, err := pkg.PathExists(cfg.QuizDataPath, false); err != nil || !exists {
			log.Warnf("quiz data file [%s] not usable (exists: %t): %v", cfg.QuizDataPath, exists, err)
		}
		contentSource = quiz.NewFileSource(cfg.QuizDataPath)
	}

	if exists, err := pkg.PathExists(cfg.PublicDir, true); err != nil || !exists {
		log.Warnf("public dir [%s] not usable (exists: %t): %v", cfg.PublicDir, exists, err)
	}

	promRegistry := metrics.SetupPrometheus(extraCollectors...)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	var rdb *redis.Client
	if cfg.RedisHost != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: secrets.RedisPassword,
			DB:       0, // use default DB
		})

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, serviceName, rdb)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		dbPool:      dbPool,
		redisClient: rdb,

		contentStore: quiz.NewStore(contentSource, cfg.ContentCacheTTLSeconds, metricsManager),
		verifier: auth.NewCredentialsVerifier(auth.Admin{
			Username: secrets.AdminUsername,
			Password: secrets.AdminPassword,
		}),
		sessionGuard: auth.NewSessionGuard(secrets.AuthToken, cfg.IsProduction()),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if rdb != nil && cfg.LoginRateLimitAllowedPerMin > 0 {
		s.rateLimiter = redis_rate.NewLimiter(rdb)
	}

	log.Debugf("session cookie secure: %t, content source: %s", cfg.IsProduction(), cfg.ContentSource)

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/health", s.handleHealth).Methods("GET").Name("health")

	loginHandler := login.NewHandler(s.verifier, s.sessionGuard, s.metricsManager)
	loginHandler.SetupRoutes(r, s.rateLimiter, s.config.LoginRateLimitAllowedPerMin)

	quizHandler := quiz.NewHandler(s.contentStore)
	quizHandler.SetupRoutes(r)

	// must be last, serves static files for all the remaining paths
	pagesHandler := pages.NewHandler(s.config.PublicDir)
	pagesHandler.SetupRoutes(r)

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.sessionGuard,
		s.metricsManager,
		pages.ProtectedPaths,
		protectedPathsPrefixes,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.redisClient != nil {
		if err := s.redisClient.Ping(ctx).Err(); err != nil {
			log.Errorf("health check, redis ping: %s", err)
			pkg.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "redis unavailable"})
			return
		}
	}

	if s.dbPool != nil {
		if err := s.dbPool.Ping(ctx); err != nil {
			log.Errorf("health check, db ping: %s", err)
			pkg.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "db unavailable"})
			return
		}
	}

	pkg.WriteJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: s.versionInfo,
	})
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
