package internal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/pacelog/pacelog/internal/auth"
	"github.com/pacelog/pacelog/internal/coach"
	"github.com/pacelog/pacelog/internal/config"
	"github.com/pacelog/pacelog/internal/db"
	"github.com/pacelog/pacelog/internal/middleware"
	"github.com/pacelog/pacelog/internal/races"
	"github.com/pacelog/pacelog/internal/telemetry/metrics"
	"github.com/pacelog/pacelog/internal/telemetry/tracing"
	"github.com/pacelog/pacelog/internal/training"
	"github.com/pacelog/pacelog/pkg"

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
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient *redis.Client
	authService *auth.Service
	jwtChecker  *auth.JWTChecker
	jwtSecret   string

	coachClient *coach.Client
	coachTips   *coach.TipsManager

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	JWTSecret               string
	GeminiAPIKey            string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if err := db.Migrate(
		ctx,
		params.Config.PostgresHost,
		params.Config.PostgresPort,
		params.Config.PostgresDBName,
	); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("pacelog", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewService(auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "pacelog-backend")
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient: rdb,
		authService: authService,
		jwtChecker:  auth.NewJWTChecker(params.JWTSecret),
		jwtSecret:   params.JWTSecret,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	tipsCsvFile, err := os.Open(params.Config.CoachTipsCsvPath)
	if err != nil {
		return nil, fmt.Errorf("open coach tips file: %w", err)
	}
	defer func() {
		if err := tipsCsvFile.Close(); err != nil {
			log.Warnf("close coach tips csv file: %s", err)
		}
	}()

	s.coachTips, err = coach.NewTipsManager(csv.NewReader(tipsCsvFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create coach tips manager: %s", err)
	}

	if params.GeminiAPIKey != "" {
		s.coachClient, err = coach.NewClient(ctx, params.GeminiAPIKey, params.Config.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("new coach client: %w", err)
		}
	} else {
		log.Warnln("gemini api key not set, coach will serve static tips only")
	}

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
	}).Methods("GET", "OPTIONS").Name("root")
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET", "OPTIONS").Name("version")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)

	usersRepo := auth.NewUsersRepo(s.dbPool)
	authHandler := auth.NewHandler(usersRepo, s.authService, s.jwtSecret)
	authRouter := r.PathPrefix("/a").Subrouter()
	authRouter.HandleFunc("/login", authHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	authRouter.HandleFunc("/register", authHandler.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	authRouter.HandleFunc("/token", authHandler.HandleToken).Methods("POST", "OPTIONS").Name("token")
	authRouter.HandleFunc("/logout", authHandler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")
	// rate limit the auth endpoints to prevent abuse
	authRouter.Use(middleware.RateLimit(
		reqRateLimiter, "auth",
		s.config.LoginRateLimitAllowedPerMin,
		s.metricsManager,
	))

	trainingRepo := training.NewRepo(s.dbPool)
	analyzer := training.NewAnalyzer(trainingRepo)
	trainingHandler := training.NewHandler(trainingRepo, analyzer, s.metricsManager)
	r.HandleFunc("/progress", trainingHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-entry")
	r.HandleFunc("/progress", trainingHandler.HandleList).Methods("GET", "OPTIONS").Name("list-entries")
	r.HandleFunc("/progress/weekly-summary", trainingHandler.HandleWeeklySummary).Methods("GET", "OPTIONS").Name("weekly-summary")
	r.HandleFunc("/progress/streak", trainingHandler.HandleStreak).Methods("GET", "OPTIONS").Name("streak")
	r.HandleFunc("/progress/stats", trainingHandler.HandleStats).Methods("GET", "OPTIONS").Name("stats")
	r.HandleFunc("/progress/{id}", trainingHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-entry")
	r.HandleFunc("/progress/{id}", trainingHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-entry")

	racesRepo := races.NewRepo(s.dbPool)
	racesHandler := races.NewHandler(racesRepo)
	r.HandleFunc("/races", racesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-races")

	coachHandler := coach.NewHandler(
		s.coachGenerator(),
		analyzer,
		racesRepo,
		s.coachTips,
		s.metricsManager,
	)
	r.HandleFunc("/coach/ask", coachHandler.HandleAsk).Methods("POST", "OPTIONS").Name("coach-ask")
	r.HandleFunc("/coach/recommendations", coachHandler.HandleRecommendations).Methods("POST", "OPTIONS").Name("coach-recommendations")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authService, s.jwtChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

// coachGenerator returns the gemini client, or an always-failing stub when
// no api key was provided, which makes the handler fall back to static tips.
func (s *Server) coachGenerator() coach.TextGenerator {
	if s.coachClient != nil {
		return s.coachClient
	}
	return unavailableGenerator{}
}

type unavailableGenerator struct{}

func (unavailableGenerator) GenerateText(context.Context, string) (string, error) {
	return "", errors.New("coach model not configured")
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

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

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.coachClient != nil {
		if err := s.coachClient.Close(); err != nil {
			log.Errorf("failed to close coach client: %s", err)
		}
	}

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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
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
