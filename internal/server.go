package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jbrinkw/luna-ext-coachbyte/internal/config"
	"github.com/jbrinkw/luna-ext-coachbyte/internal/db"
	"github.com/jbrinkw/luna-ext-coachbyte/internal/middleware"
	"github.com/jbrinkw/luna-ext-coachbyte/internal/telemetry/metrics"
	"github.com/jbrinkw/luna-ext-coachbyte/internal/timer"
	"github.com/jbrinkw/luna-ext-coachbyte/internal/workout"
	workoutmcp "github.com/jbrinkw/luna-ext-coachbyte/internal/workout/mcp"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

const defaultTimerFilePath = "timer.json"

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config *config.Config
	dbPool *pgxpool.Pool

	workoutService *workout.Service
	restTimer      timer.Service
	mcpServer      *mcp.Server

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

func NewServer(
	ctx context.Context,
	cfg *config.Config,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     cfg.PostgresPassword,
		SearchPath:     cfg.PostgresSearchPath,
		TracingEnabled: cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("coachbyte", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	var restTimer timer.Service
	switch cfg.TimerBackend {
	case "db":
		restTimer = timer.NewDBTimer(dbPool)
	default:
		timerPath := cfg.TimerFilePath
		if timerPath == "" {
			timerPath = defaultTimerFilePath
		}
		restTimer = timer.NewFileTimer(timerPath)
	}

	dayClock := workout.NewDayClock(cfg.DayTimeZone, cfg.DayStartTime)
	workoutService := workout.NewService(
		workout.NewRepo(dbPool),
		restTimer,
		dayClock,
		metricsManager,
	)

	return &Server{
		config:         cfg,
		dbPool:         dbPool,
		workoutService: workoutService,
		restTimer:      restTimer,
		mcpServer:      workoutmcp.NewServer(workoutService, restTimer),
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("coachbyte-router"))

	workoutHandler := workout.NewHandler(s.workoutService)
	r.HandleFunc("/health", workoutHandler.HandleHealth).Methods("GET", "OPTIONS").Name("health")
	r.HandleFunc("/", workoutHandler.HandleRoot).Methods("GET", "OPTIONS").Name("root")
	r.HandleFunc("/complete-set", workoutHandler.HandleCompleteSet).Methods("POST", "OPTIONS").Name("complete-set")

	// the same MCP server is also reachable over stdio via cmd/coachbyte_mcp
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	r.PathPrefix("/mcp").Handler(mcpHandler).Name("mcp")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.config.APIKey)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())

	return r
}

func (s *Server) Serve(_ context.Context) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
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
