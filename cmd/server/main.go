package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/taskboard/api/internal/config"
	"github.com/taskboard/api/internal/database"
	"github.com/taskboard/api/internal/handlers"
	"github.com/taskboard/api/internal/logger"
	"github.com/taskboard/api/internal/middleware"
	"github.com/taskboard/api/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("rate_limit", cfg.RateLimit),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "taskboard-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect to database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	// Ensure schema, sentinel project and shared statuses exist
	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer migrateCancel()
	if err := db.Migrate(migrateCtx); err != nil {
		zapLogger.Fatal("failed_to_migrate_database", zap.Error(err))
	}
	if err := db.SeedStatuses(migrateCtx); err != nil {
		zapLogger.Fatal("failed_to_seed_statuses", zap.Error(err))
	}

	// Rate limiting is optional; it needs Redis when enabled
	var rateLimitMW func(http.Handler) http.Handler
	if cfg.RateLimit {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("invalid_redis_url", zap.Error(err))
		}
		redisClient := redis.NewClient(opts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		rateLimitMW, err = middleware.RateLimit(redisClient, cfg.RateLimitRate)
		if err != nil {
			zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
		}
		zapLogger.Info("rate_limiting_enabled", zap.String("rate", cfg.RateLimitRate))
	}

	// Initialize repositories
	projectRepo := database.NewProjectRepository(db)
	statusRepo := database.NewStatusRepository(db)
	taskRepo := database.NewTaskRepository(db)
	todoRepo := database.NewTodoRepository(db)

	// Initialize handlers
	projectHandler := handlers.NewProjectHandler(projectRepo, zapLogger)
	statusHandler := handlers.NewStatusHandler(statusRepo, zapLogger)
	taskHandler := handlers.NewTaskHandler(taskRepo, zapLogger)
	todoHandler := handlers.NewTodoHandler(todoRepo, zapLogger)
	healthChecker := handlers.NewHealthChecker(db)

	// Setup router
	r := mux.NewRouter()

	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware("taskboard-api"))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORSFromEnv(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Recovery(zapLogger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(zapLogger))

	// Health checks stay outside the rate limit
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	if rateLimitMW != nil {
		apiRouter.Use(rateLimitMW)
	}

	projectHandler.RegisterRoutes(apiRouter.PathPrefix("/projects").Subrouter())
	statusHandler.RegisterRoutes(apiRouter.PathPrefix("/statuses").Subrouter())

	tasksRouter := apiRouter.PathPrefix("/tasks").Subrouter()
	taskHandler.RegisterRoutes(tasksRouter)
	todoHandler.RegisterTaskRoutes(tasksRouter)

	todoHandler.RegisterRoutes(apiRouter.PathPrefix("/todos").Subrouter())

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}
