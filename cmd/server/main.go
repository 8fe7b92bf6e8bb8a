package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/config"
	"github.com/stemsi/schoolbot-backend/internal/database"
	"github.com/stemsi/schoolbot-backend/internal/gateway"
	"github.com/stemsi/schoolbot-backend/internal/handler"
	"github.com/stemsi/schoolbot-backend/internal/logger"
	"github.com/stemsi/schoolbot-backend/internal/middleware"
	"github.com/stemsi/schoolbot-backend/internal/rbac"
	"github.com/stemsi/schoolbot-backend/internal/repository"
	"github.com/stemsi/schoolbot-backend/internal/router"
	"github.com/stemsi/schoolbot-backend/internal/service"
	"github.com/stemsi/schoolbot-backend/internal/tools"
	"github.com/stemsi/schoolbot-backend/internal/validator"
	"github.com/stemsi/schoolbot-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting SchoolBot Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Permission Catalog ────────────────────────────────────────────
	// A broken role table must stop the process before it serves traffic.
	catalog, err := rbac.NewCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid permission catalog")
	}
	policy := rbac.NewPolicy(catalog, rbac.ClaimLinkage{})

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	tenantRepo := repository.NewTenantRepository(pool)
	store := repository.NewStore(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService, err := service.NewAuthService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid token configuration")
	}
	tenantService := service.NewTenantService(tenantRepo, rdb, cfg.RedisCacheTTL, log)
	loginService := service.NewLoginService(tenantService, store, authService, log)

	gw := gateway.New(store, tenantService, policy, cfg.QueryTimeout, log)
	registry, err := tools.NewSchoolRegistry(gw, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register tools")
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	if cfg.AuditEnabled {
		registry.SetRecorder(worker.NewAuditQueue(rdb, log))
		auditWorker := worker.NewAuditWorker(pool, rdb, log)
		go func() {
			defer close(workerDone)
			auditWorker.Start(workerCtx)
		}()
	} else {
		close(workerDone)
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	health := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"postgres": pool.Ping,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})
	handlers := &router.Handlers{
		Auth:   handler.NewAuthHandler(loginService, catalog, log),
		Tool:   handler.NewToolHandler(registry, log),
		Admin:  handler.NewAdminHandler(tenantService, log),
		Health: health,
	}

	limiter := middleware.NewRateLimiter(cfg.APIRateLimit, time.Minute)
	stopCleanup := make(chan struct{})
	limiter.StartCleanup(stopCleanup)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(router.Deps{
		Identity:    authService,
		Catalog:     catalog,
		RateLimiter: limiter,
		Log:         log,
	}, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Int("tools", len(registry.Definitions())).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	close(stopCleanup)

	// Stop background workers and wait for the audit buffer to drain.
	workerCancel()
	<-workerDone

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
