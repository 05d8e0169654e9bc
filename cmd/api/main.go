// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/talentgrid/internal/account"
	"github.com/carterperez-dev/talentgrid/internal/admin"
	"github.com/carterperez-dev/talentgrid/internal/app"
	"github.com/carterperez-dev/talentgrid/internal/auth"
	"github.com/carterperez-dev/talentgrid/internal/config"
	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/health"
	"github.com/carterperez-dev/talentgrid/internal/lead"
	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/metrics"
	"github.com/carterperez-dev/talentgrid/internal/middleware"
	"github.com/carterperez-dev/talentgrid/internal/onboarding"
	"github.com/carterperez-dev/talentgrid/internal/post"
	"github.com/carterperez-dev/talentgrid/internal/reconcile"
	"github.com/carterperez-dev/talentgrid/internal/server"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := app.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", "ES256",
		"key_id", tokens.GetKeyID(),
	)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	svcs, err := app.NewServices(ctx, cfg, db, m, logger)
	if err != nil {
		return err
	}
	logger.Info("media providers configured",
		"image_provider", cfg.Media.Image.Provider,
	)

	authSvc := auth.NewService(tokens, svcs.Accounts, auth.NewRevocationStore(redis.Client), logger)
	cookies := auth.NewCookieWriter(cfg.Session, cfg.IsProduction())

	committer := onboarding.NewCommitter(svcs.Accounts, svcs.Media, onboarding.Limits{
		ImageMaxBytes: cfg.Media.Image.MaxBytes,
		VideoMaxBytes: cfg.Media.Video.ReelMaxBytes,
	}, m)
	onboardingSvc := onboarding.NewService(
		onboarding.NewDraftStore(redis.Client, cfg.Onboarding.DraftTTL),
		svcs.Accounts,
		committer,
		logger,
	)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Accounts:   svcs.Accounts,
		Posts:      svcs.Posts,
		Leads:      svcs.Leads,
		Reconciler: svcs.Reconcile,
		Pools: admin.Pools{
			DBStats:    db.Stats,
			RedisStats: redis.PoolStats,
			DBPing:     db.Ping,
			RedisPing:  redis.Ping,
		},
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if m != nil {
		router.Use(m.Instrument)
	}
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", tokens.GetJWKSHandler())
	if m != nil {
		router.Handle(cfg.Metrics.Path, m.Handler())
	}

	authenticator := middleware.Authenticator(authSvc, cookies.Name())
	refresh := middleware.RefreshStatus(svcs.Accounts, cfg.Session.RefreshTimeout, logger)
	protected := func(next http.Handler) http.Handler {
		return authenticator(refresh(next))
	}

	strict := func(scope string) func(http.Handler) http.Handler {
		return middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.AuthRequests,
				cfg.RateLimit.AuthBurst,
			),
			KeyFunc:  middleware.KeyByIPScoped(scope),
			FailOpen: true,
		}).Handler
	}

	perAccount := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerHour(
			cfg.RateLimit.MediaRequests,
			cfg.RateLimit.MediaBurst,
		),
		KeyFunc:  middleware.KeyByAccountAndEndpoint,
		FailOpen: true,
	}).Handler
	uploads := func(next http.Handler) http.Handler {
		return protected(perAccount(next))
	}

	router.Route("/v1", func(r chi.Router) {
		auth.NewHandler(authSvc, cookies).RegisterRoutes(r, authenticator, strict("auth"))
		account.NewHandler(svcs.Accounts).RegisterRoutes(r, protected)
		onboarding.NewHandler(onboardingSvc, cfg.Server.MaxUploadBytes).RegisterRoutes(r, protected)
		media.NewHandler(svcs.Media).RegisterRoutes(r, uploads)
		reconcile.NewHandler(svcs.Reconcile).RegisterRoutes(r, uploads)
		post.NewHandler(svcs.Posts, cfg.Server.MaxUploadBytes).RegisterRoutes(r, protected)
		lead.NewHandler(svcs.Leads).RegisterRoutes(r, strict("leads"))
		adminHandler.RegisterRoutes(r, protected)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}
