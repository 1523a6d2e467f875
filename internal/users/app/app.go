package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kamilaalv/movie465/internal/users/config"
	"github.com/kamilaalv/movie465/internal/users/event"
	userhttp "github.com/kamilaalv/movie465/internal/users/handler/http"
	"github.com/kamilaalv/movie465/internal/users/migrations"
	"github.com/kamilaalv/movie465/internal/users/ratelimit"
	"github.com/kamilaalv/movie465/internal/users/repository/postgres"
	"github.com/kamilaalv/movie465/internal/users/service"
	"github.com/kamilaalv/movie465/internal/users/token"
	"github.com/kamilaalv/movie465/pkg/database"
	"github.com/kamilaalv/movie465/pkg/health"
	"github.com/kamilaalv/movie465/pkg/kafka"
	"github.com/kamilaalv/movie465/pkg/middleware"
	"github.com/kamilaalv/movie465/pkg/tracing"
)

// App wires together the users service dependencies and owns their lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	server          *http.Server
	pool            *pgxpool.Pool
	redisClient     *redis.Client
	producer        *kafka.Producer
	shutdownTracing func(context.Context) error
}

// New builds the users service: database pool, migrations, token manager,
// repositories, services, and the HTTP server.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	shutdownTracing, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "users",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.TraceSampleRate,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.PostgresConfig(), logger)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	// Redis backs the login rate limiter; the limiter fails open, so a
	// missing Redis degrades protection rather than availability.
	var redisClient *redis.Client
	if cfg.RedisEnabled {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisConfig())
		if err != nil {
			logger.Warn("redis unavailable, login rate limiting disabled",
				slog.String("error", err.Error()),
			)
			redisClient = nil
		}
	}

	var producer *kafka.Producer
	events := event.NewProducer(nil, logger)
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewProducer(producer, logger)
	}

	tokenManager, err := token.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		pool.Close()
		return nil, err
	}

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	skillRepo := postgres.NewSkillRepository(pool)

	limiter := ratelimit.NewLoginLimiter(redisClient, cfg.LoginRateLimit, cfg.LoginRateWindow, logger)

	authService := service.NewAuthService(userRepo, tokenManager, cfg.RefreshTokenTTL, limiter, events, logger)
	userService := service.NewUserService(userRepo, events, logger)
	roleService := service.NewRoleService(roleRepo, logger)
	skillService := service.NewSkillService(skillRepo, logger)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.CORSAllowedOrigins
	corsConfig.Environment = cfg.Environment

	router := userhttp.NewRouter(userhttp.RouterConfig{
		AuthService:  authService,
		UserService:  userService,
		RoleService:  roleService,
		SkillService: skillService,
		Health:       healthHandler,
		Logger:       logger,
		CORS:         corsConfig,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		server:          server,
		pool:            pool,
		redisClient:     redisClient,
		producer:        producer,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled, then
// shuts everything down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("users service listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down users service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close", slog.String("error", err.Error()))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close", slog.String("error", err.Error()))
		}
	}
	a.pool.Close()

	if err := a.shutdownTracing(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown", slog.String("error", err.Error()))
	}

	return nil
}
