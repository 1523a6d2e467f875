package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kamilaalv/movie465/internal/movies/config"
	moviehttp "github.com/kamilaalv/movie465/internal/movies/handler/http"
	"github.com/kamilaalv/movie465/internal/movies/migrations"
	"github.com/kamilaalv/movie465/internal/movies/repository/postgres"
	"github.com/kamilaalv/movie465/internal/movies/service"
	"github.com/kamilaalv/movie465/internal/users/token"
	"github.com/kamilaalv/movie465/pkg/database"
	"github.com/kamilaalv/movie465/pkg/health"
	"github.com/kamilaalv/movie465/pkg/middleware"
	"github.com/kamilaalv/movie465/pkg/tracing"
)

// App wires together the movies service dependencies and owns their lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	server          *http.Server
	pool            *pgxpool.Pool
	shutdownTracing func(context.Context) error
}

// New builds the movies service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	shutdownTracing, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "movies",
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

	verifier, err := token.NewVerifier(cfg.JWTSecret)
	if err != nil {
		pool.Close()
		return nil, err
	}

	movieRepo := postgres.NewMovieRepository(pool)
	directorRepo := postgres.NewDirectorRepository(pool)
	genreRepo := postgres.NewGenreRepository(pool)

	movieService := service.NewMovieService(movieRepo, directorRepo, genreRepo, logger)
	directorService := service.NewDirectorService(directorRepo, logger)
	genreService := service.NewGenreService(genreRepo, logger)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.CORSAllowedOrigins
	corsConfig.Environment = cfg.Environment

	router := moviehttp.NewRouter(moviehttp.RouterConfig{
		MovieService:    movieService,
		DirectorService: directorService,
		GenreService:    genreService,
		Verifier:        verifier,
		Health:          healthHandler,
		Logger:          logger,
		CORS:            corsConfig,
		CacheMaxAge:     cfg.CacheMaxAge,
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
		shutdownTracing: shutdownTracing,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("movies service listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down movies service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if err := a.shutdownTracing(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown", slog.String("error", err.Error()))
	}

	return nil
}
