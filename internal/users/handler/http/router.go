package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kamilaalv/movie465/internal/users/service"
	"github.com/kamilaalv/movie465/pkg/health"
	"github.com/kamilaalv/movie465/pkg/middleware"
)

// RouterConfig carries the dependencies for building the users service router.
type RouterConfig struct {
	AuthService  *service.AuthService
	UserService  *service.UserService
	RoleService  *service.RoleService
	SkillService *service.SkillService
	Health       *health.Handler
	Logger       *slog.Logger
	CORS         middleware.CORSConfig
}

// NewRouter builds the chi router with the full middleware stack and all
// user, role, skill, and auth routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("users"))
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/healthz", cfg.Health.LivenessHandler())
	r.Get("/readyz", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	authHandler := NewAuthHandler(cfg.AuthService, cfg.Logger)
	userHandler := NewUserHandler(cfg.UserService, cfg.Logger)
	roleHandler := NewRoleHandler(cfg.RoleService, cfg.Logger)
	skillHandler := NewSkillHandler(cfg.SkillService, cfg.Logger)

	validateToken := func(tokenString string) (*middleware.Claims, error) {
		principal, err := cfg.AuthService.ValidateAccessToken(tokenString)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID:   principal.UserID,
			UserName: principal.UserName,
			Role:     principal.Role,
		}, nil
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Post("/auth/token", authHandler.Token)
		r.Post("/auth/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validateToken))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole("admin"))
					r.Post("/", userHandler.Create)
					r.Put("/{id}", userHandler.Update)
					r.Delete("/{id}", userHandler.Delete)
				})
			})

			r.Route("/roles", func(r chi.Router) {
				r.Get("/", roleHandler.List)
				r.Get("/{id}", roleHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole("admin"))
					r.Post("/", roleHandler.Create)
					r.Put("/{id}", roleHandler.Update)
					r.Delete("/{id}", roleHandler.Delete)
				})
			})

			r.Route("/skills", func(r chi.Router) {
				r.Get("/", skillHandler.List)
				r.Get("/{id}", skillHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole("admin"))
					r.Post("/", skillHandler.Create)
					r.Put("/{id}", skillHandler.Update)
					r.Delete("/{id}", skillHandler.Delete)
				})
			})
		})
	})

	return r
}
