package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kamilaalv/movie465/internal/projects/service"
	"github.com/kamilaalv/movie465/internal/users/token"
	"github.com/kamilaalv/movie465/pkg/health"
	"github.com/kamilaalv/movie465/pkg/middleware"
)

// RouterConfig carries the dependencies for building the projects service router.
type RouterConfig struct {
	ProjectService *service.ProjectService
	TagService     *service.TagService
	WorkService    *service.WorkService
	Verifier       *token.Manager
	Health         *health.Handler
	Logger         *slog.Logger
	CORS           middleware.CORSConfig
	CacheMaxAge    int
}

// NewRouter builds the chi router for the projects service. Reads are open to
// any authenticated principal; mutations require the admin role.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("projects"))
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/healthz", cfg.Health.LivenessHandler())
	r.Get("/readyz", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	projectHandler := NewProjectHandler(cfg.ProjectService, cfg.Logger)
	tagHandler := NewTagHandler(cfg.TagService, cfg.Logger)
	workHandler := NewWorkHandler(cfg.WorkService, cfg.Logger)

	validateToken := func(tokenString string) (*middleware.Claims, error) {
		principal, err := cfg.Verifier.Verify(tokenString)
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
		r.Use(middleware.Auth(validateToken))

		resources := []struct {
			pattern string
			list    http.HandlerFunc
			get     http.HandlerFunc
			create  http.HandlerFunc
			update  http.HandlerFunc
			del     http.HandlerFunc
		}{
			{"/projects", projectHandler.List, projectHandler.Get, projectHandler.Create, projectHandler.Update, projectHandler.Delete},
			{"/tags", tagHandler.List, tagHandler.Get, tagHandler.Create, tagHandler.Update, tagHandler.Delete},
			{"/works", workHandler.List, workHandler.Get, workHandler.Create, workHandler.Update, workHandler.Delete},
		}

		for _, res := range resources {
			res := res
			r.Route(res.pattern, func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.CacheControl(cfg.CacheMaxAge))
					r.Get("/", res.list)
					r.Get("/{id}", res.get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole("admin"))
					r.Post("/", res.create)
					r.Put("/{id}", res.update)
					r.Delete("/{id}", res.del)
				})
			})
		}
	})

	return r
}
