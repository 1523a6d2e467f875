package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kamilaalv/movie465/internal/movies/repository"
	"github.com/kamilaalv/movie465/internal/movies/service"
	"github.com/kamilaalv/movie465/pkg/httputil"
	"github.com/kamilaalv/movie465/pkg/pagination"
	"github.com/kamilaalv/movie465/pkg/validator"
)

// MovieHandler exposes movie CRUD endpoints.
type MovieHandler struct {
	movies *service.MovieService
	logger *slog.Logger
}

// NewMovieHandler creates the movie handler.
func NewMovieHandler(movies *service.MovieService, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{movies: movies, logger: logger}
}

type movieRequest struct {
	Name         string     `json:"name" validate:"required,min=1,max=200"`
	ReleaseDate  *time.Time `json:"releaseDate"`
	TotalRevenue float64    `json:"totalRevenue" validate:"gte=0"`
	DirectorID   int64      `json:"directorId" validate:"required,gt=0"`
	GenreIDs     []int64    `json:"genreIds" validate:"omitempty,dive,gt=0"`
}

func (req movieRequest) toInput() service.MovieInput {
	return service.MovieInput{
		Name:         req.Name,
		ReleaseDate:  req.ReleaseDate,
		TotalRevenue: req.TotalRevenue,
		DirectorID:   req.DirectorID,
		GenreIDs:     req.GenreIDs,
	}
}

// Create handles POST /api/v1/movies.
func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req movieRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	movie, err := h.movies.Create(r.Context(), req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: movie})
}

// Get handles GET /api/v1/movies/{id}.
func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	movie, err := h.movies.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: movie})
}

// List handles GET /api/v1/movies with optional filters.
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.MovieFilter{Name: q.Get("name")}
	if v := q.Get("directorId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			filter.DirectorID = id
		}
	}
	if v := q.Get("genreId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			filter.GenreID = id
		}
	}

	result, err := h.movies.List(r.Context(), filter, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Update handles PUT /api/v1/movies/{id}.
func (h *MovieHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req movieRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	movie, err := h.movies.Update(r.Context(), id, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: movie})
}

// Delete handles DELETE /api/v1/movies/{id}.
func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.movies.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
