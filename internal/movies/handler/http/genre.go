package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kamilaalv/movie465/internal/movies/service"
	"github.com/kamilaalv/movie465/pkg/httputil"
	"github.com/kamilaalv/movie465/pkg/pagination"
	"github.com/kamilaalv/movie465/pkg/validator"
)

// GenreHandler exposes genre CRUD endpoints.
type GenreHandler struct {
	genres *service.GenreService
	logger *slog.Logger
}

// NewGenreHandler creates the genre handler.
func NewGenreHandler(genres *service.GenreService, logger *slog.Logger) *GenreHandler {
	return &GenreHandler{genres: genres, logger: logger}
}

type genreRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// Create handles POST /api/v1/genres.
func (h *GenreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req genreRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	genre, err := h.genres.Create(r.Context(), req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: genre})
}

// Get handles GET /api/v1/genres/{id}.
func (h *GenreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	genre, err := h.genres.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: genre})
}

// List handles GET /api/v1/genres.
func (h *GenreHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.genres.List(r.Context(), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Update handles PUT /api/v1/genres/{id}.
func (h *GenreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req genreRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	genre, err := h.genres.Update(r.Context(), id, req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: genre})
}

// Delete handles DELETE /api/v1/genres/{id}.
func (h *GenreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.genres.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
