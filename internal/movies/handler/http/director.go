package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kamilaalv/movie465/internal/movies/repository"
	"github.com/kamilaalv/movie465/internal/movies/service"
	"github.com/kamilaalv/movie465/pkg/httputil"
	"github.com/kamilaalv/movie465/pkg/pagination"
	"github.com/kamilaalv/movie465/pkg/validator"
)

// DirectorHandler exposes director CRUD endpoints.
type DirectorHandler struct {
	directors *service.DirectorService
	logger    *slog.Logger
}

// NewDirectorHandler creates the director handler.
func NewDirectorHandler(directors *service.DirectorService, logger *slog.Logger) *DirectorHandler {
	return &DirectorHandler{directors: directors, logger: logger}
}

type directorRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Surname   string `json:"surname" validate:"required,min=1,max=100"`
	IsRetired bool   `json:"isRetired"`
}

// Create handles POST /api/v1/directors.
func (h *DirectorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req directorRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	director, err := h.directors.Create(r.Context(), service.DirectorInput{
		Name:      req.Name,
		Surname:   req.Surname,
		IsRetired: req.IsRetired,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: director})
}

// Get handles GET /api/v1/directors/{id}.
func (h *DirectorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	director, err := h.directors.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: director})
}

// List handles GET /api/v1/directors with optional filters.
func (h *DirectorHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.DirectorFilter{Name: q.Get("name")}
	if v := q.Get("isRetired"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsRetired = &b
		}
	}

	result, err := h.directors.List(r.Context(), filter, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Update handles PUT /api/v1/directors/{id}.
func (h *DirectorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req directorRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	director, err := h.directors.Update(r.Context(), id, service.DirectorInput{
		Name:      req.Name,
		Surname:   req.Surname,
		IsRetired: req.IsRetired,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: director})
}

// Delete handles DELETE /api/v1/directors/{id}.
func (h *DirectorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.directors.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
