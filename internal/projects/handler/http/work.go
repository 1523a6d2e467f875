package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kamilaalv/movie465/internal/projects/repository"
	"github.com/kamilaalv/movie465/internal/projects/service"
	"github.com/kamilaalv/movie465/pkg/httputil"
	"github.com/kamilaalv/movie465/pkg/pagination"
	"github.com/kamilaalv/movie465/pkg/validator"
)

// WorkHandler exposes work CRUD endpoints.
type WorkHandler struct {
	works  *service.WorkService
	logger *slog.Logger
}

// NewWorkHandler creates the work handler.
func NewWorkHandler(works *service.WorkService, logger *slog.Logger) *WorkHandler {
	return &WorkHandler{works: works, logger: logger}
}

type workRequest struct {
	Name        string    `json:"name" validate:"required,min=1,max=300"`
	Description string    `json:"description" validate:"max=2000"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	ProjectID   *int64    `json:"projectId" validate:"omitempty,gt=0"`
}

func (req workRequest) toInput() service.WorkInput {
	return service.WorkInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
	}
}

// Create handles POST /api/v1/works.
func (h *WorkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req workRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	work, err := h.works.Create(r.Context(), req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: work})
}

// Get handles GET /api/v1/works/{id}.
func (h *WorkHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	work, err := h.works.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: work})
}

// List handles GET /api/v1/works with optional filters.
func (h *WorkHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.WorkFilter{Name: q.Get("name")}
	if v := q.Get("projectId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			filter.ProjectID = id
		}
	}

	result, err := h.works.List(r.Context(), filter, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Update handles PUT /api/v1/works/{id}.
func (h *WorkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req workRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	work, err := h.works.Update(r.Context(), id, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: work})
}

// Delete handles DELETE /api/v1/works/{id}.
func (h *WorkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.works.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
