package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kamilaalv/movie465/internal/users/service"
	"github.com/kamilaalv/movie465/pkg/httputil"
	"github.com/kamilaalv/movie465/pkg/pagination"
	"github.com/kamilaalv/movie465/pkg/validator"
)

// SkillHandler exposes skill management endpoints.
type SkillHandler struct {
	skills *service.SkillService
	logger *slog.Logger
}

// NewSkillHandler creates the skill handler.
func NewSkillHandler(skills *service.SkillService, logger *slog.Logger) *SkillHandler {
	return &SkillHandler{skills: skills, logger: logger}
}

type skillRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// Create handles POST /api/v1/skills.
func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	skill, err := h.skills.Create(r.Context(), req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: skill})
}

// Get handles GET /api/v1/skills/{id}.
func (h *SkillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	skill, err := h.skills.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: skill})
}

// List handles GET /api/v1/skills.
func (h *SkillHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.skills.List(r.Context(), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Update handles PUT /api/v1/skills/{id}.
func (h *SkillHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req skillRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	skill, err := h.skills.Update(r.Context(), id, req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: skill})
}

// Delete handles DELETE /api/v1/skills/{id}.
func (h *SkillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.skills.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
