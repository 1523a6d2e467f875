package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kamilaalv/movie465/internal/users/repository"
	"github.com/kamilaalv/movie465/internal/users/service"
	"github.com/kamilaalv/movie465/pkg/httputil"
	"github.com/kamilaalv/movie465/pkg/pagination"
	"github.com/kamilaalv/movie465/pkg/validator"
)

// UserHandler exposes user management endpoints.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates the user handler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type createUserRequest struct {
	UserName string  `json:"userName" validate:"required,min=3,max=50"`
	Password string  `json:"password" validate:"required,min=6,max=128"`
	Name     string  `json:"name" validate:"required,min=1,max=100"`
	Surname  string  `json:"surname" validate:"required,min=1,max=100"`
	RoleID   int64   `json:"roleId" validate:"required,gt=0"`
	SkillIDs []int64 `json:"skillIds" validate:"omitempty,dive,gt=0"`
}

type updateUserRequest struct {
	UserName string   `json:"userName" validate:"required,min=3,max=50"`
	Password string   `json:"password" validate:"omitempty,min=6,max=128"`
	Name     string   `json:"name" validate:"required,min=1,max=100"`
	Surname  string   `json:"surname" validate:"required,min=1,max=100"`
	IsActive bool     `json:"isActive"`
	RoleID   int64    `json:"roleId" validate:"required,gt=0"`
	SkillIDs *[]int64 `json:"skillIds" validate:"omitempty,dive,gt=0"`
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), service.CreateUserInput{
		UserName: req.UserName,
		Password: req.Password,
		Name:     req.Name,
		Surname:  req.Surname,
		RoleID:   req.RoleID,
		SkillIDs: req.SkillIDs,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: user})
}

// Get handles GET /api/v1/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// List handles GET /api/v1/users with optional filters.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.UserFilter{
		Name:     q.Get("name"),
		UserName: q.Get("userName"),
	}
	if v := q.Get("roleId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			filter.RoleID = id
		}
	}
	if v := q.Get("skillId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			filter.SkillID = id
		}
	}
	if v := q.Get("isActive"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsActive = &b
		}
	}

	result, err := h.users.List(r.Context(), filter, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Update handles PUT /api/v1/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req updateUserRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := h.users.Update(r.Context(), id, service.UpdateUserInput{
		UserName: req.UserName,
		Password: req.Password,
		Name:     req.Name,
		Surname:  req.Surname,
		IsActive: req.IsActive,
		RoleID:   req.RoleID,
		SkillIDs: req.SkillIDs,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// Delete handles DELETE /api/v1/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
