package service

import (
	"context"
	"log/slog"

	"github.com/kamilaalv/movie465/internal/users/domain"
	"github.com/kamilaalv/movie465/internal/users/repository"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// RoleService implements role management.
type RoleService struct {
	roles  repository.RoleRepository
	logger *slog.Logger
}

// NewRoleService creates the role service.
func NewRoleService(roles repository.RoleRepository, logger *slog.Logger) *RoleService {
	return &RoleService{roles: roles, logger: logger}
}

// Create adds a new role.
func (s *RoleService) Create(ctx context.Context, name string) (*domain.Role, error) {
	role := &domain.Role{Name: name}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "role created",
		slog.Int64("role_id", role.ID),
		slog.String("name", role.Name),
	)

	return role, nil
}

// GetByID retrieves a single role.
func (s *RoleService) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	return s.roles.GetByID(ctx, id)
}

// List retrieves roles with pagination.
func (s *RoleService) List(ctx context.Context, params pagination.Params) (pagination.Result[domain.Role], error) {
	roles, total, err := s.roles.List(ctx, params)
	if err != nil {
		return pagination.Result[domain.Role]{}, err
	}
	return pagination.NewResult(roles, total, params), nil
}

// Update renames a role.
func (s *RoleService) Update(ctx context.Context, id int64, name string) (*domain.Role, error) {
	role := &domain.Role{ID: id, Name: name}
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return s.roles.GetByID(ctx, id)
}

// Delete removes a role that no user references.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	return s.roles.Delete(ctx, id)
}
