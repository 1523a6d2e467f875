package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kamilaalv/movie465/internal/users/domain"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// RoleRepository implements repository.RoleRepository backed by PostgreSQL.
type RoleRepository struct {
	db DB
}

// NewRoleRepository creates a new PostgreSQL role repository.
func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create inserts a new role.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	query := `INSERT INTO roles (name) VALUES ($1) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, role.Name).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("role", "name", role.Name)
		}
		return fmt.Errorf("create role: %w", err)
	}

	return nil
}

// GetByID retrieves a role by primary key.
func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	query := `SELECT id, name, created_at, updated_at FROM roles WHERE id = $1`

	var role domain.Role
	err := r.db.QueryRow(ctx, query, id).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("role", id)
		}
		return nil, fmt.Errorf("get role by id: %w", err)
	}

	return &role, nil
}

// GetByName retrieves a role by unique name.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	query := `SELECT id, name, created_at, updated_at FROM roles WHERE name = $1`

	var role domain.Role
	err := r.db.QueryRow(ctx, query, name).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("role %q: %w", name, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get role by name: %w", err)
	}

	return &role, nil
}

// List retrieves roles with pagination.
func (r *RoleRepository) List(ctx context.Context, params pagination.Params) ([]domain.Role, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM roles").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count roles: %w", err)
	}

	query := `SELECT id, name, created_at, updated_at FROM roles ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan role row: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate role rows: %w", err)
	}

	return roles, total, nil
}

// Update modifies a role's name.
func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	query := `UPDATE roles SET name = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, role.ID, role.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("role", "name", role.Name)
		}
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("role", role.ID)
	}

	return nil
}

// Delete removes a role. Roles still referenced by users cannot be deleted.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM roles WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("role is assigned to existing users")
		}
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("role", id)
	}

	return nil
}
