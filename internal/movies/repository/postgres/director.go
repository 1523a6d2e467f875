package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kamilaalv/movie465/internal/movies/domain"
	"github.com/kamilaalv/movie465/internal/movies/repository"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// DirectorRepository implements repository.DirectorRepository backed by PostgreSQL.
type DirectorRepository struct {
	db DB
}

// NewDirectorRepository creates a new PostgreSQL director repository.
func NewDirectorRepository(db DB) *DirectorRepository {
	return &DirectorRepository{db: db}
}

// Create inserts a new director.
func (r *DirectorRepository) Create(ctx context.Context, director *domain.Director) error {
	query := `
		INSERT INTO directors (name, surname, is_retired)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, director.Name, director.Surname, director.IsRetired).
		Scan(&director.ID, &director.CreatedAt, &director.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create director: %w", err)
	}

	return nil
}

// GetByID retrieves a director by primary key.
func (r *DirectorRepository) GetByID(ctx context.Context, id int64) (*domain.Director, error) {
	query := `SELECT id, name, surname, is_retired, created_at, updated_at FROM directors WHERE id = $1`

	var d domain.Director
	err := r.db.QueryRow(ctx, query, id).
		Scan(&d.ID, &d.Name, &d.Surname, &d.IsRetired, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("director", id)
		}
		return nil, fmt.Errorf("get director by id: %w", err)
	}

	return &d, nil
}

// List retrieves directors matching the filter with pagination.
func (r *DirectorRepository) List(ctx context.Context, filter repository.DirectorFilter, params pagination.Params) ([]domain.Director, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR surname ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filter.Name+"%")
		argPos++
	}
	if filter.IsRetired != nil {
		conditions = append(conditions, fmt.Sprintf("is_retired = $%d", argPos))
		args = append(args, *filter.IsRetired)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM directors WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count directors: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, name, surname, is_retired, created_at, updated_at FROM directors
		WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		where, argPos, argPos+1,
	)
	args = append(args, params.PerPage, params.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list directors: %w", err)
	}
	defer rows.Close()

	var directors []domain.Director
	for rows.Next() {
		var d domain.Director
		if err := rows.Scan(&d.ID, &d.Name, &d.Surname, &d.IsRetired, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan director row: %w", err)
		}
		directors = append(directors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate director rows: %w", err)
	}

	return directors, total, nil
}

// Update modifies a director.
func (r *DirectorRepository) Update(ctx context.Context, director *domain.Director) error {
	query := `
		UPDATE directors
		SET name = $2, surname = $3, is_retired = $4, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, director.ID, director.Name, director.Surname, director.IsRetired)
	if err != nil {
		return fmt.Errorf("update director: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("director", director.ID)
	}

	return nil
}

// Delete removes a director. Directors with movies cannot be deleted.
func (r *DirectorRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM directors WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("director has movies and cannot be deleted")
		}
		return fmt.Errorf("delete director: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("director", id)
	}

	return nil
}
