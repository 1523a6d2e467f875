package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kamilaalv/movie465/internal/projects/domain"
	"github.com/kamilaalv/movie465/internal/projects/repository"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// WorkRepository implements repository.WorkRepository backed by PostgreSQL.
type WorkRepository struct {
	db DB
}

// NewWorkRepository creates a new PostgreSQL work repository.
func NewWorkRepository(db DB) *WorkRepository {
	return &WorkRepository{db: db}
}

const workColumns = `w.id, w.name, w.description, w.start_date, w.due_date,
		w.project_id, COALESCE(p.name, ''), w.created_at, w.updated_at`

func scanWork(row pgx.Row) (*domain.Work, error) {
	var w domain.Work
	err := row.Scan(
		&w.ID, &w.Name, &w.Description, &w.StartDate, &w.DueDate,
		&w.ProjectID, &w.ProjectName, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create inserts a new work item.
func (r *WorkRepository) Create(ctx context.Context, work *domain.Work) error {
	query := `
		INSERT INTO works (name, description, start_date, due_date, project_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		work.Name, work.Description, work.StartDate, work.DueDate, work.ProjectID,
	).Scan(&work.ID, &work.CreatedAt, &work.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("project does not exist")
		}
		return fmt.Errorf("create work: %w", err)
	}

	return nil
}

// GetByID retrieves a work item with its project name.
func (r *WorkRepository) GetByID(ctx context.Context, id int64) (*domain.Work, error) {
	query := `SELECT ` + workColumns + ` FROM works w LEFT JOIN projects p ON p.id = w.project_id WHERE w.id = $1`

	work, err := scanWork(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("work", id)
		}
		return nil, fmt.Errorf("get work by id: %w", err)
	}

	return work, nil
}

// List retrieves works matching the filter with pagination.
func (r *WorkRepository) List(ctx context.Context, filter repository.WorkFilter, params pagination.Params) ([]domain.Work, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("w.name ILIKE $%d", argPos))
		args = append(args, "%"+filter.Name+"%")
		argPos++
	}
	if filter.ProjectID > 0 {
		conditions = append(conditions, fmt.Sprintf("w.project_id = $%d", argPos))
		args = append(args, filter.ProjectID)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM works w WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count works: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT `+workColumns+` FROM works w LEFT JOIN projects p ON p.id = w.project_id
		WHERE %s ORDER BY w.id LIMIT $%d OFFSET $%d`,
		where, argPos, argPos+1,
	)
	args = append(args, params.PerPage, params.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list works: %w", err)
	}
	defer rows.Close()

	var works []domain.Work
	for rows.Next() {
		work, err := scanWork(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan work row: %w", err)
		}
		works = append(works, *work)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate work rows: %w", err)
	}

	return works, total, nil
}

// Update modifies a work item.
func (r *WorkRepository) Update(ctx context.Context, work *domain.Work) error {
	query := `
		UPDATE works
		SET name = $2, description = $3, start_date = $4, due_date = $5, project_id = $6, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		work.ID, work.Name, work.Description, work.StartDate, work.DueDate, work.ProjectID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("project does not exist")
		}
		return fmt.Errorf("update work: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("work", work.ID)
	}

	return nil
}

// Delete removes a work item.
func (r *WorkRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM works WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete work: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("work", id)
	}

	return nil
}
