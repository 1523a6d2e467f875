package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kamilaalv/movie465/internal/projects/domain"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// TagRepository implements repository.TagRepository backed by PostgreSQL.
type TagRepository struct {
	db DB
}

// NewTagRepository creates a new PostgreSQL tag repository.
func NewTagRepository(db DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a new tag.
func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	query := `INSERT INTO tags (name) VALUES ($1) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, tag.Name).Scan(&tag.ID, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("tag", "name", tag.Name)
		}
		return fmt.Errorf("create tag: %w", err)
	}

	return nil
}

// GetByID retrieves a tag by primary key.
func (r *TagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	query := `SELECT id, name, created_at, updated_at FROM tags WHERE id = $1`

	var tag domain.Tag
	err := r.db.QueryRow(ctx, query, id).Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("tag", id)
		}
		return nil, fmt.Errorf("get tag by id: %w", err)
	}

	return &tag, nil
}

// List retrieves tags with pagination.
func (r *TagRepository) List(ctx context.Context, params pagination.Params) ([]domain.Tag, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM tags").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tags: %w", err)
	}

	query := `SELECT id, name, created_at, updated_at FROM tags ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan tag row: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tag rows: %w", err)
	}

	return tags, total, nil
}

// Update modifies a tag's name.
func (r *TagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	query := `UPDATE tags SET name = $2, updated_at = NOW() WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, tag.ID, tag.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("tag", "name", tag.Name)
		}
		return fmt.Errorf("update tag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound("tag", tag.ID)
	}

	return nil
}

// Delete removes a tag. Tags still attached to projects cannot be deleted.
func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, "DELETE FROM tags WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("tag is attached to existing projects")
		}
		return fmt.Errorf("delete tag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NotFound("tag", id)
	}

	return nil
}
