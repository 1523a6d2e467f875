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

// SkillRepository implements repository.SkillRepository backed by PostgreSQL.
type SkillRepository struct {
	db DB
}

// NewSkillRepository creates a new PostgreSQL skill repository.
func NewSkillRepository(db DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// Create inserts a new skill.
func (r *SkillRepository) Create(ctx context.Context, skill *domain.Skill) error {
	query := `INSERT INTO skills (name) VALUES ($1) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, skill.Name).Scan(&skill.ID, &skill.CreatedAt, &skill.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("skill", "name", skill.Name)
		}
		return fmt.Errorf("create skill: %w", err)
	}

	return nil
}

// GetByID retrieves a skill by primary key.
func (r *SkillRepository) GetByID(ctx context.Context, id int64) (*domain.Skill, error) {
	query := `SELECT id, name, created_at, updated_at FROM skills WHERE id = $1`

	var skill domain.Skill
	err := r.db.QueryRow(ctx, query, id).Scan(&skill.ID, &skill.Name, &skill.CreatedAt, &skill.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("skill", id)
		}
		return nil, fmt.Errorf("get skill by id: %w", err)
	}

	return &skill, nil
}

// List retrieves skills with pagination.
func (r *SkillRepository) List(ctx context.Context, params pagination.Params) ([]domain.Skill, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM skills").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count skills: %w", err)
	}

	query := `SELECT id, name, created_at, updated_at FROM skills ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var skills []domain.Skill
	for rows.Next() {
		var skill domain.Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.CreatedAt, &skill.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan skill row: %w", err)
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate skill rows: %w", err)
	}

	return skills, total, nil
}

// Update modifies a skill's name.
func (r *SkillRepository) Update(ctx context.Context, skill *domain.Skill) error {
	query := `UPDATE skills SET name = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, skill.ID, skill.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("skill", "name", skill.Name)
		}
		return fmt.Errorf("update skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("skill", skill.ID)
	}

	return nil
}

// Delete removes a skill along with its user associations.
func (r *SkillRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM skills WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("skill", id)
	}

	return nil
}
