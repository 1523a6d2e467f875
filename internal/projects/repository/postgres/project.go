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

// ProjectRepository implements repository.ProjectRepository backed by PostgreSQL.
type ProjectRepository struct {
	db DB
}

// NewProjectRepository creates a new PostgreSQL project repository.
func NewProjectRepository(db DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `p.id, p.name, p.description, p.url, p.version, p.created_at, p.updated_at,
		COALESCE((SELECT array_agg(pt.tag_id ORDER BY pt.tag_id)
			FROM project_tags pt WHERE pt.project_id = p.id), '{}'),
		COALESCE((SELECT array_agg(t.name ORDER BY pt.tag_id)
			FROM project_tags pt JOIN tags t ON t.id = pt.tag_id
			WHERE pt.project_id = p.id), '{}')`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.URL, &p.Version,
		&p.CreatedAt, &p.UpdatedAt, &p.TagIDs, &p.TagNames,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (name, description, url, version)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		project.Name, project.Description, project.URL, project.Version,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project with its tags.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = $1`

	project, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("project", id)
		}
		return nil, fmt.Errorf("get project by id: %w", err)
	}

	return project, nil
}

// List retrieves projects matching the filter with pagination.
func (r *ProjectRepository) List(ctx context.Context, filter repository.ProjectFilter, params pagination.Params) ([]domain.Project, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("p.name ILIKE $%d", argPos))
		args = append(args, "%"+filter.Name+"%")
		argPos++
	}
	if filter.TagID > 0 {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM project_tags pt WHERE pt.project_id = p.id AND pt.tag_id = $%d)", argPos))
		args = append(args, filter.TagID)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM projects p WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT `+projectColumns+` FROM projects p WHERE %s ORDER BY p.id LIMIT $%d OFFSET $%d`,
		where, argPos, argPos+1,
	)
	args = append(args, params.PerPage, params.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate project rows: %w", err)
	}

	return projects, total, nil
}

// Update modifies a project.
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	query := `
		UPDATE projects
		SET name = $2, description = $3, url = $4, version = $5, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		project.ID, project.Name, project.Description, project.URL, project.Version,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("project", project.ID)
	}

	return nil
}

// Delete removes a project along with its tag associations. Works pointing at
// the project keep their rows with a cleared reference.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("project", id)
	}

	return nil
}

// SetTags replaces the project's tag associations.
func (r *ProjectRepository) SetTags(ctx context.Context, projectID int64, tagIDs []int64) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM project_tags WHERE project_id = $1", projectID); err != nil {
		return fmt.Errorf("clear project tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	query := `INSERT INTO project_tags (project_id, tag_id) SELECT $1, unnest($2::bigint[])`
	if _, err := r.db.Exec(ctx, query, projectID, tagIDs); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("one or more tags do not exist")
		}
		return fmt.Errorf("set project tags: %w", err)
	}

	return nil
}
