package service

import (
	"context"
	"log/slog"

	"github.com/kamilaalv/movie465/internal/projects/domain"
	"github.com/kamilaalv/movie465/internal/projects/repository"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// ProjectInput carries the fields for creating or updating a project.
type ProjectInput struct {
	Name        string
	Description string
	URL         string
	Version     *string
	TagIDs      []int64
}

// ProjectService implements project management.
type ProjectService struct {
	projects repository.ProjectRepository
	logger   *slog.Logger
}

// NewProjectService creates the project service.
func NewProjectService(projects repository.ProjectRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{projects: projects, logger: logger}
}

// Create adds a project with its tag associations.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*domain.Project, error) {
	project := &domain.Project{
		Name:        input.Name,
		Description: input.Description,
		URL:         input.URL,
		Version:     input.Version,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	if len(input.TagIDs) > 0 {
		if err := s.projects.SetTags(ctx, project.ID, input.TagIDs); err != nil {
			return nil, err
		}
	}

	created, err := s.projects.GetByID(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "project created",
		slog.Int64("project_id", created.ID),
		slog.String("name", created.Name),
	)

	return created, nil
}

// GetByID retrieves a single project.
func (s *ProjectService) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// List retrieves projects matching the filter.
func (s *ProjectService) List(ctx context.Context, filter repository.ProjectFilter, params pagination.Params) (pagination.Result[domain.Project], error) {
	projects, total, err := s.projects.List(ctx, filter, params)
	if err != nil {
		return pagination.Result[domain.Project]{}, err
	}
	return pagination.NewResult(projects, total, params), nil
}

// Update modifies a project and replaces its tags.
func (s *ProjectService) Update(ctx context.Context, id int64, input ProjectInput) (*domain.Project, error) {
	project := &domain.Project{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		URL:         input.URL,
		Version:     input.Version,
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	if err := s.projects.SetTags(ctx, id, input.TagIDs); err != nil {
		return nil, err
	}

	return s.projects.GetByID(ctx, id)
}

// Delete removes a project.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "project deleted", slog.Int64("project_id", id))
	return nil
}
