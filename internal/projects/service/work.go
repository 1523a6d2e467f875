package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/kamilaalv/movie465/internal/projects/domain"
	"github.com/kamilaalv/movie465/internal/projects/repository"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// WorkInput carries the fields for creating or updating a work item.
type WorkInput struct {
	Name        string
	Description string
	StartDate   time.Time
	DueDate     time.Time
	ProjectID   *int64
}

// WorkService implements work item management.
type WorkService struct {
	works  repository.WorkRepository
	logger *slog.Logger
}

// NewWorkService creates the work service.
func NewWorkService(works repository.WorkRepository, logger *slog.Logger) *WorkService {
	return &WorkService{works: works, logger: logger}
}

// Create adds a work item. The due date may not precede the start date.
func (s *WorkService) Create(ctx context.Context, input WorkInput) (*domain.Work, error) {
	if err := validateDates(input); err != nil {
		return nil, err
	}

	work := &domain.Work{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
	}

	if err := s.works.Create(ctx, work); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "work created", slog.Int64("work_id", work.ID))

	return s.works.GetByID(ctx, work.ID)
}

// GetByID retrieves a single work item.
func (s *WorkService) GetByID(ctx context.Context, id int64) (*domain.Work, error) {
	return s.works.GetByID(ctx, id)
}

// List retrieves works matching the filter.
func (s *WorkService) List(ctx context.Context, filter repository.WorkFilter, params pagination.Params) (pagination.Result[domain.Work], error) {
	works, total, err := s.works.List(ctx, filter, params)
	if err != nil {
		return pagination.Result[domain.Work]{}, err
	}
	return pagination.NewResult(works, total, params), nil
}

// Update modifies a work item.
func (s *WorkService) Update(ctx context.Context, id int64, input WorkInput) (*domain.Work, error) {
	if err := validateDates(input); err != nil {
		return nil, err
	}

	work := &domain.Work{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
	}

	if err := s.works.Update(ctx, work); err != nil {
		return nil, err
	}

	return s.works.GetByID(ctx, id)
}

// Delete removes a work item.
func (s *WorkService) Delete(ctx context.Context, id int64) error {
	return s.works.Delete(ctx, id)
}

func validateDates(input WorkInput) error {
	if input.DueDate.Before(input.StartDate) {
		return apperrors.InvalidInput("due date cannot be before start date")
	}
	return nil
}
