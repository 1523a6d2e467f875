package service

import (
	"context"
	"log/slog"

	"github.com/kamilaalv/movie465/internal/movies/domain"
	"github.com/kamilaalv/movie465/internal/movies/repository"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// DirectorInput carries the fields for creating or updating a director.
type DirectorInput struct {
	Name      string
	Surname   string
	IsRetired bool
}

// DirectorService implements director management.
type DirectorService struct {
	directors repository.DirectorRepository
	logger    *slog.Logger
}

// NewDirectorService creates the director service.
func NewDirectorService(directors repository.DirectorRepository, logger *slog.Logger) *DirectorService {
	return &DirectorService{directors: directors, logger: logger}
}

// Create adds a new director.
func (s *DirectorService) Create(ctx context.Context, input DirectorInput) (*domain.Director, error) {
	director := &domain.Director{
		Name:      input.Name,
		Surname:   input.Surname,
		IsRetired: input.IsRetired,
	}

	if err := s.directors.Create(ctx, director); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "director created",
		slog.Int64("director_id", director.ID),
	)

	return director, nil
}

// GetByID retrieves a single director.
func (s *DirectorService) GetByID(ctx context.Context, id int64) (*domain.Director, error) {
	return s.directors.GetByID(ctx, id)
}

// List retrieves directors matching the filter.
func (s *DirectorService) List(ctx context.Context, filter repository.DirectorFilter, params pagination.Params) (pagination.Result[domain.Director], error) {
	directors, total, err := s.directors.List(ctx, filter, params)
	if err != nil {
		return pagination.Result[domain.Director]{}, err
	}
	return pagination.NewResult(directors, total, params), nil
}

// Update modifies a director.
func (s *DirectorService) Update(ctx context.Context, id int64, input DirectorInput) (*domain.Director, error) {
	director := &domain.Director{
		ID:        id,
		Name:      input.Name,
		Surname:   input.Surname,
		IsRetired: input.IsRetired,
	}

	if err := s.directors.Update(ctx, director); err != nil {
		return nil, err
	}

	return s.directors.GetByID(ctx, id)
}

// Delete removes a director without movies.
func (s *DirectorService) Delete(ctx context.Context, id int64) error {
	return s.directors.Delete(ctx, id)
}
