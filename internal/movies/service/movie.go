package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kamilaalv/movie465/internal/movies/domain"
	"github.com/kamilaalv/movie465/internal/movies/repository"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// MovieInput carries the fields for creating or updating a movie.
type MovieInput struct {
	Name         string
	ReleaseDate  *time.Time
	TotalRevenue float64
	DirectorID   int64
	GenreIDs     []int64
}

// MovieService implements movie management.
type MovieService struct {
	movies    repository.MovieRepository
	directors repository.DirectorRepository
	genres    repository.GenreRepository
	logger    *slog.Logger
}

// NewMovieService creates the movie service.
func NewMovieService(
	movies repository.MovieRepository,
	directors repository.DirectorRepository,
	genres repository.GenreRepository,
	logger *slog.Logger,
) *MovieService {
	return &MovieService{movies: movies, directors: directors, genres: genres, logger: logger}
}

// Create adds a movie after checking that its director and genres exist.
func (s *MovieService) Create(ctx context.Context, input MovieInput) (*domain.Movie, error) {
	if err := s.validateReferences(ctx, input); err != nil {
		return nil, err
	}

	movie := &domain.Movie{
		Name:         input.Name,
		ReleaseDate:  input.ReleaseDate,
		TotalRevenue: input.TotalRevenue,
		DirectorID:   input.DirectorID,
	}

	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, err
	}

	if len(input.GenreIDs) > 0 {
		if err := s.movies.SetGenres(ctx, movie.ID, input.GenreIDs); err != nil {
			return nil, err
		}
	}

	created, err := s.movies.GetByID(ctx, movie.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "movie created",
		slog.Int64("movie_id", created.ID),
		slog.String("name", created.Name),
	)

	return created, nil
}

// GetByID retrieves a single movie.
func (s *MovieService) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	return s.movies.GetByID(ctx, id)
}

// List retrieves movies matching the filter.
func (s *MovieService) List(ctx context.Context, filter repository.MovieFilter, params pagination.Params) (pagination.Result[domain.Movie], error) {
	movies, total, err := s.movies.List(ctx, filter, params)
	if err != nil {
		return pagination.Result[domain.Movie]{}, err
	}
	return pagination.NewResult(movies, total, params), nil
}

// Update modifies a movie after checking its references.
func (s *MovieService) Update(ctx context.Context, id int64, input MovieInput) (*domain.Movie, error) {
	if err := s.validateReferences(ctx, input); err != nil {
		return nil, err
	}

	movie := &domain.Movie{
		ID:           id,
		Name:         input.Name,
		ReleaseDate:  input.ReleaseDate,
		TotalRevenue: input.TotalRevenue,
		DirectorID:   input.DirectorID,
	}

	if err := s.movies.Update(ctx, movie); err != nil {
		return nil, err
	}

	if err := s.movies.SetGenres(ctx, id, input.GenreIDs); err != nil {
		return nil, err
	}

	return s.movies.GetByID(ctx, id)
}

// Delete removes a movie.
func (s *MovieService) Delete(ctx context.Context, id int64) error {
	if err := s.movies.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "movie deleted", slog.Int64("movie_id", id))
	return nil
}

func (s *MovieService) validateReferences(ctx context.Context, input MovieInput) error {
	if _, err := s.directors.GetByID(ctx, input.DirectorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.InvalidInput(fmt.Sprintf("director with id %d does not exist", input.DirectorID))
		}
		return err
	}

	for _, genreID := range input.GenreIDs {
		if _, err := s.genres.GetByID(ctx, genreID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.InvalidInput(fmt.Sprintf("genre with id %d does not exist", genreID))
			}
			return err
		}
	}

	return nil
}
