package service

import (
	"context"
	"log/slog"

	"github.com/kamilaalv/movie465/internal/movies/domain"
	"github.com/kamilaalv/movie465/internal/movies/repository"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// GenreService implements genre management.
type GenreService struct {
	genres repository.GenreRepository
	logger *slog.Logger
}

// NewGenreService creates the genre service.
func NewGenreService(genres repository.GenreRepository, logger *slog.Logger) *GenreService {
	return &GenreService{genres: genres, logger: logger}
}

// Create adds a new genre.
func (s *GenreService) Create(ctx context.Context, name string) (*domain.Genre, error) {
	genre := &domain.Genre{Name: name}
	if err := s.genres.Create(ctx, genre); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "genre created",
		slog.Int64("genre_id", genre.ID),
		slog.String("name", genre.Name),
	)

	return genre, nil
}

// GetByID retrieves a single genre.
func (s *GenreService) GetByID(ctx context.Context, id int64) (*domain.Genre, error) {
	return s.genres.GetByID(ctx, id)
}

// List retrieves genres with pagination.
func (s *GenreService) List(ctx context.Context, params pagination.Params) (pagination.Result[domain.Genre], error) {
	genres, total, err := s.genres.List(ctx, params)
	if err != nil {
		return pagination.Result[domain.Genre]{}, err
	}
	return pagination.NewResult(genres, total, params), nil
}

// Update renames a genre.
func (s *GenreService) Update(ctx context.Context, id int64, name string) (*domain.Genre, error) {
	genre := &domain.Genre{ID: id, Name: name}
	if err := s.genres.Update(ctx, genre); err != nil {
		return nil, err
	}
	return s.genres.GetByID(ctx, id)
}

// Delete removes a genre not attached to any movie.
func (s *GenreService) Delete(ctx context.Context, id int64) error {
	return s.genres.Delete(ctx, id)
}
