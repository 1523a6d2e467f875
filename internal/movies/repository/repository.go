package repository

import (
	"context"

	"github.com/kamilaalv/movie465/internal/movies/domain"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// MovieFilter narrows movie listings. Zero values mean "no filter".
type MovieFilter struct {
	Name       string
	DirectorID int64
	GenreID    int64
}

// DirectorFilter narrows director listings.
type DirectorFilter struct {
	Name      string
	IsRetired *bool
}

// MovieRepository defines the data access contract for movies.
type MovieRepository interface {
	Create(ctx context.Context, movie *domain.Movie) error
	GetByID(ctx context.Context, id int64) (*domain.Movie, error)
	List(ctx context.Context, filter MovieFilter, params pagination.Params) ([]domain.Movie, int, error)
	Update(ctx context.Context, movie *domain.Movie) error
	Delete(ctx context.Context, id int64) error
	SetGenres(ctx context.Context, movieID int64, genreIDs []int64) error
}

// DirectorRepository defines the data access contract for directors.
type DirectorRepository interface {
	Create(ctx context.Context, director *domain.Director) error
	GetByID(ctx context.Context, id int64) (*domain.Director, error)
	List(ctx context.Context, filter DirectorFilter, params pagination.Params) ([]domain.Director, int, error)
	Update(ctx context.Context, director *domain.Director) error
	Delete(ctx context.Context, id int64) error
}

// GenreRepository defines the data access contract for genres.
type GenreRepository interface {
	Create(ctx context.Context, genre *domain.Genre) error
	GetByID(ctx context.Context, id int64) (*domain.Genre, error)
	List(ctx context.Context, params pagination.Params) ([]domain.Genre, int, error)
	Update(ctx context.Context, genre *domain.Genre) error
	Delete(ctx context.Context, id int64) error
}
