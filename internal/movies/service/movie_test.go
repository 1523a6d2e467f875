package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kamilaalv/movie465/internal/movies/domain"
	"github.com/kamilaalv/movie465/internal/movies/repository"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

type mockMovieRepo struct {
	mock.Mock
}

func (m *mockMovieRepo) Create(ctx context.Context, movie *domain.Movie) error {
	args := m.Called(ctx, movie)
	if args.Error(0) == nil {
		movie.ID = 10
	}
	return args.Error(0)
}

func (m *mockMovieRepo) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movie), args.Error(1)
}

func (m *mockMovieRepo) List(ctx context.Context, filter repository.MovieFilter, params pagination.Params) ([]domain.Movie, int, error) {
	args := m.Called(ctx, filter, params)
	var movies []domain.Movie
	if args.Get(0) != nil {
		movies = args.Get(0).([]domain.Movie)
	}
	return movies, args.Int(1), args.Error(2)
}

func (m *mockMovieRepo) Update(ctx context.Context, movie *domain.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *mockMovieRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMovieRepo) SetGenres(ctx context.Context, movieID int64, genreIDs []int64) error {
	return m.Called(ctx, movieID, genreIDs).Error(0)
}

type mockDirectorRepo struct {
	mock.Mock
}

func (m *mockDirectorRepo) Create(ctx context.Context, director *domain.Director) error {
	return m.Called(ctx, director).Error(0)
}

func (m *mockDirectorRepo) GetByID(ctx context.Context, id int64) (*domain.Director, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Director), args.Error(1)
}

func (m *mockDirectorRepo) List(ctx context.Context, filter repository.DirectorFilter, params pagination.Params) ([]domain.Director, int, error) {
	args := m.Called(ctx, filter, params)
	var directors []domain.Director
	if args.Get(0) != nil {
		directors = args.Get(0).([]domain.Director)
	}
	return directors, args.Int(1), args.Error(2)
}

func (m *mockDirectorRepo) Update(ctx context.Context, director *domain.Director) error {
	return m.Called(ctx, director).Error(0)
}

func (m *mockDirectorRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockGenreRepo struct {
	mock.Mock
}

func (m *mockGenreRepo) Create(ctx context.Context, genre *domain.Genre) error {
	return m.Called(ctx, genre).Error(0)
}

func (m *mockGenreRepo) GetByID(ctx context.Context, id int64) (*domain.Genre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Genre), args.Error(1)
}

func (m *mockGenreRepo) List(ctx context.Context, params pagination.Params) ([]domain.Genre, int, error) {
	args := m.Called(ctx, params)
	var genres []domain.Genre
	if args.Get(0) != nil {
		genres = args.Get(0).([]domain.Genre)
	}
	return genres, args.Int(1), args.Error(2)
}

func (m *mockGenreRepo) Update(ctx context.Context, genre *domain.Genre) error {
	return m.Called(ctx, genre).Error(0)
}

func (m *mockGenreRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newMovieFixture() (*MovieService, *mockMovieRepo, *mockDirectorRepo, *mockGenreRepo) {
	movies := &mockMovieRepo{}
	directors := &mockDirectorRepo{}
	genres := &mockGenreRepo{}
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewMovieService(movies, directors, genres, log), movies, directors, genres
}

func TestMovieCreate_Success(t *testing.T) {
	svc, movies, directors, genres := newMovieFixture()

	directors.On("GetByID", mock.Anything, int64(1)).Return(&domain.Director{ID: 1}, nil)
	genres.On("GetByID", mock.Anything, int64(2)).Return(&domain.Genre{ID: 2}, nil)
	movies.On("Create", mock.Anything, mock.Anything).Return(nil)
	movies.On("SetGenres", mock.Anything, int64(10), []int64{2}).Return(nil)
	movies.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Movie{ID: 10, Name: "Heat", DirectorID: 1, GenreIDs: []int64{2}}, nil)

	movie, err := svc.Create(context.Background(), MovieInput{
		Name:       "Heat",
		DirectorID: 1,
		GenreIDs:   []int64{2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), movie.ID)
	assert.Equal(t, []int64{2}, movie.GenreIDs)

	movies.AssertExpectations(t)
}

func TestMovieCreate_UnknownDirector(t *testing.T) {
	svc, movies, directors, _ := newMovieFixture()

	directors.On("GetByID", mock.Anything, int64(99)).
		Return(nil, apperrors.NotFound("director", 99))

	_, err := svc.Create(context.Background(), MovieInput{Name: "Heat", DirectorID: 99})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "director with id 99")

	movies.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMovieCreate_UnknownGenre(t *testing.T) {
	svc, movies, directors, genres := newMovieFixture()

	directors.On("GetByID", mock.Anything, int64(1)).Return(&domain.Director{ID: 1}, nil)
	genres.On("GetByID", mock.Anything, int64(7)).
		Return(nil, apperrors.NotFound("genre", 7))

	_, err := svc.Create(context.Background(), MovieInput{
		Name:       "Heat",
		DirectorID: 1,
		GenreIDs:   []int64{7},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "genre with id 7")

	movies.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMovieUpdate_ReplacesGenres(t *testing.T) {
	svc, movies, directors, genres := newMovieFixture()

	directors.On("GetByID", mock.Anything, int64(1)).Return(&domain.Director{ID: 1}, nil)
	genres.On("GetByID", mock.Anything, int64(3)).Return(&domain.Genre{ID: 3}, nil)
	movies.On("Update", mock.Anything, mock.Anything).Return(nil)
	movies.On("SetGenres", mock.Anything, int64(10), []int64{3}).Return(nil)
	movies.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Movie{ID: 10, GenreIDs: []int64{3}}, nil)

	movie, err := svc.Update(context.Background(), 10, MovieInput{
		Name:       "Heat",
		DirectorID: 1,
		GenreIDs:   []int64{3},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, movie.GenreIDs)

	movies.AssertExpectations(t)
}
