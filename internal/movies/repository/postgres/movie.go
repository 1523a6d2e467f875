package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kamilaalv/movie465/internal/movies/domain"
	"github.com/kamilaalv/movie465/internal/movies/repository"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// MovieRepository implements repository.MovieRepository backed by PostgreSQL.
type MovieRepository struct {
	db DB
}

// NewMovieRepository creates a new PostgreSQL movie repository.
func NewMovieRepository(db DB) *MovieRepository {
	return &MovieRepository{db: db}
}

const movieColumns = `m.id, m.name, m.release_date, m.total_revenue, m.director_id,
		d.name || ' ' || d.surname,
		m.created_at, m.updated_at,
		COALESCE((SELECT array_agg(mg.genre_id ORDER BY mg.genre_id)
			FROM movie_genres mg WHERE mg.movie_id = m.id), '{}'),
		COALESCE((SELECT array_agg(g.name ORDER BY mg.genre_id)
			FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id
			WHERE mg.movie_id = m.id), '{}')`

func scanMovie(row pgx.Row) (*domain.Movie, error) {
	var m domain.Movie
	err := row.Scan(
		&m.ID, &m.Name, &m.ReleaseDate, &m.TotalRevenue, &m.DirectorID,
		&m.DirectorName, &m.CreatedAt, &m.UpdatedAt, &m.GenreIDs, &m.GenreNames,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new movie.
func (r *MovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	query := `
		INSERT INTO movies (name, release_date, total_revenue, director_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		movie.Name, movie.ReleaseDate, movie.TotalRevenue, movie.DirectorID,
	).Scan(&movie.ID, &movie.CreatedAt, &movie.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput(fmt.Sprintf("director with id %d does not exist", movie.DirectorID))
		}
		return fmt.Errorf("create movie: %w", err)
	}

	return nil
}

// GetByID retrieves a movie with its director name and genres.
func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m JOIN directors d ON d.id = m.director_id WHERE m.id = $1`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("movie", id)
		}
		return nil, fmt.Errorf("get movie by id: %w", err)
	}

	return movie, nil
}

// List retrieves movies matching the filter with pagination.
func (r *MovieRepository) List(ctx context.Context, filter repository.MovieFilter, params pagination.Params) ([]domain.Movie, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("m.name ILIKE $%d", argPos))
		args = append(args, "%"+filter.Name+"%")
		argPos++
	}
	if filter.DirectorID > 0 {
		conditions = append(conditions, fmt.Sprintf("m.director_id = $%d", argPos))
		args = append(args, filter.DirectorID)
		argPos++
	}
	if filter.GenreID > 0 {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM movie_genres mg WHERE mg.movie_id = m.id AND mg.genre_id = $%d)", argPos))
		args = append(args, filter.GenreID)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM movies m WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT `+movieColumns+` FROM movies m JOIN directors d ON d.id = m.director_id
		WHERE %s ORDER BY m.id LIMIT $%d OFFSET $%d`,
		where, argPos, argPos+1,
	)
	args = append(args, params.PerPage, params.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, *movie)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate movie rows: %w", err)
	}

	return movies, total, nil
}

// Update modifies a movie.
func (r *MovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	query := `
		UPDATE movies
		SET name = $2, release_date = $3, total_revenue = $4, director_id = $5, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		movie.ID, movie.Name, movie.ReleaseDate, movie.TotalRevenue, movie.DirectorID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput(fmt.Sprintf("director with id %d does not exist", movie.DirectorID))
		}
		return fmt.Errorf("update movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("movie", movie.ID)
	}

	return nil
}

// Delete removes a movie along with its genre associations.
func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM movies WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("movie", id)
	}

	return nil
}

// SetGenres replaces the movie's genre associations.
func (r *MovieRepository) SetGenres(ctx context.Context, movieID int64, genreIDs []int64) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM movie_genres WHERE movie_id = $1", movieID); err != nil {
		return fmt.Errorf("clear movie genres: %w", err)
	}
	if len(genreIDs) == 0 {
		return nil
	}

	query := `INSERT INTO movie_genres (movie_id, genre_id) SELECT $1, unnest($2::bigint[])`
	if _, err := r.db.Exec(ctx, query, movieID, genreIDs); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("one or more genres do not exist")
		}
		return fmt.Errorf("set movie genres: %w", err)
	}

	return nil
}
