package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kamilaalv/movie465/internal/movies/domain"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// GenreRepository implements repository.GenreRepository backed by PostgreSQL.
type GenreRepository struct {
	db DB
}

// NewGenreRepository creates a new PostgreSQL genre repository.
func NewGenreRepository(db DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// Create inserts a new genre.
func (r *GenreRepository) Create(ctx context.Context, genre *domain.Genre) error {
	query := `INSERT INTO genres (name) VALUES ($1) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, genre.Name).Scan(&genre.ID, &genre.CreatedAt, &genre.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("genre", "name", genre.Name)
		}
		return fmt.Errorf("create genre: %w", err)
	}

	return nil
}

// GetByID retrieves a genre by primary key.
func (r *GenreRepository) GetByID(ctx context.Context, id int64) (*domain.Genre, error) {
	query := `SELECT id, name, created_at, updated_at FROM genres WHERE id = $1`

	var g domain.Genre
	err := r.db.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("genre", id)
		}
		return nil, fmt.Errorf("get genre by id: %w", err)
	}

	return &g, nil
}

// List retrieves genres with pagination.
func (r *GenreRepository) List(ctx context.Context, params pagination.Params) ([]domain.Genre, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM genres").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count genres: %w", err)
	}

	query := `SELECT id, name, created_at, updated_at FROM genres ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	var genres []domain.Genre
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan genre row: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate genre rows: %w", err)
	}

	return genres, total, nil
}

// Update modifies a genre's name.
func (r *GenreRepository) Update(ctx context.Context, genre *domain.Genre) error {
	query := `UPDATE genres SET name = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, genre.ID, genre.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("genre", "name", genre.Name)
		}
		return fmt.Errorf("update genre: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("genre", genre.ID)
	}

	return nil
}

// Delete removes a genre. Genres still attached to movies cannot be deleted.
func (r *GenreRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM genres WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("genre is attached to existing movies")
		}
		return fmt.Errorf("delete genre: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("genre", id)
	}

	return nil
}
