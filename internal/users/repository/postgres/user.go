package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kamilaalv/movie465/internal/users/domain"
	"github.com/kamilaalv/movie465/internal/users/repository"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// UserRepository implements repository.UserRepository backed by PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `u.id, u.user_name, u.password_hash, u.name, u.surname,
		u.registration_date, u.is_active, u.role_id, r.name,
		u.refresh_token_hash, u.refresh_token_expires_at, u.created_at, u.updated_at,
		COALESCE((SELECT array_agg(us.skill_id ORDER BY us.skill_id)
			FROM user_skills us WHERE us.user_id = u.id), '{}')`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.UserName, &u.PasswordHash, &u.Name, &u.Surname,
		&u.RegistrationDate, &u.IsActive, &u.RoleID, &u.RoleName,
		&u.RefreshTokenHash, &u.RefreshTokenExpiresAt, &u.CreatedAt, &u.UpdatedAt,
		&u.SkillIDs,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and populates generated fields.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_name, password_hash, name, surname, registration_date, is_active, role_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		user.UserName, user.PasswordHash, user.Name, user.Surname,
		user.RegistrationDate, user.IsActive, user.RoleID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "user_name", user.UserName)
		}
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput(fmt.Sprintf("role with id %d does not exist", user.RoleID))
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u JOIN roles r ON r.id = u.role_id WHERE u.id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// GetByUserName retrieves a user by unique username.
func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u JOIN roles r ON r.id = u.role_id WHERE u.user_name = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, userName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", userName, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by user_name: %w", err)
	}

	return user, nil
}

// GetByRefreshTokenHash retrieves the user whose stored refresh token digest
// matches and has not yet expired. The expiry comparison is strict, an exact
// NOW() match counts as expired.
func (r *UserRepository) GetByRefreshTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.refresh_token_hash = $1 AND u.refresh_token_expires_at > NOW()`

	user, err := scanUser(r.db.QueryRow(ctx, query, hash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("refresh token lookup: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by refresh token: %w", err)
	}

	return user, nil
}

// List retrieves users matching the filter with pagination.
func (r *UserRepository) List(ctx context.Context, filter repository.UserFilter, params pagination.Params) ([]domain.User, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("(u.user_name ILIKE $%d OR u.name ILIKE $%d OR u.surname ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+filter.Name+"%")
		argPos++
	}
	if filter.UserName != "" {
		conditions = append(conditions, fmt.Sprintf("u.user_name ILIKE $%d", argPos))
		args = append(args, "%"+filter.UserName+"%")
		argPos++
	}
	if filter.RoleID > 0 {
		conditions = append(conditions, fmt.Sprintf("u.role_id = $%d", argPos))
		args = append(args, filter.RoleID)
		argPos++
	}
	if filter.SkillID > 0 {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM user_skills us WHERE us.user_id = u.id AND us.skill_id = $%d)", argPos))
		args = append(args, filter.SkillID)
		argPos++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("u.is_active = $%d", argPos))
		args = append(args, *filter.IsActive)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM users u WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT `+userColumns+` FROM users u JOIN roles r ON r.id = u.role_id
		WHERE %s ORDER BY u.id LIMIT $%d OFFSET $%d`,
		where, argPos, argPos+1,
	)
	args = append(args, params.PerPage, params.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, total, nil
}

// Update modifies mutable user fields, including the password hash.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET user_name = $2, password_hash = $3, name = $4, surname = $5,
			is_active = $6, role_id = $7, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		user.ID, user.UserName, user.PasswordHash, user.Name, user.Surname,
		user.IsActive, user.RoleID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "user_name", user.UserName)
		}
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput(fmt.Sprintf("role with id %d does not exist", user.RoleID))
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user", user.ID)
	}

	return nil
}

// Delete removes a user by primary key.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// BindRefreshToken overwrites the stored refresh token digest and expiry on
// the user row. Any previously active token is invalidated by the overwrite.
func (r *UserRepository) BindRefreshToken(ctx context.Context, userID int64, hash string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $2, refresh_token_expires_at = $3, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, userID, hash, expiresAt)
	if err != nil {
		return fmt.Errorf("bind refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}

	return nil
}

// RotateRefreshToken atomically swaps the stored digest, guarded by a compare
// against the previous digest. When two refresh requests race, only the one
// whose compare succeeds wins; the loser sees ErrConflict.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID int64, previousHash, newHash string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $3, refresh_token_expires_at = $4, updated_at = NOW()
		WHERE id = $1 AND refresh_token_hash = $2`

	tag, err := r.db.Exec(ctx, query, userID, previousHash, newHash, expiresAt)
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("refresh token rotation lost: %w", apperrors.ErrConflict)
	}

	return nil
}

// SetSkills replaces the user's skill associations.
func (r *UserRepository) SetSkills(ctx context.Context, userID int64, skillIDs []int64) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM user_skills WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("clear user skills: %w", err)
	}
	if len(skillIDs) == 0 {
		return nil
	}

	query := `INSERT INTO user_skills (user_id, skill_id) SELECT $1, unnest($2::bigint[])`
	if _, err := r.db.Exec(ctx, query, userID, skillIDs); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("one or more skills do not exist")
		}
		return fmt.Errorf("set user skills: %w", err)
	}

	return nil
}
