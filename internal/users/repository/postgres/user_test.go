package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamilaalv/movie465/internal/users/domain"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
)

func newMockRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewUserRepository(mock), mock
}

func userRows() *pgxmock.Rows {
	now := time.Now()
	hash := "deadbeef"
	exp := now.Add(time.Hour)
	return pgxmock.NewRows([]string{
		"id", "user_name", "password_hash", "name", "surname",
		"registration_date", "is_active", "role_id", "role_name",
		"refresh_token_hash", "refresh_token_expires_at", "created_at", "updated_at",
		"skill_ids",
	}).AddRow(
		int64(1), "alice", "$2a$hash", "Alice", "Smith",
		now, true, int64(2), "admin",
		&hash, &exp, now, now,
		[]int64{3, 5},
	)
}

func TestUserRepository_BindRefreshToken_SingleStatement(t *testing.T) {
	repo, mock := newMockRepo(t)

	expiry := time.Now().Add(7 * 24 * time.Hour)
	mock.ExpectExec(`UPDATE users\s+SET refresh_token_hash = \$2, refresh_token_expires_at = \$3`).
		WithArgs(int64(1), "newhash", expiry).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.BindRefreshToken(context.Background(), 1, "newhash", expiry)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_BindRefreshToken_UnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE users`).
		WithArgs(int64(99), "h", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.BindRefreshToken(context.Background(), 99, "h", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_RotateRefreshToken_CASGuard(t *testing.T) {
	repo, mock := newMockRepo(t)

	expiry := time.Now().Add(time.Hour)
	mock.ExpectExec(`WHERE id = \$1 AND refresh_token_hash = \$2`).
		WithArgs(int64(1), "previous", "next", expiry).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.RotateRefreshToken(context.Background(), 1, "previous", "next", expiry)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RotateRefreshToken_LostRace(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`WHERE id = \$1 AND refresh_token_hash = \$2`).
		WithArgs(int64(1), "stale", "next", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.RotateRefreshToken(context.Background(), 1, "stale", "next", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUserRepository_GetByRefreshTokenHash_RequiresFutureExpiry(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`refresh_token_hash = \$1 AND u\.refresh_token_expires_at > NOW\(\)`).
		WithArgs("somehash").
		WillReturnRows(userRows())

	user, err := repo.GetByRefreshTokenHash(context.Background(), "somehash")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "admin", user.RoleName)
	assert.Equal(t, []int64{3, 5}, user.SkillIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByRefreshTokenHash_Miss(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`refresh_token_hash = \$1`).
		WithArgs("unknown").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByRefreshTokenHash(context.Background(), "unknown")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_GetByUserName_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE u\.user_name = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByUserName(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_Create_DuplicateUserName(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "hash", "Alice", "Smith", pgxmock.AnyArg(), true, int64(1)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	user := &domain.User{
		UserName:         "alice",
		PasswordHash:     "hash",
		Name:             "Alice",
		Surname:          "Smith",
		RegistrationDate: time.Now(),
		IsActive:         true,
		RoleID:           1,
	}
	err := repo.Create(context.Background(), user)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
