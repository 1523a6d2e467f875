package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kamilaalv/movie465/internal/users/domain"
	"github.com/kamilaalv/movie465/internal/users/event"
	"github.com/kamilaalv/movie465/internal/users/ratelimit"
	"github.com/kamilaalv/movie465/internal/users/repository"
	"github.com/kamilaalv/movie465/internal/users/token"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

const testSecret = "test-secret-that-is-long-enough-0123456789"

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	args := m.Called(ctx, userName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByRefreshTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, filter repository.UserFilter, params pagination.Params) ([]domain.User, int, error) {
	args := m.Called(ctx, filter, params)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Int(1), args.Error(2)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) BindRefreshToken(ctx context.Context, userID int64, hash string, expiresAt time.Time) error {
	return m.Called(ctx, userID, hash, expiresAt).Error(0)
}

func (m *mockUserRepo) RotateRefreshToken(ctx context.Context, userID int64, previousHash, newHash string, expiresAt time.Time) error {
	return m.Called(ctx, userID, previousHash, newHash, expiresAt).Error(0)
}

func (m *mockUserRepo) SetSkills(ctx context.Context, userID int64, skillIDs []int64) error {
	return m.Called(ctx, userID, skillIDs).Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo, *token.Manager) {
	t.Helper()

	repo := &mockUserRepo{}
	manager, err := token.NewManager(testSecret, 15*time.Minute)
	require.NoError(t, err)

	limiter := ratelimit.NewLoginLimiter(nil, 0, 0, testLogger())
	events := event.NewProducer(nil, testLogger())

	svc := NewAuthService(repo, manager, 7*24*time.Hour, limiter, events, testLogger())
	return svc, repo, manager
}

func activeUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return &domain.User{
		ID:           42,
		UserName:     "alice",
		PasswordHash: string(hash),
		Name:         "Alice",
		Surname:      "Smith",
		IsActive:     true,
		RoleID:       1,
		RoleName:     "admin",
	}
}

func TestLogin_Success(t *testing.T) {
	svc, repo, manager := newAuthFixture(t)
	user := activeUser(t, "correct-password")

	repo.On("GetByUserName", mock.Anything, "alice").Return(user, nil)

	var boundHash string
	repo.On("BindRefreshToken", mock.Anything, int64(42), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			boundHash = args.String(2)
		}).
		Return(nil)

	result, err := svc.Login(context.Background(), "alice", "correct-password")
	require.NoError(t, err)

	assert.Equal(t, int64(42), result.UserID)
	assert.Equal(t, "alice", result.UserName)
	assert.Equal(t, "Alice Smith", result.FullName)
	assert.Equal(t, "admin", result.Role)
	assert.NotEmpty(t, result.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), result.RefreshTokenExpiresAt, 2*time.Second)

	// The stored binding is the digest of the returned token.
	assert.Equal(t, token.HashRefreshToken(result.RefreshToken), boundHash)

	principal, err := manager.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), principal.UserID)
	assert.Equal(t, "admin", principal.Role)

	repo.AssertExpectations(t)
}

func TestLogin_GenericFailureIsIndistinguishable(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	user := activeUser(t, "correct-password")
	inactive := activeUser(t, "correct-password")
	inactive.IsActive = false

	repo.On("GetByUserName", mock.Anything, "ghost").
		Return(nil, apperrors.ErrNotFound)
	repo.On("GetByUserName", mock.Anything, "alice").Return(user, nil)
	repo.On("GetByUserName", mock.Anything, "sleeper").Return(inactive, nil)

	_, errUnknown := svc.Login(context.Background(), "ghost", "whatever")
	_, errWrongPwd := svc.Login(context.Background(), "alice", "wrong-password")
	_, errInactive := svc.Login(context.Background(), "sleeper", "correct-password")

	for _, err := range []error{errUnknown, errWrongPwd, errInactive} {
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
	}

	// Same client-visible message in all three cases.
	assert.Equal(t, errUnknown.Error(), errWrongPwd.Error())
	assert.Equal(t, errWrongPwd.Error(), errInactive.Error())
}

func TestLogin_RateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &mockUserRepo{}
	manager, err := token.NewManager(testSecret, 15*time.Minute)
	require.NoError(t, err)

	limiter := ratelimit.NewLoginLimiter(client, 1, time.Minute, testLogger())
	events := event.NewProducer(nil, testLogger())
	svc := NewAuthService(repo, manager, time.Hour, limiter, events, testLogger())

	repo.On("GetByUserName", mock.Anything, "alice").
		Return(nil, apperrors.ErrNotFound)

	_, err = svc.Login(context.Background(), "alice", "bad")
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)

	_, err = svc.Login(context.Background(), "alice", "bad")
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)
}

func refreshFixture(t *testing.T, svc *AuthService, manager *token.Manager, user *domain.User) (accessToken, refreshToken string) {
	t.Helper()

	accessToken, _, err := manager.Issue(user.ID, user.UserName, user.RoleName)
	require.NoError(t, err)

	refreshToken, err = token.NewRefreshToken()
	require.NoError(t, err)

	hash := token.HashRefreshToken(refreshToken)
	user.RefreshTokenHash = &hash

	return accessToken, refreshToken
}

func TestRefresh_Success(t *testing.T) {
	svc, repo, manager := newAuthFixture(t)
	user := activeUser(t, "pw")
	access, refresh := refreshFixture(t, svc, manager, user)

	presentedHash := token.HashRefreshToken(refresh)
	repo.On("GetByRefreshTokenHash", mock.Anything, presentedHash).Return(user, nil)
	repo.On("RotateRefreshToken", mock.Anything, int64(42), presentedHash, mock.Anything, mock.Anything).
		Return(nil)

	result, err := svc.Refresh(context.Background(), access, refresh)
	require.NoError(t, err)

	assert.NotEqual(t, refresh, result.RefreshToken)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, int64(42), result.UserID)

	repo.AssertExpectations(t)
}

func TestRefresh_InvalidAccessToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt", "whatever")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAccessToken)
}

func TestRefresh_UnknownRefreshToken(t *testing.T) {
	svc, repo, manager := newAuthFixture(t)
	user := activeUser(t, "pw")
	access, _ := refreshFixture(t, svc, manager, user)

	repo.On("GetByRefreshTokenHash", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrNotFound)

	_, err := svc.Refresh(context.Background(), access, "unknown-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestRefresh_CrossSubjectRejected(t *testing.T) {
	svc, repo, manager := newAuthFixture(t)

	// Access token belongs to user 99, refresh token to user 42.
	owner := activeUser(t, "pw")
	_, refresh := refreshFixture(t, svc, manager, owner)
	otherAccess, _, err := manager.Issue(99, "mallory", "user")
	require.NoError(t, err)

	repo.On("GetByRefreshTokenHash", mock.Anything, token.HashRefreshToken(refresh)).
		Return(owner, nil)

	_, err = svc.Refresh(context.Background(), otherAccess, refresh)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestRefresh_InactiveAccountRejected(t *testing.T) {
	svc, repo, manager := newAuthFixture(t)
	user := activeUser(t, "pw")
	user.IsActive = false
	access, refresh := refreshFixture(t, svc, manager, user)

	repo.On("GetByRefreshTokenHash", mock.Anything, mock.Anything).Return(user, nil)

	_, err := svc.Refresh(context.Background(), access, refresh)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestRefresh_LostRotationRace(t *testing.T) {
	svc, repo, manager := newAuthFixture(t)
	user := activeUser(t, "pw")
	access, refresh := refreshFixture(t, svc, manager, user)

	repo.On("GetByRefreshTokenHash", mock.Anything, mock.Anything).Return(user, nil)
	repo.On("RotateRefreshToken", mock.Anything, int64(42), mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrConflict)

	_, err := svc.Refresh(context.Background(), access, refresh)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestValidateAccessToken(t *testing.T) {
	svc, _, manager := newAuthFixture(t)

	access, _, err := manager.Issue(5, "dave", "user")
	require.NoError(t, err)

	principal, err := svc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, int64(5), principal.UserID)

	_, err = svc.ValidateAccessToken("garbage")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAccessToken)
}
