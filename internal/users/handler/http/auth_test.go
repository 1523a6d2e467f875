package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kamilaalv/movie465/internal/users/domain"
	"github.com/kamilaalv/movie465/internal/users/event"
	"github.com/kamilaalv/movie465/internal/users/ratelimit"
	"github.com/kamilaalv/movie465/internal/users/repository"
	"github.com/kamilaalv/movie465/internal/users/service"
	"github.com/kamilaalv/movie465/internal/users/token"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/health"
	"github.com/kamilaalv/movie465/pkg/middleware"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

// stubUserRepo keeps a single user in memory, enough to drive the token
// lifecycle end to end through the router.
type stubUserRepo struct {
	user *domain.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, apperrors.NotFound("user", id)
}

func (s *stubUserRepo) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	if s.user != nil && s.user.UserName == userName {
		return s.user, nil
	}
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) GetByRefreshTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	if s.user != nil && s.user.RefreshTokenHash != nil && *s.user.RefreshTokenHash == hash {
		return s.user, nil
	}
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) List(ctx context.Context, filter repository.UserFilter, params pagination.Params) ([]domain.User, int, error) {
	if s.user == nil {
		return nil, 0, nil
	}
	return []domain.User{*s.user}, 1, nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *domain.User) error { return nil }
func (s *stubUserRepo) Delete(ctx context.Context, id int64) error          { return nil }

func (s *stubUserRepo) BindRefreshToken(ctx context.Context, userID int64, hash string, expiresAt time.Time) error {
	s.user.RefreshTokenHash = &hash
	s.user.RefreshTokenExpiresAt = &expiresAt
	return nil
}

func (s *stubUserRepo) RotateRefreshToken(ctx context.Context, userID int64, previousHash, newHash string, expiresAt time.Time) error {
	if s.user.RefreshTokenHash == nil || *s.user.RefreshTokenHash != previousHash {
		return apperrors.ErrConflict
	}
	s.user.RefreshTokenHash = &newHash
	s.user.RefreshTokenExpiresAt = &expiresAt
	return nil
}

func (s *stubUserRepo) SetSkills(ctx context.Context, userID int64, skillIDs []int64) error {
	return nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T, role string) (*httptest.Server, *stubUserRepo) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2pass"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &stubUserRepo{user: &domain.User{
		ID:           7,
		UserName:     "alice",
		PasswordHash: string(hash),
		Name:         "Alice",
		Surname:      "Smith",
		IsActive:     true,
		RoleID:       1,
		RoleName:     role,
	}}

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager, err := token.NewManager("handler-test-secret-0123456789abcdef", 15*time.Minute)
	require.NoError(t, err)

	limiter := ratelimit.NewLoginLimiter(nil, 0, 0, log)
	events := event.NewProducer(nil, log)
	auth := service.NewAuthService(repo, manager, time.Hour, limiter, events, log)

	router := NewRouter(RouterConfig{
		AuthService:  auth,
		UserService:  service.NewUserService(repo, events, log),
		RoleService:  service.NewRoleService(nil, log),
		SkillService: service.NewSkillService(nil, log),
		Health:       health.NewHandler(),
		Logger:       log,
		CORS:         middleware.DefaultCORSConfig(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, repo
}

func postJSON(t *testing.T, url string, body any) (*http.Response, envelope) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func login(t *testing.T, srv *httptest.Server) domain.TokenResult {
	t.Helper()

	resp, env := postJSON(t, srv.URL+"/api/v1/auth/token", map[string]string{
		"userName": "alice",
		"password": "hunter2pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.TokenResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	return result
}

func TestToken_Success(t *testing.T) {
	srv, _ := newTestServer(t, "user")

	result := login(t, srv)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, int64(7), result.UserID)
	assert.Equal(t, "Alice Smith", result.FullName)
}

func TestToken_BadCredentials(t *testing.T) {
	srv, _ := newTestServer(t, "user")

	resp, env := postJSON(t, srv.URL+"/api/v1/auth/token", map[string]string{
		"userName": "alice",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "AUTHENTICATION_FAILED", env.Error.Code)
	assert.Equal(t, "invalid username or password", env.Error.Message)
}

func TestToken_UnknownUserSameEnvelope(t *testing.T) {
	srv, _ := newTestServer(t, "user")

	resp, env := postJSON(t, srv.URL+"/api/v1/auth/token", map[string]string{
		"userName": "nobody",
		"password": "whatever-pass",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "AUTHENTICATION_FAILED", env.Error.Code)
	assert.Equal(t, "invalid username or password", env.Error.Message)
}

func TestToken_ValidationFailure(t *testing.T) {
	srv, _ := newTestServer(t, "user")

	resp, env := postJSON(t, srv.URL+"/api/v1/auth/token", map[string]string{
		"userName": "al",
		"password": "x",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestRefresh_RotatesPair(t *testing.T) {
	srv, _ := newTestServer(t, "user")
	first := login(t, srv)

	resp, env := postJSON(t, srv.URL+"/api/v1/auth/refresh", map[string]string{
		"accessToken":  first.AccessToken,
		"refreshToken": first.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var second domain.TokenResult
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The consumed token no longer works.
	resp, env = postJSON(t, srv.URL+"/api/v1/auth/refresh", map[string]string{
		"accessToken":  first.AccessToken,
		"refreshToken": first.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", env.Error.Code)
}

func TestUsers_RequiresAuthentication(t *testing.T) {
	srv, _ := newTestServer(t, "user")

	resp, err := http.Get(srv.URL + "/api/v1/users")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUsers_ListWithToken(t *testing.T) {
	srv, _ := newTestServer(t, "user")
	result := login(t, srv)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/users", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+result.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUsers_MutationRequiresAdminRole(t *testing.T) {
	srv, _ := newTestServer(t, "user")
	result := login(t, srv)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/users", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+result.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, "user")

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		_ = resp.Body.Close()
	}
}
