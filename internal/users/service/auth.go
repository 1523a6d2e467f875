package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kamilaalv/movie465/internal/users/domain"
	"github.com/kamilaalv/movie465/internal/users/event"
	"github.com/kamilaalv/movie465/internal/users/ratelimit"
	"github.com/kamilaalv/movie465/internal/users/repository"
	"github.com/kamilaalv/movie465/internal/users/token"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
)

// dummyHash is a valid bcrypt digest compared against when the username does
// not exist, so the unknown-user path costs the same as a real compare.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements the token lifecycle: credential login and
// rotate-on-refresh.
type AuthService struct {
	users      repository.UserRepository
	tokens     *token.Manager
	refreshTTL time.Duration
	limiter    *ratelimit.LoginLimiter
	events     *event.Producer
	logger     *slog.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(
	users repository.UserRepository,
	tokens *token.Manager,
	refreshTTL time.Duration,
	limiter *ratelimit.LoginLimiter,
	events *event.Producer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		limiter:    limiter,
		events:     events,
		logger:     logger,
	}
}

// Login verifies credentials and issues a fresh token pair, overwriting any
// previously bound refresh token. Unknown user, wrong password, and inactive
// account all fail with the same generic error.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*domain.TokenResult, error) {
	if !s.limiter.Allow(ctx, userName) {
		return nil, apperrors.TooManyRequests("too many login attempts, try again later")
	}

	user, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, apperrors.AuthenticationFailed()
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.InfoContext(ctx, "login rejected: bad password",
			slog.Int64("user_id", user.ID),
		)
		return nil, apperrors.AuthenticationFailed()
	}

	if !user.IsActive {
		s.logger.InfoContext(ctx, "login rejected: inactive account",
			slog.Int64("user_id", user.ID),
		)
		return nil, apperrors.AuthenticationFailed()
	}

	result, refreshHash, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	// The binding write must complete even if the client disconnects after
	// this point, otherwise the issued refresh token would be unusable.
	persistCtx := context.WithoutCancel(ctx)
	if err := s.users.BindRefreshToken(persistCtx, user.ID, refreshHash, result.RefreshTokenExpiresAt); err != nil {
		return nil, fmt.Errorf("bind refresh token: %w", err)
	}

	s.limiter.Reset(ctx, userName)
	s.events.AuthEvent(ctx, event.TypeUserLoggedIn, user.ID, user.UserName)

	return result, nil
}

// Refresh exchanges an expired (or still valid) access token plus its paired
// refresh token for a brand new pair. The presented refresh token is consumed
// whether or not the exchange succeeds past the rotation point.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*domain.TokenResult, error) {
	principal, err := s.tokens.ExtractExpired(accessToken)
	if err != nil {
		return nil, apperrors.InvalidAccessToken()
	}

	presentedHash := token.HashRefreshToken(refreshToken)

	user, err := s.users.GetByRefreshTokenHash(ctx, presentedHash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidRefreshToken()
		}
		return nil, fmt.Errorf("refresh lookup: %w", err)
	}

	// The refresh token must belong to the same subject as the access token.
	if user.ID != principal.UserID {
		s.logger.WarnContext(ctx, "refresh rejected: token pair subject mismatch",
			slog.Int64("token_user_id", principal.UserID),
			slog.Int64("refresh_user_id", user.ID),
		)
		return nil, apperrors.InvalidRefreshToken()
	}

	if !user.IsActive {
		return nil, apperrors.InvalidRefreshToken()
	}

	result, newHash, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	persistCtx := context.WithoutCancel(ctx)
	if err := s.users.RotateRefreshToken(persistCtx, user.ID, presentedHash, newHash, result.RefreshTokenExpiresAt); err != nil {
		// A concurrent refresh already rotated this token; the presented one
		// is spent.
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.InvalidRefreshToken()
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	s.events.AuthEvent(ctx, event.TypeTokensRefreshed, user.ID, user.UserName)

	return result, nil
}

// ValidateAccessToken fully validates an access token for request
// authentication.
func (s *AuthService) ValidateAccessToken(tokenString string) (*token.Principal, error) {
	principal, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, apperrors.InvalidAccessToken()
	}
	return principal, nil
}

func (s *AuthService) issuePair(user *domain.User) (*domain.TokenResult, string, error) {
	accessToken, accessExpiresAt, err := s.tokens.Issue(user.ID, user.UserName, user.RoleName)
	if err != nil {
		return nil, "", fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := token.NewRefreshToken()
	if err != nil {
		return nil, "", err
	}

	return &domain.TokenResult{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: time.Now().Add(s.refreshTTL),
		UserID:                user.ID,
		UserName:              user.UserName,
		FullName:              user.FullName(),
		Role:                  user.RoleName,
	}, token.HashRefreshToken(refreshToken), nil
}
