package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that cannot be verified:
// malformed, unsigned, wrong algorithm, bad signature, or claims that do not
// fit the expected shape. Callers branch on this sentinel with errors.Is.
var ErrInvalidToken = errors.New("invalid token")

const minSecretLength = 32

// Principal is the identity carried inside an access token.
type Principal struct {
	UserID   int64
	UserName string
	Role     string
}

type accessClaims struct {
	UserName string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HMAC-SHA256 signed access tokens.
type Manager struct {
	secret    []byte
	accessTTL time.Duration

	verifyParser  *jwt.Parser
	expiredParser *jwt.Parser
}

// NewManager creates a token manager. The secret must be at least 32 bytes
// and the access token TTL must be positive.
func NewManager(secret string, accessTTL time.Duration) (*Manager, error) {
	if accessTTL <= 0 {
		return nil, fmt.Errorf("access token ttl must be positive, got %s", accessTTL)
	}
	return newManager(secret, accessTTL)
}

// NewVerifier creates a manager that can verify tokens but not issue them,
// for services that only consume access tokens.
func NewVerifier(secret string) (*Manager, error) {
	return newManager(secret, 0)
}

func newManager(secret string, accessTTL time.Duration) (*Manager, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}

	return &Manager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		verifyParser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		),
		expiredParser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (m *Manager) AccessTTL() time.Duration {
	return m.accessTTL
}

// Issue creates a signed access token for the given identity and returns the
// token string together with its expiry instant.
func (m *Manager) Issue(userID int64, userName, role string) (string, time.Time, error) {
	if m.accessTTL <= 0 {
		return "", time.Time{}, fmt.Errorf("token manager is verify-only")
	}

	now := time.Now()
	expiresAt := now.Add(m.accessTTL)

	claims := accessClaims{
		UserName: userName,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify fully validates an access token, including expiry, and returns the
// embedded principal. Any failure is reported as ErrInvalidToken.
func (m *Manager) Verify(tokenString string) (*Principal, error) {
	return m.parse(m.verifyParser, tokenString)
}

// ExtractExpired validates the signature and algorithm of an access token but
// deliberately skips expiry checks, returning the embedded principal. This is
// how a refresh request recovers the identity from a token that has already
// expired. A token with a bad signature still fails with ErrInvalidToken.
func (m *Manager) ExtractExpired(tokenString string) (*Principal, error) {
	return m.parse(m.expiredParser, tokenString)
}

func (m *Manager) parse(parser *jwt.Parser, tokenString string) (*Principal, error) {
	var claims accessClaims
	token, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: malformed subject claim", ErrInvalidToken)
	}
	if claims.UserName == "" {
		return nil, fmt.Errorf("%w: missing username claim", ErrInvalidToken)
	}

	return &Principal{
		UserID:   userID,
		UserName: claims.UserName,
		Role:     claims.Role,
	}, nil
}
