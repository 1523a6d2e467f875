package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-0123456789"

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m, err := NewManager(testSecret, ttl)
	require.NoError(t, err)
	return m
}

func TestNewManager_RejectsShortSecret(t *testing.T) {
	_, err := NewManager("short", time.Minute)
	assert.Error(t, err)
}

func TestNewManager_RejectsNonPositiveTTL(t *testing.T) {
	_, err := NewManager(testSecret, 0)
	assert.Error(t, err)

	_, err = NewManager(testSecret, -time.Minute)
	assert.Error(t, err)
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	m := newTestManager(t, 15*time.Minute)

	tokenString, expiresAt, err := m.Issue(42, "alice", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 2*time.Second)

	principal, err := m.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), principal.UserID)
	assert.Equal(t, "alice", principal.UserName)
	assert.Equal(t, "admin", principal.Role)
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	m := newTestManager(t, time.Millisecond)

	tokenString, _, err := m.Issue(1, "alice", "user")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = m.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractExpired_AcceptsExpiredToken(t *testing.T) {
	m := newTestManager(t, time.Millisecond)

	tokenString, _, err := m.Issue(7, "bob", "user")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	principal, err := m.ExtractExpired(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(7), principal.UserID)
	assert.Equal(t, "bob", principal.UserName)
}

func TestExtractExpired_RejectsTamperedSignature(t *testing.T) {
	m := newTestManager(t, time.Minute)

	tokenString, _, err := m.Issue(1, "alice", "user")
	require.NoError(t, err)

	parts := strings.Split(tokenString, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = m.ExtractExpired(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractExpired_RejectsWrongSecret(t *testing.T) {
	m := newTestManager(t, time.Minute)
	other, err := NewManager("another-secret-that-is-long-enough-xyz", time.Minute)
	require.NoError(t, err)

	tokenString, _, err := other.Issue(1, "alice", "user")
	require.NoError(t, err)

	_, err = m.ExtractExpired(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractExpired_RejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager(t, time.Minute)

	claims := accessClaims{
		UserName: "alice",
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ExtractExpired(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractExpired_RejectsDifferentHMACAlgorithm(t *testing.T) {
	m := newTestManager(t, time.Minute)

	claims := accessClaims{
		UserName: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.ExtractExpired(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractExpired_RejectsNonNumericSubject(t *testing.T) {
	m := newTestManager(t, time.Minute)

	claims := accessClaims{
		UserName: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-number",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.ExtractExpired(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractExpired_RejectsMissingUsername(t *testing.T) {
	m := newTestManager(t, time.Minute)

	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.ExtractExpired(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractExpired_RejectsGarbage(t *testing.T) {
	m := newTestManager(t, time.Minute)

	for _, input := range []string{"", "garbage", "a.b.c"} {
		_, err := m.ExtractExpired(input)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", input)
	}
}

func TestNewVerifier_CannotIssue(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	_, _, err = v.Issue(1, "alice", "user")
	assert.Error(t, err)
}

func TestNewVerifier_VerifiesIssuedTokens(t *testing.T) {
	m := newTestManager(t, time.Minute)
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	tokenString, _, err := m.Issue(3, "carol", "user")
	require.NoError(t, err)

	principal, err := v.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(3), principal.UserID)
}
