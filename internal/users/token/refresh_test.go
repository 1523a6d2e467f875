package token

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefreshToken_Entropy(t *testing.T) {
	a, err := NewRefreshToken()
	require.NoError(t, err)
	b, err := NewRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	raw, err := base64.StdEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestHashRefreshToken_Deterministic(t *testing.T) {
	tok, err := NewRefreshToken()
	require.NoError(t, err)

	h1 := HashRefreshToken(tok)
	h2 := HashRefreshToken(tok)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotContains(t, h1, tok)
}

func TestHashRefreshToken_DistinctInputs(t *testing.T) {
	assert.NotEqual(t, HashRefreshToken("a"), HashRefreshToken("b"))
}
