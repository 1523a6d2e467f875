package migrations

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var bcryptHashPattern = regexp.MustCompile(`\$2[aby]\$\d\d\$[./A-Za-z0-9]{53}`)

// The bootstrap admin must be able to log in with the password documented in
// the seed migration.
func TestSeededAdminPasswordVerifies(t *testing.T) {
	content, err := FS.ReadFile("002_seed_roles.up.sql")
	require.NoError(t, err)

	hash := bcryptHashPattern.FindString(string(content))
	require.NotEmpty(t, hash, "seed migration contains no bcrypt hash")

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("ChangeMe123!")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong-password")))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 12, cost)
}
