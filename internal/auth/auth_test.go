package auth

import (
	"testing"

	"artbook_backend/internal/config"
	"artbook_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
}

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, CheckPasswordHash("correct horse battery", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("longenough"))
}

func TestGenerateAndParseToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("user-123", models.UserRoleArtist)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.UserRoleArtist, claims.Role)
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// Not parallel: swaps the global config for the duration of the test.
func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("user-123", models.UserRoleClient)
	require.NoError(t, err)

	original := config.AppConfig
	defer func() { config.AppConfig = original }()

	tampered := &config.Config{}
	tampered.JWT.Secret = "different-secret"
	tampered.JWT.TTL = 60
	config.AppConfig = tampered

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
