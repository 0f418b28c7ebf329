package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateTokenPair(t *testing.T) {
	pair, err := GenerateTokenPair(42, "admin", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)

	t.Run("Should issue distinct access and refresh tokens", func(t *testing.T) {
		assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
		assert.Greater(t, pair.RefreshTokenExpiresAt, pair.AccessTokenExpiresAt)
	})

	t.Run("Should round-trip claims", func(t *testing.T) {
		claims, err := ValidateToken(pair.AccessToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, string(AccessToken), claims.Type)
		assert.NotEmpty(t, claims.ID)

		claims, err = ValidateToken(pair.RefreshToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, string(RefreshToken), claims.Type)
	})

	t.Run("Should give every token its own id", func(t *testing.T) {
		again, err := GenerateTokenPair(42, "admin", testSecret, time.Minute, time.Hour)
		require.NoError(t, err)
		assert.NotEqual(t, pair.RefreshToken, again.RefreshToken)
	})
}

func TestValidateToken(t *testing.T) {
	t.Run("Should reject a token signed with another secret", func(t *testing.T) {
		token, _, err := GenerateAccessToken(1, "user", "other-secret", time.Minute)
		require.NoError(t, err)
		_, err = ValidateToken(token, testSecret)
		assert.Error(t, err)
	})

	t.Run("Should reject an expired token", func(t *testing.T) {
		token, _, err := GenerateAccessToken(1, "user", testSecret, -time.Minute)
		require.NoError(t, err)
		_, err = ValidateToken(token, testSecret)
		assert.Error(t, err)
	})

	t.Run("Should reject garbage", func(t *testing.T) {
		_, err := ValidateToken("not.a.jwt", testSecret)
		assert.Error(t, err)
	})
}
