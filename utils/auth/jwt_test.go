package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret-key-for-jwt-signing-32-chars",
		Expiry:        15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "test-issuer",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestJWTManager()

	token, jti, err := manager.GenerateAccessToken(42, "user@example.com", "creator", 3)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "creator", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, jti, claims.ID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	manager := newTestJWTManager()
	other := NewJWTManager(JWTConfig{
		Secret: "a-completely-different-secret-key-here",
		Expiry: 15 * time.Minute,
	})

	token, _, err := manager.GenerateAccessToken(1, "user@example.com", "learner", 0)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager(JWTConfig{
		Secret: "test-secret-key-for-jwt-signing-32-chars",
		Expiry: -1 * time.Minute,
	})

	token, _, err := manager.GenerateAccessToken(1, "user@example.com", "learner", 0)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	manager := newTestJWTManager()

	_, err := manager.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAccessToken(t *testing.T) {
	manager := newTestJWTManager()

	refresh, _, err := manager.GenerateRefreshToken(7, "user@example.com", "learner", 1)
	require.NoError(t, err)

	access, _, err := manager.RefreshAccessToken(refresh, 1)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	manager := newTestJWTManager()

	access, _, err := manager.GenerateAccessToken(7, "user@example.com", "learner", 1)
	require.NoError(t, err)

	_, _, err = manager.RefreshAccessToken(access, 1)
	assert.ErrorIs(t, err, ErrInvalidToken, "an access token cannot be used as a refresh token")
}

func TestGetTokenExpiry(t *testing.T) {
	manager := newTestJWTManager()

	token, _, err := manager.GenerateAccessToken(1, "user@example.com", "learner", 0)
	require.NoError(t, err)

	expiry, err := manager.GetTokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiry, 5*time.Second)
}
