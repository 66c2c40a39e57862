package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-at-least-32-characters",
		RefreshSecret:          "test-refresh-secret-at-least-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "setorcuan-test",
	})
}

func TestJWTService_GenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: userID, Username: "budi", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	t.Run("access token carries role", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "budi", claims.Username)
		assert.Equal(t, "admin", claims.Role)
		id, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, id)
	})

	t.Run("refresh token omits role", func(t *testing.T) {
		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Empty(t, claims.Role)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	})

	t.Run("token types are not interchangeable", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.Error(t, err)
		_, err = svc.ValidateRefreshToken(pair.AccessToken)
		assert.Error(t, err)
	})

	t.Run("nil user is rejected", func(t *testing.T) {
		_, err := svc.GenerateTokenPair(GenerateTokenInput{})
		assert.ErrorIs(t, err, ErrMissingUserID)
	})
}

func TestJWTService_ValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()

	t.Run("expired token", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New(), Role: "customer"})
		require.NoError(t, err)
		svc.now = time.Now

		_, err = svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-another-secret-another",
			AccessTokenExpiration: time.Minute,
			Issuer:                "setorcuan-test",
		})
		pair, err := other.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.NewString(), TokenType: TokenTypeAccess})
		raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	assert.Zero(t, (&Claims{}).GetRemainingTTL())

	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	assert.InDelta(t, time.Hour.Seconds(), c.GetRemainingTTL().Seconds(), 5)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)

	hash, err := h.Hash("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.NoError(t, h.Verify(hash, "admin123"))
	assert.ErrorIs(t, h.Verify(hash, "wrong"), ErrPasswordMismatch)
}
