package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/nduongg04/live-docs/pkg/errors"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager(Config{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := newTestTokenManager()
	user := User{ID: 7, Email: "user@example.com"}

	access, err := m.GenerateAccess(user)
	require.NoError(t, err)
	refresh, err := m.GenerateRefresh(user)
	require.NoError(t, err)

	claims, err := m.ParseAccess(access)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, "user@example.com", claims.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	refreshClaims, err := m.ParseRefresh(refresh)
	require.NoError(t, err)
	require.Equal(t, int64(7), refreshClaims.UserID)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), refreshClaims.ExpiresAt, time.Minute)
}

func TestTokenManager_SecretsAreIndependent(t *testing.T) {
	m := newTestTokenManager()
	user := User{ID: 7, Email: "user@example.com"}

	access, err := m.GenerateAccess(user)
	require.NoError(t, err)
	refresh, err := m.GenerateRefresh(user)
	require.NoError(t, err)

	_, err = m.ParseRefresh(access)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "unauthorized"))

	_, err = m.ParseAccess(refresh)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "unauthorized"))
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	m := NewTokenManager(Config{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  -time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
	access, err := m.GenerateAccess(User{ID: 1, Email: "user@example.com"})
	require.NoError(t, err)

	_, err = m.ParseAccess(access)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "unauthorized"))
}

func TestTokenExpiry_UnverifiedRead(t *testing.T) {
	m := newTestTokenManager()
	access, err := m.GenerateAccess(User{ID: 1, Email: "user@example.com"})
	require.NoError(t, err)

	expiry, err := TokenExpiry(access)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)

	_, err = TokenExpiry("not-a-token")
	require.Error(t, err)
}
