package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accessOptions() SignOptions {
	return SignOptions{
		Secret:    []byte("access-secret"),
		ExpiresIn: 15 * time.Minute,
		Audience:  TokenAudience,
	}
}

func refreshOptions() SignOptions {
	return SignOptions{
		Secret:    []byte("refresh-secret"),
		ExpiresIn: 30 * 24 * time.Hour,
		Audience:  TokenAudience,
	}
}

func TestSignAndVerifyToken(t *testing.T) {
	opts := accessOptions()
	token, err := SignToken("user-1", "session-1", time.Now(), opts)
	require.NoError(t, err)

	claims, err := VerifyToken(token, opts)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := SignToken("user-1", "session-1", time.Now(), accessOptions())
	require.NoError(t, err)

	_, err = VerifyToken(token, refreshOptions())
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyTokenExpired(t *testing.T) {
	opts := accessOptions()
	// Signed in the past so the embedded expiry has already elapsed.
	token, err := SignToken("user-1", "session-1", time.Now().Add(-time.Hour), opts)
	require.NoError(t, err)

	claims, err := VerifyToken(token, opts)
	require.ErrorIs(t, err, ErrTokenExpired)
	require.NotNil(t, claims)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestVerifyTokenWrongAudience(t *testing.T) {
	opts := accessOptions()
	opts.Audience = "service"
	token, err := SignToken("user-1", "session-1", time.Now(), opts)
	require.NoError(t, err)

	opts.Audience = TokenAudience
	_, err = VerifyToken(token, opts)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyTokenMalformed(t *testing.T) {
	_, err := VerifyToken("not-a-token", accessOptions())
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshTokenOmitsUserID(t *testing.T) {
	opts := refreshOptions()
	token, err := SignToken("", "session-1", time.Now(), opts)
	require.NoError(t, err)

	claims, err := VerifyToken(token, opts)
	require.NoError(t, err)
	assert.Empty(t, claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID)
}
