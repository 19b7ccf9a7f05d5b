package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	_, err := NewJWTManager("")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	manager, err := NewJWTManager("test-secret")
	require.NoError(t, err)

	token, err := manager.GenerateAccessJWT("user-1", time.Minute)
	require.NoError(t, err)

	userID, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	manager, err := NewJWTManager("test-secret")
	require.NoError(t, err)
	manager.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := manager.GenerateAccessJWT("user-1", time.Minute)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	signer, _ := NewJWTManager("secret-a")
	verifier, _ := NewJWTManager("secret-b")

	token, err := signer.GenerateAccessJWT("user-1", time.Minute)
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestValidateAccessToken_SubjectFallback(t *testing.T) {
	manager, _ := NewJWTManager("test-secret")
	claims := jwt.StandardClaims{Subject: "user-2", ExpiresAt: time.Now().Add(time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	userID, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", userID)
}

func TestValidateAccessToken_NoIdentity(t *testing.T) {
	manager, _ := NewJWTManager("test-secret")
	claims := jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}
