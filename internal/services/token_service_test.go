package services_test

import (
	"testing"
	"time"

	"userhub/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens := services.NewTokenService("secret", 0)

	token, err := tokens.Issue(7)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserIdx)
	assert.Equal(t, services.TokenSubject, claims.Subject)
	assert.Equal(t, int64(services.DefaultTokenTTL/time.Second), claims.ExpiresAt-claims.IssuedAt)
}

func TestTokenService_CustomTTL(t *testing.T) {
	tokens := services.NewTokenService("secret", time.Hour)

	token, err := tokens.Issue(1)
	require.NoError(t, err)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), claims.ExpiresAt-claims.IssuedAt)
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	token, err := services.NewTokenService("secret", 0).Issue(7)
	require.NoError(t, err)

	_, err = services.NewTokenService("other", 0).Verify(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestTokenService_Verify_Expired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.Claims{
		UserIdx: 7,
		StandardClaims: jwt.StandardClaims{
			Subject:   services.TokenSubject,
			IssuedAt:  past.Unix(),
			ExpiresAt: past.Add(time.Hour).Unix(),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = services.NewTokenService("secret", 0).Verify(token)
	assert.Error(t, err)
}

func TestTokenService_Verify_RejectsNoneAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, services.Claims{
		UserIdx: 7,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = services.NewTokenService("secret", 0).Verify(token)
	assert.Error(t, err)
}

func TestTokenService_Verify_Garbage(t *testing.T) {
	_, err := services.NewTokenService("secret", 0).Verify("not-a-token")
	assert.Error(t, err)
}
