package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTCodec_Issue(t *testing.T) {
	secret := "test-secret"
	issuer, _ := NewJWTCodec(secret)

	token, err := issuer.Issue("user-123", "u@example.com", []string{"admin", "staff"}, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Parse and verify claims
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, []string{"admin", "staff"}, claims.Roles)
}

func TestJWTCodec_Verify(t *testing.T) {
	issuer, verifier := NewJWTCodec("test-secret")

	token, err := issuer.Issue("user-9", "op@example.com", []string{"staff"}, time.Hour)
	require.NoError(t, err)

	userID, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)
}

func TestJWTCodec_Verify_wrong_secret(t *testing.T) {
	issuer, _ := NewJWTCodec("secret-a")
	_, verifier := NewJWTCodec("secret-b")

	token, err := issuer.Issue("user-9", "op@example.com", nil, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTCodec_Verify_expired(t *testing.T) {
	issuer, verifier := NewJWTCodec("test-secret")

	token, err := issuer.Issue("user-9", "op@example.com", nil, -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}
