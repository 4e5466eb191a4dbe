package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybalashov/bimvault/internal/config"
	"github.com/ybalashov/bimvault/internal/domain"
)

var testAuthConf = config.Auth{
	JwtSecret:   "test-secret",
	JwtIssuer:   "bimvault",
	JwtAudience: "bimvault-api",
}

func TestTokenRoundTrip(t *testing.T) {
	s := NewTokenService(testAuthConf)

	token, err := s.Issue(domain.User{ID: 42, Email: "anna@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := s.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	other := NewTokenService(config.Auth{JwtSecret: "different-secret"})
	token, err := other.Issue(domain.User{ID: 42})
	require.NoError(t, err)

	s := NewTokenService(testAuthConf)
	_, err = s.Verify(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestVerifyRejectsExpired(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "42",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-3 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(testAuthConf.JwtSecret))
	require.NoError(t, err)

	s := NewTokenService(testAuthConf)
	_, err = s.Verify(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s := NewTokenService(testAuthConf)

	_, err := s.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, domain.ErrAuth)

	_, err = s.Verify(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	s := NewTokenService(testAuthConf)
	_, err = s.Verify(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrAuth)
}
