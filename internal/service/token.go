package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/ybalashov/bimvault/internal/config"
	"github.com/ybalashov/bimvault/internal/domain"
)

var tracer = otel.Tracer("auth")

const tokenTTL = 2 * time.Hour

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the bearer credentials carried by every
// authenticated request. HS256 with a server-configured secret; the secret
// is validated at startup, never here.
type TokenService struct {
	conf config.Auth
}

func NewTokenService(conf config.Auth) *TokenService {
	return &TokenService{conf: conf}
}

func (s *TokenService) Issue(user domain.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    s.conf.JwtIssuer,
			Audience:  jwt.ClaimStrings{s.conf.JwtAudience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.conf.JwtSecret))
}

// Verify checks the signature and expiry and returns the requester's user id.
func (s *TokenService) Verify(ctx context.Context, tokenString string) (uint, error) {
	_, span := tracer.Start(ctx, "Token.Service.Verify")
	defer span.End()

	claims := tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.conf.JwtSecret), nil
	})
	if err != nil {
		span.RecordError(errors.Wrap(err, "jwt validation failed"))
		return 0, domain.AuthError{Message: "invalid token"}
	}
	if !token.Valid {
		span.RecordError(fmt.Errorf("token rejected"))
		return 0, domain.AuthError{Message: "invalid token"}
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		span.RecordError(errors.Wrap(err, "malformed subject claim"))
		return 0, domain.AuthError{Message: "invalid token"}
	}

	return uint(userID), nil
}
