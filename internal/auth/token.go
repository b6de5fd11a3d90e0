// Package auth issues and validates the bearer tokens of the JobTrack API.
// Tokens are HS256 JWTs whose subject is the user id.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/manav03panchal/jobtrack/internal/errors"
)

// Issuer is the iss claim of every token this package mints.
const Issuer = "jobtrack"

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 16

// Claims are the JWT claims expected by the API.
type Claims struct {
	jwt.RegisteredClaims
}

// CheckSecret rejects signing secrets that are missing or too short.
func CheckSecret(secret string) error {
	if len(secret) < MinSecretLength {
		return errors.NewUserError(
			fmt.Sprintf("JWT secret must be at least %d characters", MinSecretLength),
			"Set JOBTRACK_JWT_SECRET in the environment or in .env",
		)
	}
	return nil
}

// Issue signs a token for user. A non-positive ttl issues a token without
// expiry.
func Issue(secret, user string, ttl time.Duration) (string, error) {
	if err := CheckSecret(secret); err != nil {
		return "", err
	}
	if strings.TrimSpace(user) == "" {
		return "", errors.NewValidationError("user", "is required")
	}

	now := time.Now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:   Issuer,
		Subject:  user,
		IssuedAt: jwt.NewNumericDate(now),
	}}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Validator checks token signatures against one secret.
type Validator struct {
	secret []byte
}

// NewValidator creates a validator for secret.
func NewValidator(secret string) (*Validator, error) {
	if err := CheckSecret(secret); err != nil {
		return nil, err
	}
	return &Validator{secret: []byte(secret)}, nil
}

// Validate parses a token and returns its claims. Expired, unsigned or
// subject-less tokens are rejected with ErrUnauthorized.
func (v *Validator) Validate(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return nil, errors.ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token subject is required", errors.ErrUnauthorized)
	}
	return claims, nil
}

// Inspect reads the claims of a token without checking its signature.
// Clients use it to decide whether a stored token is still worth sending.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.NewValidationError("token", "not a JWT")
	}
	return claims, nil
}

// Expired reports whether claims carry an expiry at or before now.
func Expired(claims *Claims, now time.Time) bool {
	return claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time)
}
