package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/armaan/kanban-be/internal/apperr"
)

// Claims defines the JWT claims structure.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenCodec issues and validates signed bearer tokens. The signing secret
// and token lifetime are fixed at construction; the codec holds no other
// state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a TokenCodec with the given signing secret and
// token time-to-live.
func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: secret, ttl: ttl}
}

// Issue creates a signed token asserting the given username until the
// configured TTL elapses.
func (c *TokenCodec) Issue(username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Validate parses a token string, verifies its signature and expiry, and
// returns the subject username. A signature mismatch or malformed input
// yields apperr.ErrTokenTampered; an expired but well-signed token yields
// apperr.ErrTokenExpired. Tampering always wins over expiry.
func (c *TokenCodec) Validate(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", apperr.ErrTokenTampered
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", apperr.ErrTokenExpired
		default:
			return "", apperr.ErrTokenTampered
		}
	}
	if !token.Valid {
		return "", apperr.ErrTokenTampered
	}
	return claims.Username, nil
}
