package auth

import (
	"chat-hub/errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "chat-hub"

// Tokenizer issues and verifies the bearer tokens of the HTTP and websocket APIs.
// The subject claim carries the user id.
type Tokenizer struct {
	key      []byte
	duration time.Duration
	now      func() time.Time
}

func NewTokenizer(secret string, duration time.Duration) *Tokenizer {
	return &Tokenizer{key: []byte(secret), duration: duration, now: time.Now}
}

// Generate creates a signed JWT for a specific user.
func (t *Tokenizer) Generate(userID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(t.duration)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
	}

	// HMAC with SHA256
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrTokenGeneration, err)
	}
	return signed, nil
}

// Validate checks signature, algorithm and expiration, and returns the user id.
func (t *Tokenizer) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrUnauthorized, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", errors.ErrUnauthorized)
	}
	return claims.Subject, nil
}
