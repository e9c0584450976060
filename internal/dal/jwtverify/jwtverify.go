package jwtverify

import (
	"errors"
	"fmt"

	"github.com/aurastore/backend/order/internal/service/models/actor"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Claims are the session credential claims issued by the auth service.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Verifier checks HS256 bearer tokens against a shared secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a session credential and returns the
// actor it identifies. The customer id is taken from the subject claim.
func (v *Verifier) Verify(token string) (actor.Actor, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return actor.Guest(), ErrInvalidToken
	}

	if claims.Subject == "" {
		return actor.Guest(), ErrInvalidClaims
	}

	return actor.Actor{
		CustomerID: claims.Subject,
		Role:       claims.Role,
	}, nil
}
