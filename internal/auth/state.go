package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StateTTL bounds how long an OAuth2 authorization redirect may stay pending.
const StateTTL = 10 * time.Minute

// StateClaims is the payload of the signed `state` parameter used to bind an
// authorization redirect to the callback that completes it.
type StateClaims struct {
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// NewStateToken issues a signed state token for one provider redirect.
func NewStateToken(secret []byte, provider string) (string, error) {
	now := time.Now()
	claims := StateClaims{
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(StateTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseStateToken validates signature and expiry of a callback's state.
func ParseStateToken(secret []byte, tokenStr string) (*StateClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &StateClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*StateClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid state token")
}
