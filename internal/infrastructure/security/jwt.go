package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmptySecret: an empty HMAC key would let anyone mint tokens.
	ErrEmptySecret = errors.New("jwt secret is empty")
)

// TokenManager validates session tokens issued for the identity provider's users.
// Only the subject is trusted; everything else about the user lives in the users table.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Generate is used by local tooling and tests to mint a token for userID.
func (m *TokenManager) Generate(userID string, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrEmptySecret
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	return t.SignedString(m.secret)
}

// ValidateAccessToken returns the user id (sub claim) of a valid token.
func (m *TokenManager) ValidateAccessToken(tokenStr string) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrEmptySecret
	}
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
