// utils/token.go
package utils

import (
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
)

const (
	SessionTokenLifetime = 12 * time.Hour
	ResetTokenLifetime   = 1 * time.Hour
)

// SessionClaims bind a session token to a user.
// Subject carries the email, UserID the numeric account id.
type SessionClaims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// CreateSessionToken issues a 12-hour bearer token for a logged-in user.
func CreateSessionToken(userID uint, email, secret string) (string, error) {
	claims := &SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// CreateResetToken issues a 1-hour password-reset token.
// Reset tokens use a secret distinct from session tokens so neither can
// stand in for the other.
func CreateResetToken(userID uint, email, secret string) (string, error) {
	claims := &SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ResetTokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(tokenString, secret string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
