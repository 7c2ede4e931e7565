package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload we read out of identity-provider tokens. The server
// never issues tokens itself; it only verifies the HMAC signature and expiry
// and trusts the subject.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID is the identity-provider subject for this token.
func (c *Claims) UserID() string {
	return c.Subject
}

// ParseToken validates a JWT string and extracts the claims. It verifies the
// signature against the shared secret, the expiry, and that the signing
// method is HMAC (rejecting algorithm-switching tokens).
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}
