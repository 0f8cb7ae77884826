package services

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenService issues and verifies signed session tokens.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService signing with secret. Issued tokens
// expire after lifetime.
func NewTokenService(secret string, lifetime time.Duration) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		lifetime: lifetime,
	}
}

// Lifetime returns how long an issued token stays valid.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue returns an HS256 token whose subject is subjectID.
func (s *TokenService) Issue(subjectID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   subjectID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.lifetime).Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify returns the token subject. ok is false for a bad signature, a
// missing subject or expiry, or an expired token.
func (s *TokenService) Verify(tokenString string) (subjectID string, ok bool) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	if claims.Subject == "" || claims.ExpiresAt == 0 {
		return "", false
	}
	return claims.Subject, true
}
