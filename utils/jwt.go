package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what the rest of the system needs from a bearer
// token: who is calling and with which role.
type TokenClaims struct {
	UserID uint
	Role   string
}

// NewAccessToken signs an HS256 JWT with subject (user id), role,
// expiry and issued-at claims.
func NewAccessToken(secret string, userID uint, role string, ttlMinutes int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", userID),
		"role": role,
		"exp":  now.Add(time.Duration(ttlMinutes) * time.Minute).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken validates signature and expiry and extracts the
// subject and role.
func ParseAccessToken(secret, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("token missing subject")
	}
	var userID uint
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil {
		return nil, errors.New("token subject is not a user id")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return nil, errors.New("token missing role")
	}

	return &TokenClaims{UserID: userID, Role: role}, nil
}
