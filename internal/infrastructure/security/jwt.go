// Package security provides JWT session token utilities
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SessionClaims is what a validated session token carries.
type SessionClaims struct {
	UserID    string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// ValidateJWT validates an HS256 token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GetSessionFromClaims extracts session data from JWT claims
func GetSessionFromClaims(claims jwt.MapClaims) (*SessionClaims, error) {
	if claims["type"] != "session" {
		return nil, errors.New("not a session token")
	}
	sub, _ := claims["sub"].(string)
	jti, _ := claims["jti"].(string)
	if sub == "" || jti == "" {
		return nil, errors.New("session token missing subject or id")
	}
	role, _ := claims["role"].(string)

	var expiresAt time.Time
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt = time.Unix(int64(exp), 0).UTC()
	}

	return &SessionClaims{UserID: sub, Role: role, TokenID: jti, ExpiresAt: expiresAt}, nil
}

// GenerateSessionToken signs a session token for a member.
func GenerateSessionToken(userID, role, jwtSecret string, ttl time.Duration) (string, *SessionClaims, error) {
	now := time.Now().UTC()
	session := &SessionClaims{
		UserID:    userID,
		Role:      role,
		TokenID:   GenerateULID(),
		ExpiresAt: now.Add(ttl).Truncate(time.Second),
	}

	claims := jwt.MapClaims{
		"sub":  session.UserID,
		"role": session.Role,
		"jti":  session.TokenID,
		"type": "session",
		"iat":  now.Unix(),
		"exp":  session.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, session, nil
}
