// Package security provides JWT token utilities
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/studio-one/portfolio-api/internal/domain/user"
)

// ValidateJWT validates an HS256 token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	if jwtSecret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
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

// IdentityFromClaims extracts the caller from JWT claims. The role may sit at
// the top level or under app_metadata, as identity providers issue both.
func IdentityFromClaims(claims jwt.MapClaims) (user.Identity, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return user.Identity{}, errors.New("token has no subject")
	}

	id := user.Identity{ID: sub}
	id.Email, _ = claims["email"].(string)
	id.Role, _ = claims["role"].(string)
	if meta, ok := claims["app_metadata"].(map[string]any); ok {
		if role, ok := meta["role"].(string); ok && role != "" {
			id.Role = role
		}
	}
	return id, nil
}

// GenerateAdminToken signs a token for the given identity
func GenerateAdminToken(id user.Identity, jwtSecret string, ttl time.Duration) (string, error) {
	if jwtSecret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  id.ID,
		"role": id.Role,
		"type": "admin_auth",
		"jti":  GenerateULID(),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	if id.Email != "" {
		claims["email"] = id.Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
