package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtIssuer = "pacelog"

// JWTChecker verifies HS256 bearer tokens issued by SignJWT. It lets API
// clients authenticate without holding a redis session.
type JWTChecker struct {
	secret []byte
}

func NewJWTChecker(secret string) *JWTChecker {
	return &JWTChecker{
		secret: []byte(secret),
	}
}

func (c *JWTChecker) UserID(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNotLoggedIn
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithIssuer(jwtIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotLoggedIn, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", ErrNotLoggedIn
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", ErrNotLoggedIn
	}

	return subject, nil
}

// SignJWT issues a token for the user, valid for ttl.
func SignJWT(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": jwtIssuer,
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}
