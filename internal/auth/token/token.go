package token

import (
	"errors"
	"time"

	autherrors "go-hrm/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the session identity every authenticated route relies on.
type Claims struct {
	UserID       string `json:"user_id"`
	EmployeeCode string `json:"employee_code,omitempty"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

func Issue(secret string, claims Claims, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	claims.Subject = claims.UserID

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func Parse(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherrors.ErrTokenExpired
		}
		return nil, autherrors.ErrInvalidToken.WithCause(err)
	}
	if !tok.Valid || claims.UserID == "" || claims.Role == "" {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}
