package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hostelhub/config"
	"hostelhub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthorized)
	ErrMissingToken = fmt.Errorf("%w: missing bearer token", domain.ErrUnauthorized)
)

// Principal is the account a token speaks for.
type Principal struct {
	UserID uuid.UUID   `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

type Claims struct {
	Principal
	jwt.RegisteredClaims
}

// IssueAccessToken signs an HS256 token for p that expires after cfg.AccessExpiry.
func IssueAccessToken(cfg *config.JWTConfig, p Principal) (string, error) {
	if p.UserID == uuid.Nil {
		return "", errors.New("auth: token subject has no user id")
	}
	now := time.Now()
	claims := Claims{
		Principal: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
}

func ParseAccessToken(cfg *config.JWTConfig, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.AccessSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(cfg.Issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	// The subject and the user_id claim must agree.
	if claims.Subject != claims.UserID.String() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// FromBearer parses an "Authorization: Bearer <token>" header value.
func FromBearer(cfg *config.JWTConfig, header string) (*Claims, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	return ParseAccessToken(cfg, strings.TrimSpace(token))
}
