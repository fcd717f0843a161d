package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session holds an issued token and its expiry.
type Session struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// Claims represents the JWT payload.
type Claims struct {
	Subject string `json:"sub"`
	Role    string `json:"role"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}

// Issue signs a session token for a subject. The ttl bounds the whole
// session; there is no refresh flow.
func Issue(subject, name, role, issuer, key string, ttl time.Duration) (Session, error) {
	exp := time.Now().Add(ttl)
	claims := Claims{
		Subject: subject,
		Role:    role,
		Name:    name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, TokenID: claims.ID, ExpiresAt: exp}, nil
}

// Parse validates a token and returns claims. Expired or malformed tokens
// both surface as errors; callers treat any error as unauthenticated.
func Parse(tokenStr, key, issuer string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(key), nil
	})
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if issuer != "" && claims.Issuer != issuer {
		return Claims{}, errors.New("issuer mismatch")
	}
	return *claims, nil
}
