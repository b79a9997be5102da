package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// tokenClaims is the JWT payload: the identity snapshot plus registered
// claims for expiry handling.
type tokenClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed identity tokens. It is a
// pure cryptographic transform plus a clock read; it never touches the
// database.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs {id, email, role} with an expiry of ttl from now.
// Fails with domain.ErrNoSecret when no secret is configured.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	if len(s.secret) == 0 {
		return "", domain.ErrNoSecret
	}

	now := time.Now()
	claims := tokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates the token, returning its claims.
// Any failure (bad signature, malformed payload, elapsed expiry, wrong
// signing method) collapses to domain.ErrInvalidToken.
func (s *TokenService) Verify(raw string) (*domain.TokenClaims, error) {
	if len(s.secret) == 0 {
		return nil, domain.ErrNoSecret
	}

	var claims tokenClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.Join(domain.ErrInvalidToken, err)
	}

	return &domain.TokenClaims{ID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}
