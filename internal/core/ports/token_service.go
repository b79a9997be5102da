package ports

import "github.com/wperaltaarriaga/songs-api/internal/core/domain"

// TokenIssuer signs an identity snapshot into a time-limited token.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier checks a token's signature and expiry and returns its
// claims. It never consults the database.
type TokenVerifier interface {
	Verify(token string) (*domain.TokenClaims, error)
}
