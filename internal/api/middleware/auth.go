package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wperaltaarriaga/songs-api/internal/core/ports"
)

// Context keys set by the middleware in this package.
const (
	// ClaimsKey holds the *domain.TokenClaims of the authenticated caller.
	ClaimsKey = "claims"
	// SongKey holds the *domain.Song fetched by the song-ownership checks,
	// so handlers downstream do not fetch it again.
	SongKey = "song"
)

// Authenticate requires a bearer token and injects its claims into the
// context. A missing credential is 401; a credential that is present but
// invalid or expired is 403. The asymmetry is intentional and part of the
// API contract.
func Authenticate(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "invalid token")
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}
