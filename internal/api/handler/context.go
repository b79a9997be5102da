package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wperaltaarriaga/songs-api/internal/api/middleware"
	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Authenticate middleware.
// An absent value means the route was registered without it; fail fast
// rather than act on a zero identity.
func ctxClaims(c echo.Context) (*domain.TokenClaims, error) {
	tc, _ := c.Get(middleware.ClaimsKey).(*domain.TokenClaims)
	if tc == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return tc, nil
}

// ctxSong returns the song pre-fetched by the ownership middleware, if any.
func ctxSong(c echo.Context) *domain.Song {
	song, _ := c.Get(middleware.SongKey).(*domain.Song)
	return song
}
