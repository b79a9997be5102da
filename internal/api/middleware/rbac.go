package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
	"github.com/wperaltaarriaga/songs-api/internal/core/ports"
)

// claims returns the token claims injected by Authenticate. An absent value
// means the route was wired without the auth middleware.
func claims(c echo.Context) (*domain.TokenClaims, error) {
	tc, _ := c.Get(ClaimsKey).(*domain.TokenClaims)
	if tc == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return tc, nil
}

// RequireRole allows only callers whose role equals the required role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tc, err := claims(c)
			if err != nil {
				return err
			}
			if tc.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}

// RequireOwnerOrAdmin allows the caller when the path :id matches their own
// id, or when they are an admin.
func RequireOwnerOrAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tc, err := claims(c)
			if err != nil {
				return err
			}
			if tc.ID != c.Param("id") && !tc.IsAdmin() {
				return domain.ErrAccessDenied
			}
			return next(c)
		}
	}
}

// RequireOwnerOnly allows only the caller whose id matches the path :id.
// Admin does not bypass this check.
func RequireOwnerOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tc, err := claims(c)
			if err != nil {
				return err
			}
			if tc.ID != c.Param("id") {
				return domain.ErrAccessDenied
			}
			return next(c)
		}
	}
}

// RequireSongOwner allows only the owner of the target song. The song is
// fetched once here and attached to the context under SongKey.
func RequireSongOwner(songs ports.SongRepository) echo.MiddlewareFunc {
	return requireSongOwnership(songs, false)
}

// RequireSongOwnerOrAdmin is RequireSongOwner with an admin bypass.
func RequireSongOwnerOrAdmin(songs ports.SongRepository) echo.MiddlewareFunc {
	return requireSongOwnership(songs, true)
}

func requireSongOwnership(songs ports.SongRepository, adminBypass bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tc, err := claims(c)
			if err != nil {
				return err
			}

			id, err := targetSongID(c)
			if err != nil {
				return err
			}

			song, err := songs.FindByID(c.Request().Context(), id)
			if err != nil {
				return err
			}

			if song.CreatedBy != tc.ID && !(adminBypass && tc.IsAdmin()) {
				return domain.ErrAccessDenied
			}

			c.Set(SongKey, song)
			return next(c)
		}
	}
}

// targetSongID resolves the song id from the path, falling back to the
// request body for body-addressed routes (PATCH /songs/update). The body is
// restored so the handler can bind it again.
func targetSongID(c echo.Context) (string, error) {
	if id := c.Param("id"); id != "" {
		return id, nil
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	c.Request().Body = io.NopCloser(bytes.NewReader(body))

	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || probe.ID == "" {
		return "", domain.NewValidationError(&domain.FieldError{Field: "id", Message: "is required"})
	}
	return probe.ID, nil
}
