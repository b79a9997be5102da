package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wperaltaarriaga/songs-api/internal/api/metrics"
	"github.com/wperaltaarriaga/songs-api/internal/core/ports"
)

// SongHandler handles HTTP requests for the song catalog.
type SongHandler struct {
	service ports.SongService
}

func NewSongHandler(service ports.SongService) *SongHandler {
	return &SongHandler{service: service}
}

// Create adds a song to the catalog, owned by the caller.
//
// @Summary      Create a song
// @Tags         songs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSongRequest  true  "Song payload"
// @Success      201   {object}  songResponse
// @Failure      422   {object}  errorResponse
// @Router       /songs/create [post]
func (h *SongHandler) Create(c echo.Context) error {
	tc, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createSongRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	song, err := h.service.Create(c.Request().Context(), ports.CreateSongInput{
		Title:       req.Title,
		Author:      req.Author,
		ReleaseYear: req.ReleaseYear,
		Genre:       req.Genre,
		DurationSec: req.DurationSec,
		CreatedBy:   tc.ID,
	})
	if err != nil {
		return err
	}

	metrics.SongsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, songResponse{Song: song})
}

// List returns every song in the catalog.
//
// @Summary      List songs
// @Tags         songs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  songListResponse
// @Router       /songs/all [get]
func (h *SongHandler) List(c echo.Context) error {
	songs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, songListResponse{Songs: songs, Total: len(songs)})
}

// Get returns a single song by id.
//
// @Summary      Get a song
// @Tags         songs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Song id"
// @Success      200  {object}  songResponse
// @Failure      404  {object}  errorResponse
// @Router       /songs/song/{id} [get]
func (h *SongHandler) Get(c echo.Context) error {
	song, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, songResponse{Song: song})
}

// Update applies a partial update to a song. The ownership middleware has
// already fetched the song and proven the caller owns it.
//
// @Summary      Update a song
// @Tags         songs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateSongRequest  true  "Partial update (empty fields keep current values)"
// @Success      200   {object}  songResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /songs/update [patch]
func (h *SongHandler) Update(c echo.Context) error {
	song := ctxSong(c)
	if song == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "ownership check missing")
	}

	var req updateSongRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), song, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, songResponse{Song: updated})
}

// Delete removes a song (owner or admin; the middleware decides).
//
// @Summary      Delete a song
// @Tags         songs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Song id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /songs/delete/{id} [delete]
func (h *SongHandler) Delete(c echo.Context) error {
	deleted, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "song " + deleted.Title + " deleted"})
}

// ReportByAuthor returns songs grouped per author.
//
// @Summary      Songs grouped by author
// @Tags         songs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authorReportResponse
// @Router       /songs/report/songs-by-author [get]
func (h *SongHandler) ReportByAuthor(c echo.Context) error {
	authors, err := h.service.ReportByAuthor(c.Request().Context())
	if err != nil {
		return err
	}
	metrics.ExportsTotal.WithLabelValues("songs_by_author").Inc()
	return c.JSON(http.StatusOK, authorReportResponse{Authors: authors, Total: len(authors)})
}
