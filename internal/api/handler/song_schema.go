package handler

import "github.com/wperaltaarriaga/songs-api/internal/core/domain"

// Request/response types for the songs endpoints.

type createSongRequest struct {
	Title       string `json:"title"        validate:"required"`
	Author      string `json:"author"       validate:"required"`
	ReleaseYear int    `json:"release_year" validate:"required"`
	Genre       string `json:"genre"`
	DurationSec int    `json:"duration_sec" validate:"omitempty,gt=0"`
}

// updateSongRequest is body-addressed like updateUserRequest. The ownership
// middleware reads the id ahead of binding; empty fields keep current values.
type updateSongRequest struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	ReleaseYear *int   `json:"release_year"`
	Genre       string `json:"genre"`
	DurationSec *int   `json:"duration_sec"`
}

func (r updateSongRequest) patch() domain.SongPatch {
	return domain.SongPatch{
		Title:       r.Title,
		Author:      r.Author,
		ReleaseYear: r.ReleaseYear,
		Genre:       r.Genre,
		DurationSec: r.DurationSec,
	}
}

type songResponse struct {
	Song *domain.Song `json:"song"`
}

type songListResponse struct {
	Songs []*domain.Song `json:"songs"`
	Total int            `json:"total"`
}

type authorReportResponse struct {
	Authors []*domain.AuthorReport `json:"authors"`
	Total   int                    `json:"total"`
}
