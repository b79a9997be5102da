package ports

import (
	"context"

	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
)

// CreateSongInput carries the song creation payload. CreatedBy is the
// authenticated caller's id, stamped by the handler from the token claims.
type CreateSongInput struct {
	Title       string
	Author      string
	ReleaseYear int
	Genre       string
	DurationSec int
	CreatedBy   string
}

// SongService defines use-case operations over the song catalog.
type SongService interface {
	Create(ctx context.Context, input CreateSongInput) (*domain.Song, error)
	List(ctx context.Context) ([]*domain.Song, error)
	Get(ctx context.Context, id string) (*domain.Song, error)
	// Update merges the patch onto an already-fetched song (the ownership
	// middleware loads it once and attaches it to the request context).
	Update(ctx context.Context, song *domain.Song, patch domain.SongPatch) (*domain.Song, error)
	Delete(ctx context.Context, id string) (*domain.Song, error)
	ReportByAuthor(ctx context.Context) ([]*domain.AuthorReport, error)
}
