package ports

import (
	"context"

	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
)

// SongRepository defines persistence operations for songs.
// A missing record is signalled with domain.ErrSongNotFound.
type SongRepository interface {
	FindAll(ctx context.Context) ([]*domain.Song, error)
	FindByID(ctx context.Context, id string) (*domain.Song, error)
	Insert(ctx context.Context, song *domain.Song) (*domain.Song, error)
	Update(ctx context.Context, song *domain.Song) (*domain.Song, error)
	Delete(ctx context.Context, id string) (*domain.Song, error)
	// CountByAuthor groups all songs per author, with titles, sorted by
	// descending count.
	CountByAuthor(ctx context.Context) ([]*domain.AuthorReport, error)
}
