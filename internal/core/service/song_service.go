package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
	"github.com/wperaltaarriaga/songs-api/internal/core/ports"
)

// SongService implements the song catalog use cases. Ownership checks run
// in the authorization middleware before these methods are reached; the
// service only enforces payload invariants.
type SongService struct {
	repo   ports.SongRepository
	logger zerolog.Logger
}

func NewSongService(repo ports.SongRepository, logger zerolog.Logger) *SongService {
	return &SongService{repo: repo, logger: logger}
}

// Create inserts a new song owned by input.CreatedBy. The owner id is
// required and immutable afterwards.
func (s *SongService) Create(ctx context.Context, input ports.CreateSongInput) (*domain.Song, error) {
	if err := domain.NewValidationError(
		domain.NonEmpty("title", input.Title),
		domain.NonEmpty("author", input.Author),
		domain.NonEmpty("created_by", input.CreatedBy),
		domain.ValidYear("release_year", input.ReleaseYear),
	); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	song := &domain.Song{
		Title:       input.Title,
		Author:      input.Author,
		ReleaseYear: input.ReleaseYear,
		Genre:       input.Genre,
		DurationSec: input.DurationSec,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Insert(ctx, song)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("song_id", created.ID).Str("created_by", created.CreatedBy).Msg("song created")
	return created, nil
}

func (s *SongService) List(ctx context.Context) ([]*domain.Song, error) {
	return s.repo.FindAll(ctx)
}

func (s *SongService) Get(ctx context.Context, id string) (*domain.Song, error) {
	return s.repo.FindByID(ctx, id)
}

// Update merges the patch onto song, which the caller already fetched (the
// ownership middleware loads it once per request). The read and the write
// are not transactional: a concurrent delete surfaces as ErrSongNotFound
// from the repository.
func (s *SongService) Update(ctx context.Context, song *domain.Song, patch domain.SongPatch) (*domain.Song, error) {
	if patch.ReleaseYear != nil {
		if err := domain.NewValidationError(domain.ValidYear("release_year", *patch.ReleaseYear)); err != nil {
			return nil, err
		}
	}

	merged := song.Merge(patch)
	merged.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, &merged)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("song_id", merged.ID).Msg("song updated")
	return updated, nil
}

func (s *SongService) Delete(ctx context.Context, id string) (*domain.Song, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("song_id", id).Msg("song deleted")
	return deleted, nil
}

// ReportByAuthor returns the grouped songs-per-author aggregate.
func (s *SongService) ReportByAuthor(ctx context.Context) ([]*domain.AuthorReport, error) {
	return s.repo.CountByAuthor(ctx)
}
