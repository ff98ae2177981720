package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openmusicapp/openmusic-server/internal/domain"
	domainerrors "github.com/openmusicapp/openmusic-server/internal/errors"
	"github.com/openmusicapp/openmusic-server/internal/id"
	"github.com/openmusicapp/openmusic-server/internal/store"
)

// SongInput holds the writable fields of a song.
type SongInput struct {
	Title     string  `json:"title" validate:"required,min=1,max=255"`
	Year      int     `json:"year" validate:"required,gte=1900,lte=2100"`
	Genre     string  `json:"genre" validate:"required,min=1,max=100"`
	Performer string  `json:"performer" validate:"required,min=1,max=255"`
	Duration  *int    `json:"duration" validate:"omitempty,gt=0"`
	AlbumID   *string `json:"albumId" validate:"omitempty,min=1"`
}

// SongService manages the song catalog.
type SongService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSongService creates a new song service.
func NewSongService(store store.Store, logger *slog.Logger) *SongService {
	return &SongService{store: store, logger: logger}
}

// CreateSong creates a new song and returns its ID. When an album ID
// is given, the album must exist.
func (s *SongService) CreateSong(ctx context.Context, input SongInput) (string, error) {
	if err := s.checkAlbum(ctx, input.AlbumID); err != nil {
		return "", err
	}

	songID, err := id.Generate("song")
	if err != nil {
		return "", fmt.Errorf("generate song ID: %w", err)
	}

	now := time.Now()
	song := &domain.Song{
		ID:        songID,
		Title:     input.Title,
		Year:      input.Year,
		Genre:     input.Genre,
		Performer: input.Performer,
		Duration:  input.Duration,
		AlbumID:   input.AlbumID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateSong(ctx, song); err != nil {
		return "", fmt.Errorf("create song: %w", err)
	}

	s.logger.Info("song created", "song_id", songID, "title", input.Title)
	return songID, nil
}

// GetSong returns a single song by ID.
func (s *SongService) GetSong(ctx context.Context, songID string) (*domain.Song, error) {
	song, err := s.store.GetSong(ctx, songID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("song not found")
		}
		return nil, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

// ListSongs returns song summaries, optionally filtered by title and
// performer substrings.
func (s *SongService) ListSongs(ctx context.Context, filter store.SongFilter) ([]domain.SongSummary, error) {
	songs, err := s.store.ListSongs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	return songs, nil
}

// UpdateSong replaces a song's writable fields.
func (s *SongService) UpdateSong(ctx context.Context, songID string, input SongInput) error {
	song, err := s.store.GetSong(ctx, songID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("song not found")
		}
		return fmt.Errorf("get song: %w", err)
	}

	if err := s.checkAlbum(ctx, input.AlbumID); err != nil {
		return err
	}

	song.Title = input.Title
	song.Year = input.Year
	song.Genre = input.Genre
	song.Performer = input.Performer
	song.Duration = input.Duration
	song.AlbumID = input.AlbumID
	song.UpdatedAt = time.Now()

	if err := s.store.UpdateSong(ctx, song); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("song not found")
		}
		return fmt.Errorf("update song: %w", err)
	}
	return nil
}

// DeleteSong removes a song from the catalog. Playlist membership
// rows cascade; activity history keeps the raw song ID.
func (s *SongService) DeleteSong(ctx context.Context, songID string) error {
	if err := s.store.DeleteSong(ctx, songID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("song not found")
		}
		return fmt.Errorf("delete song: %w", err)
	}
	return nil
}

func (s *SongService) checkAlbum(ctx context.Context, albumID *string) error {
	if albumID == nil {
		return nil
	}
	if _, err := s.store.GetAlbum(ctx, *albumID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("album not found")
		}
		return fmt.Errorf("get album: %w", err)
	}
	return nil
}
