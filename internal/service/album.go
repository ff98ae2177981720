package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openmusicapp/openmusic-server/internal/cache"
	"github.com/openmusicapp/openmusic-server/internal/domain"
	domainerrors "github.com/openmusicapp/openmusic-server/internal/errors"
	"github.com/openmusicapp/openmusic-server/internal/id"
	"github.com/openmusicapp/openmusic-server/internal/media/images"
	"github.com/openmusicapp/openmusic-server/internal/store"
)

// AlbumInput holds the writable fields of an album.
type AlbumInput struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Year int    `json:"year" validate:"required,gte=1900,lte=2100"`
}

// AlbumService manages albums, their cover art, and like counts.
type AlbumService struct {
	store    store.Store
	covers   *images.Storage
	cache    *cache.Cache
	logger   *slog.Logger
	baseURL  string
	maxCover int64
}

// NewAlbumService creates a new album service. baseURL is the public
// base URL used when building cover links; maxCover caps uploaded
// cover sizes in bytes.
func NewAlbumService(store store.Store, covers *images.Storage, cache *cache.Cache, logger *slog.Logger, baseURL string, maxCover int64) *AlbumService {
	return &AlbumService{
		store:    store,
		covers:   covers,
		cache:    cache,
		logger:   logger,
		baseURL:  baseURL,
		maxCover: maxCover,
	}
}

// CreateAlbum creates a new album and returns its ID.
func (s *AlbumService) CreateAlbum(ctx context.Context, input AlbumInput) (string, error) {
	albumID, err := id.Generate("album")
	if err != nil {
		return "", fmt.Errorf("generate album ID: %w", err)
	}

	now := time.Now()
	album := &domain.Album{
		ID:        albumID,
		Name:      input.Name,
		Year:      input.Year,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateAlbum(ctx, album); err != nil {
		return "", fmt.Errorf("create album: %w", err)
	}

	s.logger.Info("album created", "album_id", albumID, "name", input.Name)
	return albumID, nil
}

// GetAlbum returns an album with its songs.
func (s *AlbumService) GetAlbum(ctx context.Context, albumID string) (*domain.Album, error) {
	album, err := s.store.GetAlbum(ctx, albumID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("album not found")
		}
		return nil, fmt.Errorf("get album: %w", err)
	}
	return album, nil
}

// UpdateAlbum replaces an album's writable fields.
func (s *AlbumService) UpdateAlbum(ctx context.Context, albumID string, input AlbumInput) error {
	album, err := s.store.GetAlbum(ctx, albumID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("album not found")
		}
		return fmt.Errorf("get album: %w", err)
	}

	album.Name = input.Name
	album.Year = input.Year
	album.UpdatedAt = time.Now()

	if err := s.store.UpdateAlbum(ctx, album); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("album not found")
		}
		return fmt.Errorf("update album: %w", err)
	}
	return nil
}

// DeleteAlbum removes an album. Songs referencing it are detached,
// not deleted. Any stored cover file is removed alongside.
func (s *AlbumService) DeleteAlbum(ctx context.Context, albumID string) error {
	if err := s.store.DeleteAlbum(ctx, albumID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("album not found")
		}
		return fmt.Errorf("delete album: %w", err)
	}

	if err := s.covers.Delete(albumID); err != nil {
		s.logger.Warn("failed to delete album cover", "album_id", albumID, "error", err)
	}
	if err := s.cache.InvalidateLikeCount(albumID); err != nil {
		s.logger.Warn("failed to invalidate like count", "album_id", albumID, "error", err)
	}
	return nil
}

// UploadCover validates and stores cover art for an album, then
// records the public cover URL. The upload must be a decodable image
// no larger than the configured cap.
func (s *AlbumService) UploadCover(ctx context.Context, albumID string, data []byte) error {
	if _, err := s.store.GetAlbum(ctx, albumID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("album not found")
		}
		return fmt.Errorf("get album: %w", err)
	}

	if int64(len(data)) > s.maxCover {
		return domainerrors.Validationf("cover exceeds the maximum size of %d bytes", s.maxCover)
	}

	img, format, err := images.Decode(data)
	if err != nil {
		return domainerrors.Validation("cover must be a valid image")
	}

	if err := s.covers.Save(albumID, data); err != nil {
		return fmt.Errorf("save cover: %w", err)
	}

	coverURL := fmt.Sprintf("%s/api/v1/albums/%s/cover", s.baseURL, albumID)
	if err := s.store.SetAlbumCover(ctx, albumID, coverURL); err != nil {
		return fmt.Errorf("set album cover: %w", err)
	}

	if hash, err := images.ComputeBlurHash(img); err == nil {
		s.logger.Info("album cover stored",
			"album_id", albumID,
			"format", format,
			"bytes", len(data),
			"blurhash", hash,
		)
	} else {
		s.logger.Info("album cover stored", "album_id", albumID, "format", format, "bytes", len(data))
	}
	return nil
}

// GetCover returns the raw cover bytes for an album.
func (s *AlbumService) GetCover(ctx context.Context, albumID string) ([]byte, error) {
	album, err := s.store.GetAlbum(ctx, albumID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("album not found")
		}
		return nil, fmt.Errorf("get album: %w", err)
	}
	if !album.HasCover() {
		return nil, domainerrors.NotFound("album has no cover")
	}

	data, err := s.covers.Get(albumID)
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	return data, nil
}

// LikeAlbum records a like from a user. A user can like an album at
// most once.
func (s *AlbumService) LikeAlbum(ctx context.Context, albumID, userID string) error {
	if _, err := s.store.GetAlbum(ctx, albumID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("album not found")
		}
		return fmt.Errorf("get album: %w", err)
	}

	liked, err := s.store.HasUserLikedAlbum(ctx, albumID, userID)
	if err != nil {
		return fmt.Errorf("check like: %w", err)
	}
	if liked {
		return domainerrors.Validation("you have already liked this album")
	}

	if err := s.store.LikeAlbum(ctx, albumID, userID); err != nil {
		return fmt.Errorf("like album: %w", err)
	}
	if err := s.cache.InvalidateLikeCount(albumID); err != nil {
		s.logger.Warn("failed to invalidate like count", "album_id", albumID, "error", err)
	}
	return nil
}

// UnlikeAlbum removes a user's like from an album.
func (s *AlbumService) UnlikeAlbum(ctx context.Context, albumID, userID string) error {
	if err := s.store.UnlikeAlbum(ctx, albumID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("like not found")
		}
		return fmt.Errorf("unlike album: %w", err)
	}
	if err := s.cache.InvalidateLikeCount(albumID); err != nil {
		s.logger.Warn("failed to invalidate like count", "album_id", albumID, "error", err)
	}
	return nil
}

// GetLikeCount returns the number of likes on an album. The second
// return value reports whether the count was served from the cache.
func (s *AlbumService) GetLikeCount(ctx context.Context, albumID string) (int, bool, error) {
	if count, err := s.cache.GetLikeCount(albumID); err == nil {
		return count, true, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("like count cache read failed", "album_id", albumID, "error", err)
	}

	if _, err := s.store.GetAlbum(ctx, albumID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, false, domainerrors.NotFound("album not found")
		}
		return 0, false, fmt.Errorf("get album: %w", err)
	}

	count, err := s.store.CountAlbumLikes(ctx, albumID)
	if err != nil {
		return 0, false, fmt.Errorf("count likes: %w", err)
	}

	if err := s.cache.SetLikeCount(albumID, count); err != nil {
		s.logger.Warn("like count cache write failed", "album_id", albumID, "error", err)
	}
	return count, false, nil
}
