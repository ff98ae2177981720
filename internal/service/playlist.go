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

// PlaylistService orchestrates playlist operations with access
// control enforced on every entry point.
type PlaylistService struct {
	store  store.Store
	access *AccessResolver
	logger *slog.Logger
}

// NewPlaylistService creates a new playlist service.
func NewPlaylistService(store store.Store, access *AccessResolver, logger *slog.Logger) *PlaylistService {
	return &PlaylistService{
		store:  store,
		access: access,
		logger: logger,
	}
}

// CreatePlaylist creates a playlist owned by the given user and
// returns its generated ID.
func (s *PlaylistService) CreatePlaylist(ctx context.Context, ownerID, name string) (string, error) {
	playlistID, err := id.Generate("playlist")
	if err != nil {
		return "", fmt.Errorf("generate playlist ID: %w", err)
	}

	now := time.Now()
	playlist := &domain.Playlist{
		ID:        playlistID,
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreatePlaylist(ctx, playlist); err != nil {
		return "", fmt.Errorf("create playlist: %w", err)
	}

	s.logger.Info("playlist created", "playlist_id", playlistID, "owner_id", ownerID)

	return playlistID, nil
}

// ListPlaylists returns every playlist the user owns or collaborates
// on. No access check is needed; the listing is scoped to the user.
func (s *PlaylistService) ListPlaylists(ctx context.Context, userID string) ([]domain.PlaylistSummary, error) {
	playlists, err := s.store.ListPlaylistsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	return playlists, nil
}

// DeletePlaylist removes a playlist. Owner only: collaborators cannot
// delete a playlist they were granted access to.
func (s *PlaylistService) DeletePlaylist(ctx context.Context, playlistID, userID string) error {
	if err := s.access.RequireOwner(ctx, playlistID, userID); err != nil {
		return err
	}

	if err := s.store.DeletePlaylist(ctx, playlistID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("playlist not found")
		}
		return fmt.Errorf("delete playlist: %w", err)
	}

	s.logger.Info("playlist deleted", "playlist_id", playlistID, "user_id", userID)

	return nil
}

// AddSong appends a song to a playlist and records the addition in
// the playlist's history. Owner or collaborator. The same song may be
// added multiple times.
func (s *PlaylistService) AddSong(ctx context.Context, playlistID, songID, userID string) error {
	if err := s.access.RequireAccess(ctx, playlistID, userID); err != nil {
		return err
	}

	// The song must exist in the catalog before it can be referenced.
	if _, err := s.store.GetSong(ctx, songID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("song not found")
		}
		return fmt.Errorf("get song: %w", err)
	}

	activity, err := s.newActivity(playlistID, songID, userID, domain.ActivityActionAdd)
	if err != nil {
		return err
	}

	if err := s.store.AddSongToPlaylist(ctx, playlistID, songID, activity); err != nil {
		return fmt.Errorf("add song to playlist: %w", err)
	}

	s.logger.Info("song added to playlist",
		"playlist_id", playlistID,
		"song_id", songID,
		"user_id", userID,
	)

	return nil
}

// RemoveSong removes a song from a playlist and records the removal
// in the playlist's history. Owner or collaborator.
func (s *PlaylistService) RemoveSong(ctx context.Context, playlistID, songID, userID string) error {
	if err := s.access.RequireAccess(ctx, playlistID, userID); err != nil {
		return err
	}

	activity, err := s.newActivity(playlistID, songID, userID, domain.ActivityActionRemove)
	if err != nil {
		return err
	}

	if err := s.store.RemoveSongFromPlaylist(ctx, playlistID, songID, activity); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("song not found in playlist")
		}
		return fmt.Errorf("remove song from playlist: %w", err)
	}

	s.logger.Info("song removed from playlist",
		"playlist_id", playlistID,
		"song_id", songID,
		"user_id", userID,
	)

	return nil
}

// GetSongs returns the playlist detail view with its songs. Owner or
// collaborator.
func (s *PlaylistService) GetSongs(ctx context.Context, playlistID, userID string) (*domain.PlaylistWithSongs, error) {
	if err := s.access.RequireAccess(ctx, playlistID, userID); err != nil {
		return nil, err
	}

	playlist, err := s.store.GetPlaylistWithSongs(ctx, playlistID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("playlist not found")
		}
		return nil, fmt.Errorf("get playlist with songs: %w", err)
	}
	return playlist, nil
}

// GetActivities returns the playlist's mutation history in
// chronological order. Owner or collaborator.
func (s *PlaylistService) GetActivities(ctx context.Context, playlistID, userID string) ([]domain.ActivityEntry, error) {
	if err := s.access.RequireAccess(ctx, playlistID, userID); err != nil {
		return nil, err
	}

	activities, err := s.store.ListPlaylistActivities(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list playlist activities: %w", err)
	}
	return activities, nil
}

func (s *PlaylistService) newActivity(playlistID, songID, userID string, action domain.ActivityAction) (*domain.PlaylistActivity, error) {
	activityID, err := id.Generate("activity")
	if err != nil {
		return nil, fmt.Errorf("generate activity ID: %w", err)
	}

	return &domain.PlaylistActivity{
		ID:         activityID,
		PlaylistID: playlistID,
		SongID:     songID,
		UserID:     userID,
		Action:     action,
		CreatedAt:  time.Now(),
	}, nil
}
