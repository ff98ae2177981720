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

// CollaborationService manages the collaborator registry for
// playlists. Only owners can grant or revoke access.
type CollaborationService struct {
	store  store.Store
	access *AccessResolver
	logger *slog.Logger
}

// NewCollaborationService creates a new collaboration service.
func NewCollaborationService(store store.Store, access *AccessResolver, logger *slog.Logger) *CollaborationService {
	return &CollaborationService{
		store:  store,
		access: access,
		logger: logger,
	}
}

// AddCollaborator grants a user access to a playlist and returns the
// collaboration ID. The requesting user must own the playlist, and
// the target user must exist.
func (s *CollaborationService) AddCollaborator(ctx context.Context, playlistID, targetUserID, requestingUserID string) (string, error) {
	if err := s.access.RequireOwner(ctx, playlistID, requestingUserID); err != nil {
		return "", err
	}

	if _, err := s.store.GetUser(ctx, targetUserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domainerrors.NotFound("user not found")
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	// Owners are never collaborator rows.
	if targetUserID == requestingUserID {
		return "", domainerrors.Validation("cannot add the playlist owner as a collaborator")
	}

	collabID, err := id.Generate("collab")
	if err != nil {
		return "", fmt.Errorf("generate collaboration ID: %w", err)
	}

	collab := &domain.Collaboration{
		ID:         collabID,
		PlaylistID: playlistID,
		UserID:     targetUserID,
		CreatedAt:  time.Now(),
	}

	if err := s.store.CreateCollaboration(ctx, collab); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", domainerrors.Conflict("user is already a collaborator on this playlist")
		}
		return "", fmt.Errorf("create collaboration: %w", err)
	}

	s.logger.Info("collaborator added",
		"playlist_id", playlistID,
		"user_id", targetUserID,
		"granted_by", requestingUserID,
	)

	return collabID, nil
}

// RemoveCollaborator revokes a user's access to a playlist. Owner
// only. Revocation takes effect immediately: the next access check
// consults the registry fresh.
func (s *CollaborationService) RemoveCollaborator(ctx context.Context, playlistID, targetUserID, requestingUserID string) error {
	if err := s.access.RequireOwner(ctx, playlistID, requestingUserID); err != nil {
		return err
	}

	if err := s.store.DeleteCollaboration(ctx, playlistID, targetUserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Validation("failed to remove collaborator")
		}
		return fmt.Errorf("delete collaboration: %w", err)
	}

	s.logger.Info("collaborator removed",
		"playlist_id", playlistID,
		"user_id", targetUserID,
		"revoked_by", requestingUserID,
	)

	return nil
}
