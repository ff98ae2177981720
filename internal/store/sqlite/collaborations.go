package sqlite

import (
	"context"

	"github.com/openmusicapp/openmusic-server/internal/domain"
	"github.com/openmusicapp/openmusic-server/internal/store"
)

// CreateCollaboration grants a user access to a playlist.
// Returns store.ErrAlreadyExists if the grant already exists.
func (s *Store) CreateCollaboration(ctx context.Context, collab *domain.Collaboration) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collaborations (id, playlist_id, user_id, created_at)
		VALUES (?, ?, ?, ?)`,
		collab.ID,
		collab.PlaylistID,
		collab.UserID,
		formatTime(collab.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// DeleteCollaboration revokes a user's access to a playlist.
// Returns store.ErrNotFound if no such grant exists.
func (s *Store) DeleteCollaboration(ctx context.Context, playlistID, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM collaborations WHERE playlist_id = ? AND user_id = ?`,
		playlistID, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// IsCollaborator reports whether the user has been granted access to
// the playlist.
func (s *Store) IsCollaborator(ctx context.Context, playlistID, userID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM collaborations WHERE playlist_id = ? AND user_id = ?`,
		playlistID, userID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
