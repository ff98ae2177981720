package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openmusicapp/openmusic-server/internal/domain"
	"github.com/openmusicapp/openmusic-server/internal/id"
	"github.com/openmusicapp/openmusic-server/internal/store"
)

// CreatePlaylist inserts a new playlist.
func (s *Store) CreatePlaylist(ctx context.Context, playlist *domain.Playlist) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO playlists (id, name, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		playlist.ID,
		playlist.Name,
		playlist.OwnerID,
		formatTime(playlist.CreatedAt),
		formatTime(playlist.UpdatedAt),
	)
	return err
}

// GetPlaylist retrieves a playlist by ID.
// Returns store.ErrNotFound if the playlist does not exist.
func (s *Store) GetPlaylist(ctx context.Context, playlistID string) (*domain.Playlist, error) {
	var (
		p         domain.Playlist
		createdAt string
		updatedAt string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM playlists WHERE id = ?`, playlistID).
		Scan(&p.ID, &p.Name, &p.OwnerID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// GetPlaylistWithSongs retrieves a playlist's detail view: its name,
// the owner's username, and the contained songs in insertion order.
// Duplicate memberships produce duplicate entries.
// Returns store.ErrNotFound if the playlist does not exist.
func (s *Store) GetPlaylistWithSongs(ctx context.Context, playlistID string) (*domain.PlaylistWithSongs, error) {
	var p domain.PlaylistWithSongs

	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, u.username
		FROM playlists p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = ?`, playlistID).
		Scan(&p.ID, &p.Name, &p.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.performer
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = ?
		ORDER BY ps.created_at, ps.id`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p.Songs = []domain.SongSummary{}
	for rows.Next() {
		var song domain.SongSummary
		if err := rows.Scan(&song.ID, &song.Title, &song.Performer); err != nil {
			return nil, err
		}
		p.Songs = append(p.Songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &p, nil
}

// ListPlaylistsForUser returns summaries for every playlist the user
// owns or collaborates on, with the owner's username denormalized.
func (s *Store) ListPlaylistsForUser(ctx context.Context, userID string) ([]domain.PlaylistSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT p.id, p.name, u.username
		FROM playlists p
		JOIN users u ON u.id = p.owner_id
		LEFT JOIN collaborations c ON c.playlist_id = p.id AND c.user_id = ?
		WHERE p.owner_id = ? OR c.id IS NOT NULL
		ORDER BY p.created_at`,
		userID, userID)
	if err != nil {
		return nil, fmt.Errorf("query playlists for user: %w", err)
	}
	defer rows.Close()

	playlists := []domain.PlaylistSummary{}
	for rows.Next() {
		var p domain.PlaylistSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Username); err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return playlists, nil
}

// DeletePlaylist hard-deletes a playlist. Memberships, collaborations,
// and activities are removed via ON DELETE CASCADE.
// Returns store.ErrNotFound if the playlist does not exist.
func (s *Store) DeletePlaylist(ctx context.Context, playlistID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, playlistID)
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

// AddSongToPlaylist appends a membership row and its activity record
// in one transaction, so the history cannot drift from the contents.
// Duplicate additions of the same song are allowed.
func (s *Store) AddSongToPlaylist(ctx context.Context, playlistID, songID string, activity *domain.PlaylistActivity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	entryID, err := id.Generate("plsong")
	if err != nil {
		return fmt.Errorf("generate membership ID: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO playlist_songs (id, playlist_id, song_id, created_at)
		VALUES (?, ?, ?, ?)`,
		entryID, playlistID, songID, formatTime(activity.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert playlist song: %w", err)
	}

	if err := insertActivity(ctx, tx, activity); err != nil {
		return err
	}

	return tx.Commit()
}

// RemoveSongFromPlaylist deletes all membership rows for the song and
// records the removal activity in one transaction.
// Returns store.ErrNotFound if the song was not in the playlist; in
// that case no activity is recorded.
func (s *Store) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID string, activity *domain.PlaylistActivity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`,
		playlistID, songID)
	if err != nil {
		return fmt.Errorf("delete playlist song: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if err := insertActivity(ctx, tx, activity); err != nil {
		return err
	}

	return tx.Commit()
}

// insertActivity appends one history row inside an open transaction.
func insertActivity(ctx context.Context, tx *sql.Tx, activity *domain.PlaylistActivity) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO playlist_song_activities (id, playlist_id, song_id, user_id, action, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		activity.ID,
		activity.PlaylistID,
		activity.SongID,
		activity.UserID,
		string(activity.Action),
		formatTime(activity.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListPlaylistActivities returns the playlist's history in
// chronological order, with usernames and song titles denormalized.
// Entries survive song deletion; the song ID stands in for the title
// when the song row is gone.
func (s *Store) ListPlaylistActivities(ctx context.Context, playlistID string) ([]domain.ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(u.username, a.user_id), COALESCE(s.title, a.song_id), a.action, a.created_at
		FROM playlist_song_activities a
		LEFT JOIN users u ON u.id = a.user_id
		LEFT JOIN songs s ON s.id = a.song_id
		WHERE a.playlist_id = ?
		ORDER BY a.created_at, a.id`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("query playlist activities: %w", err)
	}
	defer rows.Close()

	activities := []domain.ActivityEntry{}
	for rows.Next() {
		var (
			entry     domain.ActivityEntry
			action    string
			createdAt string
		)
		if err := rows.Scan(&entry.Username, &entry.Title, &action, &createdAt); err != nil {
			return nil, err
		}
		entry.Action = domain.ActivityAction(action)
		entry.Time, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		activities = append(activities, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}

// GetPlaylistOwner returns the owner's user ID for a playlist.
// Returns store.ErrNotFound if the playlist does not exist.
func (s *Store) GetPlaylistOwner(ctx context.Context, playlistID string) (string, error) {
	var ownerID string
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id FROM playlists WHERE id = ?`, playlistID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return ownerID, nil
}
