package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/openmusicapp/openmusic-server/internal/domain"
	"github.com/openmusicapp/openmusic-server/internal/store"
)

// albumColumns is the ordered list of columns selected in album queries.
// Must match the scan order in scanAlbum.
const albumColumns = `id, name, year, cover_url, created_at, updated_at`

// scanAlbum scans a sql.Row (or sql.Rows via its Scan method) into a domain.Album.
func scanAlbum(scanner interface{ Scan(dest ...any) error }) (*domain.Album, error) {
	var a domain.Album

	var (
		coverURL  sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&a.ID,
		&a.Name,
		&a.Year,
		&coverURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if coverURL.Valid {
		a.CoverURL = &coverURL.String
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// CreateAlbum inserts a new album.
func (s *Store) CreateAlbum(ctx context.Context, album *domain.Album) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO albums (id, name, year, cover_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		album.ID,
		album.Name,
		album.Year,
		nullableString(album.CoverURL),
		formatTime(album.CreatedAt),
		formatTime(album.UpdatedAt),
	)
	return err
}

// GetAlbum retrieves an album by ID together with its song listing.
// Returns store.ErrNotFound if the album does not exist.
func (s *Store) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE id = ?`, id)

	album, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, performer FROM songs
		WHERE album_id = ? ORDER BY created_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := []domain.SongSummary{}
	for rows.Next() {
		var song domain.SongSummary
		if err := rows.Scan(&song.ID, &song.Title, &song.Performer); err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	album.Songs = songs

	return album, nil
}

// UpdateAlbum updates an album's name and year.
// Returns store.ErrNotFound if the album does not exist.
func (s *Store) UpdateAlbum(ctx context.Context, album *domain.Album) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE albums SET name = ?, year = ?, updated_at = ?
		WHERE id = ?`,
		album.Name,
		album.Year,
		formatTime(album.UpdatedAt),
		album.ID,
	)
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

// DeleteAlbum hard-deletes an album. Songs referencing it keep
// existing with their album_id cleared via ON DELETE SET NULL.
// Returns store.ErrNotFound if the album does not exist.
func (s *Store) DeleteAlbum(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
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

// SetAlbumCover records the public URL of an uploaded cover image.
// Returns store.ErrNotFound if the album does not exist.
func (s *Store) SetAlbumCover(ctx context.Context, id, coverURL string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE albums SET cover_url = ?, updated_at = ?
		WHERE id = ?`,
		coverURL, formatTime(time.Now()), id)
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

// --- Album Likes ---

// LikeAlbum records that a user likes an album.
// Returns store.ErrAlreadyExists if the user already likes it.
func (s *Store) LikeAlbum(ctx context.Context, albumID, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_album_likes (user_id, album_id, created_at)
		VALUES (?, ?, ?)`,
		userID, albumID, formatTime(time.Now()))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UnlikeAlbum removes a user's like from an album.
// Returns store.ErrNotFound if the user had not liked it.
func (s *Store) UnlikeAlbum(ctx context.Context, albumID, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM user_album_likes WHERE user_id = ? AND album_id = ?`,
		userID, albumID)
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

// HasUserLikedAlbum reports whether the user currently likes the album.
func (s *Store) HasUserLikedAlbum(ctx context.Context, albumID, userID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_album_likes WHERE user_id = ? AND album_id = ?`,
		userID, albumID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountAlbumLikes returns the number of users who like the album.
func (s *Store) CountAlbumLikes(ctx context.Context, albumID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_album_likes WHERE album_id = ?`,
		albumID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
