package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openmusicapp/openmusic-server/internal/domain"
	"github.com/openmusicapp/openmusic-server/internal/store"
)

// songColumns is the ordered list of columns selected in song queries.
// Must match the scan order in scanSong.
const songColumns = `id, title, year, genre, performer, duration, album_id, created_at, updated_at`

// scanSong scans a sql.Row (or sql.Rows via its Scan method) into a domain.Song.
func scanSong(scanner interface{ Scan(dest ...any) error }) (*domain.Song, error) {
	var song domain.Song

	var (
		duration  sql.NullInt64
		albumID   sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&song.ID,
		&song.Title,
		&song.Year,
		&song.Genre,
		&song.Performer,
		&duration,
		&albumID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if duration.Valid {
		d := int(duration.Int64)
		song.Duration = &d
	}
	if albumID.Valid {
		song.AlbumID = &albumID.String
	}

	song.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	song.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &song, nil
}

// CreateSong inserts a new song.
func (s *Store) CreateSong(ctx context.Context, song *domain.Song) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO songs (id, title, year, genre, performer, duration, album_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		song.ID,
		song.Title,
		song.Year,
		song.Genre,
		song.Performer,
		nullableInt(song.Duration),
		nullableString(song.AlbumID),
		formatTime(song.CreatedAt),
		formatTime(song.UpdatedAt),
	)
	return err
}

// GetSong retrieves a song by ID.
// Returns store.ErrNotFound if the song does not exist.
func (s *Store) GetSong(ctx context.Context, id string) (*domain.Song, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+songColumns+` FROM songs WHERE id = ?`, id)

	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return song, nil
}

// ListSongs returns song summaries matching the filter, ordered by
// creation time. Title and performer filters match case-insensitive
// substrings and combine with AND.
func (s *Store) ListSongs(ctx context.Context, filter store.SongFilter) ([]domain.SongSummary, error) {
	query := `SELECT id, title, performer FROM songs WHERE 1=1`
	args := []any{}

	if filter.Title != "" {
		query += ` AND title LIKE ? COLLATE NOCASE`
		args = append(args, "%"+filter.Title+"%")
	}
	if filter.Performer != "" {
		query += ` AND performer LIKE ? COLLATE NOCASE`
		args = append(args, "%"+filter.Performer+"%")
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
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
	return songs, nil
}

// UpdateSong updates all mutable fields of a song.
// Returns store.ErrNotFound if the song does not exist.
func (s *Store) UpdateSong(ctx context.Context, song *domain.Song) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE songs SET title = ?, year = ?, genre = ?, performer = ?, duration = ?, album_id = ?, updated_at = ?
		WHERE id = ?`,
		song.Title,
		song.Year,
		song.Genre,
		song.Performer,
		nullableInt(song.Duration),
		nullableString(song.AlbumID),
		formatTime(song.UpdatedAt),
		song.ID,
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

// DeleteSong hard-deletes a song. Playlist memberships are removed via
// ON DELETE CASCADE.
// Returns store.ErrNotFound if the song does not exist.
func (s *Store) DeleteSong(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
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
