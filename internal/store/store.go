// Package store defines the persistence interface for the OpenMusic
// server along with the sentinel errors implementations report.
package store

import (
	"context"
	"errors"

	"github.com/openmusicapp/openmusic-server/internal/domain"
)

// Sentinel errors returned by store implementations. Services convert
// these to domain errors with user-facing messages.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned on unique constraint violations,
	// such as duplicate usernames or duplicate collaborations.
	ErrAlreadyExists = errors.New("record already exists")
)

// SongFilter narrows song listings. Empty fields match everything;
// non-empty fields match as case-insensitive substrings.
type SongFilter struct {
	Title     string
	Performer string
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// SessionStore persists refresh token sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSessionToken(ctx context.Context, sessionID, newTokenHash string, session *domain.Session) error
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// AlbumStore persists albums and their like relationships.
type AlbumStore interface {
	CreateAlbum(ctx context.Context, album *domain.Album) error
	GetAlbum(ctx context.Context, id string) (*domain.Album, error)
	UpdateAlbum(ctx context.Context, album *domain.Album) error
	DeleteAlbum(ctx context.Context, id string) error
	SetAlbumCover(ctx context.Context, id, coverURL string) error

	LikeAlbum(ctx context.Context, albumID, userID string) error
	UnlikeAlbum(ctx context.Context, albumID, userID string) error
	HasUserLikedAlbum(ctx context.Context, albumID, userID string) (bool, error)
	CountAlbumLikes(ctx context.Context, albumID string) (int, error)
}

// SongStore persists songs.
type SongStore interface {
	CreateSong(ctx context.Context, song *domain.Song) error
	GetSong(ctx context.Context, id string) (*domain.Song, error)
	ListSongs(ctx context.Context, filter SongFilter) ([]domain.SongSummary, error)
	UpdateSong(ctx context.Context, song *domain.Song) error
	DeleteSong(ctx context.Context, id string) error
}

// PlaylistStore persists playlists, their song membership, and the
// activity history paired with membership mutations.
type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, playlist *domain.Playlist) error
	GetPlaylist(ctx context.Context, id string) (*domain.Playlist, error)
	GetPlaylistWithSongs(ctx context.Context, id string) (*domain.PlaylistWithSongs, error)
	ListPlaylistsForUser(ctx context.Context, userID string) ([]domain.PlaylistSummary, error)
	DeletePlaylist(ctx context.Context, id string) error

	// AddSongToPlaylist appends a membership row and records the given
	// activity in a single transaction.
	AddSongToPlaylist(ctx context.Context, playlistID, songID string, activity *domain.PlaylistActivity) error

	// RemoveSongFromPlaylist deletes the song's membership rows and
	// records the given activity in a single transaction. Returns
	// ErrNotFound if the song was not in the playlist.
	RemoveSongFromPlaylist(ctx context.Context, playlistID, songID string, activity *domain.PlaylistActivity) error

	// ListPlaylistActivities returns the playlist's history in
	// chronological order.
	ListPlaylistActivities(ctx context.Context, playlistID string) ([]domain.ActivityEntry, error)

	// GetPlaylistOwner returns the owner's user ID, or ErrNotFound.
	GetPlaylistOwner(ctx context.Context, playlistID string) (string, error)
}

// CollaborationStore persists playlist collaborator grants.
type CollaborationStore interface {
	CreateCollaboration(ctx context.Context, collab *domain.Collaboration) error
	DeleteCollaboration(ctx context.Context, playlistID, userID string) error
	IsCollaborator(ctx context.Context, playlistID, userID string) (bool, error)
}

// Store is the full persistence interface the service layer depends on.
type Store interface {
	UserStore
	SessionStore
	AlbumStore
	SongStore
	PlaylistStore
	CollaborationStore

	Close() error
}
