package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openmusicapp/openmusic-server/internal/auth"
	"github.com/openmusicapp/openmusic-server/internal/cache"
	"github.com/openmusicapp/openmusic-server/internal/domain"
	"github.com/openmusicapp/openmusic-server/internal/media/images"
	"github.com/openmusicapp/openmusic-server/internal/ratelimit"
	"github.com/openmusicapp/openmusic-server/internal/store/sqlite"
)

// testEnv wires services against a real on-disk SQLite store so the
// tests exercise the same transactional paths production does.
type testEnv struct {
	store     *sqlite.Store
	cache     *cache.Cache
	covers    *images.Storage
	access    *AccessResolver
	playlists *PlaylistService
	collabs   *CollaborationService
	albums    *AlbumService
	songs     *SongService
	users     *UserService
	sessions  *SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c, err := cache.Open(filepath.Join(dir, "cache"), time.Minute, logger)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	covers, err := images.NewStorage(filepath.Join(dir, "covers"))
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(
		"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		30*time.Minute, 720*time.Hour,
	)
	require.NoError(t, err)

	limiter := ratelimit.New(100, 100)
	t.Cleanup(limiter.Stop)

	access := NewAccessResolver(st, logger)
	env := &testEnv{
		store:     st,
		cache:     c,
		covers:    covers,
		access:    access,
		playlists: NewPlaylistService(st, access, logger),
		collabs:   NewCollaborationService(st, access, logger),
		albums:    NewAlbumService(st, covers, c, logger, "http://localhost:5000", 512000),
		songs:     NewSongService(st, logger),
		users:     NewUserService(st, logger),
		sessions:  NewSessionService(st, tokens, limiter, logger),
	}
	return env
}

// registerUser creates an account and returns its ID.
func (e *testEnv) registerUser(t *testing.T, username string) string {
	t.Helper()
	userID, err := e.users.Register(context.Background(), RegisterInput{
		Username: username,
		Password: "correct-horse-battery",
		FullName: "Test " + username,
	})
	require.NoError(t, err)
	return userID
}

// addSong creates a catalog song and returns its ID.
func (e *testEnv) addSong(t *testing.T, title string) string {
	t.Helper()
	songID, err := e.songs.CreateSong(context.Background(), SongInput{
		Title:     title,
		Year:      2001,
		Genre:     "Indie",
		Performer: "The Paper Kites",
	})
	require.NoError(t, err)
	return songID
}

// addAlbum creates an album and returns its ID.
func (e *testEnv) addAlbum(t *testing.T, name string) string {
	t.Helper()
	albumID, err := e.albums.CreateAlbum(context.Background(), AlbumInput{
		Name: name,
		Year: 1999,
	})
	require.NoError(t, err)
	return albumID
}

func activityTuples(entries []domain.ActivityEntry) [][3]string {
	out := make([][3]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, [3]string{e.Username, e.Title, string(e.Action)})
	}
	return out
}
