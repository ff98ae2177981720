package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/openmusicapp/openmusic-server/internal/errors"
	"github.com/openmusicapp/openmusic-server/internal/store"
)

func TestSongCRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	albumID := env.addAlbum(t, "Evergreen")
	duration := 214
	songID, err := env.songs.CreateSong(ctx, SongInput{
		Title:     "Steal My Heart Away",
		Year:      2021,
		Genre:     "Folk",
		Performer: "The Paper Kites",
		Duration:  &duration,
		AlbumID:   &albumID,
	})
	require.NoError(t, err)

	song, err := env.songs.GetSong(ctx, songID)
	require.NoError(t, err)
	assert.Equal(t, "Steal My Heart Away", song.Title)
	require.NotNil(t, song.Duration)
	assert.Equal(t, 214, *song.Duration)
	require.NotNil(t, song.AlbumID)
	assert.Equal(t, albumID, *song.AlbumID)

	require.NoError(t, env.songs.UpdateSong(ctx, songID, SongInput{
		Title:     "Steal My Heart Away (Reprise)",
		Year:      2021,
		Genre:     "Folk",
		Performer: "The Paper Kites",
	}))
	song, err = env.songs.GetSong(ctx, songID)
	require.NoError(t, err)
	assert.Equal(t, "Steal My Heart Away (Reprise)", song.Title)
	assert.Nil(t, song.AlbumID)

	require.NoError(t, env.songs.DeleteSong(ctx, songID))
	_, err = env.songs.GetSong(ctx, songID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCreateSongUnknownAlbum(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	missing := "album-missing"
	_, err := env.songs.CreateSong(ctx, SongInput{
		Title:     "Orphan",
		Year:      2020,
		Genre:     "Folk",
		Performer: "Nobody",
		AlbumID:   &missing,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListSongsFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addSong(t, "Bloom")
	env.addSong(t, "Bloom (Bonus Track)")
	otherID, err := env.songs.CreateSong(ctx, SongInput{
		Title:     "Holes",
		Year:      2016,
		Genre:     "Rock",
		Performer: "Passenger",
	})
	require.NoError(t, err)

	all, err := env.songs.ListSongs(ctx, store.SongFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	blooms, err := env.songs.ListSongs(ctx, store.SongFilter{Title: "bloom"})
	require.NoError(t, err)
	assert.Len(t, blooms, 2)

	passenger, err := env.songs.ListSongs(ctx, store.SongFilter{Title: "holes", Performer: "passenger"})
	require.NoError(t, err)
	require.Len(t, passenger, 1)
	assert.Equal(t, otherID, passenger[0].ID)
}

func TestDeleteAlbumDetachesSongs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	albumID := env.addAlbum(t, "Short Lived")
	songID, err := env.songs.CreateSong(ctx, SongInput{
		Title:     "Leftover",
		Year:      2018,
		Genre:     "Folk",
		Performer: "Someone",
		AlbumID:   &albumID,
	})
	require.NoError(t, err)

	require.NoError(t, env.albums.DeleteAlbum(ctx, albumID))

	song, err := env.songs.GetSong(ctx, songID)
	require.NoError(t, err)
	assert.Nil(t, song.AlbumID)
}
