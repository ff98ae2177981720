package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmusicapp/openmusic-server/internal/domain"
	domainerrors "github.com/openmusicapp/openmusic-server/internal/errors"
)

func TestPlaylistLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "dicoding")
	playlistID, err := env.playlists.CreatePlaylist(ctx, owner, "Road Trip")
	require.NoError(t, err)
	assert.Contains(t, playlistID, "playlist-")

	lists, err := env.playlists.ListPlaylists(ctx, owner)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Road Trip", lists[0].Name)
	assert.Equal(t, "dicoding", lists[0].Username)

	require.NoError(t, env.playlists.DeletePlaylist(ctx, playlistID, owner))

	lists, err = env.playlists.ListPlaylists(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, lists)

	// The playlist is gone for every read after deletion.
	_, err = env.playlists.GetSongs(ctx, playlistID, owner)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = env.playlists.GetActivities(ctx, playlistID, owner)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDeletePlaylistOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "owner")
	collab := env.registerUser(t, "helper")
	playlistID, err := env.playlists.CreatePlaylist(ctx, owner, "Mine")
	require.NoError(t, err)

	_, err = env.collabs.AddCollaborator(ctx, playlistID, collab, owner)
	require.NoError(t, err)

	// Collaborators can touch songs but never the playlist itself.
	err = env.playlists.DeletePlaylist(ctx, playlistID, collab)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	assert.NoError(t, env.playlists.DeletePlaylist(ctx, playlistID, owner))
}

func TestAddSongAccessControl(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "alice")
	collab := env.registerUser(t, "bob")
	outsider := env.registerUser(t, "mallory")
	playlistID, err := env.playlists.CreatePlaylist(ctx, owner, "Shared")
	require.NoError(t, err)
	songID := env.addSong(t, "Bloom")

	// Outsider is rejected before any collaboration exists.
	err = env.playlists.AddSong(ctx, playlistID, songID, outsider)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Owner always can.
	require.NoError(t, env.playlists.AddSong(ctx, playlistID, songID, owner))

	// A collaborator gains access the moment the grant lands.
	_, err = env.collabs.AddCollaborator(ctx, playlistID, collab, owner)
	require.NoError(t, err)
	require.NoError(t, env.playlists.AddSong(ctx, playlistID, songID, collab))

	// Revocation takes effect on the next call.
	require.NoError(t, env.collabs.RemoveCollaborator(ctx, playlistID, collab, owner))
	err = env.playlists.AddSong(ctx, playlistID, songID, collab)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestAccessDenialMessageDoesNotLeakRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "carol")
	outsider := env.registerUser(t, "eve")
	playlistID, err := env.playlists.CreatePlaylist(ctx, owner, "Private")
	require.NoError(t, err)
	songID := env.addSong(t, "Secret Song")

	// Song mutations and playlist deletion deny with the same owner
	// wording, so a rejected caller cannot probe the collaborator
	// registry through error messages.
	addErr := env.playlists.AddSong(ctx, playlistID, songID, outsider)
	delErr := env.playlists.DeletePlaylist(ctx, playlistID, outsider)
	require.Error(t, addErr)
	require.Error(t, delErr)

	var addDomainErr, delDomainErr *domainerrors.Error
	require.ErrorAs(t, addErr, &addDomainErr)
	require.ErrorAs(t, delErr, &delDomainErr)
	assert.Equal(t, delDomainErr.Message, addDomainErr.Message)
	assert.Equal(t, domainerrors.CodeForbidden, addDomainErr.Code)
}

func TestAddSongMissingTargets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "dave")
	playlistID, err := env.playlists.CreatePlaylist(ctx, owner, "List")
	require.NoError(t, err)
	songID := env.addSong(t, "Featherstone")

	// Unknown playlist resolves to not-found, not forbidden.
	err = env.playlists.AddSong(ctx, "playlist-missing", songID, owner)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// Unknown song on an accessible playlist is also not-found.
	err = env.playlists.AddSong(ctx, playlistID, "song-missing", owner)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRemoveSongNotInPlaylist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "erin")
	playlistID, err := env.playlists.CreatePlaylist(ctx, owner, "List")
	require.NoError(t, err)
	songID := env.addSong(t, "St. Clarity")

	err = env.playlists.RemoveSong(ctx, playlistID, songID, owner)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// The failed removal must not pollute the history.
	entries, err := env.playlists.GetActivities(ctx, playlistID, owner)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestActivityHistoryPairsWithMutations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "frank")
	collab := env.registerUser(t, "grace")
	playlistID, err := env.playlists.CreatePlaylist(ctx, owner, "History")
	require.NoError(t, err)
	songID := env.addSong(t, "Woodland")

	_, err = env.collabs.AddCollaborator(ctx, playlistID, collab, owner)
	require.NoError(t, err)

	require.NoError(t, env.playlists.AddSong(ctx, playlistID, songID, owner))
	require.NoError(t, env.playlists.RemoveSong(ctx, playlistID, songID, owner))
	require.NoError(t, env.playlists.AddSong(ctx, playlistID, songID, collab))

	entries, err := env.playlists.GetActivities(ctx, playlistID, collab)
	require.NoError(t, err)
	assert.Equal(t, [][3]string{
		{"frank", "Woodland", "add"},
		{"frank", "Woodland", "remove"},
		{"grace", "Woodland", "add"},
	}, activityTuples(entries))
}

func TestActivityHistorySurvivesSongDeletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "heidi")
	playlistID, err := env.playlists.CreatePlaylist(ctx, owner, "Keepsakes")
	require.NoError(t, err)
	songID := env.addSong(t, "Renegade")

	require.NoError(t, env.playlists.AddSong(ctx, playlistID, songID, owner))
	require.NoError(t, env.songs.DeleteSong(ctx, songID))

	// The denormalized title is gone with the song; the entry keeps
	// the raw ID so the history stays complete.
	entries, err := env.playlists.GetActivities(ctx, playlistID, owner)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, songID, entries[0].Title)
	assert.Equal(t, domain.ActivityActionAdd, entries[0].Action)
}

func TestGetSongsSharedView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "ivan")
	collab := env.registerUser(t, "judy")
	playlistID, err := env.playlists.CreatePlaylist(ctx, owner, "Evenings")
	require.NoError(t, err)

	first := env.addSong(t, "Arrow")
	second := env.addSong(t, "Willow Tree March")
	require.NoError(t, env.playlists.AddSong(ctx, playlistID, first, owner))
	require.NoError(t, env.playlists.AddSong(ctx, playlistID, second, owner))

	_, err = env.collabs.AddCollaborator(ctx, playlistID, collab, owner)
	require.NoError(t, err)

	view, err := env.playlists.GetSongs(ctx, playlistID, collab)
	require.NoError(t, err)
	assert.Equal(t, "ivan", view.Username)
	require.Len(t, view.Songs, 2)
	assert.Equal(t, "Arrow", view.Songs[0].Title)
	assert.Equal(t, "Willow Tree March", view.Songs[1].Title)

	// Collaborators see shared playlists in their listings too.
	lists, err := env.playlists.ListPlaylists(ctx, collab)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "ivan", lists[0].Username)
}

func TestDuplicateSongEntriesAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "kate")
	playlistID, err := env.playlists.CreatePlaylist(ctx, owner, "Repeats")
	require.NoError(t, err)
	songID := env.addSong(t, "On Repeat")

	require.NoError(t, env.playlists.AddSong(ctx, playlistID, songID, owner))
	require.NoError(t, env.playlists.AddSong(ctx, playlistID, songID, owner))

	view, err := env.playlists.GetSongs(ctx, playlistID, owner)
	require.NoError(t, err)
	assert.Len(t, view.Songs, 2)

	// One removal clears every copy.
	require.NoError(t, env.playlists.RemoveSong(ctx, playlistID, songID, owner))
	view, err = env.playlists.GetSongs(ctx, playlistID, owner)
	require.NoError(t, err)
	assert.Empty(t, view.Songs)
}
