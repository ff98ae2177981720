package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openmusicapp/openmusic-server/internal/domain"
	"github.com/openmusicapp/openmusic-server/internal/store"
)

func makeActivity(activityID, playlistID, songID, userID string, action domain.ActivityAction, at time.Time) *domain.PlaylistActivity {
	return &domain.PlaylistActivity{
		ID:         activityID,
		PlaylistID: playlistID,
		SongID:     songID,
		UserID:     userID,
		Action:     action,
		CreatedAt:  at,
	}
}

func TestCreateAndGetPlaylist(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "dicoding")
	insertTestPlaylist(t, s, "playlist-1", "user-1", "Lagu Indie Hits Indonesia")

	got, err := s.GetPlaylist(ctx, "playlist-1")
	if err != nil {
		t.Fatalf("GetPlaylist: %v", err)
	}
	if got.Name != "Lagu Indie Hits Indonesia" {
		t.Errorf("Name: got %q", got.Name)
	}
	if got.OwnerID != "user-1" {
		t.Errorf("OwnerID: got %q, want user-1", got.OwnerID)
	}
}

func TestGetPlaylist_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetPlaylist(context.Background(), "playlist-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddSongToPlaylist_RecordsActivity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "owner")
	insertTestPlaylist(t, s, "playlist-1", "user-1", "Favorites")
	insertTestSong(t, s, "song-1", "Evaluasi")

	act := makeActivity("act-1", "playlist-1", "song-1", "user-1", domain.ActivityActionAdd, time.Now())
	if err := s.AddSongToPlaylist(ctx, "playlist-1", "song-1", act); err != nil {
		t.Fatalf("AddSongToPlaylist: %v", err)
	}

	p, err := s.GetPlaylistWithSongs(ctx, "playlist-1")
	if err != nil {
		t.Fatalf("GetPlaylistWithSongs: %v", err)
	}
	if len(p.Songs) != 1 || p.Songs[0].ID != "song-1" {
		t.Fatalf("Songs: got %+v, want [song-1]", p.Songs)
	}
	if p.Username != "owner" {
		t.Errorf("Username: got %q, want owner", p.Username)
	}

	activities, err := s.ListPlaylistActivities(ctx, "playlist-1")
	if err != nil {
		t.Fatalf("ListPlaylistActivities: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("activities: got %d, want 1", len(activities))
	}
	if activities[0].Action != domain.ActivityActionAdd {
		t.Errorf("Action: got %q, want add", activities[0].Action)
	}
	if activities[0].Username != "owner" {
		t.Errorf("Username: got %q, want owner", activities[0].Username)
	}
	if activities[0].Title != "Evaluasi" {
		t.Errorf("Title: got %q, want Evaluasi", activities[0].Title)
	}
}

func TestAddSongToPlaylist_AllowsDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "owner")
	insertTestPlaylist(t, s, "playlist-1", "user-1", "Favorites")
	insertTestSong(t, s, "song-1", "Repeat Me")

	base := time.Now()
	for i, actID := range []string{"act-1", "act-2"} {
		act := makeActivity(actID, "playlist-1", "song-1", "user-1", domain.ActivityActionAdd, base.Add(time.Duration(i)*time.Millisecond))
		if err := s.AddSongToPlaylist(ctx, "playlist-1", "song-1", act); err != nil {
			t.Fatalf("AddSongToPlaylist #%d: %v", i+1, err)
		}
	}

	p, err := s.GetPlaylistWithSongs(ctx, "playlist-1")
	if err != nil {
		t.Fatalf("GetPlaylistWithSongs: %v", err)
	}
	if len(p.Songs) != 2 {
		t.Fatalf("Songs: got %d entries, want 2 (duplicates allowed)", len(p.Songs))
	}
}

func TestRemoveSongFromPlaylist(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "owner")
	insertTestPlaylist(t, s, "playlist-1", "user-1", "Favorites")
	insertTestSong(t, s, "song-1", "Leaving Soon")

	base := time.Now()
	add := makeActivity("act-1", "playlist-1", "song-1", "user-1", domain.ActivityActionAdd, base)
	if err := s.AddSongToPlaylist(ctx, "playlist-1", "song-1", add); err != nil {
		t.Fatalf("AddSongToPlaylist: %v", err)
	}

	remove := makeActivity("act-2", "playlist-1", "song-1", "user-1", domain.ActivityActionRemove, base.Add(time.Millisecond))
	if err := s.RemoveSongFromPlaylist(ctx, "playlist-1", "song-1", remove); err != nil {
		t.Fatalf("RemoveSongFromPlaylist: %v", err)
	}

	p, err := s.GetPlaylistWithSongs(ctx, "playlist-1")
	if err != nil {
		t.Fatalf("GetPlaylistWithSongs: %v", err)
	}
	if len(p.Songs) != 0 {
		t.Fatalf("Songs: got %d entries, want 0", len(p.Songs))
	}

	// History keeps both entries in order.
	activities, err := s.ListPlaylistActivities(ctx, "playlist-1")
	if err != nil {
		t.Fatalf("ListPlaylistActivities: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("activities: got %d, want 2", len(activities))
	}
	if activities[0].Action != domain.ActivityActionAdd || activities[1].Action != domain.ActivityActionRemove {
		t.Errorf("actions out of order: %q then %q", activities[0].Action, activities[1].Action)
	}
}

func TestRemoveSongFromPlaylist_NotInPlaylist(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "owner")
	insertTestPlaylist(t, s, "playlist-1", "user-1", "Favorites")
	insertTestSong(t, s, "song-1", "Never Added")

	remove := makeActivity("act-1", "playlist-1", "song-1", "user-1", domain.ActivityActionRemove, time.Now())
	err := s.RemoveSongFromPlaylist(ctx, "playlist-1", "song-1", remove)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The failed removal must not leave an activity behind.
	activities, err := s.ListPlaylistActivities(ctx, "playlist-1")
	if err != nil {
		t.Fatalf("ListPlaylistActivities: %v", err)
	}
	if len(activities) != 0 {
		t.Fatalf("activities: got %d, want 0", len(activities))
	}
}

func TestListPlaylistsForUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "owner")
	insertTestUser(t, s, "user-2", "collaborator")
	insertTestUser(t, s, "user-3", "outsider")
	insertTestPlaylist(t, s, "playlist-1", "user-1", "Owned")
	insertTestPlaylist(t, s, "playlist-2", "user-2", "Theirs")

	collab := &domain.Collaboration{
		ID:         "collab-1",
		PlaylistID: "playlist-2",
		UserID:     "user-1",
		CreatedAt:  time.Now(),
	}
	if err := s.CreateCollaboration(ctx, collab); err != nil {
		t.Fatalf("CreateCollaboration: %v", err)
	}

	// user-1 sees the owned playlist plus the collaboration.
	playlists, err := s.ListPlaylistsForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListPlaylistsForUser: %v", err)
	}
	if len(playlists) != 2 {
		t.Fatalf("playlists: got %d, want 2", len(playlists))
	}

	// The summary carries the owner's username, not the viewer's.
	for _, p := range playlists {
		if p.ID == "playlist-2" && p.Username != "collaborator" {
			t.Errorf("playlist-2 username: got %q, want collaborator", p.Username)
		}
	}

	// An unrelated user sees nothing.
	playlists, err = s.ListPlaylistsForUser(ctx, "user-3")
	if err != nil {
		t.Fatalf("ListPlaylistsForUser(outsider): %v", err)
	}
	if len(playlists) != 0 {
		t.Fatalf("outsider playlists: got %d, want 0", len(playlists))
	}
}

func TestDeletePlaylist_Cascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "owner")
	insertTestUser(t, s, "user-2", "collaborator")
	insertTestPlaylist(t, s, "playlist-1", "user-1", "Doomed")
	insertTestSong(t, s, "song-1", "Last Song")

	add := makeActivity("act-1", "playlist-1", "song-1", "user-1", domain.ActivityActionAdd, time.Now())
	if err := s.AddSongToPlaylist(ctx, "playlist-1", "song-1", add); err != nil {
		t.Fatalf("AddSongToPlaylist: %v", err)
	}
	collab := &domain.Collaboration{ID: "collab-1", PlaylistID: "playlist-1", UserID: "user-2", CreatedAt: time.Now()}
	if err := s.CreateCollaboration(ctx, collab); err != nil {
		t.Fatalf("CreateCollaboration: %v", err)
	}

	if err := s.DeletePlaylist(ctx, "playlist-1"); err != nil {
		t.Fatalf("DeletePlaylist: %v", err)
	}

	for _, q := range []struct {
		table string
		query string
	}{
		{"playlist_songs", `SELECT COUNT(*) FROM playlist_songs WHERE playlist_id = ?`},
		{"collaborations", `SELECT COUNT(*) FROM collaborations WHERE playlist_id = ?`},
		{"playlist_song_activities", `SELECT COUNT(*) FROM playlist_song_activities WHERE playlist_id = ?`},
	} {
		var count int
		if err := s.db.QueryRow(q.query, "playlist-1").Scan(&count); err != nil {
			t.Fatalf("count %s: %v", q.table, err)
		}
		if count != 0 {
			t.Errorf("%s: %d rows survived playlist deletion", q.table, count)
		}
	}
}

func TestGetPlaylistOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "owner")
	insertTestPlaylist(t, s, "playlist-1", "user-1", "Mine")

	ownerID, err := s.GetPlaylistOwner(ctx, "playlist-1")
	if err != nil {
		t.Fatalf("GetPlaylistOwner: %v", err)
	}
	if ownerID != "user-1" {
		t.Errorf("owner: got %q, want user-1", ownerID)
	}

	_, err = s.GetPlaylistOwner(ctx, "playlist-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
