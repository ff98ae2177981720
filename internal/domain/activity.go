package domain

import "time"

// ActivityAction is the kind of playlist mutation an activity records.
type ActivityAction string

const (
	// ActivityActionAdd is recorded when a song is added to a playlist.
	ActivityActionAdd ActivityAction = "add"
	// ActivityActionRemove is recorded when a song is removed from a playlist.
	ActivityActionRemove ActivityAction = "remove"
)

// Valid reports whether the action is one of the known values.
func (a ActivityAction) Valid() bool {
	return a == ActivityActionAdd || a == ActivityActionRemove
}

// PlaylistActivity is one entry in a playlist's append-only history.
// An activity is written in the same transaction as the song mutation
// it describes, so the history never drifts from the playlist contents.
// Activities are immutable once created.
type PlaylistActivity struct {
	ID         string         `json:"id"`
	PlaylistID string         `json:"playlist_id"`
	SongID     string         `json:"song_id"`
	UserID     string         `json:"user_id"`
	Action     ActivityAction `json:"action"`
	CreatedAt  time.Time      `json:"time"`
}

// ActivityEntry is the API representation of a playlist activity.
// Username and song title are denormalized for rendering the history
// without extra lookups.
type ActivityEntry struct {
	Username string         `json:"username"`
	Title    string         `json:"title"`
	Action   ActivityAction `json:"action"`
	Time     time.Time      `json:"time"`
}
