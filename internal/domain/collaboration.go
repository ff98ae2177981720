package domain

import "time"

// Collaboration grants a user access to another user's playlist.
// Collaborators can view the playlist, add and remove songs, and read
// its activity history. They cannot delete the playlist or manage its
// collaborators; those rights stay with the owner.
type Collaboration struct {
	ID         string    `json:"id"`
	PlaylistID string    `json:"playlist_id"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}
