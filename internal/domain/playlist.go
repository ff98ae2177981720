package domain

import "time"

// Playlist represents a user-curated list of songs. Playlists are a
// privacy boundary: only the owner and users granted a collaboration
// can see or modify one. The same song may appear in a playlist more
// than once, so membership is an ordered multiset rather than a set.
type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlaylistSummary is the listing representation of a playlist. The
// owner's username is denormalized so listings render without joins
// on the client.
type PlaylistSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// PlaylistWithSongs is the detail representation returned when
// fetching a single playlist's contents.
type PlaylistWithSongs struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Username string        `json:"username"`
	Songs    []SongSummary `json:"songs"`
}
