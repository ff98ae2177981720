package domain

import "time"

// Song represents a single track in the catalog. A song may belong to
// an album and may appear in any number of playlists.
type Song struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	Genre     string    `json:"genre"`
	Performer string    `json:"performer"`
	Duration  *int      `json:"duration,omitempty"` // Seconds, optional
	AlbumID   *string   `json:"albumId,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SongSummary is the compact song representation used in album and
// playlist listings.
type SongSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Performer string `json:"performer"`
}

// Summary returns the compact listing representation of the song.
func (s *Song) Summary() SongSummary {
	return SongSummary{
		ID:        s.ID,
		Title:     s.Title,
		Performer: s.Performer,
	}
}
