package domain

import "time"

// Album represents a music album in the catalog.
type Album struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Year      int       `json:"year"`
	CoverURL  *string   `json:"coverUrl"` // nil until a cover is uploaded
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Songs is populated only when fetching a single album.
	Songs []SongSummary `json:"songs,omitempty"`
}

// HasCover returns true if a cover image has been uploaded for the album.
func (a *Album) HasCover() bool {
	return a.CoverURL != nil && *a.CoverURL != ""
}
