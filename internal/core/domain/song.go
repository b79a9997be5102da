package domain

import "time"

// MinReleaseYear is the earliest accepted release year for a song.
const MinReleaseYear = 1900

// Song is a catalog entry. CreatedBy records the owning user's id, set at
// creation and never reassigned.
type Song struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ReleaseYear int       `json:"release_year"`
	Genre       string    `json:"genre,omitempty"`
	DurationSec int       `json:"duration_sec,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuthorReport is one row of the songs-by-author aggregate.
type AuthorReport struct {
	Author string   `json:"author"`
	Count  int      `json:"count"`
	Titles []string `json:"titles"`
}
