package entities

import "time"

// Review is an account's review of a listing. An author has at most one
// review per listing and never reviews a listing they own.
type Review struct {
	ID        string    `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	Rating    int       `json:"rating" db:"rating"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	ListingID string    `json:"listing_id" db:"listing_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
