package domain

import "time"

// Favourite links a user to a DJ they have starred.
// The (UserID, DjID) pair is unique.
type Favourite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	DjID      string    `json:"dj_id"`
	CreatedAt time.Time `json:"created_at"`
}
