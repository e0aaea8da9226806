package users

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Patch holds optional field edits; nil fields stay unchanged.
type Patch struct {
	Name  *string
	Email *string
}
