package user

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the slice of a User that lives on a session: a value copy,
// so later changes to the user row are not reflected on sessions that
// were established earlier.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}
