package domain

import "time"

// User is an account holder identified by email and authenticated by API key.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	APIKey    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
