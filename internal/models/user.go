package models

import "time"

// User represents a diary account
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	ProfileImage *string   `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the author/liker view of a user embedded in posts and comments
type UserSummary struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email,omitempty"`
	ProfileImage *string `json:"profileImage"`
}
