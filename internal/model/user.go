// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// Users arrive two ways: local signup (username + password) or Facebook token
// login (the client obtains a Facebook access token and trades it in). A
// Facebook-created user has no password hash — they can only log in via
// Facebook — while a local user has no FacebookID.
//
// WHY json:"-" ON PasswordHash?
// The password hash must NEVER appear in an API response. The `json:"-"` tag
// tells encoding/json to skip the field entirely when marshalling, so even a
// careless writeJSON(w, 200, user) cannot leak it.
//
// WHY FacebookID string (not int64)?
// Facebook profile IDs are documented as numeric strings and are not
// guaranteed to fit any integer width, so we keep them as strings. The empty
// string means "no Facebook account linked" (stored as NULL in the database).
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Admin        bool      `json:"admin"`
	FacebookID   string    `json:"-"`
	FirstName    string    `json:"firstname,omitempty"`
	LastName     string    `json:"lastname,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Author is the public slice of a User attached to comments.
//
// Comments store only the author's ID; when campsites are read back, the
// repository resolves each ID into this view. It deliberately carries no
// credential fields, so it's safe to embed in any response.
type Author struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
}

// AuthorView returns the public view of this user for embedding in comments.
func (u *User) AuthorView() *Author {
	return &Author{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
