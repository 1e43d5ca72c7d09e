// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account. The email doubles as the login
// handle and is UNIQUE in the database.
//
// WHY `json:"-"` ON PasswordHash AND Credential?
// The dash tells encoding/json to NEVER serialize the field, no matter
// where a User ends up in a response body. The password hash is write-only
// from the API's perspective, and the access token must only appear in the
// login response — both are therefore excluded at the type level rather
// than relying on every handler to remember to strip them.
type User struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Lastname     string      `json:"lastname"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Credential   *Credential `json:"-"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Credential is the single live access credential of a User.
//
// There is exactly one (or none) per user. Issuing a new credential is a
// full replace: the previous token immediately stops resolving. No expiry
// is attached — tokens live until the next login overwrites them.
type Credential struct {
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issuedAt"`
}

// Author is the public subset of a User that rides inside post and
// comment responses. It deliberately carries no email, hash, or token.
type Author struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
}

// AuthorRef returns the display subset of the user.
func (u *User) AuthorRef() *Author {
	return &Author{ID: u.ID, Name: u.Name, Lastname: u.Lastname}
}
