package model

import "time"

// Comment belongs to exactly one Post and one User (the commenter).
// Both references are set at creation and immutable afterwards.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    int64     `json:"-"`
	PostID    int64     `json:"-"`
	Author    *Author   `json:"user,omitempty"`
}

// OwnerID reports the user that wrote this comment.
func (c *Comment) OwnerID() int64 { return c.UserID }

// SetOwner assigns the commenting user. Called exactly once, by the
// ownership guard, at creation.
func (c *Comment) SetOwner(userID int64) { c.UserID = userID }
