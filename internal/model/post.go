package model

import "time"

// Post is a blog entry owned by the user who created it.
//
// UserID is set exactly once, at creation, from the authenticated caller —
// it is never read from request input and never changes afterwards.
//
// Author and Comments are display joins filled by the repository for
// responses; they are not part of the stored row itself (the schema keeps
// a plain user_id foreign key instead of an object graph).
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    int64     `json:"-"`
	Author    *Author   `json:"user,omitempty"`
	Comments  []Comment `json:"comments,omitempty"`
}

// OwnerID reports the user that owns this post.
func (p *Post) OwnerID() int64 { return p.UserID }

// SetOwner assigns the owning user. Called exactly once, by the ownership
// guard, at creation.
func (p *Post) SetOwner(userID int64) { p.UserID = userID }
