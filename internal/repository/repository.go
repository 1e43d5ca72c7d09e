// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the concrete implementation;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/blog-api/internal/model"
)

// UserRepository persists users and their single live credential.
//
// Uniqueness of email and api_token is enforced by the database, not by
// pre-checking: Create and SetCredential fail atomically with a conflict
// error on violation, so two concurrent writes can't race past each other.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByToken(ctx context.Context, token string) (*model.User, error)
	// SetCredential replaces the user's credential wholesale. The
	// previous token stops resolving the moment this commits.
	SetCredential(ctx context.Context, userID int64, cred *model.Credential) error
}

// PostRepository persists posts. List and GetByID fill the Author display
// join; comments are fetched separately via CommentRepository.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	// List returns every post ordered by id descending (newest first).
	List(ctx context.Context) ([]model.Post, error)
	// Delete removes the post; child comments go with it (FK cascade).
	Delete(ctx context.Context, id int64) error
}

// CommentRepository persists comments under their parent post.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// ListByPost returns a post's comments ordered by id ascending.
	ListByPost(ctx context.Context, postID int64) ([]model.Comment, error)
}
