package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// Validation constants. The form layer enforces the same bounds at the
// request boundary; the service re-checks because every caller needs the
// rules, not just the HTTP handler.
const (
	MinTitleLength = 3
	MaxTitleLength = 255
)

// PostService handles the post and comment lifecycle. Every mutating
// operation receives the acting user already resolved by the auth
// middleware and runs it through the ownership guard.
type PostService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	guard    Guard
	logger   *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(posts repository.PostRepository, comments repository.CommentRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		logger:   logger,
	}
}

// Create validates and saves a new post owned by the acting user.
//
// The owner is stamped by the guard from actor — title and content are
// the only fields request input can influence. CreatedAt is set by the
// repository from the server clock.
func (s *PostService) Create(ctx context.Context, actor *model.User, title, content string) (*model.Post, error) {
	title = strings.TrimSpace(title)
	if len(title) < MinTitleLength || len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be between %d and %d characters", MinTitleLength, MaxTitleLength))
	}

	post := &model.Post{
		Title:   title,
		Content: content,
	}

	if err := s.guard.Authorize(actor, post, ActionCreate, "post"); err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.Int64("userID", actor.ID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Service(err.Error())
	}

	s.logger.Info("post created",
		slog.Int64("postID", post.ID),
		slog.Int64("userID", actor.ID),
	)

	post.Author = actor.AuthorRef()
	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// Get fetches a single post with its comments.
// Returns apperror.ErrNotFound if the id matches nothing.
func (s *PostService) Get(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		s.logger.Error("failed to load comments",
			slog.Int64("postID", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("loading comments for post %d: %w", id, err)
	}
	post.Comments = comments

	return post, nil
}

// Delete removes a post owned by the acting user, cascading to its
// comments.
//
// A post that doesn't exist and a post owned by someone else produce the
// SAME not-found error. The fetch-then-authorize order means the guard's
// denial is indistinguishable from the repository's miss by the time it
// reaches the caller.
func (s *PostService) Delete(ctx context.Context, actor *model.User, id int64) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guard.Authorize(actor, post, ActionDelete, "post"); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete post",
			slog.Int64("postID", id),
			slog.String("error", err.Error()),
		)
		return apperror.Service(err.Error())
	}

	s.logger.Info("post deleted",
		slog.Int64("postID", id),
		slog.Int64("userID", actor.ID),
	)

	return nil
}

// AddComment validates and saves a comment by the acting user under the
// given post. The parent must exist — an absent post is a not-found, and
// nothing is persisted.
func (s *PostService) AddComment(ctx context.Context, actor *model.User, postID int64, content string) (*model.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "comment content is required")
	}

	comment := &model.Comment{
		Content: content,
		PostID:  post.ID,
	}

	if err := s.guard.Authorize(actor, comment, ActionCreate, "comment"); err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.Int64("postID", postID),
			slog.Int64("userID", actor.ID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Service(err.Error())
	}

	s.logger.Info("comment created",
		slog.Int64("commentID", comment.ID),
		slog.Int64("postID", postID),
		slog.Int64("userID", actor.ID),
	)

	comment.Author = actor.AuthorRef()
	return comment, nil
}
