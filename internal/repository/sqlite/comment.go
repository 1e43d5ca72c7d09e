package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// CommentStore implements repository.CommentRepository on SQLite.
type CommentStore struct {
	conn *sql.DB
}

// Compile-time check that *CommentStore implements repository.CommentRepository.
var _ repository.CommentRepository = (*CommentStore)(nil)

// Create inserts a comment under comment.PostID authored by comment.UserID.
// The foreign keys guarantee both sides exist; the service has already
// resolved the parent post by the time this runs.
func (s *CommentStore) Create(ctx context.Context, comment *model.Comment) error {
	comment.CreatedAt = time.Now()

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO comments (user_id, post_id, content, created_at)
		 VALUES (?, ?, ?, ?)`,
		comment.UserID,
		comment.PostID,
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new comment id: %w", err)
	}
	comment.ID = id

	return nil
}

// ListByPost returns a post's comments in insertion order (id ascending),
// each with its author joined in.
func (s *CommentStore) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT c.id, c.content, c.created_at, c.user_id, c.post_id,
		        u.id, u.name, u.lastname
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.post_id = ?
		 ORDER BY c.id ASC`,
		postID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for post %d: %w", postID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var (
			c      model.Comment
			author model.Author
		)
		if err := rows.Scan(
			&c.ID,
			&c.Content,
			&c.CreatedAt,
			&c.UserID,
			&c.PostID,
			&author.ID,
			&author.Name,
			&author.Lastname,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		c.Author = &author
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}
