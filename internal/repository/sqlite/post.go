package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// PostStore implements repository.PostRepository on SQLite.
type PostStore struct {
	conn *sql.DB
}

// Compile-time check that *PostStore implements repository.PostRepository.
var _ repository.PostRepository = (*PostStore)(nil)

// Create inserts a new post owned by post.UserID.
// SQLite assigns the id; we write it back into the caller's struct.
func (s *PostStore) Create(ctx context.Context, post *model.Post) error {
	post.CreatedAt = time.Now()

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO posts (user_id, title, content, created_at)
		 VALUES (?, ?, ?, ?)`,
		post.UserID,
		post.Title,
		post.Content,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new post id: %w", err)
	}
	post.ID = id

	return nil
}

// GetByID fetches one post with its author joined in.
// Returns apperror.ErrNotFound if no post has that id.
func (s *PostStore) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var (
		p      model.Post
		author model.Author
	)

	err := s.conn.QueryRowContext(ctx,
		`SELECT p.id, p.title, p.content, p.created_at, p.user_id,
		        u.id, u.name, u.lastname
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.id = ?`,
		id,
	).Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.CreatedAt,
		&p.UserID,
		&author.ID,
		&author.Name,
		&author.Lastname,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post")
		}
		return nil, fmt.Errorf("sqlite: getting post %d: %w", id, err)
	}

	p.Author = &author
	return &p, nil
}

// List returns every post, newest first (ORDER BY id DESC), each with its
// author joined in. No pagination — the API contract returns the full list.
func (s *PostStore) List(ctx context.Context) ([]model.Post, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT p.id, p.title, p.content, p.created_at, p.user_id,
		        u.id, u.name, u.lastname
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	// Initialise non-nil so an empty table serialises as [] not null.
	posts := []model.Post{}
	for rows.Next() {
		var (
			p      model.Post
			author model.Author
		)
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Content,
			&p.CreatedAt,
			&p.UserID,
			&author.ID,
			&author.Name,
			&author.Lastname,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		p.Author = &author
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// Delete removes the post. The comments FK is declared ON DELETE CASCADE,
// so child comments disappear in the same statement.
// Returns apperror.ErrNotFound if no row was deleted.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking post delete: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("post")
	}

	return nil
}
