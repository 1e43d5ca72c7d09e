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

// UserStore implements repository.UserRepository on SQLite.
type UserStore struct {
	conn *sql.DB
}

// Compile-time check that *UserStore implements repository.UserRepository.
var _ repository.UserRepository = (*UserStore)(nil)

const userColumns = `id, name, lastname, email, password_hash, api_token, token_issued_at, created_at`

// Create inserts a new user.
//
// The id is assigned by SQLite (INTEGER PRIMARY KEY AUTOINCREMENT) and
// written back into the caller's struct via LastInsertId. A duplicate
// email trips the UNIQUE constraint and comes back as a conflict — there
// is deliberately no existence pre-check (see the package comment).
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (name, lastname, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Name,
		user.Lastname,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if conflict := translateConstraint(err, "user"); conflict != err {
			return conflict
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetByEmail retrieves a user by their login handle.
// Returns apperror.ErrNotFound if no such user exists.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return user, nil
}

// GetByToken resolves an access token to its user. This is the identity
// lookup behind every authenticated request.
// Returns apperror.ErrNotFound when the token matches no row.
func (s *UserStore) GetByToken(ctx context.Context, token string) (*model.User, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE api_token = ?`, token)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("sqlite: getting user by token: %w", err)
	}
	return user, nil
}

// SetCredential replaces the user's credential in a single UPDATE.
//
// Because the previous token value is simply overwritten, it stops
// resolving the instant this statement commits — that's the whole
// revocation model. A collision with another user's live token (possible
// only if the UUID generator ever repeated itself) trips the UNIQUE
// constraint and surfaces as a conflict for the caller to retry.
func (s *UserStore) SetCredential(ctx context.Context, userID int64, cred *model.Credential) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE users SET api_token = ?, token_issued_at = ? WHERE id = ?`,
		cred.Token, cred.IssuedAt, userID)
	if err != nil {
		if conflict := translateConstraint(err, "token"); conflict != err {
			return conflict
		}
		return fmt.Errorf("sqlite: setting credential: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking credential update: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user")
	}

	return nil
}

// scanUser reads one user row, folding the nullable credential columns
// into a *model.Credential (nil when the user has never logged in).
func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u        model.User
		token    sql.NullString
		issuedAt sql.NullTime
	)

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Lastname,
		&u.Email,
		&u.PasswordHash,
		&token,
		&issuedAt,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if token.Valid {
		u.Credential = &model.Credential{
			Token:    token.String,
			IssuedAt: issuedAt.Time,
		}
	}

	return &u, nil
}
