// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take repository INTERFACES, not concrete stores — tests swap in
// in-memory fakes, and the services never import the sqlite package.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// Login failure messages. The two cases are deliberately distinguishable
// at login (and only at login): "no such user" vs "wrong password".
// Everywhere else authentication failures are a single generic 401.
const (
	MsgUserNotExists     = "This user not exists."
	MsgIncorrectLogin    = "Incorrect login or password."
	MsgInvalidToken      = "invalid access token"
	MsgEmailAlreadyInUse = "This email is already in use."
)

// AuthService owns registration, login, and token-to-identity resolution.
//
// It is the implementation behind all three identity components: the
// credential verifier (via *auth.PasswordService), the token issuer
// (auth.GenerateToken + SetCredential), and the identity resolver
// (ResolveToken, consumed by the auth middleware).
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account with a bcrypt-hashed password.
//
// The plaintext password exists only inside this call; what gets stored
// (and everything any later read path can see) is the hash. A duplicate
// email is detected by the database's UNIQUE constraint — never by a
// pre-check — and surfaces as a creation failure.
func (s *AuthService) Register(ctx context.Context, name, lastname, email, password string) (*model.User, error) {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.Service(err.Error())
	}

	user := &model.User{
		Name:         name,
		Lastname:     lastname,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Service(MsgEmailAlreadyInUse)
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login verifies the credentials and issues a fresh access credential.
//
// FAILURE ORDER MATTERS:
//  1. Unknown email        → 401 "This user not exists."
//  2. Password mismatch    → 401 "Incorrect login or password."
//     Nothing is issued or changed on either failure.
//
// On success the user's credential is replaced wholesale — the previous
// token (if any) stops resolving immediately. One live token per user,
// no expiry, no revocation list: logging in from a second device silently
// invalidates the first.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(MsgUserNotExists)
		}
		return nil, fmt.Errorf("looking up user for login: %w", err)
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		return nil, apperror.Unauthorized(MsgIncorrectLogin)
	}

	cred, err := s.issueCredential(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Credential = cred

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))

	return user, nil
}

// issueCredential mints a random token and persists it as the user's sole
// credential.
//
// UUID collisions are cryptographically negligible, but the api_token
// UNIQUE constraint is the defense-in-depth backstop: if the insert ever
// conflicts, we retry once with a fresh value rather than trusting the
// generator blindly.
func (s *AuthService) issueCredential(ctx context.Context, userID int64) (*model.Credential, error) {
	for attempt := 0; attempt < 2; attempt++ {
		cred := &model.Credential{
			Token:    auth.GenerateToken(),
			IssuedAt: time.Now(),
		}

		err := s.users.SetCredential(ctx, userID, cred)
		if err == nil {
			return cred, nil
		}
		if errors.Is(err, apperror.ErrConflict) {
			s.logger.Warn("token collision on issue, retrying",
				slog.Int64("userID", userID),
			)
			continue
		}
		return nil, fmt.Errorf("issuing credential: %w", err)
	}

	return nil, apperror.Service("could not issue access token")
}

// ResolveToken maps an access token to the user it was issued to. It is
// the sole identity gate for every endpoint beyond login/registration; the
// resolved user becomes the acting user for the request.
//
// Any miss is the same generic authentication failure — the caller learns
// nothing about why the token didn't resolve.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	if !auth.WellFormedToken(token) {
		return nil, apperror.Unauthorized(MsgInvalidToken)
	}

	user, err := s.users.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(MsgInvalidToken)
		}
		return nil, fmt.Errorf("resolving token: %w", err)
	}

	return user, nil
}
