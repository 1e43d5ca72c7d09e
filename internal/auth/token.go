// Package auth provides credential verification and access token handling.
//
// TOKEN DESIGN:
// The API uses opaque access tokens, not JWTs. An opaque token carries no
// information — it's just a random 128-bit identifier (a v4 UUID) that the
// server maps back to a user with a database lookup. That lookup is the
// point: issuing a new token on login replaces the stored one, so the old
// token stops resolving immediately. A stateless signed token can't be
// invalidated that way.
//
// Collision probability for random UUIDs is cryptographically negligible,
// but the api_token column is still UNIQUE — the database rejects a
// duplicate atomically and the caller retries with a fresh value.
package auth

import "github.com/google/uuid"

// GenerateToken mints a new random access token (a v4 UUID string).
func GenerateToken() string {
	return uuid.NewString()
}

// WellFormedToken reports whether s even looks like a token we could have
// issued. Resolvers use it to reject garbage before touching the database;
// a malformed token is simply an invalid one, never a distinct error.
func WellFormedToken(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
