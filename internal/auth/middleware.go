package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/blog-api/internal/model"
)

// IdentityResolver maps an access token to the user it was issued to.
// Implemented by service.AuthService; declared here so the middleware
// doesn't depend on the service package.
type IdentityResolver interface {
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue keys are compared by type AND value. A plain string
// key like "user" could be read or shadowed by any package that knows the
// string. A package-private type means only this package can create the
// key, so only this package controls the value.
type contextKey string

const userKey contextKey = "user"

// RequireAuth is the middleware gating every route beyond login/register.
//
// It extracts the access token from the request, resolves it to a user,
// and stores that user in the request context as the acting user for the
// rest of the request. Missing, malformed, or unknown tokens all produce
// the same 401 — the response never says which it was.
//
// TOKEN TRANSPORT:
// Clients send the token per request in either form:
//
//	Authorization: Bearer <token>
//	X-Auth-Token: <token>
func RequireAuth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" || !WellFormedToken(token) {
				unauthorized(w)
				return
			}

			user, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			// Store the acting user in context so handlers can read it
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the acting user set by RequireAuth.
// Returns (nil, false) on routes the middleware never ran on.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, found := strings.CutPrefix(h, "Bearer "); found {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get("X-Auth-Token"))
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
}
