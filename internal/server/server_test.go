package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the full stack — router, middleware, services,
// in-memory SQLite — exactly as production does.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := New(Config{Port: 0, DBPath: ":memory:"}, logger)
	require.NoError(t, err, "creating test server")
	t.Cleanup(func() { s.Close() })
	return s
}

// doJSON performs a request against the full router. token == "" sends no
// Authorization header.
func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

// decodeBody unmarshals a recorder body into a generic map.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m), "decoding response body: %s", rr.Body.String())
	return m
}

// registerAndLogin creates an account and returns its access token.
func registerAndLogin(t *testing.T, s *Server, email, password string) string {
	t.Helper()

	rr := doJSON(t, s, http.MethodPost, "/api/register", "", map[string]string{
		"name":     "Test",
		"lastname": "Person",
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rr.Code, "register: %s", rr.Body.String())

	rr = doJSON(t, s, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rr.Code, "login: %s", rr.Body.String())

	data := decodeBody(t, rr)["data"].(map[string]any)
	token, _ := data["apiToken"].(string)
	require.NotEmpty(t, token, "login returned no apiToken")
	return token
}

// The end-to-end ownership scenario: A creates a post, B cannot delete it
// (and can't even tell it exists from the delete response), A can.
func TestOwnershipLifecycle(t *testing.T) {
	s := newTestServer(t)

	tokenA := registerAndLogin(t, s, "a@x.com", "secret1")
	tokenB := registerAndLogin(t, s, "b@x.com", "secret2")

	// A creates a post.
	rr := doJSON(t, s, http.MethodPost, "/api/posts", tokenA, map[string]string{
		"title":   "Hello",
		"content": "first post",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	created := decodeBody(t, rr)
	postID := int64(created["id"].(float64))
	assert.Equal(t, "Hello", created["title"])

	postPath := fmt.Sprintf("/api/posts/%d", postID)

	// B's delete fails with 404 — identical to a nonexistent id.
	rr = doJSON(t, s, http.MethodDelete, postPath, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	nonOwnerBody := rr.Body.String()

	rr = doJSON(t, s, http.MethodDelete, "/api/posts/999", tokenB, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, rr.Body.String(), nonOwnerBody,
		"non-owner delete must be byte-identical to a missing-id delete")

	// The post survived B's attempt.
	rr = doJSON(t, s, http.MethodGet, postPath, tokenB, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	// B can comment on A's post (public to authenticated users).
	rr = doJSON(t, s, http.MethodPost, postPath+"/comments", tokenB, map[string]string{
		"content": "nice post",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// The detail view now includes B's comment.
	rr = doJSON(t, s, http.MethodGet, postPath, tokenA, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	detail := decodeBody(t, rr)
	comments := detail["comments"].([]any)
	require.Len(t, comments, 1)

	// A deletes their own post.
	rr = doJSON(t, s, http.MethodDelete, postPath, tokenA, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, true, decodeBody(t, rr)["deleted"])

	// Gone for everyone.
	rr = doJSON(t, s, http.MethodGet, postPath, tokenA, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListPosts_NewestFirst(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "a@x.com", "secret1")

	for _, title := range []string{"first", "second", "third"} {
		rr := doJSON(t, s, http.MethodPost, "/api/posts", token, map[string]string{"title": title})
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := doJSON(t, s, http.MethodGet, "/api/posts", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var posts []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posts))
	require.Len(t, posts, 3)
	assert.Equal(t, "third", posts[0]["title"])
	assert.Equal(t, "second", posts[1]["title"])
	assert.Equal(t, "first", posts[2]["title"])
}

func TestLogin_Failures(t *testing.T) {
	s := newTestServer(t)
	registerAndLogin(t, s, "a@x.com", "secret1")

	// Unknown user and wrong password get distinct messages — but both 401.
	rr := doJSON(t, s, http.MethodPost, "/api/login", "", map[string]string{
		"email": "nobody@x.com", "password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "This user not exists.", decodeBody(t, rr)["message"])

	rr = doJSON(t, s, http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Incorrect login or password.", decodeBody(t, rr)["message"])
}

// A second login invalidates the first session's token.
func TestRelogin_InvalidatesOldToken(t *testing.T) {
	s := newTestServer(t)
	oldToken := registerAndLogin(t, s, "a@x.com", "secret1")

	rr := doJSON(t, s, http.MethodPost, "/api/login", "", map[string]string{
		"email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	newToken := decodeBody(t, rr)["data"].(map[string]any)["apiToken"].(string)
	require.NotEqual(t, oldToken, newToken)

	rr = doJSON(t, s, http.MethodGet, "/api/me", newToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code, "new token must resolve")

	rr = doJSON(t, s, http.MethodGet, "/api/me", oldToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "old token must stop resolving")
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/me"},
		{http.MethodGet, "/api/posts"},
		{http.MethodPost, "/api/posts"},
		{http.MethodGet, "/api/posts/1"},
		{http.MethodPost, "/api/posts/1/comments"},
		{http.MethodDelete, "/api/posts/1"},
	}
	for _, p := range paths {
		rr := doJSON(t, s, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s without token", p.method, p.path)
	}
}

func TestCommentOnMissingPost(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "a@x.com", "secret1")

	rr := doJSON(t, s, http.MethodPost, "/api/posts/999/comments", token, map[string]string{
		"content": "hello?",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// A non-integer id is a not-found, never a format error.
func TestNonIntegerPostID(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "a@x.com", "secret1")

	rr := doJSON(t, s, http.MethodGet, "/api/posts/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRegister_ValidationEnvelope(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/register", "", map[string]string{
		"name":     "ab", // under the 3-char minimum
		"lastname": "Person",
		"email":    "not-an-email",
		"password": "tiny",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	body := decodeBody(t, rr)
	assert.Equal(t, "error", body["status"])
	form := body["form"].(map[string]any)
	assert.Contains(t, form, "name")
	assert.Contains(t, form, "email")
	assert.Contains(t, form, "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	registerAndLogin(t, s, "a@x.com", "secret1")

	rr := doJSON(t, s, http.MethodPost, "/api/register", "", map[string]string{
		"name":     "Other",
		"lastname": "Person",
		"email":    "a@x.com",
		"password": "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// The password (and its hash) must never appear in any response body.
func TestPasswordNeverSerialized(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "a@x.com", "super-secret-pw")

	rr := doJSON(t, s, http.MethodPost, "/api/posts", token, map[string]string{"title": "Hello"})
	require.Equal(t, http.StatusOK, rr.Code)
	postID := int64(decodeBody(t, rr)["id"].(float64))

	bodies := []*httptest.ResponseRecorder{
		doJSON(t, s, http.MethodGet, "/api/me", token, nil),
		doJSON(t, s, http.MethodGet, "/api/posts", token, nil),
		doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), token, nil),
	}
	for _, rr := range bodies {
		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.NotContains(t, body, "super-secret-pw")
		assert.NotContains(t, body, "passwordHash")
		assert.NotContains(t, body, "$2a$", "a bcrypt hash leaked into a response")
	}

	// Tokens stay out of post bodies too — the author ref is id+names only.
	rr = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), token, nil)
	assert.False(t, strings.Contains(rr.Body.String(), token), "apiToken leaked into a post body")
}
