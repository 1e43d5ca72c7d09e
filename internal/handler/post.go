package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/service"
)

// PostHandler exposes the post and comment lifecycle. Every route here
// sits behind the auth middleware; the acting user is read from the
// request context, never from the request body.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

// postID parses the {id} URL parameter.
//
// An id that doesn't parse as an integer is treated exactly like an id
// that matches nothing: not-found, not a format error. Lookups by
// caller-supplied identifiers are uniformly "the post does not exist"
// whenever they can't succeed.
func postID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperror.NotFound("post")
	}
	return id, nil
}

// HandleCreate saves a new post owned by the acting user.
//
// HTTP: POST /api/posts
// Body: {"title":..., "content":...} — content is optional.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var form postForm
	if err := decodeForm(r, &form); err != nil {
		writeFormError(w, map[string]string{"_body": "invalid JSON body"})
		return
	}
	if errs := form.validate(); len(errs) > 0 {
		writeFormError(w, errs)
		return
	}

	post, err := h.posts.Create(r.Context(), actor, form.Title, form.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleList returns all posts, newest first.
//
// HTTP: GET /api/posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleGet returns one post with its comments.
//
// HTTP: GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleCreateComment saves a comment under an existing post.
//
// HTTP: POST /api/posts/{id}/comments
// Body: {"content":...}
//
// An absent parent post is a 404 and nothing is persisted.
func (h *PostHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	id, err := postID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var form commentForm
	if err := decodeForm(r, &form); err != nil {
		writeFormError(w, map[string]string{"_body": "invalid JSON body"})
		return
	}
	if errs := form.validate(); len(errs) > 0 {
		writeFormError(w, errs)
		return
	}

	comment, err := h.posts.AddComment(r.Context(), actor, id, form.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

// HandleDelete removes a post the acting user owns.
//
// HTTP: DELETE /api/posts/{id}
//
// Success: 200 {"deleted": true}. A post that doesn't exist and a post
// owned by someone else both produce the identical 404.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	id, err := postID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.posts.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
