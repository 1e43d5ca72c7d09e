package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/service"
)

// AuthHandler exposes registration, login, and the current-user profile.
//
//	POST /api/register → create an account
//	POST /api/login    → verify credentials, issue an access token
//	GET  /api/me       → the acting user's own profile (auth required)
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, logger: logger}
}

// registerData is the register response payload. username mirrors the
// login handle (the email) — a separate field for API compatibility.
type registerData struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// loginData is the login response payload — the only place the access
// token ever appears in a response body.
type loginData struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	APIToken string `json:"apiToken"`
}

// profileData is the /api/me payload. No hash, no token.
type profileData struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/register
// Body: {"name":..., "lastname":..., "email":..., "password":...}
//
// Success: 200 {"data":{"id":1,"email":"a@x.com","username":"a@x.com"}}
// Binding failure: 400 {"status":"error","form":{...}}
// Creation failure (e.g. duplicate email): 400 service_error envelope.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := decodeForm(r, &form); err != nil {
		writeFormError(w, map[string]string{"_body": "invalid JSON body"})
		return
	}
	if errs := form.validate(); len(errs) > 0 {
		writeFormError(w, errs)
		return
	}

	user, err := h.auth.Register(r.Context(), form.Name, form.Lastname, form.Email, form.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataEnvelope{Data: registerData{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Email,
	}})
}

// HandleLogin verifies credentials and returns a fresh access token.
//
// HTTP: POST /api/login
// Body: {"email":..., "password":...}
//
// Success: 200 {"data":{..., "apiToken":"<uuid>"}}
// Unknown user or wrong password: 401 (with distinct messages — the only
// place authentication failures say which factor failed).
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := decodeForm(r, &form); err != nil {
		writeFormError(w, map[string]string{"_body": "invalid JSON body"})
		return
	}
	if errs := form.validate(); len(errs) > 0 {
		writeFormError(w, errs)
		return
	}

	user, err := h.auth.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dataEnvelope{Data: loginData{
		ID:       user.ID,
		Name:     user.Name,
		Lastname: user.Lastname,
		Email:    user.Email,
		APIToken: user.Credential.Token,
	}})
}

// HandleMe returns the acting user's own profile.
//
// HTTP: GET /api/me
// Auth: required — the user comes straight from the request context set
// by the auth middleware; there is no id parameter to tamper with.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Only reachable if the route was wired without RequireAuth.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	writeJSON(w, http.StatusOK, dataEnvelope{Data: profileData{
		ID:       user.ID,
		Name:     user.Name,
		Lastname: user.Lastname,
		Email:    user.Email,
	}})
}
