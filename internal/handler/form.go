package handler

// FORM BINDING:
// Each write endpoint has a fixed field set with fixed bounds. A form type
// decodes the JSON body and validates itself, returning a field→message
// map; a non-empty map becomes the {"status":"error","form":{...}}
// envelope before any business logic runs. The service layer re-checks the
// rules that matter to it, but a malformed request never gets that far.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	minFieldLength    = 3
	maxFieldLength    = 255
	minPasswordLength = 6
)

// decodeForm reads the JSON request body into dst.
// Unknown fields are ignored — extra input can't smuggle values into
// fields the form doesn't declare (notably any kind of owner id).
func decodeForm(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// requireLength validates a required string field's trimmed length.
func requireLength(form map[string]string, field, value string, min, max int) {
	if n := len(strings.TrimSpace(value)); n < min || n > max {
		form[field] = fmt.Sprintf("%s must be between %d and %d characters", field, min, max)
	}
}

type registerForm struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f *registerForm) validate() map[string]string {
	form := map[string]string{}
	requireLength(form, "name", f.Name, minFieldLength, maxFieldLength)
	requireLength(form, "lastname", f.Lastname, minFieldLength, maxFieldLength)
	requireLength(form, "email", f.Email, minFieldLength, maxFieldLength)
	if _, ok := form["email"]; !ok && !strings.Contains(f.Email, "@") {
		form["email"] = "email must be a valid address"
	}
	requireLength(form, "password", f.Password, minPasswordLength, maxFieldLength)
	return form
}

type loginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f *loginForm) validate() map[string]string {
	form := map[string]string{}
	if strings.TrimSpace(f.Email) == "" {
		form["email"] = "email is required"
	}
	if f.Password == "" {
		form["password"] = "password is required"
	}
	return form
}

type postForm struct {
	Title   string `json:"title"`
	Content string `json:"content"` // optional
}

func (f *postForm) validate() map[string]string {
	form := map[string]string{}
	requireLength(form, "title", f.Title, minFieldLength, maxFieldLength)
	return form
}

type commentForm struct {
	Content string `json:"content"`
}

func (f *commentForm) validate() map[string]string {
	form := map[string]string{}
	if strings.TrimSpace(f.Content) == "" {
		form["content"] = "content is required"
	}
	return form
}
