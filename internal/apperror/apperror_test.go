package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		sentinel error
	}{
		{"not found", NotFound("post"), ErrNotFound},
		{"validation", ValidationFailed("title", "too short"), ErrValidation},
		{"unauthorized", Unauthorized("bad token"), ErrUnauthorized},
		{"service", Service("boom"), ErrService},
		{"conflict", Conflict("user"), ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", tt.err)
			}
			// Must survive wrapping through service-layer %w chains.
			wrapped := fmt.Errorf("outer context: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(wrapped, sentinel) = false")
			}
			var appErr *AppError
			if !errors.As(wrapped, &appErr) {
				t.Fatal("errors.As failed to extract *AppError from wrapped chain")
			}
			if appErr.Message != tt.err.Message {
				t.Errorf("extracted message = %q, want %q", appErr.Message, tt.err.Message)
			}
		})
	}
}

// Ownership denials use NotFound on purpose — the message must be
// identical to a genuinely missing resource.
func TestNotFound_Message(t *testing.T) {
	if got := NotFound("post").Error(); got != "The post does not exist." {
		t.Errorf("NotFound message = %q", got)
	}
}

func TestValidationFailed_Field(t *testing.T) {
	err := ValidationFailed("email", "email is required")
	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}
