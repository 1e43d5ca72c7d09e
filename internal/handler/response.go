package handler

// RESPONSE HELPERS:
// These functions standardise how handlers send JSON. Every error response
// has one of two fixed shapes:
//
//	{"error": "not_found", "message": "The post does not exist."}   ← domain errors
//	{"status": "error", "form": {"title": "..."}}                   ← form binding failures
//
// The frontend always knows which fields to expect regardless of status.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/blog-api/internal/apperror"
)

// ErrorResponse is the standard error format for domain errors.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable kind, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// FormErrorResponse is the envelope for request-binding failures, field
// name to message.
type FormErrorResponse struct {
	Status string            `json:"status"`
	Form   map[string]string `json:"form"`
}

// dataEnvelope wraps payloads the API returns under a "data" key
// (login, register, me).
type dataEnvelope struct {
	Data any `json:"data"`
}

// writeJSON sends a JSON response with the given status code.
// Headers must be set before WriteHeader, and WriteHeader before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone — all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeFormError sends the form-validation envelope with a 400.
func writeFormError(w http.ResponseWriter, form map[string]string) {
	writeJSON(w, http.StatusBadRequest, FormErrorResponse{
		Status: "error",
		Form:   form,
	})
}

// writeError maps a domain error to its HTTP status and sends it.
//
// MAPPING (mirrors the error taxonomy):
//
//	ErrValidation   → 400 validation_error
//	ErrUnauthorized → 401 unauthorized
//	ErrNotFound     → 404 not_found (ownership denials arrive as this kind
//	                  already — by the time an error reaches here, "not
//	                  yours" and "doesn't exist" are the same error)
//	ErrService      → 400 service_error, with the underlying message
//
// Anything unrecognized is a generic 500; raw internal errors are never
// echoed to the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrService), errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
			errorType = "service_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
