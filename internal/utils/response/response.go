// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
//
// Consistent response shapes also make life easier for API consumers —
// every 4xx/5xx carries the same error envelope.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// StudentOrGradeNotFound is the exact message the contract promises
// for every not-found condition, whatever its cause.
const StudentOrGradeNotFound = "Student or Grade was not found"

// ErrorResponse is the envelope returned for every error case:
//
//	{ "status": 404, "message": "Student or Grade was not found", "timeStamp": "2026-09-01T10:15:04Z" }
//
// Success responses return the domain payload directly (a StudentView,
// a list of them); only failures are wrapped.
type ErrorResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	TimeStamp string `json:"timeStamp"`
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// json.NewEncoder(w) streams directly into w, avoiding an
	// intermediate buffer.
	return json.NewEncoder(w).Encode(data)
}

// NotFound builds the 404 envelope. Every not-found cause (absent
// student, absent grade, unknown grade type) produces this same body.
func NotFound() ErrorResponse {
	return ErrorResponse{
		Status:    http.StatusNotFound,
		Message:   StudentOrGradeNotFound,
		TimeStamp: timeStamp(),
	}
}

// BadRequest wraps a client error (malformed id, empty body, bad
// parameter) into the envelope.
func BadRequest(err error) ErrorResponse {
	return ErrorResponse{
		Status:    http.StatusBadRequest,
		Message:   err.Error(),
		TimeStamp: timeStamp(),
	}
}

// Internal wraps an infrastructure failure into the envelope.
func Internal(err error) ErrorResponse {
	return ErrorResponse{
		Status:    http.StatusInternalServerError,
		Message:   err.Error(),
		TimeStamp: timeStamp(),
	}
}

// ValidationError converts the individual field errors reported by
// go-playground/validator into a single envelope, one plain English
// clause per failing field.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "gte", "lte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is out of range", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return ErrorResponse{
		Status:    http.StatusBadRequest,
		Message:   strings.Join(errMessages, ", "),
		TimeStamp: timeStamp(),
	}
}

func timeStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
