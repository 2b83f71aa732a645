// Package httpx holds the JSON response helpers shared by all handlers so
// transport concerns stay out of domain services.
package httpx

import (
	"encoding/json"
	"net/http"

	"intakeflow/pkg/derrors"
)

type errorBody struct {
	Error string       `json:"error"`
	Code  derrors.Code `json:"code"`
}

// WriteJSON serializes v with the given status. Encoding failures are ignored
// at this point; the status line has already been committed.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a coded domain error to an HTTP status and JSON body.
// Non-domain errors are masked as internal.
func WriteError(w http.ResponseWriter, err error) {
	code := derrors.CodeOf(err)
	WriteJSON(w, statusFor(code), errorBody{Error: derrors.MessageOf(err), Code: code})
}

func statusFor(code derrors.Code) int {
	switch code {
	case derrors.CodeBadRequest:
		return http.StatusBadRequest
	case derrors.CodeNotFound:
		return http.StatusNotFound
	case derrors.CodeConflict, derrors.CodeInvariantViolation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
