// Package httperrors provides the JSON error envelope used by all HTTP
// handlers. Handlers never leak provider-internal detail; they map domain
// failures onto a small set of stable codes.
package httperrors

import (
	"encoding/json"
	"net/http"
)

type Code string

const (
	CodeInvalidRequest Code = "invalid_request"
	CodeInvalidInput   Code = "invalid_input"
	CodeUnauthorized   Code = "unauthorized"
	CodeForbidden      Code = "forbidden"
	CodeNotFound       Code = "not_found"
	CodeInternal       Code = "internal_error"
)

// ToHTTPStatus maps an error code onto its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Write emits the standard error envelope.
func Write(w http.ResponseWriter, code Code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             string(code),
		"error_description": description,
	})
}
