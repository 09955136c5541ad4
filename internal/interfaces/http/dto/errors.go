package dto

import (
	"net/http"
	"strings"
)

// Domain error codes and their HTTP status codes. The API error body is a
// flat {"error": "<message>"}, so codes never reach the client. They only
// select the response status.
var domainCodeHTTPStatus = map[string]int{
	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Auth errors
	"UNAUTHORIZED": http.StatusUnauthorized,
	"FORBIDDEN":    http.StatusForbidden,

	// Input and business rule errors -> 400 Bad Request
	"VALIDATION_ERROR": http.StatusBadRequest,
	"INVALID_STATE":    http.StatusBadRequest,
	"EXCEEDS_BALANCE":  http.StatusBadRequest,
	"BAD_REQUEST":      http.StatusBadRequest,

	"INTERNAL_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Field-level rejection codes all follow the INVALID_<FIELD> convention and
// map to 400. Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := domainCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
