// Package response provides standardized HTTP response structures and helpers
// for the csv-version-compare API server. All API responses follow a
// consistent format with a data field for successful responses and an error
// field for failures.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/devKoy/csv-version-compare/pkg/errors"
)

// Error codes returned to clients.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeParseError         = "PARSE_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeSchemaError        = "SCHEMA_ERROR"
	CodeWindowError        = "WINDOW_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Response represents the standardized API response structure.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error represents an API error with code, message, and optional details.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{
		Data:  data,
		Error: nil,
	}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Data: nil,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors are ignored as headers are already sent (best effort)
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail(CodeBadRequest, message, details))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail(CodeNotFound, message, details))
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail(
		CodeMethodNotAllowed,
		"Method not allowed",
		"Method "+method+" is not supported for this endpoint",
	))
}

// PayloadTooLarge writes a 413 error response.
func PayloadTooLarge(w http.ResponseWriter, limit int64) {
	JSON(w, http.StatusRequestEntityTooLarge, Fail(
		CodePayloadTooLarge,
		"Upload too large",
		"Request body exceeds "+formatBytes(limit),
	))
}

// ServiceUnavailable writes a 503 error response.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	JSON(w, http.StatusServiceUnavailable, Fail(CodeServiceUnavailable, message, ""))
}

// InternalError writes a 500 error response without exposing details.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(
		CodeInternalError,
		"Internal server error",
		"An unexpected error occurred",
	))
}

// ErrorFromType maps typed errors to appropriate HTTP responses. Comparison
// failures on well-formed uploads are server faults carrying a distinguishing
// code; malformed uploads and parameters are client errors.
func ErrorFromType(w http.ResponseWriter, err error) {
	var (
		schemaErr     *errors.SchemaError
		windowErr     *errors.WindowError
		parseErr      *errors.ParseError
		notFoundErr   *errors.NotFoundError
		validationErr *errors.ValidationError
		ioErr         *errors.IOError
		tooLarge      *http.MaxBytesError
	)
	switch {
	case errors.As(err, &schemaErr):
		JSON(w, http.StatusInternalServerError, Fail(CodeSchemaError, "Comparison failed", schemaErr.Error()))
	case errors.As(err, &windowErr):
		JSON(w, http.StatusInternalServerError, Fail(CodeWindowError, "Comparison failed", windowErr.Error()))
	case errors.As(err, &tooLarge):
		PayloadTooLarge(w, tooLarge.Limit)
	case errors.As(err, &parseErr):
		JSON(w, http.StatusBadRequest, Fail(CodeParseError, "Error parsing file", parseErr.Error()))
	case errors.As(err, &notFoundErr):
		NotFound(w, notFoundErr.Error(), "")
	case errors.As(err, &validationErr):
		BadRequest(w, validationErr.Error(), "")
	case errors.As(err, &ioErr):
		BadRequest(w, "Error reading upload", ioErr.Error())
	default:
		InternalError(w, err)
	}
}

func formatBytes(n int64) string {
	const mib = 1 << 20
	if n >= mib && n%mib == 0 {
		return strconv.FormatInt(n/mib, 10) + " MiB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}
