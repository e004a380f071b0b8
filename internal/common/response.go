package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes carried in V2Error.Code
const (
	CodeValidation          = "VALIDATION_FAILED"
	CodeInvalidTransition   = "ALREADY_REVIEWED"
	CodeDuplicateSubmission = "ALREADY_SUBMITTED_TODAY"
	CodeConflict            = "CONFLICT"
	CodeNotFound            = "NOT_FOUND"
	CodeAuth                = "INVALID_CREDENTIALS"
	CodeLoginRequired       = "LOGIN_REQUIRED"
	CodeForbidden           = "FORBIDDEN"
	CodeRateLimited         = "RATE_LIMITED"
	CodeRemoteTimeout       = "REMOTE_TIMEOUT"
	CodeRemoteFailure       = "REMOTE_FAILURE"
	CodeMalformedField      = "MALFORMED_REMOTE_FIELD"
	CodeUnavailable         = "UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
)

// codeForStatus is the code for responses written without an error value
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeLoginRequired
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusBadGateway:
		return CodeRemoteFailure
	case http.StatusServiceUnavailable:
		return CodeUnavailable
	case http.StatusGatewayTimeout:
		return CodeRemoteTimeout
	default:
		return CodeInternal
	}
}

// CodeFor maps a workflow error to its error code. More specific kinds are
// checked before the kinds they wrap.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrDuplicateSubmission):
		return CodeDuplicateSubmission
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAuth):
		return CodeAuth
	case errors.Is(err, ErrUnauthorized):
		return CodeLoginRequired
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrTimeout):
		return CodeRemoteTimeout
	case errors.Is(err, ErrFormat):
		return CodeMalformedField
	case errors.Is(err, ErrTransport):
		return CodeRemoteFailure
	case errors.Is(err, ErrUnavailable):
		return CodeUnavailable
	default:
		return CodeInternal
	}
}

// StatusFor maps a workflow error to its HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateSubmission), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAuth), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrTransport), errors.Is(err, ErrFormat):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HandleError renders err with the status its kind maps to. Internal errors get
// the fallback message; everything else shows its own reason.
func HandleError(c *gin.Context, err error, fallback string) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = fallback
	}
	c.Error(err) //nolint:errcheck // recorded for the request logger
	writeError(c, status, CodeFor(err), message, nil)
}
