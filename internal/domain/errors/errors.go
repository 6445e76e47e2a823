package errors

import (
	"fmt"
	"net/http"
)

// Error codes surfaced to MCP clients.
const (
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeUnknownTool       = "UNKNOWN_TOOL"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeRemoteNotFound    = "REMOTE_NOT_FOUND"
	CodeRemoteError       = "REMOTE_ERROR"
	CodeRemoteServerError = "REMOTE_SERVER_ERROR"
	CodeNetworkFailure    = "NETWORK_FAILURE"
	CodeInternal          = "INTERNAL_ERROR"
)

// Sentinels for errors.Is comparisons; only the Code is compared.
var (
	ErrInvalidArgument   = AppError{Code: CodeInvalidArgument}
	ErrUnknownTool       = AppError{Code: CodeUnknownTool}
	ErrUnauthorized      = AppError{Code: CodeUnauthorized}
	ErrForbidden         = AppError{Code: CodeForbidden}
	ErrRemoteNotFound    = AppError{Code: CodeRemoteNotFound}
	ErrRemoteError       = AppError{Code: CodeRemoteError}
	ErrRemoteServerError = AppError{Code: CodeRemoteServerError}
	ErrNetworkFailure    = AppError{Code: CodeNetworkFailure}
	ErrInternal          = AppError{Code: CodeInternal}
)

// AppError is a custom error type for application errors
type AppError struct {
	Code       string
	Message    string
	StatusCode int // Same rule as HTTP status codes
	Err        error
	Details    map[string]interface{}
}

// Error returns a string representation of the error
func (e AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is implements the errors.Is interface
func (e AppError) Is(target error) bool {
	if target, ok := target.(AppError); ok {
		return target.Code == e.Code
	}
	return false
}

// Unwrap returns the underlying error
func (e AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a single detail to the error
func (e AppError) WithDetail(key string, value interface{}) AppError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// NewInvalidArgumentError creates an error for a missing or malformed tool argument
func NewInvalidArgumentError(message string) AppError {
	return AppError{
		Code:       CodeInvalidArgument,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewUnknownToolError creates an error for a tool name that is not registered
func NewUnknownToolError(name string) AppError {
	return AppError{
		Code:       CodeUnknownTool,
		Message:    fmt.Sprintf("unknown tool: %s", name),
		StatusCode: http.StatusNotFound,
		Details:    map[string]interface{}{"tool": name},
	}
}

// NewRemoteError maps a non-2xx response of the remote API to an AppError.
// The remote status and body are kept verbatim.
func NewRemoteError(status int, body string) AppError {
	code := CodeRemoteError
	switch {
	case status == http.StatusUnauthorized:
		code = CodeUnauthorized
	case status == http.StatusForbidden:
		code = CodeForbidden
	case status == http.StatusNotFound:
		code = CodeRemoteNotFound
	case status >= http.StatusInternalServerError:
		code = CodeRemoteServerError
	}
	return AppError{
		Code:       code,
		Message:    fmt.Sprintf("HTTP %d: %s", status, body),
		StatusCode: status,
		Details: map[string]interface{}{
			"status": status,
			"body":   body,
		},
	}
}

// NewResponseTooLargeError creates an error for a remote body over limit bytes.
// The body is never returned in part.
func NewResponseTooLargeError(status int, limit int64) AppError {
	return AppError{
		Code:       CodeRemoteError,
		Message:    fmt.Sprintf("remote response exceeds %d bytes", limit),
		StatusCode: http.StatusBadGateway,
		Details: map[string]interface{}{
			"status": status,
			"limit":  limit,
		},
	}
}

// NewNetworkError creates an error for a failed round trip (connection, timeout, cancellation)
func NewNetworkError(message string, err error) AppError {
	return AppError{
		Code:       CodeNetworkFailure,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        err,
	}
}

// NewAuthenticationError creates an error for rejected inbound credentials
func NewAuthenticationError(message string) AppError {
	return AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) AppError {
	return AppError{
		Code:       CodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// StatusOf returns the HTTP-like status carried by err, or 0 if err is not an AppError.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return 0
}

// As extracts an AppError from err's chain.
func As(err error) (AppError, bool) {
	for err != nil {
		if appErr, ok := err.(AppError); ok {
			return appErr, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return AppError{}, false
		}
		err = u.Unwrap()
	}
	return AppError{}, false
}
