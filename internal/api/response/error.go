package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/opendata-at/datagvat-mcp/internal/domain/errors"
)

// ErrorResponse represents an error response outside the JSON-RPC envelope,
// e.g. a rejected bearer token or an unknown route.
type ErrorResponse struct {
	Success          bool             `json:"success"`
	Error            string           `json:"error"`
	ErrorDescription ErrorDescription `json:"error_description"`
	Metadata         ResponseMetadata `json:"metadata"`
}

// ErrorDescription represents the error details
type ErrorDescription struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error creates an error response
func Error(appErr errors.AppError, requestID string) events.APIGatewayProxyResponse {
	response := ErrorResponse{
		Success: false,
		Error:   appErr.Code,
		ErrorDescription: ErrorDescription{
			Message: appErr.Message,
			Details: appErr.Details,
		},
		Metadata: ResponseMetadata{
			Version:   "1.0",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: requestID,
		},
	}

	body, err := json.Marshal(response)
	if err != nil {
		// Fallback for JSON marshaling errors
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"success":false,"error":"INTERNAL_ERROR","error_description":{"message":"Failed to marshal error response"}}`,
			Headers:    DefaultHeaders(),
		}
	}

	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    DefaultHeaders(),
	}
}

// NotFound creates a not found error response
func NotFound(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.AppError{
		Code:       "NOT_FOUND",
		Message:    message,
		StatusCode: http.StatusNotFound,
	}, requestID)
}

// MethodNotAllowed creates a 405 response listing the allowed methods
func MethodNotAllowed(allow string, requestID string) events.APIGatewayProxyResponse {
	resp := Error(errors.AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Method Not Allowed",
		StatusCode: http.StatusMethodNotAllowed,
	}, requestID)
	resp.Headers["Allow"] = allow
	return resp
}

// InternalError creates an internal error response
func InternalError(message string, err error, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewInternalError(message, err), requestID)
}

// AuthenticationError creates an authentication error response with a
// WWW-Authenticate challenge
func AuthenticationError(message string, requestID string) events.APIGatewayProxyResponse {
	resp := Error(errors.NewAuthenticationError(message), requestID)
	resp.Headers["WWW-Authenticate"] = fmt.Sprintf(`Bearer realm="mcp", error="invalid_token", error_description=%q`, message)
	return resp
}
