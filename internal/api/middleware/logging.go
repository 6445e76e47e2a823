package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// LoggingMiddleware logs every request and response. Headers and bodies are
// only logged when verbose is set, with credentials masked.
type LoggingMiddleware struct {
	verbose bool
}

func NewLoggingMiddleware(verbose bool) LoggingMiddleware {
	return LoggingMiddleware{verbose: verbose}
}

func (m LoggingMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		startTime := time.Now()

		m.logRequest(request, logger)

		response, err := next(ctx, logger, request)

		m.logResponse(response, err, time.Since(startTime), logger)

		return response, err
	}
}

func (m LoggingMiddleware) logRequest(request events.APIGatewayProxyRequest, logger *slog.Logger) {
	if !m.verbose {
		logger.Info("REQUEST",
			"method", request.HTTPMethod,
			"path", request.Path,
			"requestId", request.RequestContext.RequestID)
		return
	}

	logger.Info("REQUEST",
		"method", request.HTTPMethod,
		"path", request.Path,
		"requestId", request.RequestContext.RequestID,
		"sourceIP", request.RequestContext.Identity.SourceIP,
		"queryParameters", request.QueryStringParameters,
		"headers", maskSensitiveHeaders(request.Headers))

	if request.Body != "" {
		logger.Info("REQUEST", "Body", maskBody(request.Body))
	}
}

func (m LoggingMiddleware) logResponse(response events.APIGatewayProxyResponse, err error, duration time.Duration, logger *slog.Logger) {
	if err != nil {
		logger.Info("ERROR", "error", err)
	}

	logger.Info("RESPONSE",
		"status", response.StatusCode,
		"duration", duration,
	)

	if m.verbose && response.Body != "" {
		logger.Info("RESPONSE", "Body", response.Body)
	}
}

var sensitiveHeaders = []string{
	"Authorization",
	"X-Api-Key",
	"Cookie",
}

func maskSensitiveHeaders(headers map[string]string) map[string]string {
	maskedHeaders := make(map[string]string, len(headers))
	for k, v := range headers {
		maskedHeaders[k] = v
		for _, header := range sensitiveHeaders {
			if strings.EqualFold(k, header) {
				maskedHeaders[k] = "***"
			}
		}
	}
	return maskedHeaders
}

// maskBody hides tool credentials inside a JSON-RPC tools/call body.
func maskBody(body string) string {
	var msg map[string]any
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return body
	}
	params, _ := msg["params"].(map[string]any)
	args, _ := params["arguments"].(map[string]any)
	if args == nil {
		return body
	}
	for _, k := range []string{"api_key", "bearer_token"} {
		if _, ok := args[k]; ok {
			args[k] = "***"
		}
	}
	masked, err := json.Marshal(msg)
	if err != nil {
		return body
	}
	return string(masked)
}
