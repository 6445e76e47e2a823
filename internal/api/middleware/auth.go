package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/opendata-at/datagvat-mcp/internal/api/response"
	"github.com/opendata-at/datagvat-mcp/internal/common/utils"
	"github.com/opendata-at/datagvat-mcp/internal/domain/errors"
)

// ClaimsKey is the key for the access claims in the request context
type ClaimsKey string

// ClaimsKeyValue is the context key for access claims
const ClaimsKeyValue ClaimsKey = "accessClaims"

// AuthMiddleware validates HS256 bearer tokens on inbound MCP requests.
// With an empty secret every request passes.
type AuthMiddleware struct {
	secret        []byte
	requiredScope string
	publicPaths   map[string]bool
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(secret, requiredScope string, publicPaths ...string) AuthMiddleware {
	public := make(map[string]bool, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = true
	}
	return AuthMiddleware{
		secret:        []byte(secret),
		requiredScope: requiredScope,
		publicPaths:   public,
	}
}

// Enabled reports whether tokens are checked.
func (m AuthMiddleware) Enabled() bool {
	return len(m.secret) > 0
}

func (m AuthMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if !m.Enabled() || request.HTTPMethod == http.MethodOptions || m.publicPaths[request.Path] {
			return next(ctx, logger, request)
		}

		requestID := request.RequestContext.RequestID

		token, err := utils.ExtractBearerToken(header(request.Headers, "Authorization"))
		if err != nil {
			return response.AuthenticationError(err.Error(), requestID), nil
		}

		claims, err := utils.ParseHS256(token, m.secret)
		if err != nil {
			logger.Warn("Token validation failed", "error", err)
			return response.AuthenticationError("invalid or expired token", requestID), nil
		}

		if m.requiredScope != "" && !utils.HasScope(claims, m.requiredScope) {
			return response.Error(errors.AppError{
				Code:       errors.CodeForbidden,
				Message:    "token is missing scope " + m.requiredScope,
				StatusCode: http.StatusForbidden,
			}, requestID), nil
		}

		ctx = context.WithValue(ctx, ClaimsKeyValue, claims)
		return next(ctx, logger.With("subject", claims.Subject), request)
	}
}

// ClaimsFromContext returns the access claims set by AuthMiddleware, if any.
func ClaimsFromContext(ctx context.Context) (*utils.AccessClaims, bool) {
	claims, ok := ctx.Value(ClaimsKeyValue).(*utils.AccessClaims)
	return claims, ok
}
