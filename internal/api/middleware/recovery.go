package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/aws/aws-lambda-go/events"
	"github.com/opendata-at/datagvat-mcp/internal/api/response"
	"github.com/opendata-at/datagvat-mcp/internal/domain/errors"
)

type RecoveryMiddleware struct{}

func NewRecoveryMiddleware() RecoveryMiddleware {
	return RecoveryMiddleware{}
}

func (m RecoveryMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("PANIC", "panic", r, "stack", string(debug.Stack()))
				resp = response.InternalError("An unexpected error occurred", fmt.Errorf("panic: %v", r), request.RequestContext.RequestID)
				err = nil
			}
		}()

		resp, err = next(ctx, logger, request)

		if err != nil {
			appErr, ok := errors.As(err)
			if !ok {
				appErr = errors.NewInternalError("An unexpected error occurred", err)
			}

			logger.Error("ERROR", "code", appErr.Code, "error", appErr.Error())

			return response.Error(appErr, request.RequestContext.RequestID), nil
		}

		return resp, nil
	}
}
