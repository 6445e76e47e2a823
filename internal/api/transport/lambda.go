package transport

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/opendata-at/datagvat-mcp/internal/api/middleware"
)

// LambdaHandler adapts the gateway handler chain to the aws-lambda-go signature.
func LambdaHandler(handler middleware.APIGatewayHandler, logger *slog.Logger) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return handler(ctx, logger.With("requestId", request.RequestContext.RequestID), request)
	}
}

// ServeLambda hands control to the Lambda runtime. It does not return.
func ServeLambda(handler middleware.APIGatewayHandler, logger *slog.Logger) {
	logger.Info("Starting MCP Lambda transport")
	lambda.Start(LambdaHandler(handler, logger))
}
