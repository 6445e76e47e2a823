package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/opendata-at/datagvat-mcp/internal/api/response"
	"github.com/opendata-at/datagvat-mcp/internal/domain/mcp"
)

const (
	PathMCP    = "/mcp"
	PathHealth = "/health"
)

// Gateway turns API Gateway proxy events into MCP calls. The HTTP transport
// converts net/http requests into the same events so both share one handler.
type Gateway struct {
	handler    RequestHandler
	serverInfo mcp.ServerInfo
}

// NewGateway creates a gateway handler.
func NewGateway(handler RequestHandler, serverInfo mcp.ServerInfo) *Gateway {
	return &Gateway{handler: handler, serverInfo: serverInfo}
}

// Handle implements middleware.APIGatewayHandler.
func (g *Gateway) Handle(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return response.NoContent(), nil
	}

	requestID := request.RequestContext.RequestID
	path := strings.TrimSuffix(request.Path, "/")

	switch path {
	case PathHealth:
		if request.HTTPMethod != http.MethodGet {
			return response.MethodNotAllowed("GET, OPTIONS", requestID), nil
		}
		return response.OK(map[string]string{
			"status":  "healthy",
			"server":  g.serverInfo.Name,
			"version": g.serverInfo.Version,
		}), nil
	case "", PathMCP:
	default:
		return response.NotFound("Endpoint not found", requestID), nil
	}

	if request.HTTPMethod != http.MethodPost {
		return response.MethodNotAllowed("POST, OPTIONS", requestID), nil
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	logger.Debug("mcp - Memory Status", "MB", m.Alloc/1024/1024)

	body := request.Body
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return jsonRPCErrorResponse(mcp.ParseError, "Parse error", err.Error()), nil
		}
		body = string(decoded)
	}

	var jsonRPCRequest mcp.JSONRPCRequest
	if err := json.Unmarshal([]byte(body), &jsonRPCRequest); err != nil {
		logger.Error("Failed to parse JSON-RPC request", "error", err)
		return jsonRPCErrorResponse(mcp.ParseError, "Parse error", err.Error()), nil
	}

	httpResponse := g.handler.HandleRequest(ctx, jsonRPCRequest)
	if httpResponse.Notification {
		return response.Accepted(), nil
	}

	responseBody, err := json.Marshal(httpResponse.JSONRPCResponse)
	if err != nil {
		logger.Error("Failed to marshal JSON-RPC response", "error", err)
		return jsonRPCErrorResponse(mcp.InternalError, "Internal error", "Failed to marshal response"), nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: httpResponse.StatusCode,
		Headers:    response.DefaultHeaders(),
		Body:       string(responseBody),
	}, nil
}

func jsonRPCErrorResponse(code int, message string, data string) events.APIGatewayProxyResponse {
	errorResponse := mcp.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      json.RawMessage("null"),
		Error: &mcp.JSONRPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}

	body, _ := json.Marshal(errorResponse)
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK, // JSON-RPC errors still return 200
		Headers:    response.DefaultHeaders(),
		Body:       string(body),
	}
}
