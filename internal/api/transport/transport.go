// Package transport carries MCP JSON-RPC messages between clients and the
// protocol service: newline-delimited stdio, plain HTTP and API Gateway
// events on AWS Lambda.
package transport

import (
	"context"

	"github.com/opendata-at/datagvat-mcp/internal/domain/mcp"
)

// RequestHandler processes one decoded JSON-RPC message. *mcp.Service implements it.
type RequestHandler interface {
	HandleRequest(ctx context.Context, request mcp.JSONRPCRequest) mcp.HTTPResponse
}
