package transport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/opendata-at/datagvat-mcp/internal/domain/mcp"
)

// handlerFunc lets tests supply HandleRequest inline.
type handlerFunc func(ctx context.Context, request mcp.JSONRPCRequest) mcp.HTTPResponse

func (f handlerFunc) HandleRequest(ctx context.Context, request mcp.JSONRPCRequest) mcp.HTTPResponse {
	return f(ctx, request)
}

// echoHandler answers every request with its method name and treats id-less
// messages as notifications.
func echoHandler() handlerFunc {
	return func(ctx context.Context, request mcp.JSONRPCRequest) mcp.HTTPResponse {
		if request.IsNotification() {
			return mcp.NewNotificationHTTPResponse()
		}
		return mcp.NewSuccessHTTPResponse(request.ID, map[string]string{"method": request.Method}, http.StatusOK)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeLines(t interface{ Fatalf(string, ...any) }, out string) []mcp.JSONRPCResponse {
	var responses []mcp.JSONRPCResponse
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var r mcp.JSONRPCResponse
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("decode output: %v", err)
		}
		responses = append(responses, r)
	}
	return responses
}
