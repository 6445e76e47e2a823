package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendata-at/datagvat-mcp/internal/domain/mcp"
)

func newTestGateway() *Gateway {
	return NewGateway(echoHandler(), mcp.ServerInfo{Name: "ckan", Version: "1.0.0"})
}

func TestGateway_Handle(t *testing.T) {
	tests := []struct {
		name       string
		request    events.APIGatewayProxyRequest
		wantStatus int
		wantBody   string
	}{
		{
			name:       "preflight",
			request:    events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions, Path: "/mcp"},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "health",
			request:    events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/health"},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"healthy","server":"ckan","version":"1.0.0"}`,
		},
		{
			name:       "health wrong method",
			request:    events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Path: "/health"},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "unknown path",
			request:    events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Path: "/other"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "get on mcp",
			request:    events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/mcp"},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "request on root",
			request:    events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Path: "/", Body: `{"jsonrpc":"2.0","id":1,"method":"ping"}`},
			wantStatus: http.StatusOK,
			wantBody:   `{"jsonrpc":"2.0","id":1,"result":{"method":"ping"}}`,
		},
		{
			name:       "request on mcp with trailing slash",
			request:    events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Path: "/mcp/", Body: `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`},
			wantStatus: http.StatusOK,
			wantBody:   `{"jsonrpc":"2.0","id":2,"result":{"method":"tools/list"}}`,
		},
		{
			name: "base64 body",
			request: events.APIGatewayProxyRequest{
				HTTPMethod:      http.MethodPost,
				Path:            "/mcp",
				Body:            base64.StdEncoding.EncodeToString([]byte(`{"jsonrpc":"2.0","id":3,"method":"ping"}`)),
				IsBase64Encoded: true,
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"jsonrpc":"2.0","id":3,"result":{"method":"ping"}}`,
		},
		{
			name:       "notification",
			request:    events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Path: "/mcp", Body: `{"jsonrpc":"2.0","method":"notifications/initialized"}`},
			wantStatus: http.StatusAccepted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newTestGateway().Handle(context.Background(), discardLogger(), tt.request)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, resp.Body)
			}
		})
	}
}

func TestGateway_ParseError(t *testing.T) {
	resp, err := newTestGateway().Handle(context.Background(), discardLogger(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/mcp",
		Body:       "{oops",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body mcp.JSONRPCResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, mcp.ParseError, body.Error.Code)
}

func TestLambdaHandler(t *testing.T) {
	handler := LambdaHandler(newTestGateway().Handle, discardLogger())

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/health"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
