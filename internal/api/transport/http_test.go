package transport

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendata-at/datagvat-mcp/internal/api/middleware"
	"github.com/opendata-at/datagvat-mcp/internal/domain/mcp"
)

func TestHTTPServer_ServeHTTP(t *testing.T) {
	var seen events.APIGatewayProxyRequest
	handler := func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		seen = request
		return newTestGateway().Handle(ctx, logger, request)
	}
	srv := httptest.NewServer(NewHTTPServer(":0", handler, discardLogger()))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/mcp?debug=1", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":{"method":"ping"}}`, string(body))

	assert.Equal(t, http.MethodPost, seen.HTTPMethod)
	assert.Equal(t, "/mcp", seen.Path)
	assert.Equal(t, "1", seen.QueryStringParameters["debug"])
	assert.Equal(t, "application/json", seen.Headers["Content-Type"])
	assert.Equal(t, "req-42", seen.RequestContext.RequestID)
	assert.Equal(t, "127.0.0.1", seen.RequestContext.Identity.SourceIP)
}

func TestHTTPServer_GeneratesRequestIDAndRunsMiddleware(t *testing.T) {
	chain := middleware.Chain(newTestGateway().Handle,
		middleware.NewRecoveryMiddleware(),
		middleware.NewAuthMiddleware("secret", "", PathHealth),
	)
	srv := httptest.NewServer(NewHTTPServer(":0", chain, discardLogger()))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/mcp", "application/json", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_ListenAndServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	gw := NewGateway(echoHandler(), mcp.ServerInfo{Name: "hub-repo", Version: "1.0.0"})
	s := NewHTTPServer(addr, gw.Handle, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
