package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendata-at/datagvat-mcp/internal/domain/errors"
)

// Mock tool for testing
type mockTool struct {
	name        string
	description string
	schema      *jsonschema.Schema
	annotations *ToolAnnotations
	result      *CallToolResult
	err         error
	panics      bool
}

func (m *mockTool) GetName() string                    { return m.name }
func (m *mockTool) GetDescription() string             { return m.description }
func (m *mockTool) GetInputSchema() *jsonschema.Schema { return m.schema }
func (m *mockTool) GetAnnotations() *ToolAnnotations   { return m.annotations }
func (m *mockTool) Execute(ctx context.Context, arguments json.RawMessage) (*CallToolResult, error) {
	if m.panics {
		panic("boom")
	}
	return m.result, m.err
}

// Mock resource for testing
type mockResource struct {
	uri         string
	name        string
	description string
	mimeType    string
	result      *ReadResourceResult
	err         error
}

func (m *mockResource) GetURI() string         { return m.uri }
func (m *mockResource) GetName() string        { return m.name }
func (m *mockResource) GetDescription() string { return m.description }
func (m *mockResource) GetMimeType() string    { return m.mimeType }
func (m *mockResource) Read(ctx context.Context) (*ReadResourceResult, error) {
	return m.result, m.err
}

func newTestService(registry *HandlerRegistry) *Service {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(logger, registry, ServiceConfig{
		ServerInfo:   ServerInfo{Name: "test-server", Version: "0.1.0"},
		Instructions: "test instructions",
	})
}

func decodeResult(t *testing.T, resp HTTPResponse, v any) {
	t.Helper()
	require.Nil(t, resp.JSONRPCResponse.Error)
	resultJSON, err := json.Marshal(resp.JSONRPCResponse.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(resultJSON, v))
}

func callTool(t *testing.T, service *Service, name string, args string) HTTPResponse {
	t.Helper()
	params, err := json.Marshal(CallToolParams{Name: name, Arguments: json.RawMessage(args)})
	require.NoError(t, err)
	return service.HandleRequest(context.Background(), JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`2`),
		Method:  "tools/call",
		Params:  params,
	})
}

func TestService_HandleInitialize(t *testing.T) {
	service := newTestService(NewHandlerRegistry())

	tests := []struct {
		requested string
		want      string
	}{
		{requested: "2024-11-05", want: "2024-11-05"},
		{requested: "2025-06-18", want: "2025-06-18"},
		{requested: "1999-01-01", want: SupportedProtocolVersions[0]},
	}
	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			params := InitializeParams{
				ProtocolVersion: tt.requested,
				ClientInfo:      ClientInfo{Name: "test-client", Version: "1.0.0"},
			}
			paramsJSON, _ := json.Marshal(params)

			httpResponse := service.HandleRequest(context.Background(), JSONRPCRequest{
				JSONRPC: "2.0",
				ID:      json.RawMessage(`1`),
				Method:  "initialize",
				Params:  paramsJSON,
			})
			assert.Equal(t, 200, httpResponse.StatusCode)

			var result InitializeResult
			decodeResult(t, httpResponse, &result)
			assert.Equal(t, tt.want, result.ProtocolVersion)
			assert.Equal(t, "test-server", result.ServerInfo.Name)
			assert.Equal(t, "0.1.0", result.ServerInfo.Version)
			assert.Equal(t, "test instructions", result.Instructions)
		})
	}
}

func TestService_Notifications(t *testing.T) {
	service := newTestService(NewHandlerRegistry())

	for _, method := range []string{"notifications/initialized", "notifications/cancelled", "notifications/unknown"} {
		resp := service.HandleRequest(context.Background(), JSONRPCRequest{JSONRPC: "2.0", Method: method})
		assert.True(t, resp.Notification, method)
		assert.Equal(t, 202, resp.StatusCode, method)
	}

	resp := service.HandleRequest(context.Background(), JSONRPCRequest{JSONRPC: "2.0", ID: json.RawMessage(`null`), Method: "initialized"})
	assert.True(t, resp.Notification)
}

func TestService_Ping(t *testing.T) {
	service := newTestService(NewHandlerRegistry())
	resp := service.HandleRequest(context.Background(), JSONRPCRequest{JSONRPC: "2.0", ID: json.RawMessage(`"p"`), Method: "ping"})
	assert.Nil(t, resp.JSONRPCResponse.Error)
	assert.Equal(t, json.RawMessage(`"p"`), resp.JSONRPCResponse.ID)
}

func TestService_MethodNotFound(t *testing.T) {
	service := newTestService(NewHandlerRegistry())
	resp := service.HandleRequest(context.Background(), JSONRPCRequest{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "prompts/list"})
	require.NotNil(t, resp.JSONRPCResponse.Error)
	assert.Equal(t, MethodNotFound, resp.JSONRPCResponse.Error.Code)
}

func TestService_InvalidVersion(t *testing.T) {
	service := newTestService(NewHandlerRegistry())
	resp := service.HandleRequest(context.Background(), JSONRPCRequest{JSONRPC: "1.0", ID: json.RawMessage(`1`), Method: "ping"})
	require.NotNil(t, resp.JSONRPCResponse.Error)
	assert.Equal(t, InvalidRequest, resp.JSONRPCResponse.Error.Code)
}

func TestService_HandleListResources(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.RegisterResource(&mockResource{
		uri:         "test://resource2",
		name:        "Test Resource 2",
		description: "Second test resource",
		mimeType:    "application/json",
	})
	registry.RegisterResource(&mockResource{
		uri:         "test://resource1",
		name:        "Test Resource 1",
		description: "First test resource",
		mimeType:    "text/plain",
	})
	service := newTestService(registry)

	httpResponse := service.HandleRequest(context.Background(), JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`2`),
		Method:  "resources/list",
	})
	assert.Equal(t, 200, httpResponse.StatusCode)

	var result ListResourcesResult
	decodeResult(t, httpResponse, &result)
	require.Len(t, result.Resources, 2)
	assert.Equal(t, "test://resource1", result.Resources[0].URI)
}

func TestService_HandleReadResource(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.RegisterResource(&mockResource{
		uri: "test://ok",
		result: &ReadResourceResult{Contents: []ResourceContent{
			{URI: "test://ok", MimeType: "application/json", Text: `{}`},
		}},
	})
	registry.RegisterResource(&mockResource{uri: "test://broken", err: stderrors.New("disk on fire")})
	service := newTestService(registry)

	read := func(uri string) HTTPResponse {
		params, _ := json.Marshal(ReadResourceParams{URI: uri})
		return service.HandleRequest(context.Background(), JSONRPCRequest{
			JSONRPC: "2.0", ID: json.RawMessage(`3`), Method: "resources/read", Params: params,
		})
	}

	var result ReadResourceResult
	decodeResult(t, read("test://ok"), &result)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, `{}`, result.Contents[0].Text)

	resp := read("test://missing")
	require.NotNil(t, resp.JSONRPCResponse.Error)
	assert.Equal(t, InvalidParams, resp.JSONRPCResponse.Error.Code)

	resp = read("test://broken")
	require.NotNil(t, resp.JSONRPCResponse.Error)
	assert.Equal(t, InternalError, resp.JSONRPCResponse.Error.Code)
}

func TestService_HandleListTools(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.RegisterTool(&mockTool{
		name:        "test_tool2",
		description: "Second test tool",
		schema:      &jsonschema.Schema{Type: "object", Required: []string{"param2"}},
	})
	registry.RegisterTool(&mockTool{
		name:        "test_tool1",
		description: "First test tool",
		schema:      &jsonschema.Schema{Type: "object", Required: []string{"param1"}},
		annotations: &ToolAnnotations{Title: "Tool one", ReadOnlyHint: true, OpenWorldHint: true},
	})
	service := newTestService(registry)

	httpResponse := service.HandleRequest(context.Background(), JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`2`),
		Method:  "tools/list",
	})
	assert.Equal(t, 200, httpResponse.StatusCode)

	var result ListToolsResult
	decodeResult(t, httpResponse, &result)
	require.Len(t, result.Tools, 2)
	assert.Equal(t, "test_tool1", result.Tools[0].Name)
	assert.Equal(t, "Tool one", result.Tools[0].Title)
	require.NotNil(t, result.Tools[0].Annotations)
	assert.True(t, result.Tools[0].Annotations.ReadOnlyHint)
	assert.Equal(t, []string{"param1"}, result.Tools[0].InputSchema.Required)
	assert.Nil(t, result.Tools[1].Annotations)
}

func TestService_CallTool(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.RegisterTool(&mockTool{
		name:   "test_tool",
		schema: &jsonschema.Schema{Type: "object"},
		result: &CallToolResult{Content: []ToolResultContent{TextContent("Tool executed successfully")}},
	})
	registry.RegisterTool(&mockTool{
		name:   "remote_404",
		schema: &jsonschema.Schema{Type: "object"},
		err:    errors.NewRemoteError(404, "not here").WithDetail("tool", "remote_404"),
	})
	registry.RegisterTool(&mockTool{
		name:   "plain_error",
		schema: &jsonschema.Schema{Type: "object"},
		err:    stderrors.New("unexpected"),
	})
	registry.RegisterTool(&mockTool{
		name:   "panicky",
		schema: &jsonschema.Schema{Type: "object"},
		panics: true,
	})
	service := newTestService(registry)

	t.Run("success", func(t *testing.T) {
		var result CallToolResult
		decodeResult(t, callTool(t, service, "test_tool", `{"param": "value"}`), &result)
		require.Len(t, result.Content, 1)
		assert.Equal(t, "text", result.Content[0].Type)
		assert.Equal(t, "Tool executed successfully", result.Content[0].Text)
		assert.False(t, result.IsError)
	})

	t.Run("unknown tool is a protocol error", func(t *testing.T) {
		resp := callTool(t, service, "nope", `{}`)
		require.NotNil(t, resp.JSONRPCResponse.Error)
		assert.Equal(t, InvalidParams, resp.JSONRPCResponse.Error.Code)
		assert.Equal(t, "unknown tool: nope", resp.JSONRPCResponse.Error.Message)
	})

	t.Run("app error becomes tool error", func(t *testing.T) {
		var result CallToolResult
		decodeResult(t, callTool(t, service, "remote_404", `{}`), &result)
		assert.True(t, result.IsError)
		require.Len(t, result.Content, 1)
		assert.Equal(t, "HTTP 404: not here", result.Content[0].Text)

		errData, ok := result.StructuredContent["error"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, errors.CodeRemoteNotFound, errData["code"])
		assert.Equal(t, float64(404), errData["status"])
		assert.Equal(t, "not here", errData["body"])
		assert.Equal(t, "remote_404", errData["tool"])
	})

	t.Run("plain error becomes internal tool error", func(t *testing.T) {
		var result CallToolResult
		decodeResult(t, callTool(t, service, "plain_error", `{}`), &result)
		assert.True(t, result.IsError)
		assert.Equal(t, "unexpected", result.Content[0].Text)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		resp := callTool(t, service, "panicky", `{}`)
		require.NotNil(t, resp.JSONRPCResponse.Error)
		assert.Equal(t, InternalError, resp.JSONRPCResponse.Error.Code)
	})

	t.Run("malformed params", func(t *testing.T) {
		resp := service.HandleRequest(context.Background(), JSONRPCRequest{
			JSONRPC: "2.0", ID: json.RawMessage(`9`), Method: "tools/call", Params: json.RawMessage(`[]`),
		})
		require.NotNil(t, resp.JSONRPCResponse.Error)
		assert.Equal(t, InvalidParams, resp.JSONRPCResponse.Error.Code)
	})
}
