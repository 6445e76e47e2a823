package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/opendata-at/datagvat-mcp/internal/domain/errors"
)

const jsonRPCVersion = "2.0"

// HTTPResponse encapsulates both JSON-RPC response and HTTP status code
type HTTPResponse struct {
	JSONRPCResponse JSONRPCResponse
	StatusCode      int
	// Notification is set when nothing must be written back to the client.
	Notification bool
}

// NewSuccessHTTPResponse creates a successful HTTP response with JSON-RPC result
func NewSuccessHTTPResponse(id json.RawMessage, result interface{}, statusCode int) HTTPResponse {
	return HTTPResponse{
		JSONRPCResponse: JSONRPCResponse{
			JSONRPC: jsonRPCVersion,
			ID:      id,
			Result:  result,
		},
		StatusCode: statusCode,
	}
}

// NewErrorHTTPResponse creates an error HTTP response with JSON-RPC error
func NewErrorHTTPResponse(id json.RawMessage, code int, message string, data interface{}, statusCode int) HTTPResponse {
	return HTTPResponse{
		JSONRPCResponse: JSONRPCResponse{
			JSONRPC: jsonRPCVersion,
			ID:      id,
			Error: &JSONRPCError{
				Code:    code,
				Message: message,
				Data:    data,
			},
		},
		StatusCode: statusCode,
	}
}

// NewNotificationHTTPResponse acknowledges a notification without a body.
func NewNotificationHTTPResponse() HTTPResponse {
	return HTTPResponse{StatusCode: http.StatusAccepted, Notification: true}
}

// ServiceConfig describes the server to clients.
type ServiceConfig struct {
	ServerInfo   ServerInfo
	Instructions string
}

// Service handles MCP protocol operations
type Service struct {
	logger       *slog.Logger
	serverInfo   ServerInfo
	instructions string
	registry     *HandlerRegistry
}

// NewService creates a new MCP service
func NewService(logger *slog.Logger, registry *HandlerRegistry, cfg ServiceConfig) *Service {
	if cfg.ServerInfo.Version == "" {
		cfg.ServerInfo.Version = "1.0.0"
	}
	return &Service{
		logger:       logger,
		serverInfo:   cfg.ServerInfo,
		instructions: cfg.Instructions,
		registry:     registry,
	}
}

// ServerInfo returns the advertised server identity.
func (s *Service) ServerInfo() ServerInfo {
	return s.serverInfo
}

// Registry returns the handler registry backing the service.
func (s *Service) Registry() *HandlerRegistry {
	return s.registry
}

// HandleRequest processes a JSON-RPC request
func (s *Service) HandleRequest(ctx context.Context, request JSONRPCRequest) (resp HTTPResponse) {
	s.logger.Info("MCP request received", "method", request.Method)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Panic while handling MCP request",
				"method", request.Method,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			resp = NewErrorHTTPResponse(request.ID, InternalError, "Internal server error", nil, http.StatusInternalServerError)
		}
	}()

	if request.JSONRPC != jsonRPCVersion {
		return NewErrorHTTPResponse(request.ID, InvalidRequest, "Invalid JSON-RPC version", nil, http.StatusBadRequest)
	}

	switch request.Method {
	case "initialize":
		return s.handleInitialize(ctx, request)
	case "initialized", "notifications/initialized", "notifications/cancelled":
		return s.handleNotification(ctx, request)
	case "ping":
		return s.handlePing(ctx, request)
	case "resources/list":
		return s.handleListResources(ctx, request)
	case "resources/read":
		return s.handleReadResource(ctx, request)
	case "tools/list":
		return s.handleListTools(ctx, request)
	case "tools/call":
		return s.handleCallTool(ctx, request)
	default:
		if request.IsNotification() {
			return NewNotificationHTTPResponse()
		}
		return NewErrorHTTPResponse(request.ID, MethodNotFound, fmt.Sprintf("Method not found: %s", request.Method), nil, http.StatusOK)
	}
}

func (s *Service) handleInitialize(ctx context.Context, request JSONRPCRequest) HTTPResponse {
	var params InitializeParams
	if len(request.Params) > 0 {
		if err := json.Unmarshal(request.Params, &params); err != nil {
			return NewErrorHTTPResponse(request.ID, InvalidParams, "Invalid initialize params", err.Error(), http.StatusOK)
		}
	}

	result := InitializeResult{
		ProtocolVersion: negotiateProtocolVersion(params.ProtocolVersion),
		Capabilities: ServerCapability{
			Resources: ResourcesCapability{
				ListChanged: false,
				Subscribe:   false,
			},
			Tools: ToolsCapability{
				ListChanged: false,
			},
		},
		Instructions: s.instructions,
		ServerInfo:   s.serverInfo,
	}

	s.logger.Info("MCP session initialized",
		"client", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version,
		"protocol_version", result.ProtocolVersion,
	)

	return NewSuccessHTTPResponse(request.ID, result, http.StatusOK)
}

// negotiateProtocolVersion echoes the client's version when supported and
// otherwise offers the newest one.
func negotiateProtocolVersion(requested string) string {
	for _, v := range SupportedProtocolVersions {
		if v == requested {
			return v
		}
	}
	return SupportedProtocolVersions[0]
}

func (s *Service) handlePing(ctx context.Context, request JSONRPCRequest) HTTPResponse {
	return NewSuccessHTTPResponse(request.ID, map[string]any{}, http.StatusOK)
}

// handleNotification covers the initialized and cancelled notifications.
// Cancellation of in-flight calls is done by the transport that owns them.
func (s *Service) handleNotification(ctx context.Context, request JSONRPCRequest) HTTPResponse {
	if !request.IsNotification() {
		return NewSuccessHTTPResponse(request.ID, map[string]any{}, http.StatusOK)
	}
	return NewNotificationHTTPResponse()
}

func (s *Service) handleListResources(ctx context.Context, request JSONRPCRequest) HTTPResponse {
	resources := s.registry.ListResources()
	result := ListResourcesResult{
		Resources: resources,
	}

	return NewSuccessHTTPResponse(request.ID, result, http.StatusOK)
}

func (s *Service) handleReadResource(ctx context.Context, request JSONRPCRequest) HTTPResponse {
	var params ReadResourceParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return NewErrorHTTPResponse(request.ID, InvalidParams, "Invalid read resource params", err.Error(), http.StatusOK)
	}

	handler, ok := s.registry.GetResource(params.URI)
	if !ok {
		return NewErrorHTTPResponse(request.ID, InvalidParams, fmt.Sprintf("Resource not found: %s", params.URI), nil, http.StatusOK)
	}

	result, err := handler.Read(ctx)
	if err != nil {
		s.logger.Error("Failed to read resource", "uri", params.URI, "error", err)
		return NewErrorHTTPResponse(request.ID, InternalError, "Failed to read resource", err.Error(), http.StatusOK)
	}

	return NewSuccessHTTPResponse(request.ID, result, http.StatusOK)
}

func (s *Service) handleListTools(ctx context.Context, request JSONRPCRequest) HTTPResponse {
	tools := s.registry.ListTools()
	result := ListToolsResult{
		Tools: tools,
	}

	return NewSuccessHTTPResponse(request.ID, result, http.StatusOK)
}

func (s *Service) handleCallTool(ctx context.Context, request JSONRPCRequest) HTTPResponse {
	var params CallToolParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return NewErrorHTTPResponse(request.ID, InvalidParams, "Invalid call tool params", err.Error(), http.StatusOK)
	}

	handler, ok := s.registry.GetTool(params.Name)
	if !ok {
		appErr := errors.NewUnknownToolError(params.Name)
		return NewErrorHTTPResponse(request.ID, InvalidParams, appErr.Message, errorData(appErr), http.StatusOK)
	}

	result, err := handler.Execute(ctx, params.Arguments)
	if err != nil {
		s.logger.Error("Failed to execute tool", "tool", params.Name, "error", err)
		result = ToolErrorResult(err)
	}

	return NewSuccessHTTPResponse(request.ID, result, http.StatusOK)
}

// ToolErrorResult converts an execution error into a tool-level error result.
// AppErrors keep their code, status and details as structured content.
func ToolErrorResult(err error) *CallToolResult {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError(err.Error(), nil)
	}
	return &CallToolResult{
		Content:           []ToolResultContent{TextContent(appErr.Message)},
		StructuredContent: map[string]any{"error": errorData(appErr)},
		IsError:           true,
	}
}

func errorData(appErr errors.AppError) map[string]any {
	data := map[string]any{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.StatusCode != 0 {
		data["status"] = appErr.StatusCode
	}
	for k, v := range appErr.Details {
		if _, taken := data[k]; !taken {
			data[k] = v
		}
	}
	return data
}
