package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/opendata-at/datagvat-mcp/internal/domain/audit"
	"github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"
	"github.com/opendata-at/datagvat-mcp/internal/domain/errors"
	"github.com/opendata-at/datagvat-mcp/internal/domain/mcp"
	"github.com/opendata-at/datagvat-mcp/internal/platform/remote"
	"github.com/opendata-at/datagvat-mcp/internal/platform/secrets"
)

const auditTimeout = 3 * time.Second

// Doer sends one bound request to the remote API.
type Doer interface {
	Do(ctx context.Context, req *endpoint.Request) (*remote.Response, error)
}

// Options carries the optional collaborators of a RemoteTool.
type Options struct {
	Logger *slog.Logger
	// Defaults supplies a credential when a credential-accepting call has none.
	Defaults secrets.Provider
	Recorder audit.Recorder
	// LogArguments logs masked tool arguments; meant for dev environments.
	LogArguments bool
}

// RemoteTool forwards one MCP tool call to one remote endpoint.
type RemoteTool struct {
	server string
	route  *endpoint.Route
	client Doer
	opts   Options
}

// NewRemoteTool creates a tool for a compiled route.
func NewRemoteTool(server string, route *endpoint.Route, client Doer, opts Options) *RemoteTool {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Defaults == nil {
		opts.Defaults = secrets.None{}
	}
	if opts.Recorder == nil {
		opts.Recorder = audit.NopRecorder{}
	}
	return &RemoteTool{server: server, route: route, client: client, opts: opts}
}

// Register adds a RemoteTool for every route of the catalog.
func Register(registry *mcp.HandlerRegistry, catalog *endpoint.Catalog, client Doer, opts Options) {
	for _, route := range catalog.Routes() {
		registry.RegisterTool(NewRemoteTool(catalog.Server(), route, client, opts))
	}
}

func (t *RemoteTool) GetName() string { return t.route.Endpoint.Name }

func (t *RemoteTool) GetDescription() string {
	if t.route.Endpoint.Deprecated {
		return "[DEPRECATED] " + t.route.Endpoint.Description
	}
	return t.route.Endpoint.Description
}

func (t *RemoteTool) GetInputSchema() *jsonschema.Schema { return t.route.InputSchema() }

func (t *RemoteTool) GetAnnotations() *mcp.ToolAnnotations {
	a := t.route.Endpoint.Annotations()
	return &mcp.ToolAnnotations{
		Title:           a.Title,
		ReadOnlyHint:    a.ReadOnlyHint,
		DestructiveHint: a.DestructiveHint,
		IdempotentHint:  a.IdempotentHint,
		OpenWorldHint:   a.OpenWorldHint,
	}
}

// Execute validates the arguments, performs exactly one remote call and
// shapes the response. Validation failures never reach the network.
func (t *RemoteTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	logger := t.opts.Logger.With("server", t.server, "tool", t.GetName())
	if t.opts.LogArguments {
		logger.Debug("Tool arguments", "arguments", MaskArguments(arguments))
	}

	req, err := t.route.Bind(arguments)
	if err != nil {
		logger.Info("Tool arguments rejected", "error", err)
		return nil, err
	}

	if req.AcceptsCredentials && req.Credentials.IsZero() {
		creds, err := t.opts.Defaults.Credentials(ctx)
		if err != nil {
			logger.Warn("Default credential unavailable, sending request without one", "error", err)
		} else {
			req.Credentials = creds
		}
	}

	started := time.Now()
	resp, err := t.client.Do(ctx, req)
	t.record(ctx, logger, req, resp, err, started)
	if err != nil {
		return nil, err
	}

	return buildResult(resp), nil
}

func (t *RemoteTool) record(ctx context.Context, logger *slog.Logger, req *endpoint.Request, resp *remote.Response, callErr error, started time.Time) {
	inv := &audit.Invocation{
		Server:     t.server,
		Tool:       req.Tool,
		Method:     req.Method,
		Path:       req.Path,
		DurationMs: time.Since(started).Milliseconds(),
		StartedAt:  started.UTC(),
	}
	if resp != nil {
		inv.Status = resp.Status
		inv.RequestID = resp.RequestID
	}
	if callErr != nil {
		if appErr, ok := errors.As(callErr); ok {
			inv.ErrorCode = appErr.Code
			if status, ok := appErr.Details["status"].(int); ok {
				inv.Status = status
			}
			if id, ok := appErr.Details["request_id"].(string); ok {
				inv.RequestID = id
			}
		} else {
			inv.ErrorCode = errors.CodeInternal
		}
	}

	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if err := t.opts.Recorder.Record(auditCtx, inv); err != nil {
		logger.Warn("Failed to record invocation", "error", err)
	}
}

// buildResult returns the body unchanged. JSON is returned as text, with
// objects also exposed as structured content; other documents such as RDF
// serializations are embedded as a resource carrying their MIME type.
func buildResult(resp *remote.Response) *mcp.CallToolResult {
	if !resp.JSON {
		return &mcp.CallToolResult{
			Content: []mcp.ToolResultContent{mcp.EmbeddedResource(resp.URL, resp.ContentType, string(resp.Body))},
		}
	}

	result := &mcp.CallToolResult{
		Content: []mcp.ToolResultContent{mcp.TextContent(string(resp.Body))},
	}
	if obj, ok := resp.Object(); ok {
		result.StructuredContent = obj
	}
	return result
}

// MaskArguments decodes tool arguments for logging with credentials replaced.
func MaskArguments(arguments json.RawMessage) map[string]any {
	var args map[string]any
	if err := json.Unmarshal(arguments, &args); err != nil {
		return nil
	}
	for _, k := range []string{endpoint.ArgAPIKey, endpoint.ArgBearerToken} {
		if _, ok := args[k]; ok {
			args[k] = "***"
		}
	}
	return args
}
