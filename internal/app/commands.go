package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opendata-at/datagvat-mcp/internal/api/middleware"
	"github.com/opendata-at/datagvat-mcp/internal/api/transport"
	"github.com/opendata-at/datagvat-mcp/internal/common/config"
	"github.com/opendata-at/datagvat-mcp/internal/common/utils"
	"github.com/opendata-at/datagvat-mcp/internal/domain/mcp"
)

type rootFlags struct {
	configFile string
	transport  string
	addr       string
	baseURL    string
}

// NewRootCommand returns the CLI of one server. Without a subcommand it serves.
func NewRootCommand(srv Server) *cobra.Command {
	flags := &rootFlags{}
	if srv.Binary == "" {
		srv.Binary = filepath.Base(os.Args[0])
	}

	root := &cobra.Command{
		Use:           srv.Binary,
		Short:         "MCP server for the " + srv.Profile.Title + " API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, srv, flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "YAML config file (default $MCP_CONFIG_FILE)")
	root.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "remote API base URL (default $"+srv.Profile.BaseURLEnv+")")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio, HTTP or Lambda",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, srv, flags)
		},
	}
	for _, c := range []*cobra.Command{root, serve} {
		c.Flags().StringVar(&flags.transport, "transport", "", "stdio, http or lambda (default $MCP_TRANSPORT)")
		c.Flags().StringVar(&flags.addr, "addr", "", "HTTP listen address (default $MCP_HTTP_ADDR)")
	}

	root.AddCommand(serve, toolsCmd(srv, flags), callCmd(srv, flags), auditCmd(srv, flags), tokenCmd(srv, flags), versionCmd(srv))
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute(srv Server) {
	root := NewRootCommand(srv)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig layers the command line flags over file and environment.
func loadConfig(p config.Profile, flags *rootFlags) (*config.Config, error) {
	path := flags.configFile
	if path == "" {
		path = os.Getenv("MCP_CONFIG_FILE")
	}
	cfg, err := config.Load(p, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	changed := false
	if flags.baseURL != "" {
		cfg.BaseURL = flags.baseURL
		changed = true
	}
	if flags.transport != "" {
		cfg.Transport = flags.transport
		changed = true
	}
	if flags.addr != "" {
		cfg.HTTPAddr = flags.addr
		changed = true
	}
	if changed {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid flags: %w", err)
		}
	}
	return cfg, nil
}

func build(cmd *cobra.Command, srv Server, flags *rootFlags) (*App, error) {
	cfg, err := loadConfig(srv.Profile, flags)
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg, cmd.ErrOrStderr())
	return Build(cmd.Context(), srv, cfg, logger)
}

func runServe(cmd *cobra.Command, srv Server, flags *rootFlags) error {
	app, err := build(cmd, srv, flags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch app.Config.Transport {
	case config.TransportStdio:
		return transport.NewStdio(app.Service, app.Logger, cmd.InOrStdin(), cmd.OutOrStdout()).Serve(ctx)
	case config.TransportHTTP:
		return transport.NewHTTPServer(app.Config.HTTPAddr, app.GatewayHandler(), app.Logger).ListenAndServe(ctx)
	case config.TransportLambda:
		transport.ServeLambda(app.GatewayHandler(), app.Logger)
		return nil
	default:
		return fmt.Errorf("unknown transport %q", app.Config.Transport)
	}
}

// GatewayHandler is the middleware chain shared by the HTTP and Lambda transports.
func (a *App) GatewayHandler() middleware.APIGatewayHandler {
	auth := middleware.NewAuthMiddleware(a.Config.JWTSecret, a.Config.JWTScope, transport.PathHealth)
	if !auth.Enabled() && a.Config.Transport == config.TransportHTTP {
		a.Logger.Warn("HTTP transport runs without bearer authentication")
	}
	gateway := transport.NewGateway(a.Service, a.Service.ServerInfo())
	return middleware.Chain(gateway.Handle,
		middleware.NewLoggingMiddleware(a.Config.IsDev()),
		middleware.NewRecoveryMiddleware(),
		auth,
	)
}

func toolsCmd(srv Server, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool list as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := build(cmd, srv, flags)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), mcp.ListToolsResult{Tools: app.Service.Registry().ListTools()})
		},
	}
}

func callCmd(srv Server, flags *rootFlags) *cobra.Command {
	var arguments string

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke one tool and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(arguments)) {
				return errors.New("--args must be valid JSON")
			}
			app, err := build(cmd, srv, flags)
			if err != nil {
				return err
			}

			params, err := json.Marshal(mcp.CallToolParams{Name: args[0], Arguments: json.RawMessage(arguments)})
			if err != nil {
				return err
			}
			resp := app.Service.HandleRequest(cmd.Context(), mcp.JSONRPCRequest{
				JSONRPC: "2.0",
				ID:      json.RawMessage("1"),
				Method:  "tools/call",
				Params:  params,
			})
			if rpcErr := resp.JSONRPCResponse.Error; rpcErr != nil {
				return fmt.Errorf("%s (code %d)", rpcErr.Message, rpcErr.Code)
			}

			if err := writeJSON(cmd.OutOrStdout(), resp.JSONRPCResponse.Result); err != nil {
				return err
			}
			if result, ok := resp.JSONRPCResponse.Result.(*mcp.CallToolResult); ok && result.IsError {
				return errors.New("tool returned an error")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&arguments, "args", "{}", "tool arguments as a JSON object")
	return cmd
}

func auditCmd(srv Server, flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List the most recent recorded invocations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := build(cmd, srv, flags)
			if err != nil {
				return err
			}
			if app.Audit == nil {
				return errors.New("audit is disabled: set AUDIT_TABLE_NAME")
			}
			invocations, err := app.Audit.ListRecent(cmd.Context(), srv.Profile.Name, limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), invocations)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of invocations to list")
	return cmd
}

// tokenCmd issues a bearer token for the HTTP transport, signed with the
// configured MCP_HTTP_JWT_SECRET.
func tokenCmd(srv Server, flags *rootFlags) *cobra.Command {
	var (
		clientID string
		scope    string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP transport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(srv.Profile, flags)
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("HTTP authentication is disabled: set MCP_HTTP_JWT_SECRET")
			}
			if scope == "" {
				scope = cfg.JWTScope
			}

			token, err := utils.IssueHS256([]byte(cfg.JWTSecret), clientID, scope, ttl)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&clientID, "client-id", "mcp-client", "subject and client_id of the token")
	cmd.Flags().StringVar(&scope, "scope", "", "space separated scopes (default $MCP_HTTP_JWT_SCOPE)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func versionCmd(srv Server) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", srv.Binary, Version)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
