// Package app wires configuration, logging, the remote client, the optional
// AWS components and the MCP service for one data.gv.at server.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/opendata-at/datagvat-mcp/internal/api/mcp/resources"
	"github.com/opendata-at/datagvat-mcp/internal/api/mcp/tools"
	"github.com/opendata-at/datagvat-mcp/internal/common/config"
	"github.com/opendata-at/datagvat-mcp/internal/domain/audit"
	"github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"
	"github.com/opendata-at/datagvat-mcp/internal/domain/mcp"
	dynamoClient "github.com/opendata-at/datagvat-mcp/internal/platform/dynamodb/client"
	dynamodbRepository "github.com/opendata-at/datagvat-mcp/internal/platform/dynamodb/repository"
	"github.com/opendata-at/datagvat-mcp/internal/platform/remote"
	"github.com/opendata-at/datagvat-mcp/internal/platform/secrets"
)

// Version is reported in serverInfo and by the version command.
var Version = "1.0.0"

// Server describes one of the binaries.
type Server struct {
	// Binary is the command name shown in help and version output.
	Binary string
	Profile      config.Profile
	Catalog      func() *endpoint.Catalog
	Instructions string
}

// App is a fully wired server.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Catalog *endpoint.Catalog
	Client  *remote.Client
	Service *mcp.Service
	// Audit is nil unless AUDIT_TABLE_NAME is configured.
	Audit audit.Repository
}

// NewLogger returns the JSON logger used by every command. It must never
// write to stdout, which carries the stdio protocol.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// loadAWSConfig is replaced in tests.
var loadAWSConfig = func(ctx context.Context, region string) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
}

// Build wires the server described by srv with cfg.
func Build(ctx context.Context, srv Server, cfg *config.Config, logger *slog.Logger) (*App, error) {
	catalog := srv.Catalog()

	client, err := remote.NewClient(remote.Config{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote client: %w", err)
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Catalog: catalog,
		Client:  client,
	}

	opts := tools.Options{
		Logger:       logger,
		LogArguments: cfg.IsDev(),
	}

	if cfg.NeedsAWS() {
		awsCfg, err := loadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		secretsCfg := secrets.Config{SecretID: cfg.APIKeySecretID, KMSCiphertext: cfg.APIKeyKMSCiphertext}
		if secretsCfg.Enabled() {
			provider, err := secrets.NewProvider(awsCfg, secretsCfg)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize default credential: %w", err)
			}
			opts.Defaults = provider
			logger.Info("Default credential configured", "secretId", secretsCfg.SecretID)
		}

		if cfg.AuditTableName != "" {
			factory := dynamodbRepository.NewFactory(dynamoClient.NewDynamoDBClient(awsCfg), cfg.AuditTableName)
			app.Audit = factory.AuditRepository(logger)
			opts.Recorder = app.Audit
			logger.Info("Invocation audit enabled", "table", cfg.AuditTableName)
		}
	}

	registry := mcp.NewHandlerRegistry()
	tools.Register(registry, catalog, client, opts)
	registry.RegisterResource(resources.NewEndpointsResource(catalog, client.BaseURL()))

	app.Service = mcp.NewService(logger, registry, mcp.ServiceConfig{
		ServerInfo: mcp.ServerInfo{
			Name:    srv.Profile.Name,
			Title:   srv.Profile.Title,
			Version: Version,
		},
		Instructions: srv.Instructions,
	})

	logger.Info("Server initialized",
		"server", cfg.Server,
		"tools", catalog.Len(),
		"baseUrl", client.BaseURL(),
		"transport", cfg.Transport,
	)
	return app, nil
}
