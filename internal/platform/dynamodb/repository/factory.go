package repository

import (
	"log/slog"

	"github.com/opendata-at/datagvat-mcp/internal/domain/audit"
	"github.com/opendata-at/datagvat-mcp/internal/platform/dynamodb/client"
)

// Factory creates repository instances
type Factory struct {
	client    client.Client
	tableName string
}

// NewFactory creates a new repository factory
func NewFactory(client client.Client, tableName string) *Factory {
	return &Factory{
		client:    client,
		tableName: tableName,
	}
}

// AuditRepository returns an implementation of the audit.Repository interface
func (f *Factory) AuditRepository(logger *slog.Logger) audit.Repository {
	return NewDynamoDBAuditRepository(f.client, f.tableName, logger)
}
