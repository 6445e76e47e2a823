package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	ulid "github.com/oklog/ulid/v2"

	"github.com/opendata-at/datagvat-mcp/internal/domain/audit"
	commonErrors "github.com/opendata-at/datagvat-mcp/internal/domain/errors"
	"github.com/opendata-at/datagvat-mcp/internal/platform/dynamodb/client"
)

const (
	invocationSKPrefix = "INVOCATION#"
	defaultListLimit   = 20
	maxListLimit       = 500
)

// DynamoDBAuditRepository implements the audit.Repository interface
type DynamoDBAuditRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBAuditRepository creates a new DynamoDBAuditRepository
func NewDynamoDBAuditRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBAuditRepository {
	return &DynamoDBAuditRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

func serverPK(server string) string {
	return fmt.Sprintf("SERVER#%s", server)
}

// Record writes one invocation item. The ID is generated when empty.
func (r *DynamoDBAuditRepository) Record(ctx context.Context, inv *audit.Invocation) error {
	if inv.Server == "" {
		return commonErrors.NewInvalidArgumentError("audit record requires a server")
	}
	if inv.ID == "" {
		inv.ID = ulid.Make().String()
	}
	if inv.StartedAt.IsZero() {
		inv.StartedAt = time.Now().UTC()
	}

	item, err := attributevalue.MarshalMap(inv)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal audit record", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: serverPK(inv.Server)}
	item["SK"] = &types.AttributeValueMemberS{Value: invocationSKPrefix + inv.ID}
	item["Type"] = &types.AttributeValueMemberS{Value: "invocation"}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return commonErrors.NewInternalError("failed to build expression", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.table),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewInternalError("audit record already exists", err).WithDetail("id", inv.ID)
		}
		return commonErrors.NewInternalError("failed to write audit record", err)
	}

	r.logger.Debug("Audit record written", "id", inv.ID, "tool", inv.Tool)
	return nil
}

// ListRecent returns the newest invocations of a server, newest first.
func (r *DynamoDBAuditRepository) ListRecent(ctx context.Context, server string, limit int) ([]audit.Invocation, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	keyCondition := expression.Key("PK").Equal(expression.Value(serverPK(server))).
		And(expression.Key("SK").BeginsWith(invocationSKPrefix))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to query audit records", err)
	}

	invocations := make([]audit.Invocation, 0, len(result.Items))
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &invocations); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal audit records", err)
	}
	return invocations, nil
}
