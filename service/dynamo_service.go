package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

const (
	// DynamoDB limits
	MaxBatchWriteItems = 25
	MaxRetryAttempts   = 3

	// Table creation timeout
	TableCreationTimeout = 5 * time.Minute
)

// DynamoAPI is the subset of *dynamodb.Client used by DynamoService.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

var _ DynamoAPI = (*dynamodb.Client)(nil)

// DynamoService provides typed access to one DynamoDB table with a composite key.
type DynamoService[T any] struct {
	client    DynamoAPI
	tableName string
	schema    KeySchema
	logger    *zap.Logger
}

var _ Store[struct{}] = (*DynamoService[struct{}])(nil)

// NewDynamoService creates a new DynamoDB service instance
func NewDynamoService[T any](client DynamoAPI, tableName string, schema KeySchema, logger *zap.Logger) *DynamoService[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DynamoService[T]{
		client:    client,
		tableName: tableName,
		schema:    schema,
		logger:    logger.With(zap.String("table", tableName)),
	}
}

// TableDefinition holds table schema configuration
type TableDefinition struct {
	AttributeDefinitions   []types.AttributeDefinition
	KeySchema              []types.KeySchemaElement
	GlobalSecondaryIndexes []types.GlobalSecondaryIndex
	BillingMode            types.BillingMode
	ProvisionedThroughput  *types.ProvisionedThroughput
}

// CreateTableWithDefinition creates a table with custom schema
func (s *DynamoService[T]) CreateTableWithDefinition(ctx context.Context, def TableDefinition) error {
	input := &dynamodb.CreateTableInput{
		TableName:            aws.String(s.tableName),
		AttributeDefinitions: def.AttributeDefinitions,
		KeySchema:            def.KeySchema,
		BillingMode:          def.BillingMode,
	}

	if len(def.GlobalSecondaryIndexes) > 0 {
		input.GlobalSecondaryIndexes = def.GlobalSecondaryIndexes
	}

	// Add provisioned throughput if not using pay-per-request
	if def.BillingMode == types.BillingModeProvisioned && def.ProvisionedThroughput != nil {
		input.ProvisionedThroughput = def.ProvisionedThroughput
	}

	_, err := s.client.CreateTable(ctx, input)
	if err != nil {
		var resourceInUseEx *types.ResourceInUseException
		if errors.As(err, &resourceInUseEx) {
			s.logger.Info("table already exists")
			return nil
		}
		return fmt.Errorf("failed to create table %s: %w", s.tableName, err)
	}

	return s.waitForTableActive(ctx)
}

// CreateTable creates the table with the service's string partition and sort keys.
func (s *DynamoService[T]) CreateTable(ctx context.Context) error {
	def := TableDefinition{
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(s.schema.PartitionKey), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(s.schema.SortKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(s.schema.PartitionKey), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(s.schema.SortKey), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	}

	return s.CreateTableWithDefinition(ctx, def)
}

// EnsureTable creates the table when it does not exist yet.
func (s *DynamoService[T]) EnsureTable(ctx context.Context) error {
	exists, err := s.TableExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.CreateTable(ctx)
}

func (s *DynamoService[T]) waitForTableActive(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, TableCreationTimeout)
	defer cancel()

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	}, TableCreationTimeout)

	if err != nil {
		return fmt.Errorf("failed waiting for table %s to be active: %w", s.tableName, err)
	}

	s.logger.Info("table created")
	return nil
}

// TableExists checks if the table exists
func (s *DynamoService[T]) TableExists(ctx context.Context) (bool, error) {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})

	if err != nil {
		var notFoundEx *types.ResourceNotFoundException
		if errors.As(err, &notFoundEx) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check table existence for %s: %w", s.tableName, err)
	}

	return true, nil
}

func (s *DynamoService[T]) key(key Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		s.schema.PartitionKey: &types.AttributeValueMemberS{Value: key.Partition},
		s.schema.SortKey:      &types.AttributeValueMemberS{Value: key.Sort},
	}
}

// GetItem retrieves a single item by key
func (s *DynamoService[T]) GetItem(ctx context.Context, key Key) (*T, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table %s: %w", s.tableName, err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var item T
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}

	return &item, nil
}

// PutItemIfAbsent writes an item only when no item with the same key exists.
func (s *DynamoService[T]) PutItemIfAbsent(ctx context.Context, data T) error {
	item, err := attributevalue.MarshalMap(data)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name(s.schema.PartitionKey))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("error when build put condition: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionalCheckEx *types.ConditionalCheckFailedException
		if errors.As(err, &conditionalCheckEx) {
			return fmt.Errorf("%w: %v", ErrConditionFailed, err)
		}
		return fmt.Errorf("failed to add item to table %s: %w", s.tableName, err)
	}

	return nil
}

// UpdateItem applies update and returns the complete post-update item.
func (s *DynamoService[T]) UpdateItem(ctx context.Context, key Key, update *Update) (*T, error) {
	expr, err := update.Build(s.schema)
	if err != nil {
		return nil, err
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       s.key(key),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var conditionalCheckEx *types.ConditionalCheckFailedException
		if errors.As(err, &conditionalCheckEx) {
			return nil, fmt.Errorf("%w: %v", ErrConditionFailed, err)
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ValidationException" {
			return nil, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
		}
		return nil, fmt.Errorf("failed to update item in table %s: %w", s.tableName, err)
	}

	var updated T
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated item: %w", err)
	}
	return &updated, nil
}

// Query reads one partition page by page until the limit (if any) is reached.
func (s *DynamoService[T]) Query(ctx context.Context, request QueryRequest) ([]T, error) {
	keyCond := expression.Key(s.schema.PartitionKey).Equal(expression.Value(request.Partition))
	if request.Sort != "" {
		keyCond = keyCond.And(expression.Key(s.schema.SortKey).Equal(expression.Value(request.Sort)))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if request.Filter != nil {
		builder = builder.WithFilter(expression.Contains(expression.Name(request.Filter.Attribute), request.Filter.Substring))
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("couldn't build expressions for query: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if request.Limit > 0 {
		input.Limit = aws.Int32(request.Limit)
	}

	items := make([]T, 0)
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		response, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query failed for table %s: %w", s.tableName, err)
		}

		var page []T
		if err := attributevalue.UnmarshalListOfMaps(response.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal query results: %w", err)
		}
		items = append(items, page...)

		if request.Limit > 0 && len(items) >= int(request.Limit) {
			return items[:request.Limit], nil
		}
	}

	return items, nil
}

// Scan reads the whole table (use sparingly - prefer Query when possible)
func (s *DynamoService[T]) Scan(ctx context.Context, request ScanRequest) ([]T, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	}

	if request.Filter != nil {
		filter := expression.Contains(expression.Name(request.Filter.Attribute), request.Filter.Substring)
		expr, err := expression.NewBuilder().WithFilter(filter).Build()
		if err != nil {
			return nil, fmt.Errorf("couldn't build expressions for scan: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}
	if request.Limit > 0 {
		input.Limit = aws.Int32(request.Limit)
	}

	s.logger.Debug("using scan operation", zap.Bool("filtered", request.Filter != nil))

	items := make([]T, 0)
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		response, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan failed for table %s: %w", s.tableName, err)
		}

		var page []T
		if err := attributevalue.UnmarshalListOfMaps(response.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scan results: %w", err)
		}
		items = append(items, page...)

		if request.Limit > 0 && len(items) >= int(request.Limit) {
			return items[:request.Limit], nil
		}
	}

	return items, nil
}

// BatchPut writes items in batches (handles DynamoDB 25-item limit)
func (s *DynamoService[T]) BatchPut(ctx context.Context, items []T) (int, error) {
	written := 0
	for i := 0; i < len(items); i += MaxBatchWriteItems {
		end := i + MaxBatchWriteItems
		if end > len(items) {
			end = len(items)
		}

		if err := s.processBatch(ctx, items[i:end]); err != nil {
			return written, fmt.Errorf("failed to process batch %d-%d: %w", i, end-1, err)
		}
		written += end - i
	}

	return written, nil
}

func (s *DynamoService[T]) processBatch(ctx context.Context, items []T) error {
	writeRequests := make([]types.WriteRequest, 0, len(items))

	for _, data := range items {
		item, err := attributevalue.MarshalMap(data)
		if err != nil {
			return fmt.Errorf("failed to marshal item: %w", err)
		}

		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	unprocessedItems := map[string][]types.WriteRequest{
		s.tableName: writeRequests,
	}

	for attempt := 0; attempt < MaxRetryAttempts && len(unprocessedItems[s.tableName]) > 0; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * 100 * time.Millisecond
			s.logger.Warn("retrying unprocessed items",
				zap.Int("attempt", attempt+1),
				zap.Int("remaining", len(unprocessedItems[s.tableName])),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: unprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("batch write failed on attempt %d: %w", attempt+1, err)
		}

		unprocessedItems = result.UnprocessedItems
	}

	if remaining := len(unprocessedItems[s.tableName]); remaining > 0 {
		return fmt.Errorf("failed to process all items after %d attempts, %d items remain unprocessed",
			MaxRetryAttempts, remaining)
	}

	return nil
}
