package service

import (
	"context"
	"errors"
)

var (
	// ErrConditionFailed is returned when a conditional write is rejected by the engine.
	ErrConditionFailed = errors.New("condition check failed")
	// ErrInvalidUpdate is returned when an update targets a path the stored item cannot hold.
	ErrInvalidUpdate = errors.New("invalid update path")
)

// KeySchema names the partition and sort key attributes of a table.
type KeySchema struct {
	PartitionKey string
	SortKey      string
}

// Key is a composite primary key value.
type Key struct {
	Partition string
	Sort      string
}

// Contains is a case-sensitive substring predicate on a string attribute.
type Contains struct {
	Attribute string
	Substring string
}

// QueryRequest selects items of one partition, optionally narrowed to one sort key.
type QueryRequest struct {
	Partition string
	Sort      string
	Filter    *Contains
	Limit     int32
}

// ScanRequest reads the whole table.
type ScanRequest struct {
	Filter *Contains
	Limit  int32
}

// Store is the storage engine contract shared by DynamoService and MemoryStore.
type Store[T any] interface {
	// GetItem returns nil, nil when the key does not exist.
	GetItem(ctx context.Context, key Key) (*T, error)
	// PutItemIfAbsent fails with ErrConditionFailed when the key exists.
	PutItemIfAbsent(ctx context.Context, item T) error
	// UpdateItem applies update and returns the item with all new attributes.
	UpdateItem(ctx context.Context, key Key, update *Update) (*T, error)
	Query(ctx context.Context, request QueryRequest) ([]T, error)
	Scan(ctx context.Context, request ScanRequest) ([]T, error)
	BatchPut(ctx context.Context, items []T) (int, error)
	TableExists(ctx context.Context) (bool, error)
}
