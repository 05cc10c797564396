package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MemoryStore is an in-process Store used for tests and local runs without
// DynamoDB. It keeps items in their attribute-value form so marshaling and
// update semantics match the real engine.
type MemoryStore[T any] struct {
	mu     sync.Mutex
	schema KeySchema
	items  map[Key]map[string]types.AttributeValue
}

var _ Store[struct{}] = (*MemoryStore[struct{}])(nil)

func NewMemoryStore[T any](schema KeySchema) *MemoryStore[T] {
	return &MemoryStore[T]{
		schema: schema,
		items:  make(map[Key]map[string]types.AttributeValue),
	}
}

func (m *MemoryStore[T]) TableExists(context.Context) (bool, error) {
	return true, nil
}

func (m *MemoryStore[T]) GetItem(_ context.Context, key Key) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	return m.decode(stored)
}

func (m *MemoryStore[T]) PutItemIfAbsent(_ context.Context, data T) error {
	av, key, err := m.encode(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; exists {
		return fmt.Errorf("%w: item %s/%s exists", ErrConditionFailed, key.Partition, key.Sort)
	}
	m.items[key] = av
	return nil
}

func (m *MemoryStore[T]) UpdateItem(_ context.Context, key Key, update *Update) (*T, error) {
	if err := update.validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, exists := m.items[key]
	if !exists {
		if update.mustExist {
			return nil, fmt.Errorf("%w: item %s/%s does not exist", ErrConditionFailed, key.Partition, key.Sort)
		}
		// upsert, as UpdateItem does without a condition
		stored = map[string]types.AttributeValue{
			m.schema.PartitionKey: &types.AttributeValueMemberS{Value: key.Partition},
			m.schema.SortKey:      &types.AttributeValueMemberS{Value: key.Sort},
		}
	}

	for _, attr := range update.absent {
		if _, present := stored[attr]; present {
			return nil, fmt.Errorf("%w: attribute %s exists", ErrConditionFailed, attr)
		}
	}

	next := make(map[string]types.AttributeValue, len(stored)+update.Len())
	for k, v := range stored {
		next[k] = v
	}

	for _, a := range update.assignments {
		value, err := attributevalue.Marshal(a.value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal update value: %w", err)
		}
		if err := setPath(next, a.path, value); err != nil {
			return nil, err
		}
	}

	m.items[key] = next
	return m.decode(next)
}

// setPath writes value at path, copying every map it descends into.
func setPath(item map[string]types.AttributeValue, path []string, value types.AttributeValue) error {
	if len(path) == 1 {
		item[path[0]] = value
		return nil
	}

	parent, ok := item[path[0]].(*types.AttributeValueMemberM)
	if !ok {
		return fmt.Errorf("%w: document path %s does not resolve to a map", ErrInvalidUpdate, strings.Join(path, "."))
	}

	child := make(map[string]types.AttributeValue, len(parent.Value)+1)
	for k, v := range parent.Value {
		child[k] = v
	}
	if err := setPath(child, path[1:], value); err != nil {
		return err
	}
	item[path[0]] = &types.AttributeValueMemberM{Value: child}
	return nil
}

func (m *MemoryStore[T]) Query(_ context.Context, request QueryRequest) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collect(request.Filter, request.Limit, func(key Key) bool {
		if key.Partition != request.Partition {
			return false
		}
		return request.Sort == "" || key.Sort == request.Sort
	})
}

func (m *MemoryStore[T]) Scan(_ context.Context, request ScanRequest) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collect(request.Filter, request.Limit, func(Key) bool { return true })
}

func (m *MemoryStore[T]) BatchPut(_ context.Context, items []T) (int, error) {
	encoded := make(map[Key]map[string]types.AttributeValue, len(items))
	for _, data := range items {
		av, key, err := m.encode(data)
		if err != nil {
			return 0, err
		}
		encoded[key] = av
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, av := range encoded {
		m.items[key] = av
	}
	return len(items), nil
}

// Len reports the number of stored items.
func (m *MemoryStore[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *MemoryStore[T]) collect(filter *Contains, limit int32, match func(Key) bool) ([]T, error) {
	keys := make([]Key, 0, len(m.items))
	for key := range m.items {
		if match(key) {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Partition != keys[j].Partition {
			return keys[i].Partition < keys[j].Partition
		}
		return keys[i].Sort < keys[j].Sort
	})

	items := make([]T, 0, len(keys))
	for _, key := range keys {
		stored := m.items[key]
		if filter != nil && !contains(stored[filter.Attribute], filter.Substring) {
			continue
		}
		item, err := m.decode(stored)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
		if limit > 0 && len(items) == int(limit) {
			break
		}
	}
	return items, nil
}

func contains(av types.AttributeValue, substring string) bool {
	s, ok := av.(*types.AttributeValueMemberS)
	return ok && strings.Contains(s.Value, substring)
}

func (m *MemoryStore[T]) encode(data T) (map[string]types.AttributeValue, Key, error) {
	av, err := attributevalue.MarshalMap(data)
	if err != nil {
		return nil, Key{}, fmt.Errorf("failed to marshal item: %w", err)
	}

	pk, okPK := av[m.schema.PartitionKey].(*types.AttributeValueMemberS)
	sk, okSK := av[m.schema.SortKey].(*types.AttributeValueMemberS)
	if !okPK || !okSK || pk.Value == "" || sk.Value == "" {
		return nil, Key{}, fmt.Errorf("item is missing key attributes %s/%s", m.schema.PartitionKey, m.schema.SortKey)
	}
	return av, Key{Partition: pk.Value, Sort: sk.Value}, nil
}

func (m *MemoryStore[T]) decode(av map[string]types.AttributeValue) (*T, error) {
	var item T
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return &item, nil
}
