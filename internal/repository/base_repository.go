package repository

import (
	"context"
	"errors"
	"time"

	"github.com/quochao170402/ecommerce-aws/items-api/internal/apperror"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/domain"
	"github.com/quochao170402/ecommerce-aws/items-api/service"
	"go.uber.org/zap"
)

// Option configures a repository.
type Option func(*options)

type options struct {
	clock          func() time.Time
	requiredFields []string
	logger         *zap.Logger
}

func defaultOptions() options {
	return options{
		clock:  time.Now,
		logger: zap.NewNop(),
	}
}

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithRequiredFields lists item attributes that must be set on create.
func WithRequiredFields(fields ...string) Option {
	return func(o *options) { o.requiredFields = fields }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// BaseRepository defines the common operations for all entities
type BaseRepository[T any] interface {
	// Create stores a new entity with automatic timestamps; it never overwrites.
	Create(ctx context.Context, entity *T) error
	FindByKey(ctx context.Context, key service.Key) (*T, error)
	SaveBatch(ctx context.Context, entities []T) (int, error)
	TableExists(ctx context.Context) (bool, error)
}

// baseRepository implements BaseRepository interface
type baseRepository[T any] struct {
	store service.Store[T]
	opts  options
}

// NewBaseRepository creates a new base repository instance
func NewBaseRepository[T any](store service.Store[T], opts ...Option) BaseRepository[T] {
	return newBaseRepository(store, opts...)
}

func newBaseRepository[T any](store service.Store[T], opts ...Option) *baseRepository[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &baseRepository[T]{store: store, opts: o}
}

func (r *baseRepository[T]) now() string {
	return domain.FormatTimestamp(r.opts.clock())
}

// after returns the current timestamp, moved past prev when the clock has not
// advanced a full tick since prev was written.
func (r *baseRepository[T]) after(prev string) string {
	now := r.opts.clock().UTC().Truncate(time.Millisecond)
	if last, err := domain.ParseTimestamp(prev); err == nil && !now.After(last) {
		now = last.Add(time.Millisecond)
	}
	return domain.FormatTimestamp(now)
}

func (r *baseRepository[T]) Create(ctx context.Context, entity *T) error {
	if timestamped, ok := any(entity).(domain.TimestampedEntity); ok {
		now := r.now()
		timestamped.SetCreatedAt(now)
		timestamped.SetUpdatedAt(now)
	}

	err := r.store.PutItemIfAbsent(ctx, *entity)
	if errors.Is(err, service.ErrConditionFailed) {
		return apperror.AlreadyExists("an item with this key already exists")
	}
	if err != nil {
		return apperror.StorageUnavailable(err, "failed to create item")
	}
	return nil
}

func (r *baseRepository[T]) FindByKey(ctx context.Context, key service.Key) (*T, error) {
	entity, err := r.store.GetItem(ctx, key)
	if err != nil {
		return nil, apperror.StorageUnavailable(err, "failed to read item")
	}
	return entity, nil
}

func (r *baseRepository[T]) SaveBatch(ctx context.Context, entities []T) (int, error) {
	now := r.now()
	for i := range entities {
		if timestamped, ok := any(&entities[i]).(domain.TimestampedEntity); ok {
			timestamped.SetCreatedAt(now)
			timestamped.SetUpdatedAt(now)
		}
	}

	written, err := r.store.BatchPut(ctx, entities)
	if err != nil {
		return written, apperror.StorageUnavailable(err, "failed to write batch")
	}
	return written, nil
}

func (r *baseRepository[T]) TableExists(ctx context.Context) (bool, error) {
	exists, err := r.store.TableExists(ctx)
	if err != nil {
		return false, apperror.StorageUnavailable(err, "failed to describe table")
	}
	return exists, nil
}
