package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/quochao170402/ecommerce-aws/items-api/internal/apperror"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/domain"
	"github.com/quochao170402/ecommerce-aws/items-api/service"
	"go.uber.org/zap"
)

// ItemKeySchema is the key layout of the items table.
var ItemKeySchema = service.KeySchema{
	PartitionKey: domain.AttrPartitionKey,
	SortKey:      domain.AttrSortKey,
}

// ListOptions selects items for ListItems. An empty PartitionKey scans the table.
type ListOptions struct {
	PartitionKey string
	SortKey      string
	// Filter keeps items whose description contains it (case-sensitive).
	Filter string
	// Limit caps the number of returned items; zero means no cap.
	Limit int32
}

type ItemRepository interface {
	BaseRepository[domain.Item]

	CreateItem(ctx context.Context, candidate domain.Item) (*domain.Item, error)
	GetItem(ctx context.Context, partitionKey, sortKey string) (*domain.Item, error)
	ListItems(ctx context.Context, opts ListOptions) ([]domain.Item, error)
	UpdateItem(ctx context.Context, partitionKey, sortKey string, patch domain.PartialItem) (*domain.Item, error)
	// SaveTranslation stores translations[lang] on a previously read item. An item
	// with no cached translations gets the whole-map write.
	SaveTranslation(ctx context.Context, item *domain.Item, lang, text string) (*domain.Item, error)
}

type itemRepository struct {
	*baseRepository[domain.Item]
}

func NewItemRepository(store service.Store[domain.Item], opts ...Option) ItemRepository {
	return &itemRepository{baseRepository: newBaseRepository(store, opts...)}
}

func validateKey(partitionKey, sortKey string) error {
	var missing []string
	if partitionKey == "" {
		missing = append(missing, domain.AttrPartitionKey)
	}
	if sortKey == "" {
		missing = append(missing, domain.AttrSortKey)
	}
	if len(missing) > 0 {
		return apperror.Validation("missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// CreateItem implements ItemRepository.
func (r *itemRepository) CreateItem(ctx context.Context, candidate domain.Item) (*domain.Item, error) {
	var missing []string
	for _, field := range append([]string{domain.AttrPartitionKey, domain.AttrSortKey}, r.opts.requiredFields...) {
		if !candidate.HasField(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, apperror.Validation("missing fields: %s", strings.Join(missing, ", "))
	}

	candidate.Translations = nil
	if err := r.Create(ctx, &candidate); err != nil {
		return nil, err
	}

	r.opts.logger.Debug("item created",
		zap.String("partitionKey", candidate.PartitionKey),
		zap.String("sortKey", candidate.SortKey),
	)
	return &candidate, nil
}

// GetItem implements ItemRepository.
func (r *itemRepository) GetItem(ctx context.Context, partitionKey, sortKey string) (*domain.Item, error) {
	if err := validateKey(partitionKey, sortKey); err != nil {
		return nil, err
	}

	item, err := r.FindByKey(ctx, service.Key{Partition: partitionKey, Sort: sortKey})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NotFound("item %s/%s not found", partitionKey, sortKey)
	}
	return item, nil
}

// ListItems implements ItemRepository.
func (r *itemRepository) ListItems(ctx context.Context, opts ListOptions) ([]domain.Item, error) {
	if opts.Limit < 0 {
		return nil, apperror.Validation("limit must not be negative")
	}
	if opts.PartitionKey == "" && opts.SortKey != "" {
		return nil, apperror.Validation("sortKey requires partitionKey")
	}

	var filter *service.Contains
	if opts.Filter != "" {
		filter = &service.Contains{Attribute: domain.AttrDescription, Substring: opts.Filter}
	}

	var (
		items []domain.Item
		err   error
	)
	if opts.PartitionKey == "" {
		items, err = r.store.Scan(ctx, service.ScanRequest{Filter: filter, Limit: opts.Limit})
	} else {
		items, err = r.store.Query(ctx, service.QueryRequest{
			Partition: opts.PartitionKey,
			Sort:      opts.SortKey,
			Filter:    filter,
			Limit:     opts.Limit,
		})
	}
	if err != nil {
		return nil, apperror.StorageUnavailable(err, "failed to fetch items")
	}

	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

// UpdateItem implements ItemRepository.
func (r *itemRepository) UpdateItem(ctx context.Context, partitionKey, sortKey string, patch domain.PartialItem) (*domain.Item, error) {
	if patch.IsEmpty() {
		return nil, apperror.Validation("no fields to update")
	}

	current, err := r.GetItem(ctx, partitionKey, sortKey)
	if err != nil {
		return nil, err
	}

	update := service.NewUpdate().RequireExists()
	if patch.Name != nil {
		update.Set(domain.AttrName, *patch.Name)
	}
	if patch.Description != nil {
		update.Set(domain.AttrDescription, *patch.Description)
	}
	if patch.NumericAttribute != nil {
		update.Set(domain.AttrNumericAttribute, *patch.NumericAttribute)
	}
	if patch.BooleanAttribute != nil {
		update.Set(domain.AttrBooleanAttribute, *patch.BooleanAttribute)
	}
	update.Set(domain.AttrUpdatedAt, r.after(current.UpdatedAt))

	r.opts.logger.Debug("updating item",
		zap.String("partitionKey", partitionKey),
		zap.String("sortKey", sortKey),
		zap.Strings("fields", update.Paths()),
	)
	return r.apply(ctx, service.Key{Partition: partitionKey, Sort: sortKey}, update)
}

// SaveTranslation implements ItemRepository.
func (r *itemRepository) SaveTranslation(ctx context.Context, item *domain.Item, lang, text string) (*domain.Item, error) {
	key := service.Key{Partition: item.PartitionKey, Sort: item.SortKey}
	updatedAt := r.after(item.UpdatedAt)

	if len(item.Translations) == 0 {
		// Whole-map write, only while the attribute is still absent. Losing that
		// race means another language landed first; fall through to the
		// single-key write so its entry survives.
		update := service.NewUpdate().
			RequireExists().
			RequireAbsent(domain.AttrTranslations).
			Set(domain.AttrTranslations, map[string]string{lang: text}).
			Set(domain.AttrUpdatedAt, updatedAt)

		saved, err := r.store.UpdateItem(ctx, key, update)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, service.ErrConditionFailed) {
			return nil, apperror.StorageUnavailable(err, "failed to save translation")
		}
		r.opts.logger.Debug("translations map appeared concurrently",
			zap.String("partitionKey", key.Partition),
			zap.String("sortKey", key.Sort),
		)
	}

	update := service.NewUpdate().
		RequireExists().
		SetPath(text, domain.AttrTranslations, lang).
		Set(domain.AttrUpdatedAt, updatedAt)
	return r.apply(ctx, key, update)
}

func (r *itemRepository) apply(ctx context.Context, key service.Key, update *service.Update) (*domain.Item, error) {
	item, err := r.store.UpdateItem(ctx, key, update)
	if errors.Is(err, service.ErrConditionFailed) {
		return nil, apperror.NotFound("item %s/%s not found", key.Partition, key.Sort)
	}
	if err != nil {
		return nil, apperror.StorageUnavailable(err, "failed to update item")
	}
	return item, nil
}
