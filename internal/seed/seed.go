package seed

import (
	"context"
	"fmt"

	"github.com/quochao170402/ecommerce-aws/items-api/internal/domain"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/repository"
	"go.uber.org/zap"
)

// Result is the seeding summary returned to the invoker.
type Result struct {
	Message          string `json:"message"`
	ItemsCount       int    `json:"itemsCount"`
	ItemDetailsCount int    `json:"itemDetailsCount"`
}

// Items returns a fresh copy of the seed items.
func Items() []domain.Item {
	return []domain.Item{
		{
			PartitionKey:     "1",
			SortKey:          "Item1",
			Name:             "Item 1",
			Description:      "This is the first item",
			NumericAttribute: float64Ptr(100),
			BooleanAttribute: boolPtr(true),
		},
		{
			PartitionKey:     "2",
			SortKey:          "Item2",
			Name:             "Item 2",
			Description:      "This is the second item",
			NumericAttribute: float64Ptr(200),
			BooleanAttribute: boolPtr(false),
		},
	}
}

// Details returns a fresh copy of the seed item details.
func Details() []domain.ItemDetail {
	return []domain.ItemDetail{
		{ItemID: "1", DetailName: "Detail 1", DetailType: "Type A"},
		{ItemID: "2", DetailName: "Detail 2", DetailType: "Type B"},
	}
}

type Seeder struct {
	items   repository.BaseRepository[domain.Item]
	details repository.BaseRepository[domain.ItemDetail]
	logger  *zap.Logger
}

func NewSeeder(items repository.BaseRepository[domain.Item], details repository.BaseRepository[domain.ItemDetail], logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{items: items, details: details, logger: logger}
}

// Run writes the seed data after checking that both tables exist. Existing
// items with the same keys are overwritten.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if err := verifyTableExists(ctx, "items", s.items); err != nil {
		return nil, err
	}
	if err := verifyTableExists(ctx, "item details", s.details); err != nil {
		return nil, err
	}

	itemsCount, err := s.items.SaveBatch(ctx, Items())
	if err != nil {
		return nil, fmt.Errorf("failed to seed items: %w", err)
	}
	s.logger.Info("seeded items", zap.Int("count", itemsCount))

	detailsCount, err := s.details.SaveBatch(ctx, Details())
	if err != nil {
		return nil, fmt.Errorf("failed to seed item details: %w", err)
	}
	s.logger.Info("seeded item details", zap.Int("count", detailsCount))

	return &Result{
		Message:          "Successfully seeded data",
		ItemsCount:       itemsCount,
		ItemDetailsCount: detailsCount,
	}, nil
}

type tableChecker interface {
	TableExists(ctx context.Context) (bool, error)
}

func verifyTableExists(ctx context.Context, name string, table tableChecker) error {
	exists, err := table.TableExists(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify %s table: %w", name, err)
	}
	if !exists {
		return fmt.Errorf("%s table does not exist", name)
	}
	return nil
}

func float64Ptr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool          { return &v }
