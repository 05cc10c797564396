package repository

import (
	"github.com/quochao170402/ecommerce-aws/items-api/internal/domain"
	"github.com/quochao170402/ecommerce-aws/items-api/service"
)

// ItemDetailKeySchema is the key layout of the item details table.
var ItemDetailKeySchema = service.KeySchema{
	PartitionKey: "itemId",
	SortKey:      "detailName",
}

func NewItemDetailRepository(store service.Store[domain.ItemDetail], opts ...Option) BaseRepository[domain.ItemDetail] {
	return NewBaseRepository[domain.ItemDetail](store, opts...)
}
