package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/apperror"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/domain"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/repository"
	"github.com/quochao170402/ecommerce-aws/items-api/middleware"
)

type CreateItemRequest struct {
	PartitionKey string `json:"partitionKey" binding:"required"`
	// SortKey defaults to a generated UUID.
	SortKey          string   `json:"sortKey"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	NumericAttribute *float64 `json:"numericAttribute"`
	BooleanAttribute *bool    `json:"booleanAttribute"`
}

type UpdateItemRequest struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	NumericAttribute *float64 `json:"numericAttribute"`
	BooleanAttribute *bool    `json:"booleanAttribute"`
}

type ListItemsQuery struct {
	SortKey string `form:"sortKey"`
	Filter  string `form:"filter"`
	Limit   int32  `form:"limit" binding:"gte=0"`
}

type TranslateQuery struct {
	Language string `form:"language"`
}

// Translator serves cached translations of item descriptions.
type Translator interface {
	Translate(ctx context.Context, partitionKey, sortKey, language string) (*domain.Item, error)
}

type ItemHandler struct {
	repo       repository.ItemRepository
	translator Translator
	mapper     Mapper
	newSortKey func() string
}

func NewItemHandler(repo repository.ItemRepository, translator Translator, mapper Mapper) *ItemHandler {
	return &ItemHandler{
		repo:       repo,
		translator: translator,
		mapper:     mapper,
		newSortKey: func() string { return uuid.New().String() },
	}
}

var (
	partitionKeyParam = middleware.KeyParam{Name: "partitionKey", MaxBytes: middleware.MaxPartitionKeyBytes}
	sortKeyParam      = middleware.KeyParam{Name: "sortKey", MaxBytes: middleware.MaxSortKeyBytes}
)

func RegisterItemRoutes(rg *gin.RouterGroup, handler *ItemHandler) {
	partitionOnly := middleware.KeyParamMiddleware(partitionKeyParam)
	fullKey := middleware.KeyParamMiddleware(partitionKeyParam, sortKeyParam)

	rg.POST("", handler.CreateItem)
	rg.GET("", handler.ListItems)
	rg.GET("/:partitionKey", partitionOnly, handler.ListItems)
	rg.GET("/:partitionKey/:sortKey", fullKey, handler.GetItem)
	rg.PUT("/:partitionKey/:sortKey", fullKey, handler.UpdateItem)
	rg.GET("/:partitionKey/:sortKey/translation", fullKey, handler.TranslateItem)
}

// ------------------ Handlers ------------------

func (h *ItemHandler) CreateItem(c *gin.Context) {
	var request CreateItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.respondError(c, bindingError(err))
		return
	}

	if request.SortKey == "" {
		request.SortKey = h.newSortKey()
	}
	// Key limits are in bytes, which validator's max tag does not measure.
	for _, err := range []error{partitionKeyParam.Check(request.PartitionKey), sortKeyParam.Check(request.SortKey)} {
		if err != nil {
			h.respondError(c, apperror.Validation("%s", err.Error()))
			return
		}
	}

	created, err := h.repo.CreateItem(c.Request.Context(), domain.Item{
		PartitionKey:     request.PartitionKey,
		SortKey:          request.SortKey,
		Name:             request.Name,
		Description:      request.Description,
		NumericAttribute: request.NumericAttribute,
		BooleanAttribute: request.BooleanAttribute,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respond(c, h.mapper.Success(http.StatusCreated, "Item created successfully", created))
}

func (h *ItemHandler) ListItems(c *gin.Context) {
	var query ListItemsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.respondError(c, bindingError(err))
		return
	}

	items, err := h.repo.ListItems(c.Request.Context(), repository.ListOptions{
		PartitionKey: c.Param("partitionKey"),
		SortKey:      query.SortKey,
		Filter:       query.Filter,
		Limit:        query.Limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respond(c, h.mapper.List(items, len(items)))
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.repo.GetItem(c.Request.Context(), c.Param("partitionKey"), c.Param("sortKey"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respond(c, h.mapper.Success(http.StatusOK, "", item))
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var request UpdateItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.respondError(c, bindingError(err))
		return
	}

	updated, err := h.repo.UpdateItem(c.Request.Context(), c.Param("partitionKey"), c.Param("sortKey"), domain.PartialItem{
		Name:             request.Name,
		Description:      request.Description,
		NumericAttribute: request.NumericAttribute,
		BooleanAttribute: request.BooleanAttribute,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respond(c, h.mapper.Success(http.StatusOK, "Item updated successfully", updated))
}

func (h *ItemHandler) TranslateItem(c *gin.Context) {
	var query TranslateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.respondError(c, bindingError(err))
		return
	}

	item, err := h.translator.Translate(c.Request.Context(), c.Param("partitionKey"), c.Param("sortKey"), query.Language)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respond(c, h.mapper.Success(http.StatusOK, "", item))
}

func (h *ItemHandler) respond(c *gin.Context, outcome Outcome) {
	c.JSON(outcome.StatusCode, outcome.Body)
}

// respondError records err on the context for the request logger and writes
// the mapped outcome.
func (h *ItemHandler) respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	h.respond(c, h.mapper.Error(err))
}
