package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/quochao170402/ecommerce-aws/items-api/configs"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/domain"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/repository"
	"github.com/quochao170402/ecommerce-aws/items-api/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type identityEngine struct{}

func (identityEngine) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

func TestHandler_ProxiesAPIGatewayEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg, err := configs.FromEnv(func(string) string { return "" })
	require.NoError(t, err)

	app := configs.NewApp(cfg, zap.NewNop(),
		service.NewMemoryStore[domain.Item](repository.ItemKeySchema),
		service.NewMemoryStore[domain.ItemDetail](repository.ItemDetailKeySchema),
		identityEngine{},
	)
	handler := Handler(ginadapter.New(configs.NewRouter(app)), false)

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/items",
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"partitionKey":"product","sortKey":"p1001","description":"Wireless Headphones"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, resp.Body, `"sortKey":"p1001"`)

	resp, err = handler(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  "/items/product",
		QueryStringParameters: map[string]string{"filter": "Wireless"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, `"count":1`)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
}
