package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-xray-sdk-go/xray"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/quochao170402/ecommerce-aws/items-api/configs"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/logger"
	"go.uber.org/zap"
)

type LambdaFunc func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Handler adapts API Gateway proxy events to the Gin router.
func Handler(adapter *ginadapter.GinLambda, tracing bool) LambdaFunc {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (response events.APIGatewayProxyResponse, err error) {
		if tracing {
			var segment *xray.Segment
			ctx, segment = xray.BeginSubsegment(ctx, "items-api.handle")
			defer func() { segment.Close(err) }()
		}
		return adapter.ProxyWithContext(ctx, req)
	}
}

func buildHandler(ctx context.Context) (LambdaFunc, error) {
	cfg, err := configs.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.XRayEnabled {
		if err := xray.Configure(xray.Config{ServiceVersion: "1.0.0"}); err != nil {
			return nil, fmt.Errorf("could not configure X-Ray: %w", err)
		}
	}

	log := logger.Must(cfg.App.AppEnv)
	app, err := configs.Bootstrap(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	log.Info("lambda initialised", zap.String("itemsTable", cfg.Dynamo.ItemsTable))
	return Handler(ginadapter.New(configs.NewRouter(app)), cfg.XRayEnabled), nil
}

func main() {
	handler, err := buildHandler(context.Background())
	if err != nil {
		panic(err)
	}

	lambda.Start(handler)
}
