package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/quochao170402/ecommerce-aws/items-api/configs"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/logger"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/seed"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := configs.LoadConfig(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Must(cfg.App.AppEnv)
	app, err := configs.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to bootstrap", zap.Error(err))
	}

	seeder := seed.NewSeeder(app.Items, app.Details, log)

	lambda.Start(func(ctx context.Context) (result *seed.Result, err error) {
		if cfg.XRayEnabled {
			var segment *xray.Segment
			ctx, segment = xray.BeginSubsegment(ctx, "items-api.seed")
			defer func() { segment.Close(err) }()
		}

		result, err = seeder.Run(ctx)
		if err != nil {
			log.Error("seeding failed", zap.Error(err))
		}
		return result, err
	})
}
