package main

import (
	"context"

	"github.com/quochao170402/ecommerce-aws/items-api/configs"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/logger"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := configs.LoadConfig(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Must(cfg.App.AppEnv)
	defer func() { _ = log.Sync() }()

	app, err := configs.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to bootstrap", zap.Error(err))
	}

	router := configs.NewRouter(app)

	log.Info("server starting",
		zap.String("port", cfg.App.AppPort),
		zap.String("itemsTable", cfg.Dynamo.ItemsTable),
	)
	if err := configs.Run(router, cfg); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
