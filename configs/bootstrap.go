package configs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/translate"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/domain"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/metrics"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/repository"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/translation"
	"github.com/quochao170402/ecommerce-aws/items-api/service"
	"go.uber.org/zap"
)

// App holds the process-wide dependencies, built once and injected.
type App struct {
	Config     *Config
	Logger     *zap.Logger
	Metrics    *metrics.Collector
	Items      repository.ItemRepository
	Details    repository.BaseRepository[domain.ItemDetail]
	Translator *translation.Manager
}

// Bootstrap creates the AWS clients and wires them into an App.
func Bootstrap(ctx context.Context, cfg *Config, logger *zap.Logger) (*App, error) {
	if cfg.XRayEnabled {
		awsv2.AWSV2Instrumentor(&cfg.AWS.APIOptions)
	}

	dynamoClient := dynamodb.NewFromConfig(cfg.AWS, func(o *dynamodb.Options) {
		if cfg.Dynamo.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Dynamo.Endpoint)
		}
	})
	translateClient := translate.NewFromConfig(cfg.AWS)

	itemsTable := service.NewDynamoService[domain.Item](dynamoClient, cfg.Dynamo.ItemsTable, repository.ItemKeySchema, logger)
	detailsTable := service.NewDynamoService[domain.ItemDetail](dynamoClient, cfg.Dynamo.DetailsTable, repository.ItemDetailKeySchema, logger)

	if cfg.Dynamo.AutoCreateTables {
		if err := itemsTable.EnsureTable(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure items table: %w", err)
		}
		if err := detailsTable.EnsureTable(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure item details table: %w", err)
		}
	}

	return NewApp(cfg, logger, itemsTable, detailsTable, translation.NewAWSEngine(translateClient)), nil
}

// NewApp wires repositories and the translation manager over the given stores and engine.
func NewApp(cfg *Config, logger *zap.Logger, items service.Store[domain.Item], details service.Store[domain.ItemDetail], engine translation.Engine) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	collector := metrics.NewCollector("items_api")

	itemRepo := repository.NewItemRepository(items,
		repository.WithRequiredFields(cfg.RequiredFields...),
		repository.WithLogger(logger),
	)
	detailRepo := repository.NewItemDetailRepository(details, repository.WithLogger(logger))

	breaker := translation.NewBreakerEngine(engine, cfg.Translation.Breaker, logger)
	manager := translation.NewManager(itemRepo, breaker,
		translation.WithLogger(logger),
		translation.WithMetrics(collector),
		translation.WithDefaultLanguage(cfg.Translation.DefaultLanguage),
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Metrics:    collector,
		Items:      itemRepo,
		Details:    detailRepo,
		Translator: manager,
	}
}
