package configs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/domain"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/translation"
)

type AppConfig struct {
	AppEnv  string
	AppPort string
}

type DynamoConfig struct {
	ItemsTable   string
	DetailsTable string
	// Endpoint overrides the DynamoDB endpoint, e.g. for DynamoDB Local.
	Endpoint         string
	AutoCreateTables bool
}

type TranslationConfig struct {
	DefaultLanguage string
	Breaker         translation.BreakerConfig
}

type Config struct {
	App            AppConfig
	Dynamo         DynamoConfig
	Translation    TranslationConfig
	RequiredFields []string
	XRayEnabled    bool
	AWS            aws.Config
}

func (c *Config) IsProduction() bool {
	return c.App.AppEnv == "production"
}

// LoadConfig reads an optional .env file, the environment and the AWS SDK
// default configuration.
func LoadConfig(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}

	cfg.AWS, err = config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return cfg, nil
}

// FromEnv builds the application configuration from getenv, without the AWS part.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := envReader{getenv: getenv}

	breaker := translation.DefaultBreakerConfig()
	breaker.Timeout = env.getDuration("TRANSLATE_BREAKER_TIMEOUT", breaker.Timeout)
	breaker.Interval = env.getDuration("TRANSLATE_BREAKER_INTERVAL", breaker.Interval)
	breaker.MinRequests = uint32(env.getInt("TRANSLATE_BREAKER_MIN_REQUESTS", int(breaker.MinRequests)))
	breaker.FailureThreshold = env.getFloat("TRANSLATE_BREAKER_FAILURE_RATIO", breaker.FailureThreshold)

	cfg := &Config{
		App: AppConfig{
			AppEnv:  env.getString("APP_ENV", "development"),
			AppPort: env.getString("APP_PORT", "8080"),
		},
		Dynamo: DynamoConfig{
			ItemsTable:       env.getString("ITEMS_TABLE_NAME", "Items"),
			DetailsTable:     env.getString("DETAILS_TABLE_NAME", "ItemDetails"),
			Endpoint:         env.getString("DYNAMODB_ENDPOINT", ""),
			AutoCreateTables: env.getBool("AUTO_CREATE_TABLES", false),
		},
		Translation: TranslationConfig{
			DefaultLanguage: env.getString("DEFAULT_LANGUAGE", translation.DefaultLanguage),
			Breaker:         breaker,
		},
		RequiredFields: env.getList("REQUIRED_FIELDS", []string{domain.AttrDescription}),
		XRayEnabled:    env.getBool("XRAY_ENABLED", false),
	}

	if env.err != nil {
		return nil, env.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be caught by parsing alone.
func (c *Config) Validate() error {
	for _, field := range c.RequiredFields {
		switch field {
		case domain.AttrName, domain.AttrDescription, domain.AttrNumericAttribute, domain.AttrBooleanAttribute:
		default:
			return fmt.Errorf("REQUIRED_FIELDS: unsupported field %q", field)
		}
	}
	if !translation.ValidLanguage(c.Translation.DefaultLanguage) {
		return fmt.Errorf("DEFAULT_LANGUAGE: invalid language code %q", c.Translation.DefaultLanguage)
	}
	if r := c.Translation.Breaker.FailureThreshold; r <= 0 || r > 1 {
		return fmt.Errorf("TRANSLATE_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", r)
	}
	return nil
}

// envReader reads typed values and keeps the first parse error.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) getString(key, defaultValue string) string {
	if value := strings.TrimSpace(e.getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func (e *envReader) fail(key string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}

func (e *envReader) getBool(key string, defaultValue bool) bool {
	value := e.getString(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		e.fail(key, err)
		return defaultValue
	}
	return parsed
}

func (e *envReader) getInt(key string, defaultValue int) int {
	value := e.getString(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err == nil && parsed < 0 {
		err = errors.New("must not be negative")
	}
	if err != nil {
		e.fail(key, err)
		return defaultValue
	}
	return parsed
}

func (e *envReader) getFloat(key string, defaultValue float64) float64 {
	value := e.getString(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		e.fail(key, err)
		return defaultValue
	}
	return parsed
}

func (e *envReader) getDuration(key string, defaultValue time.Duration) time.Duration {
	value := e.getString(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		e.fail(key, err)
		return defaultValue
	}
	return parsed
}

// getList reads a comma separated value. "none" yields an empty list.
func (e *envReader) getList(key string, defaultValue []string) []string {
	value := e.getString(key, "")
	if value == "" {
		return defaultValue
	}
	if value == "none" {
		return []string{}
	}

	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
