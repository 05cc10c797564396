package translation

import (
	"context"
	"regexp"

	"github.com/quochao170402/ecommerce-aws/items-api/internal/apperror"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/domain"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/metrics"
	"go.uber.org/zap"
)

// DefaultLanguage is the target used when a request names none.
const DefaultLanguage = "en"

var languagePattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z]{2,4})?$`)

// ValidLanguage reports whether code looks like a language code ("fr", "zh-TW").
func ValidLanguage(code string) bool {
	return languagePattern.MatchString(code)
}

// ItemStore is the part of the item repository the manager needs.
type ItemStore interface {
	GetItem(ctx context.Context, partitionKey, sortKey string) (*domain.Item, error)
	SaveTranslation(ctx context.Context, item *domain.Item, lang, text string) (*domain.Item, error)
}

type Option func(*Manager)

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithMetrics(collector *metrics.Collector) Option {
	return func(m *Manager) { m.metrics = collector }
}

func WithDefaultLanguage(lang string) Option {
	return func(m *Manager) {
		if lang != "" {
			m.defaultLanguage = lang
		}
	}
}

// Manager serves item descriptions in other languages, caching every
// translation on the item so each language is translated once.
type Manager struct {
	items           ItemStore
	engine          Engine
	logger          *zap.Logger
	metrics         *metrics.Collector
	defaultLanguage string
}

func NewManager(items ItemStore, engine Engine, opts ...Option) *Manager {
	m := &Manager{
		items:           items,
		engine:          engine,
		logger:          zap.NewNop(),
		defaultLanguage: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Translate returns the item with translations[targetLanguage] populated.
// An empty targetLanguage selects the default language.
func (m *Manager) Translate(ctx context.Context, partitionKey, sortKey, targetLanguage string) (*domain.Item, error) {
	if targetLanguage == "" {
		targetLanguage = m.defaultLanguage
	}
	if !ValidLanguage(targetLanguage) {
		return nil, apperror.Validation("invalid language code %q", targetLanguage)
	}

	item, err := m.items.GetItem(ctx, partitionKey, sortKey)
	if err != nil {
		return nil, err
	}

	log := m.logger.With(
		zap.String("partitionKey", partitionKey),
		zap.String("sortKey", sortKey),
		zap.String("language", targetLanguage),
	)

	if _, ok := item.Translation(targetLanguage); ok {
		m.metrics.RecordCacheHit()
		log.Debug("translation cache hit")
		return item, nil
	}
	m.metrics.RecordCacheMiss()

	if item.Description == "" {
		return nil, apperror.Validation("item has no description to translate")
	}

	translated, err := m.engine.Translate(ctx, item.Description, AutoDetect, targetLanguage)
	if err != nil {
		m.metrics.RecordEngineFailure()
		log.Error("translation engine failed", zap.Error(err))
		return nil, apperror.TranslationEngine(err, "failed to translate item description")
	}

	updated, err := m.items.SaveTranslation(ctx, item, targetLanguage, translated)
	if err != nil {
		return nil, err
	}

	log.Info("translation cached")
	return updated, nil
}
