package translation

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the engine circuit breaker.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// The breaker opens once MinRequests calls were seen in the interval and
	// the failure ratio reached FailureThreshold.
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "translate",
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerEngine short-circuits calls to an unhealthy engine.
type BreakerEngine struct {
	next Engine
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerEngine(next Engine, config BreakerConfig, logger *zap.Logger) *BreakerEngine {
	if logger == nil {
		logger = zap.NewNop()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// a cancelled caller says nothing about the engine's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerEngine{next: next, cb: cb}
}

func (e *BreakerEngine) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	result, err := e.cb.Execute(func() (any, error) {
		return e.next.Translate(ctx, text, sourceLanguage, targetLanguage)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (e *BreakerEngine) State() gobreaker.State {
	return e.cb.State()
}
