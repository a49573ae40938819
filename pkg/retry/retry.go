package retry

import (
	"context"
	"fmt"
	"time"

	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
	"github.com/vnykmshr/chunkflow/pkg/common/validation"
	"github.com/vnykmshr/chunkflow/pkg/metrics"
)

// Default configuration values.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 100 * time.Millisecond
	DefaultMultiplier   = 2.0
	DefaultMaxDelay     = 5 * time.Second
)

// Config holds configuration options for creating a new Policy.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	// If zero, DefaultMaxAttempts is used.
	MaxAttempts int

	// InitialDelay is the delay before the second attempt. Zero is a valid
	// value and means the first retry happens immediately.
	InitialDelay time.Duration

	// Multiplier is the backoff growth factor, at least 1.
	// If zero, DefaultMultiplier is used.
	Multiplier float64

	// MaxDelay caps the delay between attempts. If zero, DefaultMaxDelay
	// is used. Must be at least InitialDelay.
	MaxDelay time.Duration
}

// DefaultConfig returns sensible defaults for retry operations.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		Multiplier:   DefaultMultiplier,
		MaxDelay:     DefaultMaxDelay,
	}
}

// OnRetry is invoked after a failed attempt that will be retried.
// attempt is the 1-based index of the attempt that just failed, delay is
// the backoff about to be waited, and err is the attempt's error.
type OnRetry func(attempt int, delay time.Duration, err error)

// ExhaustedError indicates that all attempts failed. It wraps the error
// from the final attempt.
type ExhaustedError struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry: exhausted after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the final attempt's error.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Policy executes operations with bounded exponential-backoff retries.
// A Policy is immutable once constructed and safe to share across
// goroutines and operations.
type Policy struct {
	config Config

	name           string
	registry       *metrics.Registry
	metricsEnabled bool
}

// New creates a Policy from a Config. Zero-valued fields other than
// InitialDelay are filled with defaults; invalid values return a
// ValidationError.
func New(config Config) (*Policy, error) {
	config, err := normalize(config)
	if err != nil {
		return nil, err
	}
	return &Policy{config: config}, nil
}

// NewWithMetrics creates a Policy with Prometheus metrics enabled under
// the given policy name.
func NewWithMetrics(config Config, name string, metricsConfig metrics.Config) (*Policy, error) {
	p, err := New(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return p, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	p.name = name
	p.registry = registry
	p.metricsEnabled = true
	return p, nil
}

// Config returns the policy's (normalized) configuration.
func (p *Policy) Config() Config {
	return p.config
}

// Execute runs operation, retrying on failure with exponential backoff.
// The first attempt incurs no delay. Success on any attempt returns
// immediately. After MaxAttempts failures the last error is returned
// wrapped in *ExhaustedError. The backoff wait is a blocking, context-aware
// timer; context cancellation during the wait aborts the sequence with the
// context's error.
func (p *Policy) Execute(ctx context.Context, operation func() error, onRetry OnRetry) error {
	backoff := NewBackoff(p.config)

	var lastErr error
	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		p.countAttempt()

		err := operation()
		if err == nil {
			p.countSuccess()
			return nil
		}
		lastErr = err

		if attempt == p.config.MaxAttempts {
			break
		}

		delay := backoff.Next()
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}
		p.countRetry(delay)

		if err := wait(ctx, delay); err != nil {
			return fmt.Errorf("retry: canceled during backoff before attempt %d: %w", attempt+1, err)
		}
	}

	p.countExhausted()
	return &ExhaustedError{Attempts: p.config.MaxAttempts, Err: lastErr}
}

// Execute runs a result-returning operation through p, retrying on failure.
// It returns the result of the first successful attempt.
func Execute[T any](ctx context.Context, p *Policy, operation func() (T, error), onRetry OnRetry) (T, error) {
	var result T
	err := p.Execute(ctx, func() error {
		var innerErr error
		result, innerErr = operation()
		return innerErr
	}, onRetry)
	return result, err
}

// wait blocks for d or until ctx is canceled.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// normalize fills defaults and validates a Config.
func normalize(config Config) (Config, error) {
	if config.MaxAttempts == 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.Multiplier == 0 {
		config.Multiplier = DefaultMultiplier
	}
	if config.MaxDelay == 0 {
		config.MaxDelay = DefaultMaxDelay
	}

	if err := validation.ValidatePositive("retry", "max attempts", config.MaxAttempts); err != nil {
		return config, err
	}
	if err := validation.ValidateNonNegative("retry", "initial delay", float64(config.InitialDelay)); err != nil {
		return config, err
	}
	if err := validation.ValidateMinFloat("retry", "multiplier", config.Multiplier, 1); err != nil {
		return config, err
	}
	if config.MaxDelay < config.InitialDelay {
		return config, cferrors.NewValidationError("retry", "max delay", config.MaxDelay, "below initial delay").
			WithHint("max delay must be at least the initial delay")
	}

	return config, nil
}

func (p *Policy) countAttempt() {
	if p.metricsEnabled {
		p.registry.RetryAttempts.WithLabelValues(p.name).Inc()
	}
}

func (p *Policy) countRetry(delay time.Duration) {
	if p.metricsEnabled {
		p.registry.RetryRetries.WithLabelValues(p.name).Inc()
		p.registry.RetryBackoffSeconds.WithLabelValues(p.name).Observe(delay.Seconds())
	}
}

func (p *Policy) countSuccess() {
	if p.metricsEnabled {
		p.registry.RetrySuccesses.WithLabelValues(p.name).Inc()
	}
}

func (p *Policy) countExhausted() {
	if p.metricsEnabled {
		p.registry.RetryExhausted.WithLabelValues(p.name).Inc()
	}
}
