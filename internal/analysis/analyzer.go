package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/assets"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/cache"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/features"
)

// DefaultDelay is the pause before scoring that lets the UI show its spinner.
const DefaultDelay = 500 * time.Millisecond

// BundleSource yields the loaded model assets.
type BundleSource interface {
	Load() (*assets.Bundle, error)
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDelay overrides the pre-scoring delay. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(a *Analyzer) { a.delay = d }
}

// WithCache memoises assessments by canonical vitals.
func WithCache(c *cache.Cache[Assessment]) Option {
	return func(a *Analyzer) { a.cache = c }
}

// WithLogger sets the logger used for assessment events.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// Analyzer orchestrates validate -> delay -> encode -> scale -> predict.
type Analyzer struct {
	source BundleSource
	cache  *cache.Cache[Assessment]
	delay  time.Duration
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer over the given asset source.
func NewAnalyzer(source BundleSource, opts ...Option) *Analyzer {
	a := &Analyzer{
		source: source,
		delay:  DefaultDelay,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ready reports whether the assets are loaded.
func (a *Analyzer) Ready() error {
	if _, err := a.source.Load(); err != nil {
		return &UnavailableError{Err: err}
	}
	return nil
}

// Schema returns the loaded feature schema.
func (a *Analyzer) Schema() (*features.Schema, error) {
	bundle, err := a.source.Load()
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	return bundle.Schema, nil
}

// Analyze scores one set of vitals. Every failure is returned to the caller;
// there are no retries and no partial results.
func (a *Analyzer) Analyze(ctx context.Context, v features.Vitals) (Assessment, error) {
	start := time.Now()

	bundle, err := a.source.Load()
	if err != nil {
		return Assessment{}, &UnavailableError{Err: err}
	}

	if err := v.Validate(); err != nil {
		return Assessment{}, err
	}

	if err := a.wait(ctx); err != nil {
		return Assessment{}, err
	}

	key := cache.Key(v.Key())
	if a.cache != nil {
		if cached, ok := a.cache.Get(key); ok {
			cached.CacheHit = true
			cached.Duration = time.Since(start)
			return cached, nil
		}
	}

	result, err := score(bundle, v)
	if err != nil {
		a.logger.Error("Risk assessment failed", "error", err)
		return Assessment{}, err
	}

	if a.cache != nil {
		a.cache.Set(key, result)
	}

	result.Duration = time.Since(start)
	a.logger.Debug("Risk assessment completed",
		"risk_level", result.RiskLevel,
		"probability", result.Probability,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

func (a *Analyzer) wait(ctx context.Context) error {
	if a.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
