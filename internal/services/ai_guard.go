package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
	"github.com/vladimiradmaev/care-planner/internal/logger"
	"github.com/vladimiradmaev/care-planner/internal/metrics"
)

// GuardConfig bounds every AI call
type GuardConfig struct {
	MaxAttempts       int
	BackoffBase       time.Duration
	Timeout           time.Duration
	RequestsPerMinute int
}

// GuardedAIClient wraps a provider with a client-side rate limiter, a
// circuit breaker, a per-attempt timeout and retries on rate-limit refusals.
// Attempt n waits BackoffBase * 2^(n-1) before retrying.
type GuardedAIClient struct {
	inner   domain.AIClient
	cfg     GuardConfig
	breaker *gobreaker.CircuitBreaker[[]byte]
	limiter *rate.Limiter
	metrics *metrics.Metrics
	sleep   func(ctx context.Context, d time.Duration) error
}

var _ domain.AIClient = (*GuardedAIClient)(nil)

func NewGuardedAIClient(inner domain.AIClient, cfg GuardConfig, m *metrics.Metrics) *GuardedAIClient {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
		burst = max(1, cfg.RequestsPerMinute/10)
	}

	name := inner.Name()
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "ai-" + name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// rate limits are handled by backoff and do not open the circuit
		IsSuccessful: func(err error) bool {
			return err == nil || isRateLimited(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("AI circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &GuardedAIClient{
		inner:   inner,
		cfg:     cfg,
		breaker: breaker,
		limiter: rate.NewLimiter(limit, burst),
		metrics: m,
		sleep:   sleepContext,
	}
}

func (g *GuardedAIClient) Name() string { return g.inner.Name() }

// Close releases the wrapped provider, if it holds resources
func (g *GuardedAIClient) Close() error {
	if c, ok := g.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (g *GuardedAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	out, err := g.call(ctx, func(ctx context.Context) ([]byte, error) {
		text, err := g.inner.GenerateText(ctx, prompt)
		return []byte(text), err
	})
	return string(out), err
}

func (g *GuardedAIClient) GenerateStructured(ctx context.Context, prompt string, image []byte) ([]byte, error) {
	return g.call(ctx, func(ctx context.Context) ([]byte, error) {
		return g.inner.GenerateStructured(ctx, prompt, image)
	})
}

func (g *GuardedAIClient) call(ctx context.Context, fn func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	name := g.inner.Name()
	for attempt := 1; ; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, apperrors.NewExternalAPIError(fmt.Errorf("rate limiter: %w", err), name)
		}

		out, err := g.breaker.Execute(func() ([]byte, error) {
			attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
			defer cancel()
			return fn(attemptCtx)
		})
		if err == nil {
			g.metrics.AIRequest(name, metrics.OutcomeSuccess)
			return out, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			g.metrics.AIRequest(name, metrics.OutcomeCircuitOpen)
			return nil, apperrors.NewExternalAPIError(err, name)
		}
		if !isRateLimited(err) {
			g.metrics.AIRequest(name, metrics.OutcomeError)
			return nil, asExternal(err, name)
		}

		g.metrics.AIRequest(name, metrics.OutcomeRateLimited)
		if attempt >= g.cfg.MaxAttempts {
			return nil, asRateLimit(err, name)
		}

		delay := g.cfg.BackoffBase << (attempt - 1)
		logger.WithContext(ctx).Warn("AI rate limited, backing off",
			"provider", name, "attempt", attempt, "delay", delay.String())
		if err := g.sleep(ctx, delay); err != nil {
			return nil, apperrors.NewExternalAPIError(err, name)
		}
	}
}

func asExternal(err error, api string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(err, api+" request")
	}
	return apperrors.NewExternalAPIError(err, api)
}

func asRateLimit(err error, api string) error {
	if apperrors.IsType(err, apperrors.ErrorTypeRateLimit) {
		return err
	}
	return apperrors.NewRateLimitError(err, api)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
