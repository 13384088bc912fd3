package throttle

import (
	"context"
	"time"

	drepo "ListingPulse/internal/domain/repository"
	xhttp "ListingPulse/pkg/http"
	applogger "ListingPulse/pkg/logger"

	"golang.org/x/time/rate"
)

// Executor paces every upstream call behind one process-wide minimum
// interval and retries only rate-limit rejections. The upstream quota is
// per-credential, so the pacing gate is shared by all callers: the rate
// limiter (interval rate, burst 1) is the single serialization point.
type Executor struct {
	pace        *rate.Limiter
	maxRetries  int
	backoffBase time.Duration
	logger      *applogger.Logger
	metrics     drepo.Metrics
}

// Option configures Executor.
type Option func(*Executor)

// New creates an Executor with the given minimum spacing between calls.
func New(minInterval time.Duration, opts ...Option) *Executor {
	if minInterval <= 0 {
		minInterval = 350 * time.Millisecond
	}
	e := &Executor{
		pace:        rate.NewLimiter(rate.Every(minInterval), 1),
		maxRetries:  3,
		backoffBase: time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithMaxRetries sets how many rate-limit rejections are retried.
func WithMaxRetries(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxRetries = n
		}
	}
}

// WithBackoffBase sets the linear backoff unit (delay = base * attempt).
func WithBackoffBase(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.backoffBase = d
		}
	}
}

// WithLogger attaches a logger for retry visibility.
func WithLogger(l *applogger.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m drepo.Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// Execute runs op behind the pacing gate. A rate-limited rejection (HTTP 429)
// is retried with linear backoff up to the configured retry budget; any other
// error propagates immediately. The last rate-limit error is returned once the
// budget is exhausted.
func Execute[T any](ctx context.Context, e *Executor, source string, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if err := e.pace.Wait(ctx); err != nil {
			return zero, err
		}
		if e.metrics != nil {
			e.metrics.RecordUpstreamCall(source)
		}

		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if !xhttp.IsTooManyRequests(err) || attempt >= e.maxRetries {
			return zero, err
		}

		if e.metrics != nil {
			e.metrics.RecordRetry(source)
		}
		delay := e.backoffBase * time.Duration(attempt+1)
		if e.logger != nil {
			e.logger.Warn("upstream rate limited, backing off",
				applogger.String("source", source),
				applogger.Int("attempt", attempt+1),
				applogger.Duration("delay_ms", delay),
			)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}
