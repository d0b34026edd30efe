package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// WithRetry wraps p so failed calls are repeated with exponential backoff.
// Rejected calls are returned at once and an empty reply is asked again only
// once.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retrying{inner: p, cfg: cfg, jitter: rand.Float64}
}

type retrying struct {
	inner  Provider
	cfg    RetryConfig
	jitter func() float64
}

func (r *retrying) Chat(ctx context.Context, req ChatRequest) (*Reply, error) {
	attempts := max(r.cfg.MaxAttempts, 1)
	emptyRetried := false

	for attempt := 1; ; attempt++ {
		reply, err := r.once(ctx, req)
		if err == nil {
			return reply, nil
		}
		if attempt == attempts || ctx.Err() != nil {
			return nil, err
		}

		var e *Error
		if errors.As(err, &e) {
			if e.Kind == KindRejected {
				return nil, err
			}
			if e.Kind == KindEmpty {
				if emptyRetried {
					return nil, err
				}
				emptyRetried = true
			}
		}

		select {
		case <-ctx.Done():
			return nil, err
		case <-time.After(r.delay(attempt, e)):
		}
	}
}

// once makes a single call, bounded by the per-attempt timeout when one is set.
func (r *retrying) once(ctx context.Context, req ChatRequest) (*Reply, error) {
	if r.cfg.AttemptTimeout <= 0 {
		return r.inner.Chat(ctx, req)
	}
	ctx, cancel := context.WithTimeout(ctx, r.cfg.AttemptTimeout)
	defer cancel()
	return r.inner.Chat(ctx, req)
}

func (r *retrying) ModelID() string {
	return r.inner.ModelID()
}

// delay is the pause after the given failed attempt (1-based). A server
// supplied Retry-After wins over the backoff schedule.
func (r *retrying) delay(attempt int, e *Error) time.Duration {
	if e != nil && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	mult := r.cfg.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(r.cfg.InitialWait)
	for range attempt - 1 {
		d *= mult
	}
	if r.cfg.MaxWait > 0 {
		d = min(d, float64(r.cfg.MaxWait))
	}
	// ±20%
	d += d * 0.2 * (2*r.jitter() - 1)
	return time.Duration(max(d, 0))
}
