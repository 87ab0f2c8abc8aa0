package gateway

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"golang.org/x/sync/singleflight"
)

// Request describes a single completion call.
type Request struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}

// Completer issues one outbound call to a completion provider and returns
// the raw model output text. Implementations classify failures using the
// gateway error taxonomy.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Options configures retry, timeout, and rate-limit policy for a Gateway.
type Options struct {
	MaxRetries     int           // retries after the first attempt
	BaseDelay      time.Duration // backoff base
	MaxDelay       time.Duration // backoff cap
	RequestTimeout time.Duration // per-submit budget
	RateLimit      int           // admissions per window; <=0 disables
	RateWindow     time.Duration
}

// DefaultOptions returns the production retry/limit policy.
func DefaultOptions() Options {
	return Options{
		MaxRetries:     3,
		BaseDelay:      500 * time.Millisecond,
		MaxDelay:       10 * time.Second,
		RequestTimeout: 60 * time.Second,
		RateLimit:      10,
		RateWindow:     time.Minute,
	}
}

// Gateway composes the rate limiter and request deduplicator with the
// retry/backoff/timeout policy around a Completer. All mutable state is
// owned by the instance so tests can construct isolated gateways.
type Gateway struct {
	completer Completer
	limiter   *SlidingWindowLimiter
	flight    singleflight.Group
	opts      Options

	sleep  func(context.Context, time.Duration) error
	jitter func(time.Duration) time.Duration
}

// New creates a Gateway around the given completer.
func New(completer Completer, opts Options) *Gateway {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 10 * time.Second
	}
	return &Gateway{
		completer: completer,
		limiter:   NewSlidingWindowLimiter(opts.RateLimit, opts.RateWindow),
		opts:      opts,
		sleep:     sleepContext,
		jitter:    randomJitter,
	}
}

// Submit issues the request through the full outbound lifecycle and returns
// the raw response text. Concurrent submissions with an identical
// fingerprint share a single underlying call and observe the same result;
// the fingerprint is forgotten as soon as that call completes.
func (g *Gateway) Submit(ctx context.Context, req Request) (string, error) {
	if err := g.limiter.Acquire(ctx); err != nil {
		return "", err
	}

	key := Fingerprint(req)
	result, err, shared := g.flight.Do(key, func() (any, error) {
		return g.dispatch(ctx, req)
	})
	g.flight.Forget(key)
	if shared {
		log.Printf("gateway: request %s joined in-flight call", key[:8])
	}
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// dispatch runs the retry loop for one underlying call under the submit
// timeout budget.
func (g *Gateway) dispatch(ctx context.Context, req Request) (string, error) {
	if g.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.RequestTimeout)
		defer cancel()
	}

	var lastErr error
	attempts := 0
	for attempt := 0; ; attempt++ {
		attempts++
		text, err := g.completer.Complete(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		timedOut := isTimeout(ctx, err)
		if !timedOut && !IsRetryable(err) {
			// ClientError/ConfigurationError surface immediately.
			return "", err
		}

		if attempt >= g.opts.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			// Budget already spent; further attempts cannot run.
			break
		}

		delay := g.backoffDelay(attempt, err)
		log.Printf("gateway: retry attempt=%d delay=%s error=%v", attempt+1, delay, err)
		if err := g.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}

	if isTimeout(ctx, lastErr) {
		return "", &TimeoutError{Attempts: attempts, Cause: lastErr}
	}
	var transient *TransientError
	if errors.As(lastErr, &transient) {
		return "", &TransientError{
			StatusCode: transient.StatusCode,
			Exhausted:  true,
			Attempts:   attempts,
			Cause:      lastErr,
		}
	}
	return "", &TransientError{Exhausted: true, Attempts: attempts, Cause: lastErr}
}

// backoffDelay computes min(base*2^attempt + jitter, maxDelay), preferring
// a server-supplied Retry-After duration when present.
func (g *Gateway) backoffDelay(attempt int, err error) time.Duration {
	var transient *TransientError
	if errors.As(err, &transient) && transient.RetryAfter > 0 {
		return transient.RetryAfter
	}

	delay := g.opts.BaseDelay << uint(attempt)
	delay += g.jitter(g.opts.BaseDelay)
	if delay > g.opts.MaxDelay {
		delay = g.opts.MaxDelay
	}
	return delay
}

func randomJitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(base)))
}

// isTimeout reports whether the submit budget or the underlying call's
// deadline expired.
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeout *TimeoutError
	return errors.As(err, &timeout)
}
