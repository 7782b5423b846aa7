// Package retrylimit paces outbound traffic and retries failed connection
// attempts.
//
// The limiter adapts to outcomes: it speeds up while sends succeed and backs
// off when they fail, staying within fixed bounds.
//
//	lim := retrylimit.NewAdaptiveLimiter(1, 0.2, 2, 0.1, 0.5)
//	if err := lim.Wait(ctx); err != nil {
//	    return err
//	}
//	if err := send(); err != nil {
//	    lim.Failure()
//	} else {
//	    lim.Success()
//	}
//
// Retries use exponential backoff with jitter:
//
//	err := retrylimit.Do(ctx, connect, retrylimit.DefaultConfig())
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// =============================================================================
// Limiter
// =============================================================================

// AdaptiveLimiter is a token bucket whose rate moves between min and max.
// Safe for concurrent use.
type AdaptiveLimiter struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	minLimit    rate.Limit
	maxLimit    rate.Limit
	stepUp      rate.Limit
	stepDown    float64
	lastFailure time.Time
	quiet       time.Duration
}

// NewAdaptiveLimiter creates a limiter starting at initial events per second.
// Each success adds stepUp (once failures have been quiet for a while), each
// failure multiplies the rate by stepDown.
func NewAdaptiveLimiter(initial, lo, hi, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if lo <= 0 {
		lo = initial
	}
	if hi < lo {
		hi = lo
	}
	initial = clamp(initial, lo, hi)
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, burstFor(initial)),
		minLimit: lo,
		maxLimit: hi,
		stepUp:   stepUp,
		stepDown: stepDown,
		quiet:    10 * time.Second,
	}
}

// Wait blocks until an event may happen or ctx is done.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success nudges the rate up unless a failure happened recently.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastFailure) > a.quiet {
		a.setLimit(a.limiter.Limit() + a.stepUp)
	}
}

// Failure cuts the rate.
func (a *AdaptiveLimiter) Failure() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastFailure = time.Now()
	a.setLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns events per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) setLimit(l rate.Limit) {
	l = clamp(l, a.minLimit, a.maxLimit)
	if l != a.limiter.Limit() {
		a.limiter.SetLimit(l)
		a.limiter.SetBurst(burstFor(l))
	}
}

func clamp(l, lo, hi rate.Limit) rate.Limit {
	return min(max(l, lo), hi)
}

func burstFor(l rate.Limit) int {
	return max(1, int(l))
}

// =============================================================================
// Retry
// =============================================================================

// FatalError stops Do immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// Fatal wraps err so that Do gives up on it.
func Fatal(err error) error {
	return &FatalError{Err: err}
}

// Config controls Do.
type Config struct {
	MaxAttempts  int // 0 = until ctx is done
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
	OnRetry      func(attempt int, err error, next time.Duration)
}

// DefaultConfig retries forever, from one second up to five minutes.
func DefaultConfig() Config {
	return Config{
		InitialDelay: time.Second,
		MaxDelay:     5 * time.Minute,
		Multiplier:   2,
		Jitter:       true,
	}
}

// Do runs fn until it succeeds, returns a FatalError, ctx is done, or the
// attempt budget runs out.
func Do(ctx context.Context, fn func(ctx context.Context) error, cfg Config) error {
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	delay := cfg.InitialDelay

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				log.Info().Str("component", "retry").Int("attempt", attempt).Msg("succeeded after retry")
			}
			return nil
		}

		var fatal *FatalError
		if errors.As(err, &fatal) {
			return err
		}
		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			return fmt.Errorf("max attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
		}

		wait := delay
		if cfg.Jitter {
			wait = addJitter(delay)
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, wait)
		} else {
			log.Warn().Str("component", "retry").Int("attempt", attempt).Err(err).Dur("sleep", wait).Msg("attempt failed")
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
	}
}

// addJitter adds up to 25% on top of delay.
func addJitter(delay time.Duration) time.Duration {
	if delay < 4 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)))
}
