package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy describes how an operation is retried. Waits grow from
// InitialBackoff by Multiplier and are capped at MaxBackoff.
type Policy struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64

	// Retryable reports whether err is worth another attempt. Nil retries
	// everything except context cancellation and Permanent errors.
	Retryable func(err error) bool

	// OnRetry runs before each wait. attempt is the number of the attempt
	// about to be made (2 for the first retry).
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultLLMPolicy is five attempts with waits of 1s, 2s, 4s, 8s (capped at 10s).
func DefaultLLMPolicy() Policy {
	return Policy{
		MaxAttempts:       5,
		InitialBackoff:    time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2,
	}
}

// Backoff returns the wait before retry n (1-based).
func (p Policy) Backoff(n int) time.Duration {
	wait := float64(p.InitialBackoff)
	for i := 1; i < n; i++ {
		wait *= p.multiplier()
		if time.Duration(wait) >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && time.Duration(wait) > p.MaxBackoff {
		return p.MaxBackoff
	}
	return time.Duration(wait)
}

func (p Policy) multiplier() float64 {
	if p.BackoffMultiplier <= 1 {
		return 2
	}
	return p.BackoffMultiplier
}

func (p Policy) shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return false
	}
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return true
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op until it succeeds, the policy gives up or ctx is done. The error
// from the last attempt is returned unwrapped.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialBackoff
	b.MaxInterval = p.MaxBackoff
	b.Multiplier = p.multiplier()
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	attempt := 0
	wrapped := func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !p.shouldRetry(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err, wait)
		}
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
	err := backoff.RetryNotify(wrapped, bo, notify)
	if err == nil {
		return nil
	}
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}
