// Package retry implements exponential backoff for transient failures.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Policy controls backoff behavior.
type Policy struct {
	Attempts int           // maximum attempts (0 = unbounded)
	BaseWait time.Duration // wait before the second attempt
	MaxWait  time.Duration // backoff ceiling
	Factor   float64       // growth factor per attempt
	Jitter   float64       // fraction of the wait randomized (0-1)
}

// DefaultPolicy returns sensible defaults for interactive use.
func DefaultPolicy() Policy {
	return Policy{
		Attempts: 3,
		BaseWait: 100 * time.Millisecond,
		MaxWait:  10 * time.Second,
		Factor:   2.0,
		Jitter:   0.1,
	}
}

// transientError marks an error as worth retrying.
type transientError struct {
	err error
}

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient wraps an error to mark it as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

// IsTransient reports whether the error was marked with Transient.
func IsTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

// Do runs fn, retrying transient errors per the policy.
func Do(ctx context.Context, p Policy, fn func() error) error {
	_, err := DoValue(ctx, p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoValue runs fn and returns its result, retrying transient errors.
func DoValue[T any](ctx context.Context, p Policy, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; p.Attempts == 0 || attempt <= p.Attempts; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !IsTransient(err) {
			return zero, err
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		wait := float64(p.BaseWait) * math.Pow(p.Factor, float64(attempt-1))
		if wait > float64(p.MaxWait) {
			wait = float64(p.MaxWait)
		}
		if p.Jitter > 0 {
			wait += wait * p.Jitter * (rand.Float64()*2 - 1)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(time.Duration(wait)):
		}
	}

	return zero, lastErr
}
