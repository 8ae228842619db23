// Package retry runs fallible operations with bounded attempts and
// geometric backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted matches every *ExhaustedError.
var ErrExhausted = errors.New("retry exhausted")

// ExhaustedError is returned when a retryable error persisted through
// every allowed attempt. It unwraps to the last error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// Observer is notified before each backoff wait.
type Observer interface {
	OnRetry(attempt int, delay time.Duration, err error)
}

type ObserverFunc func(attempt int, delay time.Duration, err error)

func (f ObserverFunc) OnRetry(attempt int, delay time.Duration, err error) {
	f(attempt, delay, err)
}

type Operation func(ctx context.Context) error
type OperationValue[T any] func(ctx context.Context) (T, error)

type Executor struct {
	policy   Policy
	waiter   Waiter
	observer Observer
}

type Option func(*Executor)

func WithWaiter(w Waiter) Option {
	return func(e *Executor) {
		if w != nil {
			e.waiter = w
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Executor) {
		e.observer = o
	}
}

func NewExecutor(policy Policy, opts ...Option) *Executor {
	e := &Executor{
		policy: policy.normalize(),
		waiter: SleepWaiter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Policy() Policy {
	return e.policy
}

func (e *Executor) Run(ctx context.Context, op Operation) error {
	_, err := Do(ctx, e, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Do calls op until it succeeds, fails with a non-retryable error, or
// has been called Policy.MaxAttempts times. The delay after attempt n is
// Policy.Delay(n); no delay follows the final attempt.
func Do[T any](ctx context.Context, e *Executor, op OperationValue[T]) (T, error) {
	var zero T

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		val, err := op(ctx)
		if err == nil {
			return val, nil
		}

		if !e.policy.Retryable(err) {
			return zero, err
		}
		if attempt >= e.policy.MaxAttempts {
			return zero, &ExhaustedError{Attempts: attempt, Err: err}
		}

		delay := e.policy.Delay(attempt)
		if e.observer != nil {
			e.observer.OnRetry(attempt, delay, err)
		}
		if err := e.waiter.Wait(ctx, delay); err != nil {
			return zero, err
		}
	}
}
