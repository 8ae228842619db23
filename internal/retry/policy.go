package retry

import (
	"errors"
	"math"
	"time"
)

// Policy is the immutable configuration of an Executor. An error is
// retried when errors.Is matches it against any entry in RetryOn.
type Policy struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	BackoffFactor float64
	RetryOn       []error
}

const (
	DefaultMaxAttempts   = 3
	DefaultBaseDelay     = 200 * time.Millisecond
	DefaultBackoffFactor = 2.0
)

func DefaultPolicy(retryOn ...error) Policy {
	return Policy{
		MaxAttempts:   DefaultMaxAttempts,
		BaseDelay:     DefaultBaseDelay,
		BackoffFactor: DefaultBackoffFactor,
		RetryOn:       retryOn,
	}
}

// Delay returns the wait applied after the given failed attempt (1-based):
// BaseDelay * BackoffFactor^(attempt-1).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.BaseDelay) * math.Pow(p.BackoffFactor, float64(attempt-1))
	if d <= 0 {
		return 0
	}
	if d > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

func (p Policy) Retryable(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range p.RetryOn {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (p Policy) normalize() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BackoffFactor <= 0 {
		p.BackoffFactor = 1
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	p.RetryOn = append([]error(nil), p.RetryOn...)
	return p
}
