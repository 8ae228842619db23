// Package processor charges customers through a Gateway with at most one
// recorded success per idempotency key.
package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mirola777/idempotent-charges/internal/domain"
	"github.com/mirola777/idempotent-charges/internal/idempotency"
	"github.com/mirola777/idempotent-charges/internal/infrastructure/logging"
	"github.com/mirola777/idempotent-charges/internal/infrastructure/metrics"
	"github.com/mirola777/idempotent-charges/internal/retry"
	"github.com/mirola777/idempotent-charges/internal/utils/fingerprint"
	"go.uber.org/zap"
)

type Processor struct {
	gateway     domain.Gateway
	store       *idempotency.Store
	executor    *retry.Executor
	lockTimeout time.Duration
	logger      *zap.Logger
	metrics     *metrics.Metrics

	policy retry.Policy
	waiter retry.Waiter
}

type Option func(*Processor)

func WithStore(store *idempotency.Store) Option {
	return func(p *Processor) {
		p.store = store
	}
}

func WithPolicy(policy retry.Policy) Option {
	return func(p *Processor) {
		p.policy = policy
	}
}

func WithWaiter(w retry.Waiter) Option {
	return func(p *Processor) {
		p.waiter = w
	}
}

// WithExecutor replaces the executor built from WithPolicy and WithWaiter.
// Retries made by it are not logged or counted.
func WithExecutor(exec *retry.Executor) Option {
	return func(p *Processor) {
		p.executor = exec
	}
}

// WithLockTimeout bounds the wait for a busy idempotency key. Zero waits
// until the holder releases the key or ctx ends.
func WithLockTimeout(d time.Duration) Option {
	return func(p *Processor) {
		p.lockTimeout = d
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

func New(gateway domain.Gateway, opts ...Option) *Processor {
	p := &Processor{
		gateway: gateway,
		policy:  retry.DefaultPolicy(domain.ErrTransient),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.logger = logging.OrNop(p.logger)
	if p.store == nil {
		p.store = idempotency.NewStore()
	}
	if p.executor == nil {
		p.executor = retry.NewExecutor(p.policy,
			retry.WithWaiter(p.waiter),
			retry.WithObserver(retry.ObserverFunc(p.onRetry)),
		)
	}
	return p
}

func (p *Processor) Store() *idempotency.Store {
	return p.store
}

// Charge returns the charge recorded for req.IdempotencyKey, or charges
// through the gateway and records the result. Calls sharing a key are
// serialized; a failed charge records nothing, so the key may be retried.
func (p *Processor) Charge(ctx context.Context, req domain.ChargeRequest) (domain.ChargeResult, error) {
	key := req.IdempotencyKey
	log := p.logger.With(zap.String("idempotency_key", key))

	lock := p.store.LockFor(key)
	if err := p.acquire(ctx, lock); err != nil {
		p.metrics.ObserveCharge(outcomeFor(err))
		log.Warn("idempotency key not acquired", zap.Error(err))
		return domain.ChargeResult{}, err
	}
	defer lock.Unlock()

	if record, ok := p.store.Get(key); ok {
		p.metrics.ObserveCharge(metrics.OutcomeReplayed)
		log.Info("charge replayed", zap.String("charge_id", record.ChargeID))
		return domain.ChargeResult{ChargeID: record.ChargeID, Replayed: true}, nil
	}

	attempts := 0
	chargeID, err := retry.Do(ctx, p.executor, func(ctx context.Context) (string, error) {
		attempts++
		id, err := p.gateway.Charge(ctx, req)
		p.metrics.ObserveGatewayAttempt(attemptResult(err))
		return id, err
	})
	if err != nil {
		p.metrics.ObserveCharge(outcomeFor(err))
		log.Warn("charge failed", zap.Int("attempts", attempts), zap.Error(err))
		return domain.ChargeResult{}, err
	}

	if !p.store.Put(domain.IdempotencyRecord{
		Key:         key,
		ChargeID:    chargeID,
		Fingerprint: fingerprint.Compute(req),
	}) {
		log.Error("idempotency record committed while key was held", zap.String("charge_id", chargeID))
	}

	p.metrics.ObserveCharge(metrics.OutcomeSucceeded)
	log.Info("charge succeeded",
		zap.String("charge_id", chargeID),
		zap.Int64("amount_cents", req.AmountCents),
		zap.String("currency", string(req.Currency)),
		zap.Int("attempts", attempts),
	)
	return domain.ChargeResult{ChargeID: chargeID, Attempts: attempts}, nil
}

func (p *Processor) acquire(ctx context.Context, lock *idempotency.KeyLock) error {
	start := time.Now()
	defer func() {
		p.metrics.ObserveLockWait(time.Since(start))
	}()

	if p.lockTimeout <= 0 {
		return lock.LockContext(ctx)
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.lockTimeout)
	defer cancel()

	err := lock.LockContext(waitCtx)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("%w: waited %s", domain.ErrKeyBusy, p.lockTimeout)
	}
	return err
}

func (p *Processor) onRetry(attempt int, delay time.Duration, err error) {
	p.metrics.ObserveRetry(delay)
	p.logger.Info("retrying gateway charge",
		zap.Int("attempt", attempt),
		zap.Duration("backoff", delay),
		zap.Error(err),
	)
}

func attemptResult(err error) string {
	switch {
	case err == nil:
		return metrics.AttemptSuccess
	case errors.Is(err, domain.ErrTransient):
		return metrics.AttemptTransient
	case errors.Is(err, domain.ErrPermanent):
		return metrics.AttemptPermanent
	default:
		return metrics.AttemptError
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, retry.ErrExhausted):
		return metrics.OutcomeExhausted
	case errors.Is(err, domain.ErrPermanent):
		return metrics.OutcomeDeclined
	case errors.Is(err, domain.ErrKeyBusy):
		return metrics.OutcomeBusy
	default:
		return metrics.OutcomeError
	}
}
