package gateway

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mirola777/idempotent-charges/internal/domain"
)

// Customer ids with a forced outcome.
const (
	CustomerInsufficientFunds = "cus_insufficient_funds"
	CustomerCardExpired       = "cus_card_expired"
	CustomerUpstreamTimeout   = "cus_upstream_timeout"
)

// Simulator stands in for a real payment network: it sleeps for a
// simulated latency and fails transiently at the configured rate.
type Simulator struct {
	latency     time.Duration
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

type SimulatorOption func(*Simulator)

func WithLatency(d time.Duration) SimulatorOption {
	return func(s *Simulator) {
		s.latency = d
	}
}

// WithFailureRate sets the probability in [0, 1] that a charge for an
// ordinary customer fails transiently.
func WithFailureRate(rate float64) SimulatorOption {
	return func(s *Simulator) {
		switch {
		case rate < 0:
			rate = 0
		case rate > 1:
			rate = 1
		}
		s.failureRate = rate
	}
}

func WithSeed(seed int64) SimulatorOption {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		latency: 100 * time.Millisecond,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Charge(ctx context.Context, req domain.ChargeRequest) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}

	if err := resolveOutcome(req.CustomerID); err != nil {
		return "", err
	}
	if s.roll() < s.failureRate {
		return "", domain.NewTransientGatewayError("upstream unavailable")
	}

	return "ch_" + uuid.NewString(), nil
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	s.mu.Lock()
	jitter := time.Duration(s.rng.Int63n(int64(s.latency)))
	s.mu.Unlock()

	timer := time.NewTimer(s.latency/2 + jitter)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Simulator) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func resolveOutcome(customerID string) error {
	switch customerID {
	case CustomerInsufficientFunds:
		return domain.NewPermanentGatewayError("insufficient_funds", "card has insufficient funds")
	case CustomerCardExpired:
		return domain.NewPermanentGatewayError("expired_card", "card has expired")
	case CustomerUpstreamTimeout:
		return domain.NewTransientGatewayError("upstream timeout")
	default:
		return nil
	}
}
