package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "charges"

// Charge outcomes.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeReplayed  = "replayed"
	OutcomeDeclined  = "declined"
	OutcomeExhausted = "exhausted"
	OutcomeBusy      = "busy"
	OutcomeError     = "error"
)

// Gateway attempt results.
const (
	AttemptSuccess   = "success"
	AttemptTransient = "transient"
	AttemptPermanent = "permanent"
	AttemptError     = "error"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	charges         *prometheus.CounterVec
	gatewayAttempts *prometheus.CounterVec
	retryBackoff    prometheus.Histogram
	lockWait        prometheus.Histogram

	recordCount atomic.Pointer[func() int]
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		charges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "total",
			Help:      "Charge calls by outcome.",
		}, []string{"outcome"}),
		gatewayAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_attempts_total",
			Help:      "Gateway charge invocations by result.",
		}, []string{"result"}),
		retryBackoff: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retry_backoff_seconds",
			Help:      "Backoff delays applied between gateway attempts.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		lockWait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "key_lock_wait_seconds",
			Help:      "Time spent waiting for an idempotency key lock.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "idempotency_records",
		Help:      "Committed idempotency records held in memory.",
	}, m.records)

	return m
}

// TrackRecords sets the source of the idempotency_records gauge. A later
// call replaces the earlier source.
func (m *Metrics) TrackRecords(count func() int) {
	if m == nil || count == nil {
		return
	}
	m.recordCount.Store(&count)
}

func (m *Metrics) records() float64 {
	count := m.recordCount.Load()
	if count == nil {
		return 0
	}
	return float64((*count)())
}

func (m *Metrics) ObserveCharge(outcome string) {
	if m == nil {
		return
	}
	m.charges.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveGatewayAttempt(result string) {
	if m == nil {
		return
	}
	m.gatewayAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRetry(delay time.Duration) {
	if m == nil {
		return
	}
	m.retryBackoff.Observe(delay.Seconds())
}

func (m *Metrics) ObserveLockWait(d time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.Observe(d.Seconds())
}
