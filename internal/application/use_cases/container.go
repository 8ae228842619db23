package use_cases

import (
	"context"
	"time"

	"github.com/mirola777/idempotent-charges/internal/application/processor"
	"github.com/mirola777/idempotent-charges/internal/domain"
	"github.com/mirola777/idempotent-charges/internal/idempotency"
	"github.com/mirola777/idempotent-charges/internal/infrastructure/gateway"
	"github.com/mirola777/idempotent-charges/internal/infrastructure/gorm/repositories"
	"github.com/mirola777/idempotent-charges/internal/infrastructure/logging"
	"github.com/mirola777/idempotent-charges/internal/infrastructure/metrics"
	"github.com/mirola777/idempotent-charges/internal/retry"
	"github.com/mirola777/idempotent-charges/internal/utils/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Container struct {
	CreateCharge        *CreateChargeUseCase
	GetCharge           *GetChargeUseCase
	GetByIdempotencyKey *GetByIdempotencyKeyUseCase

	Store *idempotency.Store

	// PingLedger reports whether the charge ledger database is reachable.
	PingLedger func(ctx context.Context) error
}

type ContainerOption func(*containerDeps)

type containerDeps struct {
	gateway domain.Gateway
	waiter  retry.Waiter
}

// WithGateway replaces the simulator built from the configuration.
func WithGateway(gw domain.Gateway) ContainerOption {
	return func(d *containerDeps) {
		d.gateway = gw
	}
}

func WithRetryWaiter(w retry.Waiter) ContainerOption {
	return func(d *containerDeps) {
		d.waiter = w
	}
}

// NewContainer wires the charge use cases. When a record TTL is
// configured, expired records are swept every cfg.CleanupInterval until
// ctx is cancelled.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, opts ...ContainerOption) *Container {
	logger = logging.OrNop(logger)

	deps := &containerDeps{}
	for _, opt := range opts {
		opt(deps)
	}
	if deps.gateway == nil {
		deps.gateway = gateway.NewSimulator(
			gateway.WithLatency(cfg.GatewayLatency),
			gateway.WithFailureRate(cfg.GatewayFailureRate),
		)
	}

	store := idempotency.NewStore(idempotency.WithTTL(cfg.IdempotencyKeyTTL))
	m.TrackRecords(store.Len)

	policy := retry.Policy{
		MaxAttempts:   cfg.RetryMaxAttempts,
		BaseDelay:     cfg.RetryBaseDelay,
		BackoffFactor: cfg.RetryBackoffFactor,
		RetryOn:       []error{domain.ErrTransient},
	}

	chargeProcessor := processor.New(deps.gateway,
		processor.WithStore(store),
		processor.WithPolicy(policy),
		processor.WithWaiter(deps.waiter),
		processor.WithLockTimeout(cfg.LockTimeout),
		processor.WithLogger(logger.Named("processor")),
		processor.WithMetrics(m),
	)

	chargeRepo := repositories.NewChargeRepo(db)

	if cfg.IdempotencyKeyTTL > 0 && cfg.CleanupInterval > 0 {
		go startCleanupLoop(ctx, store, cfg.CleanupInterval, logger.Named("cleanup"))
	}

	return &Container{
		CreateCharge:        NewCreateChargeUseCase(chargeProcessor, chargeRepo, logger.Named("create_charge")),
		GetCharge:           NewGetChargeUseCase(chargeRepo),
		GetByIdempotencyKey: NewGetByIdempotencyKeyUseCase(store),
		Store:               store,
		PingLedger:          pingFunc(db),
	}
}

func pingFunc(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func startCleanupLoop(ctx context.Context, store *idempotency.Store, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if cleaned := store.DeleteExpired(); cleaned > 0 {
				logger.Info("cleaned expired idempotency records", zap.Int("count", cleaned))
			}
		}
	}
}
