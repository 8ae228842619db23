package use_cases

import (
	"context"

	"github.com/mirola777/idempotent-charges/internal/domain"
	apperrors "github.com/mirola777/idempotent-charges/internal/domain/errors"
	"github.com/mirola777/idempotent-charges/internal/infrastructure/logging"
	"github.com/mirola777/idempotent-charges/internal/utils/fingerprint"
	"go.uber.org/zap"
)

const maxIdempotencyKeyLength = 64

type CreateChargeUseCase struct {
	processor  domain.ChargeProcessor
	chargeRepo domain.ChargeRepository
	logger     *zap.Logger
}

func NewCreateChargeUseCase(
	processor domain.ChargeProcessor,
	chargeRepo domain.ChargeRepository,
	logger *zap.Logger,
) *CreateChargeUseCase {
	return &CreateChargeUseCase{
		processor:  processor,
		chargeRepo: chargeRepo,
		logger:     logging.OrNop(logger),
	}
}

// Execute validates req and charges it under idempotencyKey. Processor
// errors are returned as they are; the transport maps them.
func (uc *CreateChargeUseCase) Execute(ctx context.Context, idempotencyKey string, req domain.ChargeRequest) (domain.ChargeResult, error) {
	if err := validateIdempotencyKey(idempotencyKey); err != nil {
		return domain.ChargeResult{}, err
	}
	if err := validateChargeRequest(req); err != nil {
		return domain.ChargeResult{}, err
	}

	req.IdempotencyKey = idempotencyKey
	result, err := uc.processor.Charge(ctx, req)
	if err != nil {
		return domain.ChargeResult{}, err
	}

	if !result.Replayed {
		uc.recordCharge(ctx, result, req)
	}
	return result, nil
}

// The charge already succeeded upstream and is held by the idempotency
// store, so a ledger failure is only logged.
func (uc *CreateChargeUseCase) recordCharge(ctx context.Context, result domain.ChargeResult, req domain.ChargeRequest) {
	if uc.chargeRepo == nil {
		return
	}

	charge := &domain.Charge{
		ID:                 result.ChargeID,
		IdempotencyKey:     req.IdempotencyKey,
		AmountCents:        req.AmountCents,
		Currency:           req.Currency,
		CustomerID:         req.CustomerID,
		RequestFingerprint: fingerprint.Compute(req),
		Attempts:           result.Attempts,
	}
	if err := uc.chargeRepo.Create(ctx, charge); err != nil {
		uc.logger.Error("failed to record charge in ledger",
			zap.String("charge_id", result.ChargeID),
			zap.String("idempotency_key", req.IdempotencyKey),
			zap.Error(err),
		)
	}
}

func validateIdempotencyKey(key string) error {
	if key == "" {
		return apperrors.ErrIdempotencyKeyMissing()
	}
	if len(key) > maxIdempotencyKeyLength {
		return apperrors.ErrIdempotencyKeyTooLong()
	}
	return nil
}

func validateChargeRequest(req domain.ChargeRequest) error {
	if req.AmountCents <= 0 {
		return apperrors.ErrInvalidChargeRequest("amount_cents must be greater than 0")
	}
	if req.Currency == "" {
		return apperrors.ErrInvalidChargeRequest("currency is required")
	}
	if !domain.ValidCurrencies[req.Currency] {
		return apperrors.ErrInvalidCurrency(string(req.Currency))
	}
	if req.CustomerID == "" {
		return apperrors.ErrInvalidChargeRequest("customer_id is required")
	}
	return nil
}
