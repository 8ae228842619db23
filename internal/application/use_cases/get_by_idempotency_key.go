package use_cases

import (
	"context"

	"github.com/mirola777/idempotent-charges/internal/domain"
	apperrors "github.com/mirola777/idempotent-charges/internal/domain/errors"
)

// GetByIdempotencyKeyUseCase reads the idempotency store, not the ledger.
type GetByIdempotencyKeyUseCase struct {
	records domain.IdempotencyReader
}

func NewGetByIdempotencyKeyUseCase(records domain.IdempotencyReader) *GetByIdempotencyKeyUseCase {
	return &GetByIdempotencyKeyUseCase{
		records: records,
	}
}

func (uc *GetByIdempotencyKeyUseCase) Execute(_ context.Context, key string) (*domain.IdempotencyRecord, error) {
	record, ok := uc.records.Get(key)
	if !ok {
		return nil, apperrors.ErrIdempotencyKeyNotFound()
	}
	return &record, nil
}
