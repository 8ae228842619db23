package use_cases

import (
	"context"

	"github.com/mirola777/idempotent-charges/internal/domain"
	apperrors "github.com/mirola777/idempotent-charges/internal/domain/errors"
)

type GetChargeUseCase struct {
	chargeRepo domain.ChargeRepository
}

func NewGetChargeUseCase(chargeRepo domain.ChargeRepository) *GetChargeUseCase {
	return &GetChargeUseCase{
		chargeRepo: chargeRepo,
	}
}

func (uc *GetChargeUseCase) Execute(ctx context.Context, chargeID string) (*domain.Charge, error) {
	charge, err := uc.chargeRepo.FindByID(ctx, chargeID)
	if err != nil {
		return nil, apperrors.ErrInternal().WithCause(err)
	}
	if charge == nil {
		return nil, apperrors.ErrChargeNotFound()
	}
	return charge, nil
}
