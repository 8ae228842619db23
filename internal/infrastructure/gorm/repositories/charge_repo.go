package repositories

import (
	"context"
	"errors"

	"github.com/mirola777/idempotent-charges/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChargeRepo struct {
	db *gorm.DB
}

func NewChargeRepo(db *gorm.DB) domain.ChargeRepository {
	return &ChargeRepo{db: db}
}

// Create inserts charge. A row with the same id is left untouched. An
// idempotency key may appear on several rows once its record has expired
// and the key was charged again.
func (r *ChargeRepo) Create(ctx context.Context, charge *domain.Charge) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(charge).Error
}

func (r *ChargeRepo) FindByID(ctx context.Context, id string) (*domain.Charge, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByIdempotencyKey returns the most recent charge made under key.
func (r *ChargeRepo) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Charge, error) {
	return r.findOne(ctx, "idempotency_key = ?", key)
}

func (r *ChargeRepo) findOne(ctx context.Context, query string, arg string) (*domain.Charge, error) {
	var charge domain.Charge
	err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("created_at DESC").
		Order("id DESC").
		First(&charge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &charge, nil
}
