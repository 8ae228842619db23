package migrations

import (
	"github.com/mirola777/idempotent-charges/internal/domain"
	"gorm.io/gorm"
)

const chargeKeyIndex = "idx_charges_idempotency_key"

func init() {
	Register(Migration{
		ID: "002_charge_attempts_and_key_index",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&domain.Charge{}); err != nil {
				return err
			}

			// 001 created the key index as unique on older schemas.
			m := tx.Migrator()
			if m.HasIndex(&domain.Charge{}, chargeKeyIndex) {
				if err := m.DropIndex(&domain.Charge{}, chargeKeyIndex); err != nil {
					return err
				}
			}
			return m.CreateIndex(&domain.Charge{}, "IdempotencyKey")
		},
	})
}
