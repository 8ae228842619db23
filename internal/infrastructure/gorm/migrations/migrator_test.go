package migrations

import (
	"errors"
	"testing"

	"github.com/mirola777/idempotent-charges/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestMigrationRecordTableName(t *testing.T) {
	record := MigrationRecord{}
	assert.Equal(t, "schema_migrations", record.TableName())
}

func TestRegisterAddsMigrationToRegistry(t *testing.T) {
	original := registry
	defer func() { registry = original }()

	registry = nil

	Register(Migration{ID: "test_001"})
	assert.Len(t, registry, 1)
	assert.Equal(t, "test_001", registry[0].ID)

	Register(Migration{ID: "test_002"})
	assert.Len(t, registry, 2)
	assert.Equal(t, "test_002", registry[1].ID)
}

func TestRun_CreatesChargesTable(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Run(db, zap.NewNop()))

	assert.True(t, db.Migrator().HasTable(&domain.Charge{}))
	assert.True(t, db.Migrator().HasColumn(&domain.Charge{}, "Attempts"))
	assert.True(t, db.Migrator().HasIndex(&domain.Charge{}, "idx_charges_idempotency_key"))

	var count int64
	require.NoError(t, db.Model(&MigrationRecord{}).
		Where("migration_id IN ?", []string{"001_create_charges", "002_charge_attempts_and_key_index"}).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRun_KeyIndexAllowsRepeatedKeys(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Run(db, zap.NewNop()))

	first := domain.Charge{ID: "ch_1001", IdempotencyKey: "order-1", AmountCents: 100, Currency: domain.CurrencyUSD, CustomerID: "cus_001", RequestFingerprint: "fp", Attempts: 1}
	second := first
	second.ID = "ch_1002"

	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)
}

func TestRun_SkipsAppliedMigrations(t *testing.T) {
	original := registry
	defer func() { registry = original }()

	calls := 0
	registry = []Migration{{
		ID: "counting",
		Migrate: func(tx *gorm.DB) error {
			calls++
			return nil
		},
	}}

	db := openMemory(t)
	require.NoError(t, Run(db, nil))
	require.NoError(t, Run(db, nil))

	assert.Equal(t, 1, calls)
}

func TestRun_FailedMigrationIsNotRecorded(t *testing.T) {
	original := registry
	defer func() { registry = original }()

	registry = []Migration{{
		ID: "broken",
		Migrate: func(tx *gorm.DB) error {
			return errors.New("boom")
		},
	}}

	db := openMemory(t)
	err := Run(db, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration broken failed")
	var count int64
	require.NoError(t, db.Model(&MigrationRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}
