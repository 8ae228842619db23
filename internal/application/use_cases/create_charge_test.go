package use_cases

import (
	"context"
	"errors"
	"testing"

	"github.com/mirola777/idempotent-charges/internal/domain"
	apperrors "github.com/mirola777/idempotent-charges/internal/domain/errors"
	"github.com/mirola777/idempotent-charges/internal/retry"
	"github.com/mirola777/idempotent-charges/internal/utils/fingerprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Charge(ctx context.Context, req domain.ChargeRequest) (domain.ChargeResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.ChargeResult), args.Error(1)
}

type mockChargeRepo struct {
	mock.Mock
}

func (m *mockChargeRepo) Create(ctx context.Context, charge *domain.Charge) error {
	return m.Called(ctx, charge).Error(0)
}

func (m *mockChargeRepo) FindByID(ctx context.Context, id string) (*domain.Charge, error) {
	args := m.Called(ctx, id)
	charge, _ := args.Get(0).(*domain.Charge)
	return charge, args.Error(1)
}

func (m *mockChargeRepo) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Charge, error) {
	args := m.Called(ctx, key)
	charge, _ := args.Get(0).(*domain.Charge)
	return charge, args.Error(1)
}

func validRequest() domain.ChargeRequest {
	return domain.ChargeRequest{
		AmountCents: 85000,
		Currency:    domain.CurrencyIDR,
		CustomerID:  "cus_001",
	}
}

func requireAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestValidateIdempotencyKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
		errCode string
	}{
		{
			name:    "empty key",
			key:     "",
			wantErr: true,
			errCode: "IDEMPOTENCY_KEY_MISSING",
		},
		{
			name:    "valid key",
			key:     "order-001",
			wantErr: false,
		},
		{
			name:    "key too long",
			key:     "aaaaaaaaaabbbbbbbbbbccccccccccddddddddddeeeeeeeeeeffffffffff12345",
			wantErr: true,
			errCode: "IDEMPOTENCY_KEY_TOO_LONG",
		},
		{
			name:    "max length key",
			key:     "aaaaaaaaaabbbbbbbbbbccccccccccddddddddddeeeeeeeeeeffffffffff1234",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateIdempotencyKey(tt.key)
			if tt.wantErr {
				requireAppError(t, err, tt.errCode)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateChargeRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *domain.ChargeRequest)
		errCode string
	}{
		{name: "valid request", mutate: func(r *domain.ChargeRequest) {}},
		{name: "zero amount", mutate: func(r *domain.ChargeRequest) { r.AmountCents = 0 }, errCode: "INVALID_CHARGE_REQUEST"},
		{name: "negative amount", mutate: func(r *domain.ChargeRequest) { r.AmountCents = -100 }, errCode: "INVALID_CHARGE_REQUEST"},
		{name: "missing currency", mutate: func(r *domain.ChargeRequest) { r.Currency = "" }, errCode: "INVALID_CHARGE_REQUEST"},
		{name: "unsupported currency", mutate: func(r *domain.ChargeRequest) { r.Currency = "XYZ" }, errCode: "INVALID_CURRENCY"},
		{name: "missing customer_id", mutate: func(r *domain.ChargeRequest) { r.CustomerID = "" }, errCode: "INVALID_CHARGE_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := validateChargeRequest(req)
			if tt.errCode == "" {
				assert.NoError(t, err)
				return
			}
			requireAppError(t, err, tt.errCode)
		})
	}
}

func TestCreateCharge_FreshChargeIsRecorded(t *testing.T) {
	proc := &mockProcessor{}
	repo := &mockChargeRepo{}
	uc := NewCreateChargeUseCase(proc, repo, zap.NewNop())

	req := validRequest()
	keyed := req
	keyed.IdempotencyKey = "order-1"

	proc.On("Charge", mock.Anything, keyed).Return(domain.ChargeResult{ChargeID: "ch_1001", Attempts: 2}, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Charge) bool {
		return c.ID == "ch_1001" &&
			c.IdempotencyKey == "order-1" &&
			c.AmountCents == req.AmountCents &&
			c.Currency == req.Currency &&
			c.CustomerID == req.CustomerID &&
			c.Attempts == 2 &&
			c.RequestFingerprint == fingerprint.Compute(keyed)
	})).Return(nil).Once()

	result, err := uc.Execute(context.Background(), "order-1", req)

	require.NoError(t, err)
	assert.Equal(t, domain.ChargeResult{ChargeID: "ch_1001", Attempts: 2}, result)
	proc.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestCreateCharge_ReplayIsNotRecordedAgain(t *testing.T) {
	proc := &mockProcessor{}
	repo := &mockChargeRepo{}
	uc := NewCreateChargeUseCase(proc, repo, nil)

	proc.On("Charge", mock.Anything, mock.Anything).
		Return(domain.ChargeResult{ChargeID: "ch_1001", Replayed: true}, nil).Once()

	result, err := uc.Execute(context.Background(), "order-1", validRequest())

	require.NoError(t, err)
	assert.True(t, result.Replayed)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCharge_LedgerFailureDoesNotFailCharge(t *testing.T) {
	proc := &mockProcessor{}
	repo := &mockChargeRepo{}
	uc := NewCreateChargeUseCase(proc, repo, zap.NewNop())

	proc.On("Charge", mock.Anything, mock.Anything).Return(domain.ChargeResult{ChargeID: "ch_1001"}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("database is locked"))

	result, err := uc.Execute(context.Background(), "order-1", validRequest())

	require.NoError(t, err)
	assert.Equal(t, "ch_1001", result.ChargeID)
}

func TestCreateCharge_ProcessorErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "exhausted", err: &retry.ExhaustedError{Attempts: 3, Err: domain.NewTransientGatewayError("upstream timeout")}, target: retry.ErrExhausted},
		{name: "declined", err: domain.NewPermanentGatewayError("insufficient_funds", "card declined"), target: domain.ErrPermanent},
		{name: "busy", err: domain.ErrKeyBusy, target: domain.ErrKeyBusy},
		{name: "cancelled", err: context.Canceled, target: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := &mockProcessor{}
			repo := &mockChargeRepo{}
			uc := NewCreateChargeUseCase(proc, repo, zap.NewNop())
			proc.On("Charge", mock.Anything, mock.Anything).Return(domain.ChargeResult{}, tt.err)

			result, err := uc.Execute(context.Background(), "order-1", validRequest())

			assert.ErrorIs(t, err, tt.target)
			assert.Empty(t, result.ChargeID)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateCharge_InvalidInputNeverReachesProcessor(t *testing.T) {
	proc := &mockProcessor{}
	uc := NewCreateChargeUseCase(proc, &mockChargeRepo{}, zap.NewNop())

	_, err := uc.Execute(context.Background(), "", validRequest())
	requireAppError(t, err, "IDEMPOTENCY_KEY_MISSING")

	bad := validRequest()
	bad.AmountCents = 0
	_, err = uc.Execute(context.Background(), "order-1", bad)
	requireAppError(t, err, "INVALID_CHARGE_REQUEST")

	proc.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}
