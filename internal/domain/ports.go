package domain

import "context"

// Gateway is the upstream payment network. Charge returns the charge id
// assigned upstream, a *TransientGatewayError when the call may be
// retried, or a *PermanentGatewayError when it was rejected.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (string, error)
}

type ChargeProcessor interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

type IdempotencyReader interface {
	Get(key string) (IdempotencyRecord, bool)
}

type ChargeRepository interface {
	Create(ctx context.Context, charge *Charge) error
	FindByID(ctx context.Context, id string) (*Charge, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*Charge, error)
}
