package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTransient = errors.New("transient gateway failure")
	ErrPermanent = errors.New("permanent gateway failure")

	// ErrKeyBusy is returned when another call held the idempotency key
	// for longer than the configured lock timeout.
	ErrKeyBusy = errors.New("idempotency key is busy")
)

type TransientGatewayError struct {
	Reason string
}

func NewTransientGatewayError(reason string) *TransientGatewayError {
	return &TransientGatewayError{Reason: reason}
}

func (e *TransientGatewayError) Error() string {
	return fmt.Sprintf("transient gateway error: %s", e.Reason)
}

func (e *TransientGatewayError) Is(target error) bool {
	return target == ErrTransient
}

type PermanentGatewayError struct {
	Code   string
	Reason string
}

func NewPermanentGatewayError(code, reason string) *PermanentGatewayError {
	return &PermanentGatewayError{Code: code, Reason: reason}
}

func (e *PermanentGatewayError) Error() string {
	return fmt.Sprintf("permanent gateway error: %s: %s", e.Code, e.Reason)
}

func (e *PermanentGatewayError) Is(target error) bool {
	return target == ErrPermanent
}
