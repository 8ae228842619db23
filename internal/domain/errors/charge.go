package errors

import "net/http"

func ErrIdempotencyKeyMissing() *AppError {
	return newAppError("IDEMPOTENCY_KEY_MISSING", http.StatusBadRequest, catalog("IDEMPOTENCY_KEY_MISSING"))
}

func ErrIdempotencyKeyTooLong() *AppError {
	return newAppError("IDEMPOTENCY_KEY_TOO_LONG", http.StatusBadRequest, catalog("IDEMPOTENCY_KEY_TOO_LONG"))
}

func ErrIdempotencyKeyNotFound() *AppError {
	return newAppError("IDEMPOTENCY_KEY_NOT_FOUND", http.StatusNotFound, catalog("IDEMPOTENCY_KEY_NOT_FOUND"))
}

func ErrPaymentProcessing() *AppError {
	return newAppError("PAYMENT_PROCESSING", http.StatusConflict, catalog("PAYMENT_PROCESSING"))
}

func ErrChargeNotFound() *AppError {
	return newAppError("CHARGE_NOT_FOUND", http.StatusNotFound, catalog("CHARGE_NOT_FOUND"))
}

func ErrChargeDeclined(reason string) *AppError {
	return newAppError("CHARGE_DECLINED", http.StatusPaymentRequired, catalog("CHARGE_DECLINED")).withDetail(reason)
}

func ErrGatewayUnavailable() *AppError {
	return newAppError("GATEWAY_UNAVAILABLE", http.StatusServiceUnavailable, catalog("GATEWAY_UNAVAILABLE"))
}

func ErrInvalidChargeRequest(detail string) *AppError {
	return newAppError("INVALID_CHARGE_REQUEST", http.StatusBadRequest, catalog("INVALID_CHARGE_REQUEST")).withDetail(detail)
}

func ErrInvalidCurrency(currency string) *AppError {
	return newAppError("INVALID_CURRENCY", http.StatusBadRequest, catalog("INVALID_CURRENCY")).withDetail(currency)
}

func ErrInternal() *AppError {
	return newAppError("INTERNAL_ERROR", http.StatusInternalServerError, catalog("INTERNAL_ERROR"))
}
