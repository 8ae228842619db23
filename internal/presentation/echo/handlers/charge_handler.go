package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mirola777/idempotent-charges/internal/application/use_cases"
	"github.com/mirola777/idempotent-charges/internal/domain"
	apperrors "github.com/mirola777/idempotent-charges/internal/domain/errors"
)

const (
	IdempotencyKeyHeader = "X-Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"
)

type ChargeHandler struct {
	createCharge        *use_cases.CreateChargeUseCase
	getCharge           *use_cases.GetChargeUseCase
	getByIdempotencyKey *use_cases.GetByIdempotencyKeyUseCase
}

func NewChargeHandler(container *use_cases.Container) *ChargeHandler {
	return &ChargeHandler{
		createCharge:        container.CreateCharge,
		getCharge:           container.GetCharge,
		getByIdempotencyKey: container.GetByIdempotencyKey,
	}
}

// CreateCharge answers 201 for a new charge and 200 for a replay.
func (h *ChargeHandler) CreateCharge(c echo.Context) error {
	idempotencyKey := c.Request().Header.Get(IdempotencyKeyHeader)

	var req domain.ChargeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidChargeRequest("invalid request body")
	}

	result, err := h.createCharge.Execute(c.Request().Context(), idempotencyKey, req)
	if err != nil {
		return err
	}

	if result.Replayed {
		c.Response().Header().Set(ReplayedHeader, "true")
		return c.JSON(http.StatusOK, result)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *ChargeHandler) GetCharge(c echo.Context) error {
	charge, err := h.getCharge.Execute(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, charge)
}

func (h *ChargeHandler) GetByIdempotencyKey(c echo.Context) error {
	record, err := h.getByIdempotencyKey.Execute(c.Request().Context(), c.Param("key"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}
