package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const pingTimeout = 2 * time.Second

type HealthHandler struct {
	pingLedger func(ctx context.Context) error
}

// NewHealthHandler builds the liveness endpoint. pingLedger may be nil.
func NewHealthHandler(pingLedger func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{pingLedger: pingLedger}
}

// Check answers 200 {"status":"OK"}, or 503 when the ledger is unreachable.
func (h *HealthHandler) Check(c echo.Context) error {
	if h.pingLedger != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
		defer cancel()

		if err := h.pingLedger(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "DEGRADED",
				"ledger": err.Error(),
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}
