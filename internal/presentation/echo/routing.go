package echo

import (
	echofw "github.com/labstack/echo/v4"
	"github.com/mirola777/idempotent-charges/internal/application/use_cases"
	"github.com/mirola777/idempotent-charges/internal/presentation/echo/handlers"
	"github.com/mirola777/idempotent-charges/internal/presentation/echo/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func ConfigureRoutes(e *echofw.Echo, container *use_cases.Container, gatherer prometheus.Gatherer, logger *zap.Logger) {
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.TraceID)
	e.Use(middleware.RequestLogger(logger))

	healthHandler := handlers.NewHealthHandler(container.PingLedger)
	e.GET("/health", healthHandler.Check)
	if gatherer != nil {
		e.GET("/metrics", echofw.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	chargeHandler := handlers.NewChargeHandler(container)
	e.POST("/charge", chargeHandler.CreateCharge)

	v1 := e.Group("/v1")
	v1.POST("/charges", chargeHandler.CreateCharge)
	v1.GET("/charges/:id", chargeHandler.GetCharge)
	v1.GET("/idempotency/:key", chargeHandler.GetByIdempotencyKey)
}
