package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const TraceIDHeader = "X-Trace-Id"

func TraceID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		traceID := c.Request().Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Response().Header().Set(TraceIDHeader, traceID)
		c.Set("trace_id", traceID)
		return next(c)
	}
}

// RequestLogger logs one line per request after the handler returns.
// A returned error is passed to c.Error first so the logged status is the
// one the client receives.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []zap.Field{
				zap.Any("trace_id", c.Get("trace_id")),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			if c.Response().Status >= http.StatusInternalServerError {
				logger.Error("request", fields...)
			} else {
				logger.Info("request", fields...)
			}
			return nil
		}
	}
}

func Recovery(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered",
						zap.Any("trace_id", c.Get("trace_id")),
						zap.String("panic", fmt.Sprint(r)),
						zap.Stack("stack"),
					)
					err = c.JSON(http.StatusInternalServerError, map[string]interface{}{
						"code":    "INTERNAL_ERROR",
						"message": "an unexpected error occurred",
					})
				}
			}()
			return next(c)
		}
	}
}
